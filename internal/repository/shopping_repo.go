package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
)

// ShoppingRepository handles database operations for the shopping list
type ShoppingRepository struct {
	db *database.DB
}

// NewShoppingRepository creates a new shopping repository
func NewShoppingRepository(db *database.DB) *ShoppingRepository {
	return &ShoppingRepository{db: db}
}

// Create inserts a new shopping item and fills in its generated ID
func (r *ShoppingRepository) Create(item *models.ShoppingItem) error {
	query := `
		INSERT INTO shopping_items (family_id, name, description, category, priority, added_by, added_by_name)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, item.FamilyID, item.Name, item.Description,
		item.Category, item.Priority, item.AddedBy, item.AddedByName)
	if err != nil {
		return fmt.Errorf("failed to create shopping item: %w", err)
	}
	item.ID = id
	item.CreatedAt = time.Now()
	return nil
}

const shoppingColumns = `id, family_id, name, description, category, priority,
	added_by, added_by_name, completed, completed_by, completed_at, created_at`

func scanShoppingItem(scan func(dest ...interface{}) error) (*models.ShoppingItem, error) {
	item := &models.ShoppingItem{}
	var completedAt sql.NullTime
	err := scan(
		&item.ID, &item.FamilyID, &item.Name, &item.Description, &item.Category,
		&item.Priority, &item.AddedBy, &item.AddedByName, &item.Completed,
		&item.CompletedBy, &completedAt, &item.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if completedAt.Valid {
		item.CompletedAt = &completedAt.Time
	}
	return item, nil
}

// GetByID retrieves a shopping item by ID, or nil if not found
func (r *ShoppingRepository) GetByID(id int64) (*models.ShoppingItem, error) {
	query := "SELECT " + shoppingColumns + " FROM shopping_items WHERE id = ?"
	item, err := scanShoppingItem(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get shopping item: %w", err)
	}
	return item, nil
}

// ListByFamily retrieves a family's shopping list. Completed items are
// included only when includeCompleted is set.
func (r *ShoppingRepository) ListByFamily(familyID string, includeCompleted bool) ([]models.ShoppingItem, error) {
	query := "SELECT " + shoppingColumns + " FROM shopping_items WHERE family_id = ?"
	if !includeCompleted {
		query += " AND completed = 0"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping items: %w", err)
	}
	defer rows.Close()

	var items []models.ShoppingItem
	for rows.Next() {
		item, err := scanShoppingItem(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shopping item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SetCompleted marks an item completed or reopens it
func (r *ShoppingRepository) SetCompleted(id int64, completed bool, byUserID string) error {
	var query string
	var args []interface{}
	if completed {
		query = "UPDATE shopping_items SET completed = 1, completed_by = ?, completed_at = ? WHERE id = ?"
		args = []interface{}{byUserID, time.Now(), id}
	} else {
		query = "UPDATE shopping_items SET completed = 0, completed_by = '', completed_at = NULL WHERE id = ?"
		args = []interface{}{id}
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update shopping item: %w", err)
	}
	return nil
}

// Delete removes a shopping item
func (r *ShoppingRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM shopping_items WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete shopping item: %w", err)
	}
	return nil
}
