package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
)

// MedicineRepository handles database operations for the medicine inventory
type MedicineRepository struct {
	db *database.DB
}

// NewMedicineRepository creates a new medicine repository
func NewMedicineRepository(db *database.DB) *MedicineRepository {
	return &MedicineRepository{db: db}
}

// Create inserts a new medicine and fills in its generated ID
func (r *MedicineRepository) Create(m *models.Medicine) error {
	query := `
		INSERT INTO medicines (family_id, name, description, quantity, unit, category, location,
			expiry_date, purchase_date, added_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, m.FamilyID, m.Name, m.Description, m.Quantity,
		m.Unit, m.Category, m.Location, m.ExpiryDate, m.PurchaseDate, m.AddedBy)
	if err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	m.ID = id
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	return nil
}

const medicineColumns = `id, family_id, name, description, quantity, unit, category, location,
	expiry_date, purchase_date, added_by, out_of_stock, out_of_stock_at, out_of_stock_by,
	created_at, updated_at`

func scanMedicine(scan func(dest ...interface{}) error) (*models.Medicine, error) {
	m := &models.Medicine{}
	var outAt sql.NullTime
	err := scan(
		&m.ID, &m.FamilyID, &m.Name, &m.Description, &m.Quantity, &m.Unit,
		&m.Category, &m.Location, &m.ExpiryDate, &m.PurchaseDate, &m.AddedBy,
		&m.OutOfStock, &outAt, &m.OutOfStockBy, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if outAt.Valid {
		m.OutOfStockAt = &outAt.Time
	}
	return m, nil
}

// GetByID retrieves a medicine by ID, or nil if not found
func (r *MedicineRepository) GetByID(id int64) (*models.Medicine, error) {
	query := "SELECT " + medicineColumns + " FROM medicines WHERE id = ?"
	m, err := scanMedicine(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medicine: %w", err)
	}
	return m, nil
}

func (r *MedicineRepository) queryMedicines(query string, args ...interface{}) ([]models.Medicine, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query medicines: %w", err)
	}
	defer rows.Close()

	var medicines []models.Medicine
	for rows.Next() {
		m, err := scanMedicine(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medicine: %w", err)
		}
		medicines = append(medicines, *m)
	}
	return medicines, rows.Err()
}

// ListByFamily retrieves all medicines in a family, newest first
func (r *MedicineRepository) ListByFamily(familyID string) ([]models.Medicine, error) {
	query := "SELECT " + medicineColumns + " FROM medicines WHERE family_id = ? ORDER BY created_at DESC"
	return r.queryMedicines(query, familyID)
}

// Search retrieves medicines in a family whose name or category matches the term
func (r *MedicineRepository) Search(familyID, term string) ([]models.Medicine, error) {
	pattern := "%" + term + "%"
	query := "SELECT " + medicineColumns + ` FROM medicines
		WHERE family_id = ? AND (name LIKE ? OR category LIKE ?)
		ORDER BY name ASC`
	return r.queryMedicines(query, familyID, pattern, pattern)
}

// ListExpiringBefore retrieves medicines in a family expiring before the cutoff
func (r *MedicineRepository) ListExpiringBefore(familyID string, cutoff time.Time) ([]models.Medicine, error) {
	query := "SELECT " + medicineColumns + ` FROM medicines
		WHERE family_id = ? AND expiry_date < ?
		ORDER BY expiry_date ASC`
	return r.queryMedicines(query, familyID, cutoff)
}

// Update rewrites a medicine's editable fields
func (r *MedicineRepository) Update(m *models.Medicine) error {
	query := `
		UPDATE medicines
		SET name = ?, description = ?, quantity = ?, unit = ?, category = ?, location = ?,
			expiry_date = ?, purchase_date = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, m.Name, m.Description, m.Quantity, m.Unit, m.Category,
		m.Location, m.ExpiryDate, m.PurchaseDate, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update medicine: %w", err)
	}
	return nil
}

// SetOutOfStock marks a medicine out of stock or back in stock
func (r *MedicineRepository) SetOutOfStock(id int64, outOfStock bool, byUserID string) error {
	var query string
	var args []interface{}
	if outOfStock {
		query = `UPDATE medicines SET out_of_stock = 1, out_of_stock_at = ?, out_of_stock_by = ?,
			updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		args = []interface{}{time.Now(), byUserID, id}
	} else {
		query = `UPDATE medicines SET out_of_stock = 0, out_of_stock_at = NULL, out_of_stock_by = '',
			updated_at = CURRENT_TIMESTAMP WHERE id = ?`
		args = []interface{}{id}
	}
	if _, err := r.db.Exec(query, args...); err != nil {
		return fmt.Errorf("failed to update stock status: %w", err)
	}
	return nil
}

// Delete removes a medicine
func (r *MedicineRepository) Delete(id int64) error {
	if _, err := r.db.Exec("DELETE FROM medicines WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete medicine: %w", err)
	}
	return nil
}
