package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
)

// FamilyRepository handles database operations for families and their
// member rosters. Operations that touch both a family and a user record
// run inside one transaction, so the membership rows and users.family_id
// can never drift apart on a failed write.
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateWithFounder creates a family with the founder as its sole admin
// member and links the founder's user record to it, all in one transaction
func (r *FamilyRepository) CreateWithFounder(family *models.Family, founder models.FamilyMember) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	// A founder who was in another family leaves it here; their user row is
	// re-pointed below and the old roster must not keep a stale entry.
	query := "DELETE FROM family_members WHERE user_id = ?"
	if _, err = tx.Exec(query, founder.UserID); err != nil {
		return fmt.Errorf("failed to clear previous membership: %w", err)
	}

	query = `
		INSERT INTO families (id, name, description, created_by, family_code, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query, family.ID, family.Name, family.Description, family.CreatedBy,
		family.FamilyCode, family.PasswordHash, now, now)
	if err != nil {
		return fmt.Errorf("failed to create family: %w", err)
	}

	query = `
		INSERT INTO family_members (family_id, user_id, email, display_name, photo_url, role, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query, family.ID, founder.UserID, founder.Email, founder.DisplayName,
		founder.PhotoURL, models.RoleAdmin, now)
	if err != nil {
		return fmt.Errorf("failed to add founder: %w", err)
	}

	query = "UPDATE users SET family_id = ?, updated_at = ? WHERE id = ?"
	if _, err = tx.Exec(query, family.ID, now, founder.UserID); err != nil {
		return fmt.Errorf("failed to link founder to family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	founder.Role = models.RoleAdmin
	founder.JoinedAt = now
	family.Members = []models.FamilyMember{founder}
	family.CreatedAt = now
	family.UpdatedAt = now
	return nil
}

const familyColumns = "id, name, description, created_by, family_code, password_hash, created_at, updated_at"

func (r *FamilyRepository) scanFamily(row *sql.Row) (*models.Family, error) {
	family := &models.Family{}
	err := row.Scan(
		&family.ID, &family.Name, &family.Description, &family.CreatedBy,
		&family.FamilyCode, &family.PasswordHash, &family.CreatedAt, &family.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan family: %w", err)
	}

	members, err := r.GetMembers(family.ID)
	if err != nil {
		return nil, err
	}
	family.Members = members
	return family, nil
}

// GetByID retrieves a family with its full member roster, or nil if not found
func (r *FamilyRepository) GetByID(familyID string) (*models.Family, error) {
	query := "SELECT " + familyColumns + " FROM families WHERE id = ?"
	return r.scanFamily(r.db.QueryRow(query, familyID))
}

// GetByCode retrieves a family by its join code, or nil if no family has it
func (r *FamilyRepository) GetByCode(code string) (*models.Family, error) {
	query := "SELECT " + familyColumns + " FROM families WHERE family_code = ?"
	return r.scanFamily(r.db.QueryRow(query, code))
}

// CodeExists checks whether any family currently uses the given code
func (r *FamilyRepository) CodeExists(code string) (bool, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM families WHERE family_code = ?", code).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check family code: %w", err)
	}
	return count > 0, nil
}

// GetMembers retrieves a family's roster ordered by join time
func (r *FamilyRepository) GetMembers(familyID string) ([]models.FamilyMember, error) {
	query := `
		SELECT user_id, email, display_name, photo_url, role, joined_at
		FROM family_members
		WHERE family_id = ?
		ORDER BY joined_at ASC, user_id ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	for rows.Next() {
		var m models.FamilyMember
		if err := rows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.PhotoURL, &m.Role, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// AddMember appends a member to the roster and links the user's record to
// the family, in one transaction
func (r *FamilyRepository) AddMember(familyID string, member models.FamilyMember) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	query := `
		INSERT INTO family_members (family_id, user_id, email, display_name, photo_url, role, joined_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query, familyID, member.UserID, member.Email, member.DisplayName,
		member.PhotoURL, member.Role, now)
	if err != nil {
		return fmt.Errorf("failed to add family member: %w", err)
	}

	query = "UPDATE users SET family_id = ?, updated_at = ? WHERE id = ?"
	if _, err = tx.Exec(query, familyID, now, member.UserID); err != nil {
		return fmt.Errorf("failed to link member to family: %w", err)
	}

	query = "UPDATE families SET updated_at = ? WHERE id = ?"
	if _, err = tx.Exec(query, now, familyID); err != nil {
		return fmt.Errorf("failed to touch family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// RemoveMember deletes a member row and clears the user's family link if it
// still points at this family, in one transaction. Returns false if the
// user was not on the roster.
func (r *FamilyRepository) RemoveMember(familyID, userID string) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()

	result, err := tx.Exec("DELETE FROM family_members WHERE family_id = ? AND user_id = ?", familyID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove family member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check removal: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	// Clear the link only if it still points here, so a user who has since
	// created or joined another family keeps their new link intact.
	query := "UPDATE users SET family_id = '', updated_at = ? WHERE id = ? AND family_id = ?"
	if _, err = tx.Exec(query, now, userID, familyID); err != nil {
		return false, fmt.Errorf("failed to unlink member: %w", err)
	}

	if _, err = tx.Exec("UPDATE families SET updated_at = ? WHERE id = ?", now, familyID); err != nil {
		return false, fmt.Errorf("failed to touch family: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return true, nil
}

// UpdateCode overwrites the family's join code
func (r *FamilyRepository) UpdateCode(familyID, code string) error {
	query := "UPDATE families SET family_code = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, code, familyID); err != nil {
		return fmt.Errorf("failed to update family code: %w", err)
	}
	return nil
}

// UpdatePasswordHash sets or clears the family's join password hash
func (r *FamilyRepository) UpdatePasswordHash(familyID, hash string) error {
	query := "UPDATE families SET password_hash = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, hash, familyID); err != nil {
		return fmt.Errorf("failed to update family password: %w", err)
	}
	return nil
}
