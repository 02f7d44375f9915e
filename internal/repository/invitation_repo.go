package repository

import (
	"fmt"
	"time"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
)

// InvitationRepository handles database operations for family invitations
type InvitationRepository struct {
	db *database.DB
}

// NewInvitationRepository creates a new invitation repository
func NewInvitationRepository(db *database.DB) *InvitationRepository {
	return &InvitationRepository{db: db}
}

// Create stores a new pending invitation
func (r *InvitationRepository) Create(familyID, email, invitedBy string, expiresAt time.Time) (*models.Invitation, error) {
	query := "INSERT INTO invitations (family_id, email, invited_by, expires_at) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, familyID, email, invitedBy, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	return &models.Invitation{
		ID:        id,
		FamilyID:  familyID,
		Email:     email,
		InvitedBy: invitedBy,
		Status:    models.InvitationPending,
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
	}, nil
}

// GetPending finds a pending, unexpired invitation for the given family and
// email, or nil
func (r *InvitationRepository) GetPending(familyID, email string) (*models.Invitation, error) {
	query := `
		SELECT id, family_id, email, invited_by, status, created_at, expires_at
		FROM invitations
		WHERE family_id = ? AND email = ? AND status = ? AND expires_at > ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	rows, err := r.db.Query(query, familyID, email, models.InvitationPending, time.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to query invitation: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	inv := &models.Invitation{}
	if err := rows.Scan(&inv.ID, &inv.FamilyID, &inv.Email, &inv.InvitedBy,
		&inv.Status, &inv.CreatedAt, &inv.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to scan invitation: %w", err)
	}
	return inv, nil
}

// MarkAccepted flips an invitation to accepted
func (r *InvitationRepository) MarkAccepted(id int64) error {
	query := "UPDATE invitations SET status = ? WHERE id = ?"
	if _, err := r.db.Exec(query, models.InvitationAccepted, id); err != nil {
		return fmt.Errorf("failed to mark invitation accepted: %w", err)
	}
	return nil
}

// ListByFamily retrieves all invitations for a family, newest first
func (r *InvitationRepository) ListByFamily(familyID string) ([]models.Invitation, error) {
	query := `
		SELECT i.id, i.family_id, i.email, i.invited_by, i.status, i.created_at, i.expires_at,
		       COALESCE(u.display_name, '')
		FROM invitations i
		LEFT JOIN users u ON i.invited_by = u.id
		WHERE i.family_id = ?
		ORDER BY i.created_at DESC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.Invitation
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.FamilyID, &inv.Email, &inv.InvitedBy,
			&inv.Status, &inv.CreatedAt, &inv.ExpiresAt, &inv.InviterName); err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}
