package repository

import (
	"encoding/json"
	"fmt"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
)

// ActivityLogRepository handles database operations for the activity log
type ActivityLogRepository struct {
	db *database.DB
}

// NewActivityLogRepository creates a new activity log repository
func NewActivityLogRepository(db *database.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create appends an activity log entry
func (r *ActivityLogRepository) Create(entry *models.ActivityLog) error {
	metadata := ""
	if len(entry.Metadata) > 0 {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		metadata = string(raw)
	}

	query := `
		INSERT INTO activity_logs (type, user_id, user_name, family_id, description, metadata)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, entry.Type, entry.UserID, entry.UserName,
		entry.FamilyID, entry.Description, metadata)
	if err != nil {
		return fmt.Errorf("failed to create activity log: %w", err)
	}
	entry.ID = id
	return nil
}

// ListByFamily retrieves a family's activity log, newest first, optionally
// filtered by entry type. Returns the page and the total count.
func (r *ActivityLogRepository) ListByFamily(familyID, typeFilter string, limit, offset int) ([]models.ActivityLog, int, error) {
	countQuery := "SELECT COUNT(*) FROM activity_logs WHERE family_id = ?"
	countArgs := []interface{}{familyID}
	if typeFilter != "" {
		countQuery += " AND type = ?"
		countArgs = append(countArgs, typeFilter)
	}

	var total int
	if err := r.db.QueryRow(countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity logs: %w", err)
	}

	query := `
		SELECT id, type, user_id, user_name, family_id, description, metadata, created_at
		FROM activity_logs
		WHERE family_id = ?
	`
	args := []interface{}{familyID}
	if typeFilter != "" {
		query += " AND type = ?"
		args = append(args, typeFilter)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity logs: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityLog
	for rows.Next() {
		var entry models.ActivityLog
		var metadata string
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.UserID, &entry.UserName,
			&entry.FamilyID, &entry.Description, &metadata, &entry.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan activity log: %w", err)
		}
		if metadata != "" {
			if err := json.Unmarshal([]byte(metadata), &entry.Metadata); err != nil {
				return nil, 0, fmt.Errorf("failed to decode metadata: %w", err)
			}
		}
		entries = append(entries, entry)
	}
	return entries, total, rows.Err()
}
