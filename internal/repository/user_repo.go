package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
)

// UserRepository handles database operations for users and sessions
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser inserts a new user record
func (r *UserRepository) CreateUser(user *models.User) error {
	query := `
		INSERT INTO users (id, email, display_name, photo_url, password_hash, family_id, theme)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	theme := user.Theme
	if theme == "" {
		theme = "light"
	}
	_, err := r.db.Exec(query, user.ID, user.Email, user.DisplayName, user.PhotoURL, user.PasswordHash, user.FamilyID, theme)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.Theme = theme
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	return nil
}

const userColumns = "id, email, display_name, photo_url, password_hash, family_id, theme, created_at, updated_at"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.Email, &user.DisplayName, &user.PhotoURL,
		&user.PasswordHash, &user.FamilyID, &user.Theme,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID, or nil if not found
func (r *UserRepository) GetUserByID(id string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE id = ?"
	return scanUser(r.db.QueryRow(query, id))
}

// GetUserByEmail retrieves a user by email, or nil if not found
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	query := "SELECT " + userColumns + " FROM users WHERE email = ?"
	return scanUser(r.db.QueryRow(query, email))
}

// UpdateTheme updates a user's theme preference
func (r *UserRepository) UpdateTheme(userID, theme string) error {
	query := "UPDATE users SET theme = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, theme, userID); err != nil {
		return fmt.Errorf("failed to update theme: %w", err)
	}
	return nil
}

// UpdateProfile updates a user's display name and photo
func (r *UserRepository) UpdateProfile(userID, displayName, photoURL string) error {
	query := "UPDATE users SET display_name = ?, photo_url = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?"
	if _, err := r.db.Exec(query, displayName, photoURL, userID); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

// CreateSession stores a new session
func (r *UserRepository) CreateSession(sessionID, userID string, expiresAt time.Time) (*models.Session, error) {
	query := "INSERT INTO sessions (id, user_id, expires_at) VALUES (?, ?, ?)"
	if _, err := r.db.Exec(query, sessionID, userID, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &models.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}, nil
}

// GetSession retrieves a session by ID, or nil if not found
func (r *UserRepository) GetSession(sessionID string) (*models.Session, error) {
	query := "SELECT id, user_id, expires_at, created_at FROM sessions WHERE id = ?"
	session := &models.Session{}
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID, &session.UserID, &session.ExpiresAt, &session.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// DeleteSession removes a session
func (r *UserRepository) DeleteSession(sessionID string) error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes all expired sessions
func (r *UserRepository) DeleteExpiredSessions() error {
	if _, err := r.db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now()); err != nil {
		return fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	return nil
}
