package models

import "time"

// User represents an account in the system. FamilyID is set while the user
// belongs to a family and cleared when they leave or are removed; it always
// mirrors the membership rows in family_members.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PhotoURL     string
	PasswordHash string // empty for OAuth-only accounts
	FamilyID     string // empty when the user is not in a family
	Theme        string // "light" or "dark"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session represents an authenticated browser session
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsExpired checks if the session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
