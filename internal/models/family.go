package models

import "time"

// Member roles. The founder is admin from creation; everyone who joins by
// code is a plain member. There is no promotion or demotion operation.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// Family represents a group of users sharing one medicine inventory
type Family struct {
	ID           string
	Name         string
	Description  string
	CreatedBy    string // user ID of the founder
	FamilyCode   string // 6-character join code, unique across all families
	PasswordHash string // empty means open joining
	Members      []FamilyMember
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FamilyMember is one entry in a family's roster. The email, display name
// and photo are copied from the user record at join time; they are a
// snapshot, not a live reference.
type FamilyMember struct {
	UserID      string
	Email       string
	DisplayName string
	PhotoURL    string
	Role        string // RoleAdmin or RoleMember
	JoinedAt    time.Time
}

// MemberByUserID returns the roster entry for the given user, or nil
func (f *Family) MemberByUserID(userID string) *FamilyMember {
	for i := range f.Members {
		if f.Members[i].UserID == userID {
			return &f.Members[i]
		}
	}
	return nil
}

// IsAdmin reports whether the given user is an admin member of the family
func (f *Family) IsAdmin(userID string) bool {
	m := f.MemberByUserID(userID)
	return m != nil && m.Role == RoleAdmin
}

// HasPassword reports whether joining requires a password
func (f *Family) HasPassword() bool {
	return f.PasswordHash != ""
}

// Invitation is an email invitation to join a family. The email carries the
// family code; acceptance happens through the normal join-by-code flow, which
// marks the invitation used.
type Invitation struct {
	ID          int64
	FamilyID    string
	Email       string
	InvitedBy   string
	Status      string // "pending", "accepted" or "expired"
	CreatedAt   time.Time
	ExpiresAt   time.Time
	InviterName string // populated via JOIN for display
}

// Invitation statuses
const (
	InvitationPending  = "pending"
	InvitationAccepted = "accepted"
)

// IsExpired checks if the invitation has expired
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}
