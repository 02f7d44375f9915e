package models

import "time"

// Medicine represents one entry in a family's medicine inventory
type Medicine struct {
	ID           int64
	FamilyID     string
	Name         string
	Description  string
	Quantity     int
	Unit         string // e.g. "tablets", "ml"
	Category     string
	Location     string // where in the house it is kept
	ExpiryDate   time.Time
	PurchaseDate time.Time
	AddedBy      string // user ID
	OutOfStock   bool
	OutOfStockAt *time.Time
	OutOfStockBy string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsExpired checks if the medicine is past its expiry date
func (m *Medicine) IsExpired() bool {
	return time.Now().After(m.ExpiryDate)
}

// ExpiresWithin checks if the medicine expires within d from now
func (m *Medicine) ExpiresWithin(d time.Duration) bool {
	return !m.IsExpired() && time.Now().Add(d).After(m.ExpiryDate)
}
