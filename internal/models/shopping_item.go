package models

import "time"

// Shopping item priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// ShoppingItem represents one entry on a family's shopping list
type ShoppingItem struct {
	ID          int64
	FamilyID    string
	Name        string
	Description string
	Category    string
	Priority    string // PriorityLow, PriorityMedium or PriorityHigh
	AddedBy     string
	AddedByName string
	Completed   bool
	CompletedBy string
	CompletedAt *time.Time
	CreatedAt   time.Time
}
