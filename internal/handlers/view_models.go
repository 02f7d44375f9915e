package handlers

import (
	"time"

	"github.com/41vi4p/MediStock/internal/models"
)

// JSON views returned by the API. Models carry no serialization tags; these
// structs fix the wire shape independently of storage.

type UserView struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoURL,omitempty"`
	FamilyID    string `json:"familyId,omitempty"`
	Theme       string `json:"theme"`
}

type MemberView struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	PhotoURL    string    `json:"photoURL,omitempty"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joinedAt"`
}

type FamilyView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	CreatedBy   string       `json:"createdBy"`
	FamilyCode  string       `json:"familyCode"`
	HasPassword bool         `json:"hasPassword"`
	Members     []MemberView `json:"members"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

type InvitationView struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Status      string    `json:"status"`
	InviterName string    `json:"inviterName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

type MedicineView struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description,omitempty"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit,omitempty"`
	Category     string     `json:"category,omitempty"`
	Location     string     `json:"location,omitempty"`
	ExpiryDate   time.Time  `json:"expiryDate"`
	PurchaseDate time.Time  `json:"purchaseDate"`
	AddedBy      string     `json:"addedBy"`
	OutOfStock   bool       `json:"outOfStock"`
	OutOfStockAt *time.Time `json:"outOfStockAt,omitempty"`
	OutOfStockBy string     `json:"outOfStockBy,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type ShoppingItemView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category,omitempty"`
	Priority    string     `json:"priority"`
	AddedBy     string     `json:"addedBy"`
	AddedByName string     `json:"addedByName,omitempty"`
	Completed   bool       `json:"completed"`
	CompletedBy string     `json:"completedBy,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type ActivityLogView struct {
	ID          int64             `json:"id"`
	Type        string            `json:"type"`
	UserID      string            `json:"userId"`
	UserName    string            `json:"userName"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func newUserView(u *models.User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PhotoURL:    u.PhotoURL,
		FamilyID:    u.FamilyID,
		Theme:       u.Theme,
	}
}

func newFamilyView(f *models.Family) FamilyView {
	members := make([]MemberView, 0, len(f.Members))
	for _, m := range f.Members {
		members = append(members, MemberView{
			UserID:      m.UserID,
			Email:       m.Email,
			DisplayName: m.DisplayName,
			PhotoURL:    m.PhotoURL,
			Role:        m.Role,
			JoinedAt:    m.JoinedAt,
		})
	}
	return FamilyView{
		ID:          f.ID,
		Name:        f.Name,
		Description: f.Description,
		CreatedBy:   f.CreatedBy,
		FamilyCode:  f.FamilyCode,
		HasPassword: f.HasPassword(),
		Members:     members,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

func newInvitationView(inv *models.Invitation) InvitationView {
	return InvitationView{
		ID:          inv.ID,
		Email:       inv.Email,
		Status:      inv.Status,
		InviterName: inv.InviterName,
		CreatedAt:   inv.CreatedAt,
		ExpiresAt:   inv.ExpiresAt,
	}
}

func newMedicineView(m *models.Medicine) MedicineView {
	return MedicineView{
		ID:           m.ID,
		Name:         m.Name,
		Description:  m.Description,
		Quantity:     m.Quantity,
		Unit:         m.Unit,
		Category:     m.Category,
		Location:     m.Location,
		ExpiryDate:   m.ExpiryDate,
		PurchaseDate: m.PurchaseDate,
		AddedBy:      m.AddedBy,
		OutOfStock:   m.OutOfStock,
		OutOfStockAt: m.OutOfStockAt,
		OutOfStockBy: m.OutOfStockBy,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func newMedicineViews(medicines []models.Medicine) []MedicineView {
	views := make([]MedicineView, 0, len(medicines))
	for i := range medicines {
		views = append(views, newMedicineView(&medicines[i]))
	}
	return views
}

func newShoppingItemView(item *models.ShoppingItem) ShoppingItemView {
	return ShoppingItemView{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Category:    item.Category,
		Priority:    item.Priority,
		AddedBy:     item.AddedBy,
		AddedByName: item.AddedByName,
		Completed:   item.Completed,
		CompletedBy: item.CompletedBy,
		CompletedAt: item.CompletedAt,
		CreatedAt:   item.CreatedAt,
	}
}

func newActivityLogView(entry *models.ActivityLog) ActivityLogView {
	return ActivityLogView{
		ID:          entry.ID,
		Type:        entry.Type,
		UserID:      entry.UserID,
		UserName:    entry.UserName,
		Description: entry.Description,
		Metadata:    entry.Metadata,
		CreatedAt:   entry.CreatedAt,
	}
}
