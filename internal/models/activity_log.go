package models

import "time"

// Activity log entry types
const (
	LogMedicineAdded       = "medicine_added"
	LogMedicineUpdated     = "medicine_updated"
	LogMedicineDeleted     = "medicine_deleted"
	LogMedicineOutOfStock  = "medicine_out_of_stock"
	LogMedicineBackInStock = "medicine_back_in_stock"
	LogUserSignin          = "user_signin"
	LogUserSignup          = "user_signup"
	LogFamilyCreated       = "family_created"
	LogMemberAdded         = "member_added"
	LogMemberRemoved       = "member_removed"
	LogMemberInvited       = "member_invited"
	LogInvitationAccepted  = "invitation_accepted"
	LogSettingsUpdated     = "settings_updated"
	LogPasswordChanged     = "password_changed"
	LogShoppingItemAdded   = "shopping_item_added"
	LogShoppingItemRemoved = "shopping_item_removed"
)

// ActivityLog is one audit entry shown on the family's activity page.
// Writing these is best-effort: a failed write never fails the operation
// that triggered it.
type ActivityLog struct {
	ID          int64
	Type        string
	UserID      string
	UserName    string
	FamilyID    string
	Description string
	Metadata    map[string]string
	CreatedAt   time.Time
}
