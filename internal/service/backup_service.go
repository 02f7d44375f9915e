package service

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/41vi4p/MediStock/internal/database"
)

// BackupData is the complete database backup structure. Sessions are
// deliberately not included; they are ephemeral.
type BackupData struct {
	Version      string               `json:"version"`
	ExportedAt   time.Time            `json:"exported_at"`
	Users        []UserBackup         `json:"users"`
	Families     []FamilyBackup       `json:"families"`
	Invitations  []InvitationBackup   `json:"invitations"`
	Medicines    []MedicineBackup     `json:"medicines"`
	ShoppingList []ShoppingItemBackup `json:"shopping_items"`
	ActivityLogs []ActivityLogBackup  `json:"activity_logs"`
}

type UserBackup struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"display_name"`
	PhotoURL     string    `json:"photo_url"`
	PasswordHash string    `json:"password_hash"`
	FamilyID     string    `json:"family_id"`
	Theme        string    `json:"theme"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type FamilyBackup struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	CreatedBy    string               `json:"created_by"`
	FamilyCode   string               `json:"family_code"`
	PasswordHash string               `json:"password_hash"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`
	Members      []FamilyMemberBackup `json:"members"`
}

type FamilyMemberBackup struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PhotoURL    string    `json:"photo_url"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type InvitationBackup struct {
	ID        int64     `json:"id"`
	FamilyID  string    `json:"family_id"`
	Email     string    `json:"email"`
	InvitedBy string    `json:"invited_by"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type MedicineBackup struct {
	ID           int64      `json:"id"`
	FamilyID     string     `json:"family_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	ExpiryDate   time.Time  `json:"expiry_date"`
	PurchaseDate time.Time  `json:"purchase_date"`
	AddedBy      string     `json:"added_by"`
	OutOfStock   bool       `json:"out_of_stock"`
	OutOfStockAt *time.Time `json:"out_of_stock_at"`
	OutOfStockBy string     `json:"out_of_stock_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type ShoppingItemBackup struct {
	ID          int64      `json:"id"`
	FamilyID    string     `json:"family_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Priority    string     `json:"priority"`
	AddedBy     string     `json:"added_by"`
	AddedByName string     `json:"added_by_name"`
	Completed   bool       `json:"completed"`
	CompletedBy string     `json:"completed_by"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
}

type ActivityLogBackup struct {
	ID          int64     `json:"id"`
	Type        string    `json:"type"`
	UserID      string    `json:"user_id"`
	UserName    string    `json:"user_name"`
	FamilyID    string    `json:"family_id"`
	Description string    `json:"description"`
	Metadata    string    `json:"metadata"`
	CreatedAt   time.Time `json:"created_at"`
}

// BackupService handles database backup and restore operations
type BackupService struct {
	db *database.DB
}

// NewBackupService creates a new backup service
func NewBackupService(db *database.DB) *BackupService {
	return &BackupService{db: db}
}

// Export creates a complete backup of the database to a file
func (s *BackupService) Export(outputPath string) error {
	log.Println("Starting database export...")

	backup := &BackupData{
		Version:    "1.0",
		ExportedAt: time.Now(),
	}

	if err := s.exportUsers(backup); err != nil {
		return fmt.Errorf("failed to export users: %w", err)
	}
	if err := s.exportFamilies(backup); err != nil {
		return fmt.Errorf("failed to export families: %w", err)
	}
	if err := s.exportInvitations(backup); err != nil {
		return fmt.Errorf("failed to export invitations: %w", err)
	}
	if err := s.exportMedicines(backup); err != nil {
		return fmt.Errorf("failed to export medicines: %w", err)
	}
	if err := s.exportShoppingItems(backup); err != nil {
		return fmt.Errorf("failed to export shopping items: %w", err)
	}
	if err := s.exportActivityLogs(backup); err != nil {
		return fmt.Errorf("failed to export activity logs: %w", err)
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(backup); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	log.Printf("Exported: %d users, %d families, %d invitations, %d medicines, %d shopping items, %d activity entries",
		len(backup.Users), len(backup.Families), len(backup.Invitations),
		len(backup.Medicines), len(backup.ShoppingList), len(backup.ActivityLogs))
	return nil
}

// Import restores a database from a backup file
func (s *BackupService) Import(inputPath string) error {
	log.Printf("Starting database import from %s...", inputPath)

	file, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	var backup BackupData
	if err := json.NewDecoder(file).Decode(&backup); err != nil {
		return fmt.Errorf("failed to decode backup: %w", err)
	}

	log.Printf("Backup version: %s, exported at: %s", backup.Version, backup.ExportedAt)

	// Import in order of dependencies
	if err := s.importUsers(backup.Users); err != nil {
		return fmt.Errorf("failed to import users: %w", err)
	}
	if err := s.importFamilies(backup.Families); err != nil {
		return fmt.Errorf("failed to import families: %w", err)
	}
	if err := s.importInvitations(backup.Invitations); err != nil {
		return fmt.Errorf("failed to import invitations: %w", err)
	}
	if err := s.importMedicines(backup.Medicines); err != nil {
		return fmt.Errorf("failed to import medicines: %w", err)
	}
	if err := s.importShoppingItems(backup.ShoppingList); err != nil {
		return fmt.Errorf("failed to import shopping items: %w", err)
	}
	if err := s.importActivityLogs(backup.ActivityLogs); err != nil {
		return fmt.Errorf("failed to import activity logs: %w", err)
	}

	log.Println("Database import completed successfully")
	return nil
}

func (s *BackupService) exportUsers(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, email, display_name, photo_url, password_hash, family_id, theme, created_at, updated_at FROM users ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var u UserBackup
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.PasswordHash, &u.FamilyID, &u.Theme, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return err
		}
		backup.Users = append(backup.Users, u)
	}
	return rows.Err()
}

func (s *BackupService) exportFamilies(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, name, description, created_by, family_code, password_hash, created_at, updated_at FROM families ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	var families []FamilyBackup
	for rows.Next() {
		var f FamilyBackup
		if err := rows.Scan(&f.ID, &f.Name, &f.Description, &f.CreatedBy, &f.FamilyCode, &f.PasswordHash, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return err
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range families {
		memberRows, err := s.db.Query("SELECT user_id, email, display_name, photo_url, role, joined_at FROM family_members WHERE family_id = ? ORDER BY joined_at", families[i].ID)
		if err != nil {
			return err
		}
		for memberRows.Next() {
			var m FamilyMemberBackup
			if err := memberRows.Scan(&m.UserID, &m.Email, &m.DisplayName, &m.PhotoURL, &m.Role, &m.JoinedAt); err != nil {
				memberRows.Close()
				return err
			}
			families[i].Members = append(families[i].Members, m)
		}
		memberRows.Close()
		if err := memberRows.Err(); err != nil {
			return err
		}
	}

	backup.Families = families
	return nil
}

func (s *BackupService) exportInvitations(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, family_id, email, invited_by, status, created_at, expires_at FROM invitations ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var inv InvitationBackup
		if err := rows.Scan(&inv.ID, &inv.FamilyID, &inv.Email, &inv.InvitedBy, &inv.Status, &inv.CreatedAt, &inv.ExpiresAt); err != nil {
			return err
		}
		backup.Invitations = append(backup.Invitations, inv)
	}
	return rows.Err()
}

func (s *BackupService) exportMedicines(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, family_id, name, description, quantity, unit, category, location, expiry_date, purchase_date, added_by, out_of_stock, out_of_stock_at, out_of_stock_by, created_at, updated_at FROM medicines ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var m MedicineBackup
		var outOfStockAt sql.NullTime
		if err := rows.Scan(&m.ID, &m.FamilyID, &m.Name, &m.Description, &m.Quantity, &m.Unit, &m.Category, &m.Location, &m.ExpiryDate, &m.PurchaseDate, &m.AddedBy, &m.OutOfStock, &outOfStockAt, &m.OutOfStockBy, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return err
		}
		if outOfStockAt.Valid {
			m.OutOfStockAt = &outOfStockAt.Time
		}
		backup.Medicines = append(backup.Medicines, m)
	}
	return rows.Err()
}

func (s *BackupService) exportShoppingItems(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, family_id, name, description, category, priority, added_by, added_by_name, completed, completed_by, completed_at, created_at FROM shopping_items ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item ShoppingItemBackup
		var completedAt sql.NullTime
		if err := rows.Scan(&item.ID, &item.FamilyID, &item.Name, &item.Description, &item.Category, &item.Priority, &item.AddedBy, &item.AddedByName, &item.Completed, &item.CompletedBy, &completedAt, &item.CreatedAt); err != nil {
			return err
		}
		if completedAt.Valid {
			item.CompletedAt = &completedAt.Time
		}
		backup.ShoppingList = append(backup.ShoppingList, item)
	}
	return rows.Err()
}

func (s *BackupService) exportActivityLogs(backup *BackupData) error {
	rows, err := s.db.Query("SELECT id, type, user_id, user_name, family_id, description, metadata, created_at FROM activity_logs ORDER BY id")
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var entry ActivityLogBackup
		if err := rows.Scan(&entry.ID, &entry.Type, &entry.UserID, &entry.UserName, &entry.FamilyID, &entry.Description, &entry.Metadata, &entry.CreatedAt); err != nil {
			return err
		}
		backup.ActivityLogs = append(backup.ActivityLogs, entry)
	}
	return rows.Err()
}

func (s *BackupService) importUsers(users []UserBackup) error {
	log.Printf("Importing %d users...", len(users))
	for _, u := range users {
		_, err := s.db.Exec("INSERT INTO users (id, email, display_name, photo_url, password_hash, family_id, theme, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			u.ID, u.Email, u.DisplayName, u.PhotoURL, u.PasswordHash, u.FamilyID, u.Theme, u.CreatedAt, u.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import user %s: %w", u.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importFamilies(families []FamilyBackup) error {
	log.Printf("Importing %d families...", len(families))
	for _, f := range families {
		_, err := s.db.Exec("INSERT INTO families (id, name, description, created_by, family_code, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			f.ID, f.Name, f.Description, f.CreatedBy, f.FamilyCode, f.PasswordHash, f.CreatedAt, f.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import family %s: %w", f.ID, err)
		}

		for _, m := range f.Members {
			_, err := s.db.Exec("INSERT INTO family_members (family_id, user_id, email, display_name, photo_url, role, joined_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				f.ID, m.UserID, m.Email, m.DisplayName, m.PhotoURL, m.Role, m.JoinedAt)
			if err != nil {
				return fmt.Errorf("failed to import member %s for family %s: %w", m.UserID, f.ID, err)
			}
		}
	}
	return nil
}

func (s *BackupService) importInvitations(invitations []InvitationBackup) error {
	log.Printf("Importing %d invitations...", len(invitations))
	for _, inv := range invitations {
		_, err := s.db.Exec("INSERT INTO invitations (id, family_id, email, invited_by, status, created_at, expires_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
			inv.ID, inv.FamilyID, inv.Email, inv.InvitedBy, inv.Status, inv.CreatedAt, inv.ExpiresAt)
		if err != nil {
			return fmt.Errorf("failed to import invitation %d: %w", inv.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importMedicines(medicines []MedicineBackup) error {
	log.Printf("Importing %d medicines...", len(medicines))
	for _, m := range medicines {
		_, err := s.db.Exec("INSERT INTO medicines (id, family_id, name, description, quantity, unit, category, location, expiry_date, purchase_date, added_by, out_of_stock, out_of_stock_at, out_of_stock_by, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			m.ID, m.FamilyID, m.Name, m.Description, m.Quantity, m.Unit, m.Category, m.Location, m.ExpiryDate, m.PurchaseDate, m.AddedBy, m.OutOfStock, m.OutOfStockAt, m.OutOfStockBy, m.CreatedAt, m.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to import medicine %d: %w", m.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importShoppingItems(items []ShoppingItemBackup) error {
	log.Printf("Importing %d shopping items...", len(items))
	for _, item := range items {
		_, err := s.db.Exec("INSERT INTO shopping_items (id, family_id, name, description, category, priority, added_by, added_by_name, completed, completed_by, completed_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			item.ID, item.FamilyID, item.Name, item.Description, item.Category, item.Priority, item.AddedBy, item.AddedByName, item.Completed, item.CompletedBy, item.CompletedAt, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import shopping item %d: %w", item.ID, err)
		}
	}
	return nil
}

func (s *BackupService) importActivityLogs(entries []ActivityLogBackup) error {
	log.Printf("Importing %d activity entries...", len(entries))
	for _, entry := range entries {
		_, err := s.db.Exec("INSERT INTO activity_logs (id, type, user_id, user_name, family_id, description, metadata, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			entry.ID, entry.Type, entry.UserID, entry.UserName, entry.FamilyID, entry.Description, entry.Metadata, entry.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to import activity entry %d: %w", entry.ID, err)
		}
	}
	return nil
}
