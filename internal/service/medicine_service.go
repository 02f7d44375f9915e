package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
	"github.com/41vi4p/MediStock/internal/validation"
)

var ErrMedicineNotFound = errors.New("medicine not found")

// MedicineInput carries caller-supplied medicine fields
type MedicineInput struct {
	Name         string
	Description  string
	Quantity     int
	Unit         string
	Category     string
	Location     string
	ExpiryDate   time.Time
	PurchaseDate time.Time
}

// MedicineService manages a family's medicine inventory
type MedicineService struct {
	medicineRepo *repository.MedicineRepository
	userRepo     *repository.UserRepository
	activity     *ActivityLogger
}

// NewMedicineService creates a new medicine service
func NewMedicineService(medicineRepo *repository.MedicineRepository, userRepo *repository.UserRepository, activity *ActivityLogger) *MedicineService {
	return &MedicineService{
		medicineRepo: medicineRepo,
		userRepo:     userRepo,
		activity:     activity,
	}
}

// requireMember loads the acting user and checks family membership
func (s *MedicineService) requireMember(actingUserID string) (*models.User, error) {
	if actingUserID == "" {
		return nil, ErrNotAuthenticated
	}
	user, err := s.userRepo.GetUserByID(actingUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load acting user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if user.FamilyID == "" {
		return nil, ErrNotInFamily
	}
	return user, nil
}

func validateMedicineInput(in MedicineInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return validation.ValidationError{Field: "name", Message: "medicine name is required"}
	}
	if in.Quantity < 0 {
		return validation.ValidationError{Field: "quantity", Message: "quantity cannot be negative"}
	}
	return nil
}

// AddMedicine adds a medicine to the caller's family inventory
func (s *MedicineService) AddMedicine(actingUserID string, in MedicineInput) (*models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	if err := validateMedicineInput(in); err != nil {
		return nil, err
	}

	medicine := &models.Medicine{
		FamilyID:     user.FamilyID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Quantity:     in.Quantity,
		Unit:         in.Unit,
		Category:     in.Category,
		Location:     in.Location,
		ExpiryDate:   in.ExpiryDate,
		PurchaseDate: in.PurchaseDate,
		AddedBy:      user.ID,
	}
	if err := s.medicineRepo.Create(medicine); err != nil {
		return nil, err
	}

	s.activity.LogMedicine(models.LogMedicineAdded, user, user.FamilyID, medicine.Name,
		fmt.Sprintf("Added %s to inventory", medicine.Name))
	return medicine, nil
}

// GetMedicine returns one medicine from the caller's family inventory
func (s *MedicineService) GetMedicine(actingUserID string, id int64) (*models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	return s.familyMedicine(user, id)
}

// familyMedicine loads a medicine and checks it belongs to the user's family
func (s *MedicineService) familyMedicine(user *models.User, id int64) (*models.Medicine, error) {
	medicine, err := s.medicineRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load medicine: %w", err)
	}
	if medicine == nil || medicine.FamilyID != user.FamilyID {
		return nil, ErrMedicineNotFound
	}
	return medicine, nil
}

// ListMedicines returns the caller's family inventory
func (s *MedicineService) ListMedicines(actingUserID string) ([]models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	return s.medicineRepo.ListByFamily(user.FamilyID)
}

// SearchMedicines searches the inventory by name or category
func (s *MedicineService) SearchMedicines(actingUserID, term string) ([]models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	term = strings.TrimSpace(term)
	if term == "" {
		return s.medicineRepo.ListByFamily(user.FamilyID)
	}
	return s.medicineRepo.Search(user.FamilyID, term)
}

// ListExpiring returns medicines that expire within the given window
func (s *MedicineService) ListExpiring(actingUserID string, window time.Duration) ([]models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	return s.medicineRepo.ListExpiringBefore(user.FamilyID, time.Now().Add(window))
}

// UpdateMedicine updates a medicine in the caller's family inventory
func (s *MedicineService) UpdateMedicine(actingUserID string, id int64, in MedicineInput) (*models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	if err := validateMedicineInput(in); err != nil {
		return nil, err
	}

	medicine, err := s.familyMedicine(user, id)
	if err != nil {
		return nil, err
	}

	medicine.Name = strings.TrimSpace(in.Name)
	medicine.Description = in.Description
	medicine.Quantity = in.Quantity
	medicine.Unit = in.Unit
	medicine.Category = in.Category
	medicine.Location = in.Location
	medicine.ExpiryDate = in.ExpiryDate
	medicine.PurchaseDate = in.PurchaseDate
	if err := s.medicineRepo.Update(medicine); err != nil {
		return nil, err
	}

	s.activity.LogMedicine(models.LogMedicineUpdated, user, user.FamilyID, medicine.Name,
		fmt.Sprintf("Updated %s", medicine.Name))
	return medicine, nil
}

// SetOutOfStock marks a medicine out of stock or back in stock
func (s *MedicineService) SetOutOfStock(actingUserID string, id int64, outOfStock bool) (*models.Medicine, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}

	medicine, err := s.familyMedicine(user, id)
	if err != nil {
		return nil, err
	}

	if err := s.medicineRepo.SetOutOfStock(id, outOfStock, user.ID); err != nil {
		return nil, err
	}

	if outOfStock {
		s.activity.LogMedicine(models.LogMedicineOutOfStock, user, user.FamilyID, medicine.Name,
			fmt.Sprintf("Marked %s as out of stock", medicine.Name))
	} else {
		s.activity.LogMedicine(models.LogMedicineBackInStock, user, user.FamilyID, medicine.Name,
			fmt.Sprintf("Marked %s as back in stock", medicine.Name))
	}
	return s.medicineRepo.GetByID(id)
}

// DeleteMedicine removes a medicine from the caller's family inventory
func (s *MedicineService) DeleteMedicine(actingUserID string, id int64) error {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return err
	}

	medicine, err := s.familyMedicine(user, id)
	if err != nil {
		return err
	}

	if err := s.medicineRepo.Delete(id); err != nil {
		return err
	}

	s.activity.LogMedicine(models.LogMedicineDeleted, user, user.FamilyID, medicine.Name,
		fmt.Sprintf("Removed %s from inventory", medicine.Name))
	return nil
}
