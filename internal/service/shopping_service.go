package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
	"github.com/41vi4p/MediStock/internal/validation"
)

var ErrShoppingItemNotFound = errors.New("shopping item not found")

// ShoppingService manages a family's shopping list
type ShoppingService struct {
	shoppingRepo *repository.ShoppingRepository
	userRepo     *repository.UserRepository
	activity     *ActivityLogger
}

// NewShoppingService creates a new shopping service
func NewShoppingService(shoppingRepo *repository.ShoppingRepository, userRepo *repository.UserRepository, activity *ActivityLogger) *ShoppingService {
	return &ShoppingService{
		shoppingRepo: shoppingRepo,
		userRepo:     userRepo,
		activity:     activity,
	}
}

func (s *ShoppingService) requireMember(actingUserID string) (*models.User, error) {
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

// AddItem adds an item to the caller's family shopping list
func (s *ShoppingService) AddItem(actingUserID, name, description, category, priority string) (*models.ShoppingItem, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validation.ValidationError{Field: "name", Message: "item name is required"}
	}
	switch priority {
	case "":
		priority = models.PriorityMedium
	case models.PriorityLow, models.PriorityMedium, models.PriorityHigh:
	default:
		return nil, validation.ValidationError{Field: "priority", Message: "priority must be low, medium or high"}
	}

	item := &models.ShoppingItem{
		FamilyID:    user.FamilyID,
		Name:        name,
		Description: description,
		Category:    category,
		Priority:    priority,
		AddedBy:     user.ID,
		AddedByName: user.DisplayName,
	}
	if err := s.shoppingRepo.Create(item); err != nil {
		return nil, err
	}

	s.activity.LogShoppingItem(models.LogShoppingItemAdded, user, user.FamilyID, item.Name,
		fmt.Sprintf("Added %s to shopping list", item.Name))
	return item, nil
}

// ListItems returns the caller's family shopping list
func (s *ShoppingService) ListItems(actingUserID string, includeCompleted bool) ([]models.ShoppingItem, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}
	return s.shoppingRepo.ListByFamily(user.FamilyID, includeCompleted)
}

// familyItem loads an item and checks it belongs to the user's family
func (s *ShoppingService) familyItem(user *models.User, id int64) (*models.ShoppingItem, error) {
	item, err := s.shoppingRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping item: %w", err)
	}
	if item == nil || item.FamilyID != user.FamilyID {
		return nil, ErrShoppingItemNotFound
	}
	return item, nil
}

// SetCompleted marks an item completed or pending again
func (s *ShoppingService) SetCompleted(actingUserID string, id int64, completed bool) (*models.ShoppingItem, error) {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return nil, err
	}

	if _, err := s.familyItem(user, id); err != nil {
		return nil, err
	}

	if err := s.shoppingRepo.SetCompleted(id, completed, user.ID); err != nil {
		return nil, err
	}
	return s.shoppingRepo.GetByID(id)
}

// DeleteItem removes an item from the caller's family shopping list
func (s *ShoppingService) DeleteItem(actingUserID string, id int64) error {
	user, err := s.requireMember(actingUserID)
	if err != nil {
		return err
	}

	item, err := s.familyItem(user, id)
	if err != nil {
		return err
	}

	if err := s.shoppingRepo.Delete(id); err != nil {
		return err
	}

	s.activity.LogShoppingItem(models.LogShoppingItemRemoved, user, user.FamilyID, item.Name,
		fmt.Sprintf("Removed %s from shopping list", item.Name))
	return nil
}
