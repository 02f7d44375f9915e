package service

import (
	"fmt"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
)

// ActivityQueryService reads the activity history for a family
type ActivityQueryService struct {
	activityRepo *repository.ActivityLogRepository
	userRepo     *repository.UserRepository
}

// NewActivityQueryService creates a new activity query service
func NewActivityQueryService(activityRepo *repository.ActivityLogRepository, userRepo *repository.UserRepository) *ActivityQueryService {
	return &ActivityQueryService{
		activityRepo: activityRepo,
		userRepo:     userRepo,
	}
}

// ListFamilyActivity returns a page of the caller's family activity history,
// newest first, optionally filtered by entry type. It also returns the total
// number of matching entries.
func (s *ActivityQueryService) ListFamilyActivity(actingUserID, typeFilter string, limit, offset int) ([]models.ActivityLog, int, error) {
	if actingUserID == "" {
		return nil, 0, ErrNotAuthenticated
	}
	user, err := s.userRepo.GetUserByID(actingUserID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load acting user: %w", err)
	}
	if user == nil {
		return nil, 0, ErrUserNotFound
	}
	if user.FamilyID == "" {
		return nil, 0, ErrNotInFamily
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.activityRepo.ListByFamily(user.FamilyID, typeFilter, limit, offset)
}
