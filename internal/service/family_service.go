package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/41vi4p/MediStock/internal/familycode"
	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
	"github.com/41vi4p/MediStock/internal/security"
	"github.com/41vi4p/MediStock/internal/validation"
)

var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrUserNotFound        = errors.New("user not found")
	ErrFamilyNotFound      = errors.New("family not found")
	ErrNotInFamily         = errors.New("user is not in a family")
	ErrAlreadyMember       = errors.New("user is already a member of this family")
	ErrPasswordRequired    = errors.New("this family requires a password to join")
	ErrInvalidPassword     = errors.New("incorrect family password")
	ErrForbidden           = errors.New("only family admins can do this")
	ErrCannotRemoveFounder = errors.New("the family creator cannot be removed")
	ErrFounderCannotLeave  = errors.New("the family creator cannot leave")
	ErrMemberNotFound      = errors.New("user is not a member of this family")
	ErrPasswordTooShort    = errors.New("family password must be at least 6 characters")
	ErrInvitationPending   = errors.New("an invitation is already pending for this email")
)

// invitationTTL is how long an email invitation stays valid
const invitationTTL = 7 * 24 * time.Hour

// InvitationSender sends family invitation emails. Sending is best-effort:
// a send failure never fails the invitation itself.
type InvitationSender interface {
	SendFamilyInvitation(toEmail, familyName, inviterName, familyCode string) error
}

// FamilyService implements the family membership operations: creation,
// code-based joining, removal, leaving, code regeneration and password
// management. Every privileged operation re-checks the caller's role
// against freshly loaded state, never against a cached snapshot.
type FamilyService struct {
	familyRepo     *repository.FamilyRepository
	userRepo       *repository.UserRepository
	invitationRepo *repository.InvitationRepository
	activity       *ActivityLogger
	watcher        *FamilyWatcher
	email          InvitationSender
	bcryptCost     int
}

// NewFamilyService creates a new family service. email may be nil when
// invitation emails are disabled.
func NewFamilyService(
	familyRepo *repository.FamilyRepository,
	userRepo *repository.UserRepository,
	invitationRepo *repository.InvitationRepository,
	activity *ActivityLogger,
	watcher *FamilyWatcher,
	email InvitationSender,
	bcryptCost int,
) *FamilyService {
	return &FamilyService{
		familyRepo:     familyRepo,
		userRepo:       userRepo,
		invitationRepo: invitationRepo,
		activity:       activity,
		watcher:        watcher,
		email:          email,
		bcryptCost:     bcryptCost,
	}
}

// requireUser resolves the acting user or fails with the authentication
// error the caller maps to a 401
func (s *FamilyService) requireUser(actingUserID string) (*models.User, error) {
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
	return user, nil
}

// currentFamily loads the acting user's family with a fresh roster
func (s *FamilyService) currentFamily(user *models.User) (*models.Family, error) {
	if user.FamilyID == "" {
		return nil, ErrNotInFamily
	}
	family, err := s.familyRepo.GetByID(user.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load family: %w", err)
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}
	return family, nil
}

func memberSnapshot(user *models.User, role string) models.FamilyMember {
	return models.FamilyMember{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		PhotoURL:    user.PhotoURL,
		Role:        role,
	}
}

// CreateFamily creates a new family with the caller as its founding admin.
// An optional password gates future joins. A caller who is already in a
// family is allowed to create a new one; their user record is re-linked to
// the new family.
func (s *FamilyService) CreateFamily(actingUserID, name, description, password string) (*models.Family, error) {
	user, err := s.requireUser(actingUserID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateFamilyName(name); err != nil {
		return nil, err
	}

	passwordHash := ""
	if password != "" {
		if len(password) < validation.MinFamilyPasswordLength {
			return nil, ErrPasswordTooShort
		}
		passwordHash, err = security.HashPassword(password, s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash family password: %w", err)
		}
	}

	code, err := familycode.GenerateUnique(s.familyRepo.CodeExists)
	if err != nil {
		return nil, err
	}

	family := &models.Family{
		ID:           uuid.New().String(),
		Name:         name,
		Description:  description,
		CreatedBy:    user.ID,
		FamilyCode:   code,
		PasswordHash: passwordHash,
	}

	if err := s.familyRepo.CreateWithFounder(family, memberSnapshot(user, models.RoleAdmin)); err != nil {
		return nil, err
	}

	s.activity.LogFamilyCreated(user, family.ID, family.Name)
	s.watcher.Notify(family.ID)
	return family, nil
}

// JoinFamilyWithCode adds the caller to the family whose join code matches.
// Codes are case-insensitive. Password-protected families require the
// matching password.
func (s *FamilyService) JoinFamilyWithCode(actingUserID, code, password string) (*models.Family, error) {
	user, err := s.requireUser(actingUserID)
	if err != nil {
		return nil, err
	}

	code = familycode.Normalize(code)
	if err := validation.ValidateFamilyCode(code); err != nil {
		return nil, err
	}

	family, err := s.familyRepo.GetByCode(code)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	if family.MemberByUserID(user.ID) != nil {
		return nil, ErrAlreadyMember
	}

	if family.HasPassword() {
		if password == "" {
			return nil, ErrPasswordRequired
		}
		if !security.CheckPassword(password, family.PasswordHash) {
			return nil, ErrInvalidPassword
		}
	}

	if err := s.familyRepo.AddMember(family.ID, memberSnapshot(user, models.RoleMember)); err != nil {
		return nil, err
	}

	// Settle any pending invitation for this email. Best-effort: a failure
	// here must not undo a join that already committed.
	if inv, err := s.invitationRepo.GetPending(family.ID, user.Email); err != nil {
		log.Printf("Failed to look up invitation for %s: %v", user.Email, err)
	} else if inv != nil {
		if err := s.invitationRepo.MarkAccepted(inv.ID); err != nil {
			log.Printf("Failed to mark invitation %d accepted: %v", inv.ID, err)
		} else {
			s.activity.LogInvitationAccepted(user, family.ID)
		}
	}

	s.activity.LogMemberAdded(user, family.ID)
	s.watcher.Notify(family.ID)

	return s.familyRepo.GetByID(family.ID)
}

// RemoveMember removes a member from the caller's family. Only admins may
// remove members, the founder can never be removed, and removing a user who
// is not on the roster fails with ErrMemberNotFound.
func (s *FamilyService) RemoveMember(actingUserID, targetUserID string) error {
	actor, err := s.requireUser(actingUserID)
	if err != nil {
		return err
	}

	family, err := s.currentFamily(actor)
	if err != nil {
		return err
	}

	if !family.IsAdmin(actor.ID) {
		return ErrForbidden
	}
	if targetUserID == family.CreatedBy {
		return ErrCannotRemoveFounder
	}

	target := family.MemberByUserID(targetUserID)
	if target == nil {
		return ErrMemberNotFound
	}

	removed, err := s.familyRepo.RemoveMember(family.ID, targetUserID)
	if err != nil {
		return err
	}
	if !removed {
		// Lost a race with another removal or a leave
		return ErrMemberNotFound
	}

	s.activity.LogMemberRemoved(actor, family.ID, target.DisplayName)
	s.watcher.Notify(family.ID)
	return nil
}

// LeaveFamily removes the caller from their family. The founder cannot
// leave; ownership transfer is not supported.
func (s *FamilyService) LeaveFamily(actingUserID string) error {
	user, err := s.requireUser(actingUserID)
	if err != nil {
		return err
	}

	family, err := s.currentFamily(user)
	if err != nil {
		return err
	}

	if user.ID == family.CreatedBy {
		return ErrFounderCannotLeave
	}

	removed, err := s.familyRepo.RemoveMember(family.ID, user.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrMemberNotFound
	}

	s.watcher.Notify(family.ID)
	return nil
}

// RegenerateFamilyCode replaces the family's join code with a fresh unique
// one. The old code stops working immediately; existing members are
// unaffected. Admin only.
func (s *FamilyService) RegenerateFamilyCode(actingUserID string) (string, error) {
	actor, err := s.requireUser(actingUserID)
	if err != nil {
		return "", err
	}

	family, err := s.currentFamily(actor)
	if err != nil {
		return "", err
	}

	if !family.IsAdmin(actor.ID) {
		return "", ErrForbidden
	}

	code, err := familycode.GenerateUnique(s.familyRepo.CodeExists)
	if err != nil {
		return "", err
	}

	if err := s.familyRepo.UpdateCode(family.ID, code); err != nil {
		return "", err
	}

	s.watcher.Notify(family.ID)
	return code, nil
}

// ChangeFamilyPassword sets a new join password, or clears it when
// newPassword is empty (open joining). Admin only.
func (s *FamilyService) ChangeFamilyPassword(actingUserID, newPassword string) error {
	actor, err := s.requireUser(actingUserID)
	if err != nil {
		return err
	}

	family, err := s.currentFamily(actor)
	if err != nil {
		return err
	}

	if !family.IsAdmin(actor.ID) {
		return ErrForbidden
	}

	hash := ""
	if newPassword != "" {
		if len(newPassword) < validation.MinFamilyPasswordLength {
			return ErrPasswordTooShort
		}
		hash, err = security.HashPassword(newPassword, s.bcryptCost)
		if err != nil {
			return fmt.Errorf("failed to hash family password: %w", err)
		}
	}

	if err := s.familyRepo.UpdatePasswordHash(family.ID, hash); err != nil {
		return err
	}

	s.activity.LogPasswordChanged(actor, family.ID, hash != "")
	s.watcher.Notify(family.ID)
	return nil
}

// InviteMember records an email invitation to the caller's family and sends
// the invitation email carrying the join code. Any member may invite.
func (s *FamilyService) InviteMember(actingUserID, email string) (*models.Invitation, error) {
	actor, err := s.requireUser(actingUserID)
	if err != nil {
		return nil, err
	}

	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}

	family, err := s.currentFamily(actor)
	if err != nil {
		return nil, err
	}

	if family.MemberByUserID(actor.ID) == nil {
		return nil, ErrForbidden
	}

	for _, m := range family.Members {
		if m.Email == email {
			return nil, ErrAlreadyMember
		}
	}

	if pending, err := s.invitationRepo.GetPending(family.ID, email); err != nil {
		return nil, err
	} else if pending != nil {
		return nil, ErrInvitationPending
	}

	inv, err := s.invitationRepo.Create(family.ID, email, actor.ID, time.Now().Add(invitationTTL))
	if err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendFamilyInvitation(email, family.Name, actor.DisplayName, family.FamilyCode); err != nil {
			log.Printf("Failed to send invitation email to %s: %v", email, err)
		}
	}

	s.activity.LogMemberInvited(actor, family.ID, email)
	return inv, nil
}

// ListInvitations retrieves the invitations for the caller's family
func (s *FamilyService) ListInvitations(actingUserID string) ([]models.Invitation, error) {
	actor, err := s.requireUser(actingUserID)
	if err != nil {
		return nil, err
	}

	family, err := s.currentFamily(actor)
	if err != nil {
		return nil, err
	}

	if family.MemberByUserID(actor.ID) == nil {
		return nil, ErrForbidden
	}

	return s.invitationRepo.ListByFamily(family.ID)
}

// GetFamily retrieves the caller's family, or nil if they are not in one
func (s *FamilyService) GetFamily(actingUserID string) (*models.Family, error) {
	user, err := s.requireUser(actingUserID)
	if err != nil {
		return nil, err
	}
	if user.FamilyID == "" {
		return nil, nil
	}
	family, err := s.familyRepo.GetByID(user.FamilyID)
	if err != nil {
		return nil, err
	}
	return family, nil
}
