package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
	"github.com/41vi4p/MediStock/internal/security"
	"github.com/41vi4p/MediStock/internal/validation"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrTokensDisabled     = errors.New("API tokens are not configured")
)

// AuthService handles accounts, sessions and API tokens
type AuthService struct {
	userRepo        *repository.UserRepository
	activity        *ActivityLogger
	tokens          *security.TokenIssuer // nil when JWT_SECRET is unset
	sessionDuration time.Duration
	bcryptCost      int
}

// NewAuthService creates a new auth service. tokens may be nil to disable
// bearer-token auth.
func NewAuthService(userRepo *repository.UserRepository, activity *ActivityLogger, tokens *security.TokenIssuer, sessionDuration time.Duration, bcryptCost int) *AuthService {
	return &AuthService{
		userRepo:        userRepo,
		activity:        activity,
		tokens:          tokens,
		sessionDuration: sessionDuration,
		bcryptCost:      bcryptCost,
	}
}

// Register creates a new user account
func (s *AuthService) Register(email, password, displayName string) (*models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return nil, err
	}
	if err := validation.ValidateDisplayName(displayName); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	passwordHash, err := security.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: passwordHash,
	}
	if err := s.userRepo.CreateUser(user); err != nil {
		return nil, err
	}

	s.activity.LogUserSignup(user)
	return user, nil
}

// Login authenticates a user and creates a session
func (s *AuthService) Login(email, password string) (*models.Session, *models.User, error) {
	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || user.PasswordHash == "" {
		// OAuth-only accounts have no password to check
		return nil, nil, ErrInvalidCredentials
	}

	if !security.CheckPassword(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.createSession(user)
	if err != nil {
		return nil, nil, err
	}

	s.activity.LogUserSignin(user)
	return session, user, nil
}

// LoginWithOAuth signs in a user authenticated by an OAuth provider,
// creating the account on first sign-in
func (s *AuthService) LoginWithOAuth(email, displayName, photoURL string) (*models.Session, *models.User, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, nil, err
	}

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user == nil {
		user = &models.User{
			ID:          uuid.New().String(),
			Email:       email,
			DisplayName: displayName,
			PhotoURL:    photoURL,
		}
		if user.DisplayName == "" {
			user.DisplayName = email
		}
		if err := s.userRepo.CreateUser(user); err != nil {
			return nil, nil, err
		}
		s.activity.LogUserSignup(user)
	} else if photoURL != "" && photoURL != user.PhotoURL {
		// Refresh the avatar on each sign-in; the provider owns it
		if err := s.userRepo.UpdateProfile(user.ID, user.DisplayName, photoURL); err != nil {
			return nil, nil, err
		}
		user.PhotoURL = photoURL
	}

	session, err := s.createSession(user)
	if err != nil {
		return nil, nil, err
	}

	s.activity.LogUserSignin(user)
	return session, user, nil
}

func (s *AuthService) createSession(user *models.User) (*models.Session, error) {
	sessionID := security.GenerateSessionID()
	session, err := s.userRepo.CreateSession(sessionID, user.ID, time.Now().Add(s.sessionDuration))
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// ValidateSession checks a session and returns the associated user
func (s *AuthService) ValidateSession(sessionID string) (*models.User, error) {
	session, err := s.userRepo.GetSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if session.IsExpired() {
		_ = s.userRepo.DeleteSession(sessionID)
		return nil, ErrSessionExpired
	}

	user, err := s.userRepo.GetUserByID(session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrSessionNotFound
	}
	return user, nil
}

// Logout removes a session
func (s *AuthService) Logout(sessionID string) error {
	return s.userRepo.DeleteSession(sessionID)
}

// CleanupExpiredSessions removes expired sessions
func (s *AuthService) CleanupExpiredSessions() error {
	return s.userRepo.DeleteExpiredSessions()
}

// IssueAPIToken creates a bearer token for API clients
func (s *AuthService) IssueAPIToken(user *models.User) (string, error) {
	if s.tokens == nil {
		return "", ErrTokensDisabled
	}
	return s.tokens.Issue(user.ID)
}

// ValidateAPIToken checks a bearer token and returns the associated user
func (s *AuthService) ValidateAPIToken(token string) (*models.User, error) {
	if s.tokens == nil {
		return nil, ErrTokensDisabled
	}
	userID, err := s.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, security.ErrInvalidToken
	}
	return user, nil
}

// UpdateTheme stores the user's theme preference
func (s *AuthService) UpdateTheme(userID, theme string) error {
	if theme != "light" && theme != "dark" {
		return validation.ValidationError{Field: "theme", Message: "theme must be light or dark"}
	}
	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := s.userRepo.UpdateTheme(userID, theme); err != nil {
		return err
	}
	s.activity.LogSettingsUpdated(user, "theme")
	return nil
}
