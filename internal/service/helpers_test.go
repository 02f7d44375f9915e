package service

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/41vi4p/MediStock/internal/database"
	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/repository"
)

// testEnv wires the full service stack against a temporary SQLite database
type testEnv struct {
	db             *database.DB
	userRepo       *repository.UserRepository
	familyRepo     *repository.FamilyRepository
	invitationRepo *repository.InvitationRepository
	medicineRepo   *repository.MedicineRepository
	shoppingRepo   *repository.ShoppingRepository
	activityRepo   *repository.ActivityLogRepository

	activity *ActivityLogger
	watcher  *FamilyWatcher

	families  *FamilyService
	medicines *MedicineService
	shopping  *ShoppingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	env := &testEnv{
		db:             db,
		userRepo:       repository.NewUserRepository(db),
		familyRepo:     repository.NewFamilyRepository(db),
		invitationRepo: repository.NewInvitationRepository(db),
		medicineRepo:   repository.NewMedicineRepository(db),
		shoppingRepo:   repository.NewShoppingRepository(db),
		activityRepo:   repository.NewActivityLogRepository(db),
	}

	env.activity = NewActivityLogger(env.activityRepo)
	env.watcher = NewFamilyWatcher(env.familyRepo, env.userRepo)
	t.Cleanup(env.watcher.Close)

	env.families = NewFamilyService(env.familyRepo, env.userRepo, env.invitationRepo, env.activity, env.watcher, nil, bcrypt.MinCost)
	env.medicines = NewMedicineService(env.medicineRepo, env.userRepo, env.activity)
	env.shopping = NewShoppingService(env.shoppingRepo, env.userRepo, env.activity)

	return env
}

func (e *testEnv) createUser(t *testing.T, email, displayName string) *models.User {
	t.Helper()

	user := &models.User{
		ID:          uuid.New().String(),
		Email:       email,
		DisplayName: displayName,
	}
	if err := e.userRepo.CreateUser(user); err != nil {
		t.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// createFamily creates a family founded by a fresh user and returns both
func (e *testEnv) createFamily(t *testing.T, name, password string) (*models.User, *models.Family) {
	t.Helper()

	founder := e.createUser(t, uuid.New().String()+"@example.com", "Founder")
	family, err := e.families.CreateFamily(founder.ID, name, "", password)
	if err != nil {
		t.Fatalf("Failed to create family: %v", err)
	}
	return founder, family
}

// joinUser creates a fresh user and joins them to the family
func (e *testEnv) joinUser(t *testing.T, family *models.Family, displayName, password string) *models.User {
	t.Helper()

	user := e.createUser(t, uuid.New().String()+"@example.com", displayName)
	if _, err := e.families.JoinFamilyWithCode(user.ID, family.FamilyCode, password); err != nil {
		t.Fatalf("Failed to join family: %v", err)
	}
	return user
}

// reloadUser fetches the current user record
func (e *testEnv) reloadUser(t *testing.T, userID string) *models.User {
	t.Helper()

	user, err := e.userRepo.GetUserByID(userID)
	if err != nil {
		t.Fatalf("Failed to reload user: %v", err)
	}
	if user == nil {
		t.Fatalf("User %s disappeared", userID)
	}
	return user
}
