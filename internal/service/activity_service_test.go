package service

import (
	"errors"
	"testing"

	"github.com/41vi4p/MediStock/internal/models"
)

func TestActivityLoggerPersistsEntries(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Loggers", "")

	logger := NewActivityLogger(env.activityRepo)
	logger.LogMemberRemoved(founder, family.ID, "Old Member")
	logger.LogPasswordChanged(founder, family.ID, true)
	logger.LogPasswordChanged(founder, family.ID, false)
	logger.LogMedicine(models.LogMedicineAdded, founder, family.ID, "Paracetamol", "Added Paracetamol to inventory")
	logger.Close() // flush before reading back

	entries, total, err := env.activityRepo.ListByFamily(family.ID, "", 50, 0)
	if err != nil {
		t.Fatalf("ListByFamily: %v", err)
	}
	// createFamily already logged a family_created entry through env.activity,
	// which may still be in flight; count only the entries written here.
	byType := make(map[string]models.ActivityLog)
	for _, entry := range entries {
		byType[entry.Type] = entry
	}
	if total < 4 {
		t.Fatalf("total = %d, want at least 4", total)
	}

	removed, ok := byType[models.LogMemberRemoved]
	if !ok {
		t.Fatal("member_removed entry was not persisted")
	}
	if removed.Description != "Removed Old Member from the family" {
		t.Errorf("member_removed description = %q", removed.Description)
	}
	if removed.UserID != founder.ID || removed.UserName != founder.DisplayName {
		t.Errorf("member_removed attributed to %s/%s, want %s/%s",
			removed.UserID, removed.UserName, founder.ID, founder.DisplayName)
	}
	if removed.Metadata["removedMemberName"] != "Old Member" {
		t.Errorf("member_removed metadata = %v", removed.Metadata)
	}

	medicine, ok := byType[models.LogMedicineAdded]
	if !ok {
		t.Fatal("medicine_added entry was not persisted")
	}
	if medicine.Metadata["medicineName"] != "Paracetamol" {
		t.Errorf("medicine_added metadata = %v", medicine.Metadata)
	}
}

func TestActivityLoggerCloseIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	logger := NewActivityLogger(env.activityRepo)
	logger.Close()
	logger.Close()
}

func TestFamilyOperationsEmitActivity(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Audited", "")
	member := env.joinUser(t, family, "Member", "")
	if err := env.families.RemoveMember(founder.ID, member.ID); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	env.activity.Close() // flush before reading back

	entries, _, err := env.activityRepo.ListByFamily(family.ID, "", 50, 0)
	if err != nil {
		t.Fatalf("ListByFamily: %v", err)
	}
	seen := make(map[string]bool)
	for _, entry := range entries {
		seen[entry.Type] = true
	}
	for _, want := range []string{models.LogFamilyCreated, models.LogMemberAdded, models.LogMemberRemoved} {
		if !seen[want] {
			t.Errorf("no %s entry recorded, got %v", want, seen)
		}
	}
}

func TestListFamilyActivityPaging(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Paged", "")

	logger := NewActivityLogger(env.activityRepo)
	for i := 0; i < 5; i++ {
		logger.LogMedicine(models.LogMedicineAdded, founder, family.ID, "Ibuprofen", "Added Ibuprofen to inventory")
	}
	logger.LogShoppingItem(models.LogShoppingItemAdded, founder, family.ID, "Bandages", "Added Bandages to shopping list")
	logger.Close()

	queries := NewActivityQueryService(env.activityRepo, env.userRepo)

	filtered, total, err := queries.ListFamilyActivity(founder.ID, models.LogMedicineAdded, 3, 0)
	if err != nil {
		t.Fatalf("ListFamilyActivity: %v", err)
	}
	if total != 5 {
		t.Errorf("filtered total = %d, want 5", total)
	}
	if len(filtered) != 3 {
		t.Errorf("filtered page has %d entries, want 3", len(filtered))
	}
	for _, entry := range filtered {
		if entry.Type != models.LogMedicineAdded {
			t.Errorf("filter leaked entry of type %s", entry.Type)
		}
	}

	rest, _, err := queries.ListFamilyActivity(founder.ID, models.LogMedicineAdded, 3, 3)
	if err != nil {
		t.Fatalf("ListFamilyActivity offset: %v", err)
	}
	if len(rest) != 2 {
		t.Errorf("second page has %d entries, want 2", len(rest))
	}

	// Out-of-range limits fall back to the default page size.
	all, _, err := queries.ListFamilyActivity(founder.ID, "", 0, -5)
	if err != nil {
		t.Fatalf("ListFamilyActivity defaults: %v", err)
	}
	if len(all) < 6 {
		t.Errorf("default page has %d entries, want at least 6", len(all))
	}
}

func TestListFamilyActivityErrors(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	loner := env.createUser(t, "loner@example.com", "Loner")
	queries := NewActivityQueryService(env.activityRepo, env.userRepo)

	if _, _, err := queries.ListFamilyActivity("", "", 50, 0); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("empty user = %v, want ErrNotAuthenticated", err)
	}
	if _, _, err := queries.ListFamilyActivity("no-such-user", "", 50, 0); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("unknown user = %v, want ErrUserNotFound", err)
	}
	if _, _, err := queries.ListFamilyActivity(loner.ID, "", 50, 0); !errors.Is(err, ErrNotInFamily) {
		t.Errorf("user without family = %v, want ErrNotInFamily", err)
	}
}
