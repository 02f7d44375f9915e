package service

import (
	"errors"
	"testing"

	"github.com/41vi4p/MediStock/internal/models"
	"github.com/41vi4p/MediStock/internal/validation"
)

func TestAddShoppingItem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Shoppers", "")

	item, err := env.shopping.AddItem(founder.ID, "  Bandages  ", "large box", "first aid", models.PriorityHigh)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.ID == 0 {
		t.Error("expected a generated ID")
	}
	if item.Name != "Bandages" {
		t.Errorf("name = %q, want trimmed %q", item.Name, "Bandages")
	}
	if item.FamilyID != family.ID {
		t.Errorf("family = %s, want %s", item.FamilyID, family.ID)
	}
	if item.AddedBy != founder.ID || item.AddedByName != founder.DisplayName {
		t.Errorf("added by %s/%s, want %s/%s", item.AddedBy, item.AddedByName, founder.ID, founder.DisplayName)
	}
	if item.Completed {
		t.Error("new item must not be completed")
	}
}

func TestAddShoppingItemValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Shoppers", "")
	loner := env.createUser(t, "loner@example.com", "Loner")

	if _, err := env.shopping.AddItem("", "Plasters", "", "", ""); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("empty user = %v, want ErrNotAuthenticated", err)
	}
	if _, err := env.shopping.AddItem(loner.ID, "Plasters", "", "", ""); !errors.Is(err, ErrNotInFamily) {
		t.Errorf("user without family = %v, want ErrNotInFamily", err)
	}

	var vErr validation.ValidationError
	if _, err := env.shopping.AddItem(founder.ID, "   ", "", "", ""); !errors.As(err, &vErr) {
		t.Errorf("blank name = %v, want ValidationError", err)
	}
	if _, err := env.shopping.AddItem(founder.ID, "Plasters", "", "", "urgent"); !errors.As(err, &vErr) || vErr.Field != "priority" {
		t.Errorf("bad priority = %v, want priority ValidationError", err)
	}

	// Empty priority defaults to medium.
	item, err := env.shopping.AddItem(founder.ID, "Plasters", "", "", "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.Priority != models.PriorityMedium {
		t.Errorf("default priority = %s, want %s", item.Priority, models.PriorityMedium)
	}
}

func TestShoppingCompletedFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Shoppers", "")
	member := env.joinUser(t, family, "Member", "")

	item, err := env.shopping.AddItem(founder.ID, "Thermometer", "", "equipment", models.PriorityLow)
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if _, err := env.shopping.AddItem(founder.ID, "Cough Syrup", "", "", ""); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	done, err := env.shopping.SetCompleted(member.ID, item.ID, true)
	if err != nil {
		t.Fatalf("SetCompleted(true): %v", err)
	}
	if !done.Completed {
		t.Error("item not marked completed")
	}
	if done.CompletedBy != member.ID {
		t.Errorf("completedBy = %s, want %s", done.CompletedBy, member.ID)
	}
	if done.CompletedAt == nil {
		t.Error("completedAt not set")
	}

	pending, err := env.shopping.ListItems(founder.ID, false)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending list has %d items, want 1", len(pending))
	}
	if pending[0].Name != "Cough Syrup" {
		t.Errorf("pending item = %s, want Cough Syrup", pending[0].Name)
	}

	all, err := env.shopping.ListItems(founder.ID, true)
	if err != nil {
		t.Fatalf("ListItems all: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("full list has %d items, want 2", len(all))
	}

	reopened, err := env.shopping.SetCompleted(founder.ID, item.ID, false)
	if err != nil {
		t.Fatalf("SetCompleted(false): %v", err)
	}
	if reopened.Completed {
		t.Error("item still marked completed")
	}
}

func TestShoppingFamilyIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founderA, _ := env.createFamily(t, "Family A", "")
	founderB, _ := env.createFamily(t, "Family B", "")

	item, err := env.shopping.AddItem(founderA.ID, "Gauze", "", "", "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if _, err := env.shopping.SetCompleted(founderB.ID, item.ID, true); !errors.Is(err, ErrShoppingItemNotFound) {
		t.Errorf("cross-family complete = %v, want ErrShoppingItemNotFound", err)
	}
	if err := env.shopping.DeleteItem(founderB.ID, item.ID); !errors.Is(err, ErrShoppingItemNotFound) {
		t.Errorf("cross-family delete = %v, want ErrShoppingItemNotFound", err)
	}

	listB, err := env.shopping.ListItems(founderB.ID, true)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(listB) != 0 {
		t.Errorf("family B sees %d items, want 0", len(listB))
	}
}

func TestDeleteShoppingItem(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Shoppers", "")

	item, err := env.shopping.AddItem(founder.ID, "Saline", "", "", "")
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := env.shopping.DeleteItem(founder.ID, item.ID); err != nil {
		t.Fatalf("DeleteItem: %v", err)
	}
	if err := env.shopping.DeleteItem(founder.ID, item.ID); !errors.Is(err, ErrShoppingItemNotFound) {
		t.Errorf("delete after delete = %v, want ErrShoppingItemNotFound", err)
	}

	list, err := env.shopping.ListItems(founder.ID, true)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("list has %d items after delete, want 0", len(list))
	}
}
