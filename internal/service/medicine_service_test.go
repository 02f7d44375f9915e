package service

import (
	"errors"
	"testing"
	"time"

	"github.com/41vi4p/MediStock/internal/validation"
)

func sampleMedicine(name string, expiry time.Time) MedicineInput {
	return MedicineInput{
		Name:         name,
		Description:  "test medicine",
		Quantity:     10,
		Unit:         "tablets",
		Category:     "painkiller",
		Location:     "bathroom cabinet",
		ExpiryDate:   expiry,
		PurchaseDate: time.Now(),
	}
}

func TestAddMedicine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Medicated", "")

	expiry := time.Now().AddDate(1, 0, 0)
	medicine, err := env.medicines.AddMedicine(founder.ID, sampleMedicine("  Paracetamol  ", expiry))
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}
	if medicine.ID == 0 {
		t.Error("expected a generated ID")
	}
	if medicine.Name != "Paracetamol" {
		t.Errorf("name = %q, want trimmed %q", medicine.Name, "Paracetamol")
	}
	if medicine.FamilyID != family.ID {
		t.Errorf("family = %s, want %s", medicine.FamilyID, family.ID)
	}
	if medicine.AddedBy != founder.ID {
		t.Errorf("addedBy = %s, want %s", medicine.AddedBy, founder.ID)
	}

	fetched, err := env.medicines.GetMedicine(founder.ID, medicine.ID)
	if err != nil {
		t.Fatalf("GetMedicine: %v", err)
	}
	if fetched.Quantity != 10 || fetched.Unit != "tablets" {
		t.Errorf("fetched %d %s, want 10 tablets", fetched.Quantity, fetched.Unit)
	}
}

func TestAddMedicineValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Medicated", "")
	loner := env.createUser(t, "loner@example.com", "Loner")
	expiry := time.Now().AddDate(1, 0, 0)

	tests := []struct {
		name    string
		userID  string
		input   MedicineInput
		wantErr error
	}{
		{"empty user", "", sampleMedicine("Aspirin", expiry), ErrNotAuthenticated},
		{"unknown user", "no-such-user", sampleMedicine("Aspirin", expiry), ErrUserNotFound},
		{"not in family", loner.ID, sampleMedicine("Aspirin", expiry), ErrNotInFamily},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := env.medicines.AddMedicine(tt.userID, tt.input); !errors.Is(err, tt.wantErr) {
				t.Errorf("AddMedicine = %v, want %v", err, tt.wantErr)
			}
		})
	}

	var vErr validation.ValidationError
	if _, err := env.medicines.AddMedicine(founder.ID, sampleMedicine("   ", expiry)); !errors.As(err, &vErr) {
		t.Errorf("blank name = %v, want ValidationError", err)
	}
	in := sampleMedicine("Aspirin", expiry)
	in.Quantity = -1
	if _, err := env.medicines.AddMedicine(founder.ID, in); !errors.As(err, &vErr) || vErr.Field != "quantity" {
		t.Errorf("negative quantity = %v, want quantity ValidationError", err)
	}
}

func TestMedicineFamilyIsolation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founderA, _ := env.createFamily(t, "Family A", "")
	founderB, _ := env.createFamily(t, "Family B", "")
	expiry := time.Now().AddDate(1, 0, 0)

	medicine, err := env.medicines.AddMedicine(founderA.ID, sampleMedicine("Insulin", expiry))
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}

	if _, err := env.medicines.GetMedicine(founderB.ID, medicine.ID); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("cross-family get = %v, want ErrMedicineNotFound", err)
	}
	if _, err := env.medicines.UpdateMedicine(founderB.ID, medicine.ID, sampleMedicine("Hijacked", expiry)); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("cross-family update = %v, want ErrMedicineNotFound", err)
	}
	if err := env.medicines.DeleteMedicine(founderB.ID, medicine.ID); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("cross-family delete = %v, want ErrMedicineNotFound", err)
	}

	listB, err := env.medicines.ListMedicines(founderB.ID)
	if err != nil {
		t.Fatalf("ListMedicines: %v", err)
	}
	if len(listB) != 0 {
		t.Errorf("family B sees %d medicines, want 0", len(listB))
	}
}

func TestUpdateMedicine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Medicated", "")
	expiry := time.Now().AddDate(1, 0, 0)

	medicine, err := env.medicines.AddMedicine(founder.ID, sampleMedicine("Aspirin", expiry))
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}

	in := sampleMedicine("Aspirin Forte", expiry)
	in.Quantity = 3
	in.Location = "first aid kit"
	updated, err := env.medicines.UpdateMedicine(founder.ID, medicine.ID, in)
	if err != nil {
		t.Fatalf("UpdateMedicine: %v", err)
	}
	if updated.Name != "Aspirin Forte" || updated.Quantity != 3 || updated.Location != "first aid kit" {
		t.Errorf("update not applied: %+v", updated)
	}

	if _, err := env.medicines.UpdateMedicine(founder.ID, 99999, in); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("update of missing id = %v, want ErrMedicineNotFound", err)
	}
}

func TestSetOutOfStock(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, family := env.createFamily(t, "Medicated", "")
	member := env.joinUser(t, family, "Member", "")
	expiry := time.Now().AddDate(1, 0, 0)

	medicine, err := env.medicines.AddMedicine(founder.ID, sampleMedicine("Ibuprofen", expiry))
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}

	out, err := env.medicines.SetOutOfStock(member.ID, medicine.ID, true)
	if err != nil {
		t.Fatalf("SetOutOfStock(true): %v", err)
	}
	if !out.OutOfStock {
		t.Error("medicine not marked out of stock")
	}
	if out.OutOfStockBy != member.ID {
		t.Errorf("outOfStockBy = %s, want %s", out.OutOfStockBy, member.ID)
	}
	if out.OutOfStockAt == nil {
		t.Error("outOfStockAt not set")
	}

	back, err := env.medicines.SetOutOfStock(founder.ID, medicine.ID, false)
	if err != nil {
		t.Fatalf("SetOutOfStock(false): %v", err)
	}
	if back.OutOfStock {
		t.Error("medicine still marked out of stock")
	}
}

func TestSearchMedicines(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Medicated", "")
	expiry := time.Now().AddDate(1, 0, 0)

	for _, name := range []string{"Paracetamol", "Paracetamol Extra", "Vitamin C"} {
		if _, err := env.medicines.AddMedicine(founder.ID, sampleMedicine(name, expiry)); err != nil {
			t.Fatalf("AddMedicine %s: %v", name, err)
		}
	}

	matches, err := env.medicines.SearchMedicines(founder.ID, "paracetamol")
	if err != nil {
		t.Fatalf("SearchMedicines: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("search found %d medicines, want 2", len(matches))
	}

	byCategory, err := env.medicines.SearchMedicines(founder.ID, "painkiller")
	if err != nil {
		t.Fatalf("SearchMedicines category: %v", err)
	}
	if len(byCategory) != 3 {
		t.Errorf("category search found %d medicines, want 3", len(byCategory))
	}

	all, err := env.medicines.SearchMedicines(founder.ID, "   ")
	if err != nil {
		t.Fatalf("SearchMedicines blank: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("blank search found %d medicines, want the full list of 3", len(all))
	}
}

func TestListExpiring(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Medicated", "")

	soon := sampleMedicine("Eye Drops", time.Now().AddDate(0, 0, 7))
	later := sampleMedicine("Multivitamin", time.Now().AddDate(2, 0, 0))
	if _, err := env.medicines.AddMedicine(founder.ID, soon); err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}
	if _, err := env.medicines.AddMedicine(founder.ID, later); err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}

	expiring, err := env.medicines.ListExpiring(founder.ID, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("ListExpiring: %v", err)
	}
	if len(expiring) != 1 {
		t.Fatalf("found %d expiring medicines, want 1", len(expiring))
	}
	if expiring[0].Name != "Eye Drops" {
		t.Errorf("expiring medicine = %s, want Eye Drops", expiring[0].Name)
	}
}

func TestDeleteMedicine(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	env := newTestEnv(t)
	founder, _ := env.createFamily(t, "Medicated", "")
	expiry := time.Now().AddDate(1, 0, 0)

	medicine, err := env.medicines.AddMedicine(founder.ID, sampleMedicine("Old Syrup", expiry))
	if err != nil {
		t.Fatalf("AddMedicine: %v", err)
	}
	if err := env.medicines.DeleteMedicine(founder.ID, medicine.ID); err != nil {
		t.Fatalf("DeleteMedicine: %v", err)
	}
	if _, err := env.medicines.GetMedicine(founder.ID, medicine.ID); !errors.Is(err, ErrMedicineNotFound) {
		t.Errorf("get after delete = %v, want ErrMedicineNotFound", err)
	}
}
