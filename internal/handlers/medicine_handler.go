package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/41vi4p/MediStock/internal/service"
	"github.com/41vi4p/MediStock/internal/validation"
)

// MedicineHandler handles medicine inventory endpoints
type MedicineHandler struct {
	medicineService *service.MedicineService
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(medicineService *service.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

type medicineRequest struct {
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Quantity     int        `json:"quantity"`
	Unit         string     `json:"unit"`
	Category     string     `json:"category"`
	Location     string     `json:"location"`
	ExpiryDate   time.Time  `json:"expiryDate"`
	PurchaseDate *time.Time `json:"purchaseDate"`
}

func (req medicineRequest) toInput() service.MedicineInput {
	in := service.MedicineInput{
		Name:        req.Name,
		Description: req.Description,
		Quantity:    req.Quantity,
		Unit:        req.Unit,
		Category:    req.Category,
		Location:    req.Location,
		ExpiryDate:  req.ExpiryDate,
	}
	if req.PurchaseDate != nil {
		in.PurchaseDate = *req.PurchaseDate
	} else {
		in.PurchaseDate = time.Now()
	}
	return in
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, validation.ValidationError{Field: "id", Message: "invalid id"}
	}
	return id, nil
}

// ListMedicines handles GET /api/medicines. An optional ?q= filters by name
// or category.
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	medicines, err := h.medicineService.SearchMedicines(user.ID, r.URL.Query().Get("q"))
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newMedicineViews(medicines))
}

// ListExpiring handles GET /api/medicines/expiring?days=30
func (h *MedicineHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondWithError(w, validation.ValidationError{Field: "days", Message: "days must be a positive integer"})
			return
		}
		days = parsed
	}

	medicines, err := h.medicineService.ListExpiring(user.ID, time.Duration(days)*24*time.Hour)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newMedicineViews(medicines))
}

// GetMedicine handles GET /api/medicines/{id}
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	medicine, err := h.medicineService.GetMedicine(user.ID, id)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newMedicineView(medicine))
}

// AddMedicine handles POST /api/medicines
func (h *MedicineHandler) AddMedicine(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	medicine, err := h.medicineService.AddMedicine(user.ID, req.toInput())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newMedicineView(medicine))
}

// UpdateMedicine handles PUT /api/medicines/{id}
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req medicineRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	medicine, err := h.medicineService.UpdateMedicine(user.ID, id, req.toInput())
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newMedicineView(medicine))
}

// SetStock handles PUT /api/medicines/{id}/stock
func (h *MedicineHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req struct {
		OutOfStock bool `json:"outOfStock"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	medicine, err := h.medicineService.SetOutOfStock(user.ID, id, req.OutOfStock)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newMedicineView(medicine))
}

// DeleteMedicine handles DELETE /api/medicines/{id}
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.medicineService.DeleteMedicine(user.ID, id); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
