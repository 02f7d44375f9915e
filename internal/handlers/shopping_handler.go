package handlers

import (
	"net/http"

	"github.com/41vi4p/MediStock/internal/service"
)

// ShoppingHandler handles shopping list endpoints
type ShoppingHandler struct {
	shoppingService *service.ShoppingService
}

// NewShoppingHandler creates a new shopping handler
func NewShoppingHandler(shoppingService *service.ShoppingService) *ShoppingHandler {
	return &ShoppingHandler{shoppingService: shoppingService}
}

// ListItems handles GET /api/shopping. ?all=true includes completed items.
func (h *ShoppingHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	includeCompleted := r.URL.Query().Get("all") == "true"
	items, err := h.shoppingService.ListItems(user.ID, includeCompleted)
	if err != nil {
		respondWithError(w, err)
		return
	}

	views := make([]ShoppingItemView, 0, len(items))
	for i := range items {
		views = append(views, newShoppingItemView(&items[i]))
	}
	respondWithJSON(w, http.StatusOK, views)
}

// AddItem handles POST /api/shopping
func (h *ShoppingHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Priority    string `json:"priority"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	item, err := h.shoppingService.AddItem(user.ID, req.Name, req.Description, req.Category, req.Priority)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newShoppingItemView(item))
}

// SetCompleted handles PUT /api/shopping/{id}/completed
func (h *ShoppingHandler) SetCompleted(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	var req struct {
		Completed bool `json:"completed"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	item, err := h.shoppingService.SetCompleted(user.ID, id, req.Completed)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newShoppingItemView(item))
}

// DeleteItem handles DELETE /api/shopping/{id}
func (h *ShoppingHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.shoppingService.DeleteItem(user.ID, id); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
