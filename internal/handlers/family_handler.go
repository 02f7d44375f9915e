package handlers

import (
	"net/http"

	"github.com/41vi4p/MediStock/internal/service"
)

// FamilyHandler handles family membership endpoints
type FamilyHandler struct {
	familyService *service.FamilyService
}

// NewFamilyHandler creates a new family handler
func NewFamilyHandler(familyService *service.FamilyService) *FamilyHandler {
	return &FamilyHandler{familyService: familyService}
}

// GetFamily handles GET /api/family. Responds with null when the caller is
// not in a family.
func (h *FamilyHandler) GetFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	family, err := h.familyService.GetFamily(user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	if family == nil {
		respondWithJSON(w, http.StatusOK, nil)
		return
	}
	respondWithJSON(w, http.StatusOK, newFamilyView(family))
}

// CreateFamily handles POST /api/family
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Password    string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	family, err := h.familyService.CreateFamily(user.ID, req.Name, req.Description, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newFamilyView(family))
}

// JoinFamily handles POST /api/family/join
func (h *FamilyHandler) JoinFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		FamilyCode string `json:"familyCode"`
		Password   string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	family, err := h.familyService.JoinFamilyWithCode(user.ID, req.FamilyCode, req.Password)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, newFamilyView(family))
}

// LeaveFamily handles POST /api/family/leave
func (h *FamilyHandler) LeaveFamily(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.familyService.LeaveFamily(user.ID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RemoveMember handles DELETE /api/family/members/{userId}
func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	targetUserID := r.PathValue("userId")

	if err := h.familyService.RemoveMember(user.ID, targetUserID); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RegenerateCode handles POST /api/family/code/regenerate
func (h *FamilyHandler) RegenerateCode(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	code, err := h.familyService.RegenerateFamilyCode(user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"familyCode": code})
}

// ChangePassword handles PUT /api/family/password. An empty password removes
// the join password.
func (h *FamilyHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	if err := h.familyService.ChangeFamilyPassword(user.ID, req.Password); err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// InviteMember handles POST /api/family/invitations
func (h *FamilyHandler) InviteMember(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, err)
		return
	}

	invitation, err := h.familyService.InviteMember(user.ID, req.Email)
	if err != nil {
		respondWithError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, newInvitationView(invitation))
}

// ListInvitations handles GET /api/family/invitations
func (h *FamilyHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	invitations, err := h.familyService.ListInvitations(user.ID)
	if err != nil {
		respondWithError(w, err)
		return
	}

	views := make([]InvitationView, 0, len(invitations))
	for i := range invitations {
		views = append(views, newInvitationView(&invitations[i]))
	}
	respondWithJSON(w, http.StatusOK, views)
}
