package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/41vi4p/MediStock/internal/familycode"
	"github.com/41vi4p/MediStock/internal/security"
	"github.com/41vi4p/MediStock/internal/service"
	"github.com/41vi4p/MediStock/internal/validation"
)

// ErrorResponse is the error shape returned by all API endpoints
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondWithJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode JSON response: %v", err)
	}
}

// errorStatus maps a service error to an HTTP status and a machine-readable
// error type
func errorStatus(err error) (int, string) {
	var validationErr validation.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, "validation_error"
	}

	switch {
	case errors.Is(err, service.ErrNotAuthenticated),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSessionExpired),
		errors.Is(err, security.ErrInvalidToken),
		errors.Is(err, security.ErrTokenExpired):
		return http.StatusUnauthorized, "not_authenticated"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, service.ErrCannotRemoveFounder):
		return http.StatusForbidden, "cannot_remove_founder"
	case errors.Is(err, service.ErrFounderCannotLeave):
		return http.StatusForbidden, "founder_cannot_leave"
	case errors.Is(err, service.ErrFamilyNotFound):
		return http.StatusNotFound, "family_not_found"
	case errors.Is(err, service.ErrMemberNotFound):
		return http.StatusNotFound, "member_not_found"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "user_not_found"
	case errors.Is(err, service.ErrMedicineNotFound):
		return http.StatusNotFound, "medicine_not_found"
	case errors.Is(err, service.ErrShoppingItemNotFound):
		return http.StatusNotFound, "shopping_item_not_found"
	case errors.Is(err, service.ErrNotInFamily):
		return http.StatusNotFound, "not_in_family"
	case errors.Is(err, service.ErrAlreadyMember):
		return http.StatusConflict, "already_member"
	case errors.Is(err, service.ErrEmailTaken):
		return http.StatusConflict, "email_taken"
	case errors.Is(err, service.ErrInvitationPending):
		return http.StatusConflict, "invitation_pending"
	case errors.Is(err, service.ErrPasswordRequired):
		return http.StatusForbidden, "password_required"
	case errors.Is(err, service.ErrInvalidPassword):
		return http.StatusForbidden, "invalid_password"
	case errors.Is(err, service.ErrPasswordTooShort):
		return http.StatusBadRequest, "password_too_short"
	case errors.Is(err, familycode.ErrCodeSpaceExhausted):
		return http.StatusServiceUnavailable, "code_space_exhausted"
	}
	return http.StatusInternalServerError, "internal_error"
}

func respondWithError(w http.ResponseWriter, err error) {
	status, errorType := errorStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		// Raw internal errors may leak queries or file paths
		log.Printf("internal error: %v", err)
		message = "an internal error occurred"
	}
	respondWithJSON(w, status, ErrorResponse{Error: errorType, Message: message})
}

// decodeJSON parses a JSON request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dst); err != nil {
		return validation.ValidationError{Field: "body", Message: "invalid JSON body"}
	}
	return nil
}
