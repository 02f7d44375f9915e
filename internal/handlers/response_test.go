package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/41vi4p/MediStock/internal/familycode"
	"github.com/41vi4p/MediStock/internal/security"
	"github.com/41vi4p/MediStock/internal/service"
	"github.com/41vi4p/MediStock/internal/validation"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantType   string
	}{
		{validation.ValidationError{Field: "name", Message: "required"}, http.StatusBadRequest, "validation_error"},
		{service.ErrNotAuthenticated, http.StatusUnauthorized, "not_authenticated"},
		{service.ErrInvalidCredentials, http.StatusUnauthorized, "not_authenticated"},
		{service.ErrSessionExpired, http.StatusUnauthorized, "not_authenticated"},
		{security.ErrInvalidToken, http.StatusUnauthorized, "not_authenticated"},
		{service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{service.ErrCannotRemoveFounder, http.StatusForbidden, "cannot_remove_founder"},
		{service.ErrFounderCannotLeave, http.StatusForbidden, "founder_cannot_leave"},
		{service.ErrPasswordRequired, http.StatusForbidden, "password_required"},
		{service.ErrInvalidPassword, http.StatusForbidden, "invalid_password"},
		{service.ErrFamilyNotFound, http.StatusNotFound, "family_not_found"},
		{service.ErrMemberNotFound, http.StatusNotFound, "member_not_found"},
		{service.ErrMedicineNotFound, http.StatusNotFound, "medicine_not_found"},
		{service.ErrShoppingItemNotFound, http.StatusNotFound, "shopping_item_not_found"},
		{service.ErrNotInFamily, http.StatusNotFound, "not_in_family"},
		{service.ErrAlreadyMember, http.StatusConflict, "already_member"},
		{service.ErrEmailTaken, http.StatusConflict, "email_taken"},
		{service.ErrInvitationPending, http.StatusConflict, "invitation_pending"},
		{service.ErrPasswordTooShort, http.StatusBadRequest, "password_too_short"},
		{familycode.ErrCodeSpaceExhausted, http.StatusServiceUnavailable, "code_space_exhausted"},
		{errors.New("pq: connection refused"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.wantType+"/"+tt.err.Error(), func(t *testing.T) {
			status, errorType := errorStatus(tt.err)
			if status != tt.wantStatus || errorType != tt.wantType {
				t.Errorf("errorStatus(%v) = %d %q, want %d %q", tt.err, status, errorType, tt.wantStatus, tt.wantType)
			}
		})
	}
}

func TestErrorStatusUnwrapsWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("join family: %w", service.ErrAlreadyMember)
	status, errorType := errorStatus(wrapped)
	if status != http.StatusConflict || errorType != "already_member" {
		t.Errorf("errorStatus(wrapped) = %d %q, want 409 already_member", status, errorType)
	}
}

func TestRespondWithErrorSanitizesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, errors.New("dial tcp 10.0.0.5:5432: connection refused"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Error != "internal_error" {
		t.Errorf("error type = %q, want internal_error", body.Error)
	}
	if strings.Contains(body.Message, "10.0.0.5") {
		t.Errorf("internal details leaked into response: %q", body.Message)
	}
}

func TestRespondWithErrorKeepsClientMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	respondWithError(rec, service.ErrFamilyNotFound)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	var body ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Message == "" {
		t.Error("expected the sentinel message to be passed through")
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	good := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"Aspirin"}`))
	if err := decodeJSON(good, &dst); err != nil {
		t.Fatalf("decodeJSON: %v", err)
	}
	if dst.Name != "Aspirin" {
		t.Errorf("name = %q, want Aspirin", dst.Name)
	}

	bad := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":`))
	var vErr validation.ValidationError
	if err := decodeJSON(bad, &dst); !errors.As(err, &vErr) {
		t.Errorf("decodeJSON on bad body = %v, want ValidationError", err)
	}
}
