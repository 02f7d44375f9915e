package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid email", "user@example.com", false},
		{"valid with subdomain", "user@mail.example.co.uk", false},
		{"valid with plus", "user+tag@example.com", false},
		{"empty", "", true},
		{"missing at", "userexample.com", true},
		{"missing domain", "user@", true},
		{"missing local part", "@example.com", true},
		{"spaces", "user name@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "password123", false},
		{"exactly 8 chars", "12345678", false},
		{"empty", "", true},
		{"too short", "1234567", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name        string
		displayName string
		wantErr     bool
	}{
		{"valid", "Alice", false},
		{"two characters", "Al", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"one character", "A", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.displayName)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDisplayName(%q) error = %v, wantErr %v", tt.displayName, err, tt.wantErr)
			}
		})
	}
}

func TestValidateFamilyName(t *testing.T) {
	if err := ValidateFamilyName("The Smiths"); err != nil {
		t.Errorf("ValidateFamilyName(valid) error = %v", err)
	}
	if err := ValidateFamilyName(""); err == nil {
		t.Error("ValidateFamilyName(empty) expected error")
	}
	if err := ValidateFamilyName("   "); err == nil {
		t.Error("ValidateFamilyName(whitespace) expected error")
	}
}

func TestValidateFamilyCode(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
	}{
		{"valid letters", "ABCDEF", false},
		{"valid digits", "123456", false},
		{"valid mixed", "A1B2C3", false},
		{"empty", "", true},
		{"too short", "ABC12", true},
		{"too long", "ABC1234", true},
		{"lower case", "abc123", true},
		{"special characters", "ABC-12", true},
		{"spaces", "ABC 12", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFamilyCode(tt.code)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFamilyCode(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := ValidateFamilyCode("bad")

	var validationErr ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if validationErr.Field != "familyCode" {
		t.Errorf("Field = %q, want familyCode", validationErr.Field)
	}
	if !strings.Contains(err.Error(), "familyCode") {
		t.Errorf("Error() = %q, should mention the field", err.Error())
	}
}
