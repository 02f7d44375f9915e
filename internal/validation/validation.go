package validation

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

var familyCodeRegex = regexp.MustCompile(`^[A-Z0-9]{6}$`)

// MinFamilyPasswordLength is the shortest password a family may be
// protected with. The UI enforces this too; the service layer re-checks it
// as a safety net.
const MinFamilyPasswordLength = 6

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateEmail checks if an email address is valid
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return ValidationError{Field: "email", Message: "email is required"}
	}
	if !emailRegex.MatchString(email) {
		return ValidationError{Field: "email", Message: "invalid email format"}
	}
	return nil
}

// ValidatePassword checks if an account password meets requirements
func ValidatePassword(password string) error {
	if password == "" {
		return ValidationError{Field: "password", Message: "password is required"}
	}
	if len(password) < 8 {
		return ValidationError{Field: "password", Message: "password must be at least 8 characters"}
	}
	return nil
}

// ValidateDisplayName checks if a display name is valid
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ValidationError{Field: "displayName", Message: "name is required"}
	}
	if len(name) < 2 {
		return ValidationError{Field: "displayName", Message: "name must be at least 2 characters"}
	}
	return nil
}

// ValidateFamilyName checks if a family name is valid
func ValidateFamilyName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ValidationError{Field: "name", Message: "family name is required"}
	}
	return nil
}

// ValidateFamilyCode checks that a join code has the expected shape:
// exactly 6 characters from [A-Z0-9]. Callers normalize to upper case first.
func ValidateFamilyCode(code string) error {
	if code == "" {
		return ValidationError{Field: "familyCode", Message: "family code is required"}
	}
	if !familyCodeRegex.MatchString(code) {
		return ValidationError{Field: "familyCode", Message: "family code must be 6 letters or digits"}
	}
	return nil
}
