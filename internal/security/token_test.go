package security

import (
	"errors"
	"testing"
	"time"
)

func TestNewTokenIssuer(t *testing.T) {
	if _, err := NewTokenIssuer("", time.Hour); err == nil {
		t.Error("NewTokenIssuer with empty secret should fail")
	}
	if _, err := NewTokenIssuer("secret", time.Hour); err != nil {
		t.Errorf("NewTokenIssuer error: %v", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	userID, err := issuer.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error: %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Validate() = %q, want user-123", userID)
	}
}

func TestTokenExpired(t *testing.T) {
	issuer, err := NewTokenIssuer("test-secret", -time.Minute)
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := issuer.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate() error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer, _ := NewTokenIssuer("secret-one", time.Hour)
	other, _ := NewTokenIssuer("secret-two", time.Hour)

	token, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	if _, err := other.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	issuer, _ := NewTokenIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("Validate(%q) error = %v, want ErrInvalidToken", token, err)
		}
	}
}
