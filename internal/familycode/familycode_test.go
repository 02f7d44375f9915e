package familycode

import (
	"errors"
	"testing"
)

func TestGenerate(t *testing.T) {
	seen := make(map[string]bool)

	for i := 0; i < 100; i++ {
		code, err := Generate()
		if err != nil {
			t.Fatalf("Generate() error: %v", err)
		}
		if len(code) != Length {
			t.Errorf("Generate() = %q, want %d characters", code, Length)
		}
		for _, r := range code {
			if !(r >= 'A' && r <= 'Z') && !(r >= '0' && r <= '9') {
				t.Errorf("Generate() = %q, contains invalid character %q", code, r)
			}
		}
		seen[code] = true
	}

	// 100 draws from a 36^6 space colliding down to a handful would mean
	// the generator is broken
	if len(seen) < 90 {
		t.Errorf("Generated only %d distinct codes out of 100", len(seen))
	}
}

func TestGenerateUnique(t *testing.T) {
	t.Run("first try free", func(t *testing.T) {
		calls := 0
		code, err := GenerateUnique(func(string) (bool, error) {
			calls++
			return false, nil
		})
		if err != nil {
			t.Fatalf("GenerateUnique() error: %v", err)
		}
		if len(code) != Length {
			t.Errorf("GenerateUnique() = %q, want %d characters", code, Length)
		}
		if calls != 1 {
			t.Errorf("exists called %d times, want 1", calls)
		}
	})

	t.Run("retries on collision", func(t *testing.T) {
		calls := 0
		code, err := GenerateUnique(func(string) (bool, error) {
			calls++
			return calls < 5, nil
		})
		if err != nil {
			t.Fatalf("GenerateUnique() error: %v", err)
		}
		if code == "" {
			t.Error("GenerateUnique() returned empty code")
		}
		if calls != 5 {
			t.Errorf("exists called %d times, want 5", calls)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		calls := 0
		_, err := GenerateUnique(func(string) (bool, error) {
			calls++
			return true, nil
		})
		if !errors.Is(err, ErrCodeSpaceExhausted) {
			t.Errorf("GenerateUnique() error = %v, want ErrCodeSpaceExhausted", err)
		}
		if calls != MaxAttempts {
			t.Errorf("exists called %d times, want %d", calls, MaxAttempts)
		}
	})

	t.Run("store error propagates", func(t *testing.T) {
		storeErr := errors.New("store down")
		_, err := GenerateUnique(func(string) (bool, error) {
			return false, storeErr
		})
		if !errors.Is(err, storeErr) {
			t.Errorf("GenerateUnique() error = %v, want %v", err, storeErr)
		}
	})
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"abc123", "ABC123"},
		{" ABC123 ", "ABC123"},
		{"AbC123", "ABC123"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
