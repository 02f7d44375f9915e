// Package familycode generates the short shareable codes users exchange to
// join a family.
package familycode

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

// Length is the number of characters in a family code
const Length = 6

// charset is the code alphabet: upper-case letters and digits, 36 symbols,
// about 31 bits of entropy per code
const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// MaxAttempts caps the generate-and-check retry loop. With 36^6 possible
// codes a collision streak this long means the namespace is effectively
// saturated (or the store is misbehaving).
const MaxAttempts = 20

// ErrCodeSpaceExhausted is returned when no unused code could be found
// within MaxAttempts tries
var ErrCodeSpaceExhausted = errors.New("family code space exhausted")

// Generate produces a random candidate code. Uniqueness is advisory only:
// the caller must check the code against the store and retry on collision.
func Generate() (string, error) {
	code := make([]byte, Length)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[n.Int64()]
	}
	return string(code), nil
}

// GenerateUnique retries Generate until exists reports the code as unused,
// up to MaxAttempts tries
func GenerateUnique(exists func(code string) (bool, error)) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code, err := Generate()
		if err != nil {
			return "", err
		}
		taken, err := exists(code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

// Normalize upper-cases and trims a user-supplied code
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
