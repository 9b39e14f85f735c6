package app

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"unicode/utf8"
)

const (
	pinSalt      = "better-together-salt"
	minPinLength = 4
	maxPinLength = 20
)

var (
	// ErrEmptyPin indicates that no PIN was entered.
	ErrEmptyPin = errors.New("PIN cannot be empty")
	// ErrPinTooShort indicates a PIN below the minimum length.
	ErrPinTooShort = errors.New("PIN must be at least 4 characters")
	// ErrPinTooLong indicates a PIN above the maximum length.
	ErrPinTooLong = errors.New("PIN cannot be longer than 20 characters")
)

// HashPin returns the lowercase hex SHA-256 digest of the PIN followed by the
// application salt. Only this digest is ever persisted.
func HashPin(pin string) string {
	sum := sha256.Sum256([]byte(pin + pinSalt))
	return hex.EncodeToString(sum[:])
}

// VerifyPin reports whether pin hashes to storedHash.
func VerifyPin(pin, storedHash string) bool {
	return ConstantTimeCompare(HashPin(pin), storedHash)
}

// ValidatePin checks the PIN format. Length is counted in characters.
func ValidatePin(pin string) error {
	n := utf8.RuneCountInString(pin)
	switch {
	case n == 0:
		return ErrEmptyPin
	case n < minPinLength:
		return ErrPinTooShort
	case n > maxPinLength:
		return ErrPinTooLong
	}
	return nil
}

// ConstantTimeCompare performs a constant-time comparison of two strings.
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
