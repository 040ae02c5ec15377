// Package authutil holds password rules and bcrypt hashing for identity
// accounts.
package authutil

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 6
	// MaxPasswordLength is bcrypt's input limit in bytes.
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = errors.New("la contraseña debe tener al menos 6 caracteres")
	ErrPasswordTooLong  = errors.New("la contraseña admite como máximo 72 bytes")
	ErrPasswordCommon   = errors.New("la contraseña es demasiado común")
)

var commonPasswords = map[string]bool{
	"123456":     true,
	"1234567":    true,
	"12345678":   true,
	"123456789":  true,
	"password":   true,
	"qwerty":     true,
	"abc123":     true,
	"iloveyou":   true,
	"letmein":    true,
	"football":   true,
	"welcome":    true,
	"monkey":     true,
	"111111":     true,
	"contraseña": true,
	"teamo":      true,
}

// ValidatePassword checks length and rejects well-known passwords.
func ValidatePassword(pw string) error {
	if len([]rune(pw)) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(pw) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	if commonPasswords[strings.ToLower(pw)] {
		return ErrPasswordCommon
	}
	return nil
}

// PasswordRules describes ValidatePassword for display.
func PasswordRules() string {
	return "Mínimo 6 caracteres. Evita contraseñas comunes."
}

// HashPassword returns a bcrypt hash of pw.
func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(pw, hash string) bool {
	if pw == "" || hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}
