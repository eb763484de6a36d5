// Package auth isolates credential verification behind a small interface so
// the storage scheme can be hardened without touching login or the note
// lifecycle.
package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrMismatch = errors.New("invalid credentials")

// PasswordVerifier checks a stored credential against a login attempt.
type PasswordVerifier interface {
	Verify(stored, candidate string) error
}

// PlaintextVerifier compares passwords as-is, matching how the user records
// are provisioned today.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, candidate string) error {
	if stored != candidate {
		return ErrMismatch
	}
	return nil
}

// BcryptVerifier expects stored values to be bcrypt hashes. Drop-in
// replacement once the user records are re-provisioned with hashes.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(stored, candidate string) error {
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) != nil {
		return ErrMismatch
	}
	return nil
}
