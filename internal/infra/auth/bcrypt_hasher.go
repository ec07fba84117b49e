// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/sha256"
	"encoding/base64"

	"accounts/config"
	"accounts/internal/domain/service"
	"accounts/internal/errors"

	"golang.org/x/crypto/bcrypt"
)

// bcryptMaxPasswordBytes is the input limit of bcrypt; longer inputs are rejected by the library.
const bcryptMaxPasswordBytes = 72

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost int
}

// NewBcryptHasher builds the hasher with the configured cost, falling back to bcrypt.DefaultCost.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg != nil && cfg.Auth != nil && cfg.Auth.BcryptCost != 0 {
		cost = cfg.Auth.BcryptCost
	}

	return NewBcryptHasherWithCost(cost)
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost clamped to bcrypt's range.
func NewBcryptHasherWithCost(cost int) service.PasswordHasher {
	cost = min(max(cost, bcrypt.MinCost), bcrypt.MaxCost)

	return &bcryptHasher{cost: cost}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
// bcrypt automatically handles salt generation.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword(prepare(password), h.cost)
	if err != nil {
		return "", errors.Wrap(err, "bcrypt hash failed")
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	if password == "" || hash == "" {
		return false
	}

	// err is nil only if the password and hash match.
	return bcrypt.CompareHashAndPassword([]byte(hash), prepare(password)) == nil
}

// prepare maps passwords beyond bcrypt's input limit to a fixed-size digest so
// every input can be hashed and no long password is silently truncated.
func prepare(password string) []byte {
	if len(password) <= bcryptMaxPasswordBytes {
		return []byte(password)
	}

	sum := sha256.Sum256([]byte(password))
	encoded := make([]byte, base64.StdEncoding.EncodedLen(len(sum)))
	base64.StdEncoding.Encode(encoded, sum[:])

	return encoded
}
