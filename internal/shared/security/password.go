package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies user passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

type BcryptHasher struct {
	cost int
}

// NewBcryptHasher uses saltRounds as the bcrypt cost, out of range values fall
// back to bcrypt.DefaultCost.
func NewBcryptHasher(saltRounds int) *BcryptHasher {
	if saltRounds < bcrypt.MinCost || saltRounds > bcrypt.MaxCost {
		saltRounds = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: saltRounds}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
