// Package password implements salted one-way hashing of user passwords.
//
// Hash produces a bcrypt hash with a configurable cost factor; the salt is
// regenerated on every call. CompareHash verifies a candidate password
// against a stored hash.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hash returns the bcrypt hash of password with the given cost factor.
// A cost outside bcrypt's supported range falls back to the default cost.
func Hash(password string, cost int) (string, error) {
	const op = "password.Hash"
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashed), nil
}

// CompareHash verifies password against a stored bcrypt hash.
// Returns nil on match, an error otherwise.
func CompareHash(originalHash, password string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
