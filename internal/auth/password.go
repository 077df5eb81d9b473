package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret bcrypt-hashes the configured admin secret. Costs outside
// bcrypt's range fall back to bcrypt.DefaultCost.
func HashSecret(secret string, cost int) (string, error) {
	if secret == "" {
		return "", errors.New("admin secret is empty")
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// SecretMatches reports whether candidate is the secret behind hash.
func SecretMatches(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
