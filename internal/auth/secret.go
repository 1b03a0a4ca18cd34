package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// HashSecret hashes the admin secret with the given bcrypt cost.
func HashSecret(secret string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// secretVerifier checks a presented token. Implementations must not leak timing.
type secretVerifier interface {
	Verify(token string) bool
}

type plainSecret []byte

func (s plainSecret) Verify(token string) bool {
	return subtle.ConstantTimeCompare(s, []byte(token)) == 1
}

type hashedSecret []byte

func (h hashedSecret) Verify(token string) bool {
	return bcrypt.CompareHashAndPassword(h, []byte(token)) == nil
}

type rejectAll struct{}

func (rejectAll) Verify(string) bool { return false }
