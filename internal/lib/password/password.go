// Package password wraps bcrypt for credential hashing.
package password

import (
	"errors"
	"filevault/internal/models"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

// maxInputLen is the number of password bytes bcrypt consumes.
const maxInputLen = 72

type Hasher struct {
	cost int
}

func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}

	return &Hasher{cost: cost}
}

func (h *Hasher) Hash(plain string) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword(input(plain), h.cost)
	if err != nil {
		return nil, fmt.Errorf("password/Hash: %w", err)
	}

	return hash, nil
}

// Compare reports whether plain matches hash. Only a malformed hash is an error.
func (h *Hasher) Compare(plain string, hash []byte) (bool, error) {
	err := bcrypt.CompareHashAndPassword(hash, input(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", models.ErrHashFormat, err)
	}
}

// input keeps the first maxInputLen bytes, so longer passwords hash and compare
// on the same prefix instead of failing.
func input(plain string) []byte {
	b := []byte(plain)
	if len(b) > maxInputLen {
		b = b[:maxInputLen]
	}

	return b
}
