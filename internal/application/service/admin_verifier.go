package service

import (
	"fmt"

	"github.com/sangkips/kasir-api/pkg/utils"
)

// AdminVerifier checks the admin password that unlocks privileged actions
// at the till.
type AdminVerifier interface {
	Verify(password string) bool
}

type bcryptAdminVerifier struct {
	hash string
}

// NewAdminVerifier hashes secret once so it is never compared in plain text.
// An empty secret yields a verifier that rejects everything.
func NewAdminVerifier(secret string) (AdminVerifier, error) {
	if secret == "" {
		return denyAllVerifier{}, nil
	}
	hash, err := utils.HashPassword(secret)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &bcryptAdminVerifier{hash: hash}, nil
}

func (v *bcryptAdminVerifier) Verify(password string) bool {
	return password != "" && utils.CheckPasswordHash(password, v.hash)
}

type denyAllVerifier struct{}

func (denyAllVerifier) Verify(string) bool { return false }
