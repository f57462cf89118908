package auth

import (
	"errors"

	"github.com/you/aarogyam/domain"
	"golang.org/x/crypto/bcrypt"
)

// PasswordServiceImpl implements domain.PasswordService
type PasswordServiceImpl struct {
	cost int
}

// NewPasswordService creates a bcrypt password service. Out-of-range costs
// fall back to bcrypt.DefaultCost.
func NewPasswordService(cost int) domain.PasswordService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordServiceImpl{cost: cost}
}

// Hash implements domain.PasswordService. Passwords over bcrypt's 72-byte
// limit are a validation error.
func (p *PasswordServiceImpl) Hash(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.Invalid("Password must be at most 72 bytes")
	}
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// Verify implements domain.PasswordService. Malformed hashes verify false.
func (p *PasswordServiceImpl) Verify(hashedPassword, password string) bool {
	if hashedPassword == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}
