package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrPasswordMismatch reports a password that does not match its hash.
var ErrPasswordMismatch = errors.New("password does not match")

// ValidateCost accepts zero, meaning bcrypt.DefaultCost, or a cost in bcrypt's range.
func ValidateCost(cost int) error {
	if cost == 0 || (cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost) {
		return nil
	}
	return fmt.Errorf("bcrypt cost %d outside [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
}

// HashPassword hashes a plaintext password at the given cost. bcrypt would
// silently raise a too-low cost, so out-of-range values are rejected here.
func HashPassword(password string, cost int) (string, error) {
	if err := ValidateCost(cost); err != nil {
		return "", err
	}
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies plain against hashed. A wrong password yields
// ErrPasswordMismatch; a malformed hash yields bcrypt's own error.
func ComparePassword(hashed, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
