package auth

import (
	"fmt"
	"unicode"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the cost the original deployment used.
const DefaultBcryptCost = 10

// HashPassword returns a salted one-way hash of the plaintext password.
// Hashing failures (invalid cost, resource exhaustion) are fatal for the
// caller; a weak hash is never returned silently.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether plaintext re-hashes to the stored digest
// under the embedded salt and cost.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the registration password policy: non-empty,
// letters and digits only, with at least one of each.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}

	var hasLetter, hasDigit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			return fmt.Errorf("%w: password must contain only letters and digits", common.ErrorValidation)
		}
	}
	if !hasLetter || !hasDigit {
		return fmt.Errorf("%w: password must mix letters and digits", common.ErrorValidation)
	}

	return nil
}
