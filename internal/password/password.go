package password

import (
	"fmt"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// Hash hashes a plaintext password with bcrypt.
func Hash(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Verify reports whether plain matches the stored bcrypt hash.
func Verify(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// Policy is the configurable password strength policy applied at
// registration.
type Policy struct {
	MinLength int
}

// Validate returns the list of policy violations, empty when the
// password is acceptable.
func (p Policy) Validate(plain string) []string {
	var errs []string

	minLength := p.MinLength
	if minLength <= 0 {
		minLength = 8
	}

	if len(plain) < minLength {
		errs = append(errs, fmt.Sprintf("This password is too short. It must contain at least %d characters.", minLength))
	}

	if plain != "" && isEntirelyNumeric(plain) {
		errs = append(errs, "This password is entirely numeric.")
	}

	return errs
}

func isEntirelyNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
