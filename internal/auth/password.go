package auth

import (
	"crypto/subtle"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/employee-service/internal/domain"
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// AdminAuthenticator checks the single configured administrator account.
type AdminAuthenticator struct {
	email        string
	passwordHash string
}

// NewAdminAuthenticator builds an authenticator for email and a bcrypt hash.
func NewAdminAuthenticator(email, passwordHash string) *AdminAuthenticator {
	return &AdminAuthenticator{email: strings.ToLower(strings.TrimSpace(email)), passwordHash: passwordHash}
}

// Authenticate returns the role granted to valid credentials.
func (a *AdminAuthenticator) Authenticate(email, password string) (domain.Role, bool) {
	if a.passwordHash == "" {
		return "", false
	}
	candidate := strings.ToLower(strings.TrimSpace(email))
	emailOK := subtle.ConstantTimeCompare([]byte(candidate), []byte(a.email)) == 1
	// always run bcrypt so a wrong email costs the same as a wrong password
	passOK := ComparePassword(a.passwordHash, password) == nil
	if !emailOK || !passOK {
		return "", false
	}
	return domain.RoleAdmin, true
}
