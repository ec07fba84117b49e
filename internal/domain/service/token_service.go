package service

import (
	"github.com/golang-jwt/jwt/v5"
)

// BearerScheme prefixes tokens handed to clients and is stripped before verification.
const BearerScheme = "Bearer "

// Claims defines the custom claims for session tokens.
// The subject is the account's username.
type Claims struct {
	UserID int    `json:"userID"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}

// TokenService issues and verifies signed session tokens.
type TokenService interface {
	// IssueToken signs a token for the given identity. The result carries no scheme prefix.
	IssueToken(username string, userID int, role string) (string, error)

	// ValidateToken verifies a presented token, with or without the "Bearer " prefix.
	// On any failure no claims are returned.
	ValidateToken(tokenString string) (*Claims, error)
}
