// Package domain contains the core business entities and interfaces.
package domain

import (
	"context"
	"time"
)

// Identity is a registered credential record. PasswordHash is empty for
// identities provisioned through single sign-on.
type Identity struct {
	ID           int64
	Aadharid     string
	PasswordHash string
	CreatedAt    time.Time
}

// IdentityRepository defines the port for credential persistence.
type IdentityRepository interface {
	// GetByAadharid returns nil, nil when no identity matches.
	GetByAadharid(ctx context.Context, aadharid string) (*Identity, error)
	Create(ctx context.Context, aadharid, passwordHash string) (*Identity, error)
}

// TokenClaims is what a session token binds.
type TokenClaims struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenIssuer mints and verifies stateless session tokens.
type TokenIssuer interface {
	Issue(userID int64) (string, error)
	Verify(token string) (TokenClaims, error)
}
