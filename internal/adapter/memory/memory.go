// Package memory implements an in-memory repository for development and testing.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"claimportal/internal/domain"
)

var (
	// ErrDuplicateAadharid mirrors the unique constraint on users.Aadharid.
	ErrDuplicateAadharid = errors.New("duplicate entry for key 'Aadharid'")
	// ErrUnknownUser mirrors the foreign key from claims.user_id to users.id.
	ErrUnknownUser = errors.New("foreign key constraint fails: unknown user_id")
)

// DB implements an in-memory database storage.
type DB struct {
	mu         sync.Mutex
	identities []*domain.Identity
	claims     []domain.Claim

	identityIDCounter int64
	claimIDCounter    int64
}

// New creates a new in-memory database.
func New() *DB {
	return &DB{}
}

// Ensure interfaces are met.
var _ domain.IdentityRepository = (*DB)(nil)
var _ domain.ClaimRepository = (*DB)(nil)

// --- IdentityRepository ---

// GetByAadharid retrieves an identity by its external identifier.
func (db *DB) GetByAadharid(ctx context.Context, aadharid string) (*domain.Identity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.identities {
		if u.Aadharid == aadharid {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

// Create creates a new identity.
func (db *DB) Create(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, u := range db.identities {
		if u.Aadharid == aadharid {
			return nil, ErrDuplicateAadharid
		}
	}

	db.identityIDCounter++
	u := &domain.Identity{
		ID:           db.identityIDCounter,
		Aadharid:     aadharid,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	db.identities = append(db.identities, u)
	cp := *u
	return &cp, nil
}

// --- ClaimRepository ---

// AddClaim stores a claim for an existing identity.
func (db *DB) AddClaim(ctx context.Context, c domain.Claim) (int64, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if !db.hasIdentity(c.UserID) {
		return 0, fmt.Errorf("%w %d", ErrUnknownUser, c.UserID)
	}

	db.claimIDCounter++
	c.ID = db.claimIDCounter
	c.CreatedAt = time.Now().UTC()
	db.claims = append(db.claims, c)
	return c.ID, nil
}

// ListClaimsByUser returns the user's claims in insertion order.
func (db *DB) ListClaimsByUser(ctx context.Context, userID int64) ([]domain.Claim, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	var out []domain.Claim
	for _, c := range db.claims {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (db *DB) hasIdentity(id int64) bool {
	for _, u := range db.identities {
		if u.ID == id {
			return true
		}
	}
	return false
}
