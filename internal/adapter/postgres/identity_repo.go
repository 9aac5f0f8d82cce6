package postgres

import (
	"context"
	"database/sql"
	"errors"

	"claimportal/internal/domain"
)

var _ domain.IdentityRepository = (*DB)(nil)

// GetByAadharid retrieves an identity by its external identifier.
func (d *DB) GetByAadharid(ctx context.Context, aadharid string) (*domain.Identity, error) {
	s := d.handle()
	var (
		u    domain.Identity
		hash sql.NullString
	)
	err := s.QueryRowContext(ctx,
		"SELECT id, aadharid, password, created_at FROM users WHERE aadharid = $1",
		aadharid,
	).Scan(&u.ID, &u.Aadharid, &hash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, d.observe(s, err)
	}
	u.PasswordHash = hash.String
	return &u, nil
}

// Create creates a new identity. An empty passwordHash is stored as NULL.
func (d *DB) Create(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
	s := d.handle()
	u := domain.Identity{Aadharid: aadharid, PasswordHash: passwordHash}
	err := s.QueryRowContext(ctx,
		"INSERT INTO users (aadharid, password) VALUES ($1, $2) RETURNING id, created_at",
		aadharid, sql.NullString{String: passwordHash, Valid: passwordHash != ""},
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return nil, d.observe(s, err)
	}
	return &u, nil
}
