// Package sqlite implements the domain repositories on an embedded SQLite
// database for local runs and SQL-level tests.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"claimportal/internal/domain"

	_ "modernc.org/sqlite"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

// DB wraps a *sql.DB and implements domain repository interfaces.
type DB struct {
	sql *sql.DB
}

var (
	_ domain.IdentityRepository = (*DB)(nil)
	_ domain.ClaimRepository    = (*DB)(nil)
)

// Open opens the database at path, enables foreign keys and creates the schema.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps pragmas and in-memory data on a single session.
	s.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	d := &DB{sql: s}
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	slog.Default().Info("sqlite store initialized", "module", "sqlite", "path", path)
	return d, nil
}

// Close closes the underlying database.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"PRAGMA foreign_keys = ON;",
		"CREATE TABLE IF NOT EXISTS users (id INTEGER PRIMARY KEY AUTOINCREMENT, aadharid TEXT UNIQUE NOT NULL, password TEXT, created_at INTEGER NOT NULL);",
		"CREATE TABLE IF NOT EXISTS claims (id INTEGER PRIMARY KEY AUTOINCREMENT, user_id INTEGER NOT NULL REFERENCES users(id), insurance_type TEXT NOT NULL, reimbursement_amount REAL NOT NULL, active_status TEXT NOT NULL, hospital_name TEXT NOT NULL, patient_name TEXT NOT NULL, created_at INTEGER NOT NULL);",
		"CREATE INDEX IF NOT EXISTS idx_claims_user_id ON claims(user_id);",
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func toMillis(t time.Time) int64 { return t.UTC().UnixMilli() }

func fromMillis(v int64) time.Time { return time.UnixMilli(v).UTC() }

// GetByAadharid retrieves an identity by its external identifier.
func (d *DB) GetByAadharid(ctx context.Context, aadharid string) (*domain.Identity, error) {
	var (
		u       domain.Identity
		hash    sql.NullString
		created int64
	)
	err := d.sql.QueryRowContext(ctx,
		"SELECT id, aadharid, password, created_at FROM users WHERE aadharid = ?",
		aadharid,
	).Scan(&u.ID, &u.Aadharid, &hash, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u.PasswordHash = hash.String
	u.CreatedAt = fromMillis(created)
	return &u, nil
}

// Create creates a new identity. An empty passwordHash is stored as NULL.
func (d *DB) Create(ctx context.Context, aadharid, passwordHash string) (*domain.Identity, error) {
	now := time.Now()
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO users (aadharid, password, created_at) VALUES (?, ?, ?)",
		aadharid, sql.NullString{String: passwordHash, Valid: passwordHash != ""}, toMillis(now),
	)
	if err != nil {
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &domain.Identity{ID: id, Aadharid: aadharid, PasswordHash: passwordHash, CreatedAt: fromMillis(toMillis(now))}, nil
}

// AddClaim inserts a claim and returns its id.
func (d *DB) AddClaim(ctx context.Context, c domain.Claim) (int64, error) {
	res, err := d.sql.ExecContext(ctx,
		"INSERT INTO claims (user_id, insurance_type, reimbursement_amount, active_status, hospital_name, patient_name, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		c.UserID, c.InsuranceType, c.ReimbursementAmount, c.ActiveStatus, c.HospitalName, c.PatientName, toMillis(time.Now()),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListClaimsByUser returns all claims owned by userID.
func (d *DB) ListClaimsByUser(ctx context.Context, userID int64) ([]domain.Claim, error) {
	rows, err := d.sql.QueryContext(ctx,
		"SELECT id, user_id, insurance_type, reimbursement_amount, active_status, hospital_name, patient_name, created_at FROM claims WHERE user_id = ? ORDER BY id",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	var out []domain.Claim
	for rows.Next() {
		var (
			c       domain.Claim
			created int64
		)
		if err := rows.Scan(&c.ID, &c.UserID, &c.InsuranceType, &c.ReimbursementAmount, &c.ActiveStatus, &c.HospitalName, &c.PatientName, &created); err != nil {
			return nil, err
		}
		c.CreatedAt = fromMillis(created)
		out = append(out, c)
	}
	return out, rows.Err()
}
