// Package postgres implements the domain repositories using PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"syscall"
	"time"

	"github.com/lib/pq"
)

// DB wraps a *sql.DB and implements domain repository interfaces. When a
// call fails because the connection was lost, the handle is replaced once.
type DB struct {
	mu      sync.RWMutex
	sql     *sql.DB
	connStr string
	open    func(connStr string) (*sql.DB, error)
	log     *slog.Logger
}

// Open connects to PostgreSQL, pings, and runs migrations.
func Open(connStr string) (*DB, error) {
	d := &DB{
		connStr: connStr,
		open:    func(s string) (*sql.DB, error) { return sql.Open("postgres", s) },
		log:     slog.Default().With("module", "postgres"),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := d.connect(ctx)
	if err != nil {
		return nil, err
	}
	d.sql = s
	if err := d.migrate(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.handle().Close()
}

func (d *DB) connect(ctx context.Context) (*sql.DB, error) {
	s, err := d.open(d.connStr)
	if err != nil {
		return nil, err
	}
	s.SetMaxOpenConns(10)
	s.SetMaxIdleConns(5)
	s.SetConnMaxLifetime(5 * time.Minute)

	if err := s.PingContext(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (d *DB) handle() *sql.DB {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.sql
}

// observe passes err through, reconnecting first if it signals a lost
// connection on handle h.
func (d *DB) observe(h *sql.DB, err error) error {
	if err != nil && isConnectionLost(err) {
		d.reconnect(h, err)
	}
	return err
}

// reconnect swaps in a fresh handle unless h was already replaced. There is
// no retry: a failed attempt leaves the old handle in place.
func (d *DB) reconnect(h *sql.DB, cause error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sql != h {
		return
	}

	d.log.Warn("database connection lost, reconnecting", "error", cause)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fresh, err := d.connect(ctx)
	if err != nil {
		d.log.Error("database reconnect failed", "error", err)
		return
	}
	d.sql = fresh
	_ = h.Close()
	d.log.Info("database reconnected")
}

func isConnectionLost(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EPIPE) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 08: connection exception, 57P01..57P03: server shutting down.
		return pqErr.Code.Class() == "08" || pqErr.Code == "57P01" || pqErr.Code == "57P02" || pqErr.Code == "57P03"
	}
	return false
}

func (d *DB) migrate(ctx context.Context) error {
	stmts := []string{
		"CREATE TABLE IF NOT EXISTS users (id BIGSERIAL PRIMARY KEY, aadharid TEXT UNIQUE NOT NULL, password TEXT, created_at TIMESTAMPTZ NOT NULL DEFAULT now());",
		"CREATE TABLE IF NOT EXISTS claims (id BIGSERIAL PRIMARY KEY, user_id BIGINT NOT NULL REFERENCES users(id), insurance_type TEXT NOT NULL, reimbursement_amount DOUBLE PRECISION NOT NULL, active_status TEXT NOT NULL, hospital_name TEXT NOT NULL, patient_name TEXT NOT NULL, created_at TIMESTAMPTZ NOT NULL DEFAULT now());",
		"CREATE INDEX IF NOT EXISTS idx_claims_user_id ON claims(user_id);",
	}

	s := d.handle()
	for _, stmt := range stmts {
		if _, err := s.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
