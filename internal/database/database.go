// Package database provides MySQL connectivity, per-request sessions and error classification.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"
)

// ErrSessionUnavailable is returned by Provider.Do when no session could be acquired
var ErrSessionUnavailable = errors.New("database session unavailable")

const (
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
)

// Session is the query surface an operation runs against.
// Both *sql.DB and *sql.Conn satisfy it.
type Session interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Open connects to the database and verifies the connection
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Provider hands out one session per request
type Provider struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProvider creates a session provider over a connection pool
func NewProvider(db *sql.DB, logger *zap.Logger) *Provider {
	return &Provider{
		db:     db,
		logger: logger,
	}
}

// Do acquires a dedicated connection, runs fn with it and releases the connection
// when fn returns or panics. The error of fn is returned unchanged.
func (p *Provider) Do(ctx context.Context, fn func(Session) error) error {
	conn, err := p.db.Conn(ctx)
	if err != nil {
		p.logger.Error("failed to acquire database session", zap.Error(err))
		return fmt.Errorf("%w: %v", ErrSessionUnavailable, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			p.logger.Warn("failed to release database session", zap.Error(err))
		}
	}()

	return fn(conn)
}

// Ping checks that the database is reachable
func (p *Provider) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
