// Package repository provides database access layer.
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes used to translate constraint violations into
// domain errors. The uniqueness and membership invariants live in the
// schema, so concurrent requests cannot race past a service-level check.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Repository provides database access methods.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new Repository with a connection pool.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	// Connection pool settings
	config.MaxConns = 10
	config.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the database connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool.
// Use sparingly - prefer adding methods to Repository.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// pgErr unwraps a *pgconn.PgError if the error carries one.
func pgErr(err error) *pgconn.PgError {
	var pgError *pgconn.PgError
	if errors.As(err, &pgError) {
		return pgError
	}
	return nil
}

// isUniqueViolation reports whether err is a unique constraint violation,
// optionally on a specific named constraint.
func isUniqueViolation(err error, constraint string) bool {
	pe := pgErr(err)
	if pe == nil || pe.Code != pgUniqueViolation {
		return false
	}
	return constraint == "" || pe.ConstraintName == constraint
}

// isForeignKeyViolation reports whether err is a foreign key violation.
func isForeignKeyViolation(err error) bool {
	pe := pgErr(err)
	return pe != nil && pe.Code == pgForeignKeyViolation
}
