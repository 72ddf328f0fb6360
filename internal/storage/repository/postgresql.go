// Package repository implements the identity store on PostgreSQL: users,
// the deduplicated value entities (email address, phone number, device),
// the binding rows associating them with users, and the subscription
// catalog reference data.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	// pgx driver registration for database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"
)

// ErrUserNotFound is returned when a lookup matches no user.
var ErrUserNotFound = errors.New("user not found")

// ErrTokenNotFound is returned when a confirmation token matches no active
// binding.
var ErrTokenNotFound = errors.New("confirmation token not found")

// Storage wraps the PostgreSQL connection and implements the identity and
// catalog operations.
type Storage struct {
	DB *sql.DB
}

// New opens a connection to PostgreSQL and verifies it with a ping.
func New(connectionString string) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", connectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{
		DB: db,
	}, nil
}

// CheckDatabaseReady verifies the schema has been migrated.
func (s *Storage) CheckDatabaseReady(ctx context.Context) error {
	var exists bool
	err := s.DB.QueryRowContext(ctx, `SELECT EXISTS (
        SELECT FROM information_schema.tables
        WHERE table_name = 'app_user'
    )`).Scan(&exists)
	if err != nil || !exists {
		return fmt.Errorf("required table app_user missing or query error: %w", err)
	}
	return nil
}
