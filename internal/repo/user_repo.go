// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a user is not found, FindUserByUsername returns (nil, nil) — a
//     missing user is an expected outcome for the lazy-creation flow, not an
//     error.
//   - CreateUser maps unique-constraint violations to ErrUserExists.
//   - On other DB errors (connectivity, missing table, etc.) the raw gorm
//     error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// ErrUserExists is returned by CreateUser when the username is already taken.
var ErrUserExists = errors.New("username already exists")

// FindUserByUsername returns the user with the given username, or (nil, nil)
// when no such user exists. On DB error, it returns the error.
func FindUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row. The username uniqueness is enforced by
// the ux_users_username index, so a concurrent duplicate insert surfaces as
// ErrUserExists rather than a second row.
func CreateUser(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	u := &domain.User{
		Username:  username,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return u, nil
}

// GetOrCreateUser returns the existing user for username or atomically
// creates one. It never returns ErrUserExists: when a concurrent caller wins
// the insert race, the unique-constraint violation is resolved by re-reading
// the row the winner created. Both racing callers end up with the same user id.
func GetOrCreateUser(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	if u, err := FindUserByUsername(ctx, db, username); err != nil {
		return nil, err
	} else if u != nil {
		return u, nil
	}

	u, err := CreateUser(ctx, db, username)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, ErrUserExists) {
		return nil, err
	}

	// Lost the insert race; the row now exists.
	u, ferr := FindUserByUsername(ctx, db, username)
	if ferr != nil {
		return nil, ferr
	}
	if u == nil {
		// Row vanished between conflict and re-read; treat as a store failure.
		return nil, err
	}
	return u, nil
}

// isUniqueViolation detects unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
