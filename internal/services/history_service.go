// Package services – HistoryService
//
// This file implements the HistoryService, which exposes the calculation
// history of a user: paginated listing with an optional calculator-tag
// filter, single-record retrieval, partial update of the stored payloads,
// and deletion. Every operation is scoped to the supplied username.
//
// Ownership semantics: a record that exists but belongs to someone else is
// reported exactly like a missing record (ErrRecordNotFound). The scoping is
// a single id-and-owner predicate inside the repository, not a fetch followed
// by a comparison, so existence cannot be probed through error or timing
// differences. An unknown username is treated the same way for record-level
// operations, and as an empty history for listing.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HistoryService provides username-scoped access to calculation records.
type HistoryService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewHistoryService constructs a HistoryService.
func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// List returns a page of the user's records, newest first. A blank or
// unknown username yields an empty page with zero total — by design this is
// not an error, matching the public listing contract. calcType filters by
// exact tag match when non-empty.
func (s *HistoryService) List(ctx context.Context, username, calcType string, limit, offset int) ([]domain.CalculationRecord, int64, error) {
	tr := otel.Tracer("services/HistoryService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("calc.type", calcType),
			attribute.Int("limit", limit),
			attribute.Int("offset", offset),
		),
	)
	defer span.End()

	username = strings.TrimSpace(username)
	if username == "" {
		return []domain.CalculationRecord{}, 0, nil
	}
	user, err := repo.FindUserByUsername(ctx, s.DB, username)
	if err != nil {
		return nil, 0, err
	}
	if user == nil {
		return []domain.CalculationRecord{}, 0, nil
	}

	total, err := repo.CountRecordsByUser(ctx, s.DB, user.ID, calcType)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.CalculationRecord{}, 0, nil
	}

	items, err := repo.ListRecordsByUser(ctx, s.DB, user.ID, calcType, limit, offset)
	return items, total, err
}

// Stats returns the record count and the newest created_at timestamp for the
// user's history, backing weak ETags on the listing endpoint. A blank or
// unknown username reports (0, nil, nil).
func (s *HistoryService) Stats(ctx context.Context, username string) (int64, *time.Time, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, nil, nil
	}
	user, err := repo.FindUserByUsername(ctx, s.DB, username)
	if err != nil || user == nil {
		return 0, nil, err
	}
	return repo.RecordsStats(ctx, s.DB, user.ID)
}

// Get fetches one record by id for the given username. Missing records,
// records owned by someone else, and unknown usernames all return
// ErrRecordNotFound.
func (s *HistoryService) Get(ctx context.Context, username string, id uint) (*domain.CalculationRecord, error) {
	user, err := s.owner(ctx, username)
	if err != nil {
		return nil, err
	}

	rec, err := repo.GetRecord(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if rec.UserID == nil || *rec.UserID != user.ID {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// Update applies a partial update to the record's inputs and/or result for
// the given username. Nil payloads leave the corresponding field unchanged.
// Non-owned and missing records return ErrRecordNotFound.
func (s *HistoryService) Update(ctx context.Context, username string, id uint, inputs, result domain.JSONMap) (*domain.CalculationRecord, error) {
	user, err := s.owner(ctx, username)
	if err != nil {
		return nil, err
	}

	rec, err := repo.UpdateRecord(ctx, s.DB, id, inputs, result, &user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

// Delete removes the record for the given username. Non-owned and missing
// records return ErrRecordNotFound.
func (s *HistoryService) Delete(ctx context.Context, username string, id uint) error {
	user, err := s.owner(ctx, username)
	if err != nil {
		return err
	}

	removed, err := repo.DeleteRecord(ctx, s.DB, id, &user.ID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrRecordNotFound
	}
	return nil
}

// owner resolves the username for record-level operations. Blank usernames
// are a caller bug (ErrUsernameRequired); unknown usernames collapse into
// ErrRecordNotFound so they are indistinguishable from missing records.
func (s *HistoryService) owner(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	user, err := repo.FindUserByUsername(ctx, s.DB, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrRecordNotFound
	}
	return user, nil
}
