// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// RecordsStats returns aggregate metadata for a user's calculation records:
// the total number of rows and the maximum CreatedAt timestamp among them.
// Records are immutable after an explicit PATCH-less life, but CreatedAt is
// still the freshest monotonic signal available for listings, so the pair
// (count, max created_at) changes whenever the visible history changes.
//
// When the user has no records, count is 0 and maxCreatedAt is nil.
func RecordsStats(ctx context.Context, db *gorm.DB, userID uint) (count int64, maxCreatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.CalculationRecord{}).Where("user_id = ?", userID)

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest created_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		CreatedAt time.Time
	}
	if err = q.Select("created_at").Order("created_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.CreatedAt, nil
}
