// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// CalculationRecord model.
//
// Ownership scoping: UpdateRecord and DeleteRecord take an optional owner id.
// When present, the WHERE clause matches id AND user_id in a single
// predicate, so "exists but not yours" and "does not exist" are one and the
// same outcome. There is no fetch-then-compare step that could leak record
// existence through timing.
//
// Functions:
//
//   - CreateRecord(ctx, db, userID, calcType, inputs, result) -> *Record, error
//   - GetRecord(ctx, db, id) -> *Record, error (ErrNotFound when missing)
//   - ListRecordsByUser(ctx, db, userID, calcType, limit, offset) -> []Record, error
//     Newest-first by created_at (id breaks ties); calcType "" disables the filter.
//   - CountRecordsByUser(ctx, db, userID, calcType) -> int64, error
//   - UpdateRecord(ctx, db, id, inputs, result, userID) -> *Record, error
//     Partial update: nil payloads leave the column untouched.
//   - DeleteRecord(ctx, db, id, userID) -> bool, error
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// CreateRecord inserts a calculation record. userID may be nil for an
// anonymous record; a non-nil userID must reference an existing user (the
// foreign key rejects dangling references).
func CreateRecord(ctx context.Context, db *gorm.DB, userID *uint, calcType string, inputs, result domain.JSONMap) (*domain.CalculationRecord, error) {
	r := &domain.CalculationRecord{
		UserID:    userID,
		CalcType:  calcType,
		Inputs:    inputs,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// GetRecord fetches a record by id regardless of owner. Returns ErrNotFound
// when the record does not exist.
func GetRecord(ctx context.Context, db *gorm.DB, id uint) (*domain.CalculationRecord, error) {
	var r domain.CalculationRecord
	if err := db.WithContext(ctx).Where("id = ?", id).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// recordScope composes the owner/calc-type predicate shared by list and count.
func recordScope(db *gorm.DB, userID uint, calcType string) *gorm.DB {
	q := db.Model(&domain.CalculationRecord{}).Where("user_id = ?", userID)
	if calcType != "" {
		q = q.Where("calc_type = ?", calcType)
	}
	return q
}

// ListRecordsByUser returns a page of the user's records, newest first
// (created_at DESC, id DESC for a deterministic order within one timestamp).
// An empty calcType disables the filter; otherwise the match is exact.
func ListRecordsByUser(ctx context.Context, db *gorm.DB, userID uint, calcType string, limit, offset int) ([]domain.CalculationRecord, error) {
	var out []domain.CalculationRecord
	err := recordScope(db.WithContext(ctx), userID, calcType).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CountRecordsByUser returns the total records for the user, honoring the
// same optional calcType filter as ListRecordsByUser.
func CountRecordsByUser(ctx context.Context, db *gorm.DB, userID uint, calcType string) (int64, error) {
	var total int64
	err := recordScope(db.WithContext(ctx), userID, calcType).Count(&total).Error
	return total, err
}

// UpdateRecord applies a partial update to a record's inputs and/or result.
// Nil payloads leave the corresponding column unchanged. When userID is
// non-nil the update is ownership-scoped: a record owned by someone else is
// indistinguishable from a missing one (ErrNotFound).
//
// The check and the write run in one transaction so a concurrent delete
// cannot slip between them.
func UpdateRecord(ctx context.Context, db *gorm.DB, id uint, inputs, result domain.JSONMap, userID *uint) (*domain.CalculationRecord, error) {
	var out *domain.CalculationRecord
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("id = ?", id)
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		}
		var r domain.CalculationRecord
		if err := q.First(&r).Error; err != nil {
			return err
		}

		updates := map[string]any{}
		if inputs != nil {
			updates["inputs"] = inputs
			r.Inputs = inputs
		}
		if result != nil {
			updates["result"] = result
			r.Result = result
		}
		if len(updates) > 0 {
			if err := tx.Model(&domain.CalculationRecord{}).
				Where("id = ?", r.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}
		out = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteRecord removes a record, optionally scoped to an owner, and reports
// whether a row was actually removed. The scoping predicate mirrors
// UpdateRecord: non-owned and missing records both report false, nil.
func DeleteRecord(ctx context.Context, db *gorm.DB, id uint, userID *uint) (bool, error) {
	q := db.WithContext(ctx).Where("id = ?", id)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	res := q.Delete(&domain.CalculationRecord{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
