// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency records a previously persisted calculator submission, keyed by
// (user_id, calc_type, key). It lets clients retry a POST safely: the replay
// is answered from the stored record instead of re-running the side effect.
type Idempotency struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:ux_user_calc_key,priority:1"`
	CalcType  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_calc_key,priority:2"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_calc_key,priority:3"`
	RecordID  uint      `gorm:"not null"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
