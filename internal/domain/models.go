// Package domain defines the persistence models for users and calculation
// records. These types are mapped with GORM and form the core data layer
// of the health metrics application.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Calculator tags stored in CalculationRecord.CalcType. The store itself does
// not constrain the column to these values; the service layer always writes
// one of them.
const (
	CalcBMI         = "bmi"
	CalcBodyFat     = "body-fat"
	CalcCalorie     = "calorie"
	CalcBMR         = "bmr"
	CalcIdealWeight = "ideal-weight"
)

// JSONMap is a free-form JSON object persisted as serialized JSON text.
// It backs the inputs/result columns of CalculationRecord so that the
// structured payloads round-trip byte-identically through SQLite.
type JSONMap map[string]any

// Value implements driver.Valuer by serializing the map to JSON.
// A nil map is stored as SQL NULL.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner, accepting JSON stored as TEXT or BLOB.
func (m *JSONMap) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("jsonmap: unsupported source type %T", src)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	out := JSONMap{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*m = out
	return nil
}

// User is the owner of calculation records. Users are created lazily on the
// first calculation submission that carries their username and are never
// mutated or deleted through the API.
//
// Fields:
//   - ID: integer primary key, system-assigned.
//   - Username: unique, required; uniqueness is enforced by the database
//     index so concurrent get-or-create calls serialize on it.
//   - CreatedAt: timestamp managed by GORM.
type User struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	Username  string    `json:"username"   gorm:"type:varchar(64);not null;uniqueIndex:ux_users_username"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// CalculationRecord is one persisted calculator run. A nil UserID marks an
// anonymous record; the conditional-save policy in the service layer never
// produces one, but the schema permits it.
//
// Fields:
//   - ID: integer primary key, system-assigned.
//   - UserID: optional foreign key to User; indexed for history listing.
//   - CalcType: calculator tag ("bmi", "body-fat", "calorie", "bmr",
//     "ideal-weight").
//   - Inputs: request payload minus the username field.
//   - Result: computed output payload.
//   - CreatedAt: set at creation, immutable thereafter.
//   - User: FK association; records are cascade-deleted with their user.
type CalculationRecord struct {
	ID        uint      `json:"id"         gorm:"primaryKey;autoIncrement"`
	UserID    *uint     `json:"user_id,omitempty" gorm:"index:idx_user_records,priority:1"`
	CalcType  string    `json:"calc_type"  gorm:"type:varchar(32);not null;index"`
	Inputs    JSONMap   `json:"inputs"     gorm:"type:text;not null"`
	Result    JSONMap   `json:"result"     gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_user_records,priority:2"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for CalculationRecord.
func (CalculationRecord) TableName() string { return "calculation_records" }
