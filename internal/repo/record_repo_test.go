package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
)

// seedUser creates a user and returns its id.
func seedUser(t *testing.T, db *gorm.DB, username string) uint {
	t.Helper()
	u, err := CreateUser(context.Background(), db, username)
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u.ID
}

// seedRecord inserts a record with a fixed CreatedAt so ordering assertions
// are deterministic.
func seedRecord(t *testing.T, db *gorm.DB, userID *uint, calcType string, at time.Time) uint {
	t.Helper()
	r := domain.CalculationRecord{
		UserID:    userID,
		CalcType:  calcType,
		Inputs:    domain.JSONMap{"weight_kg": 70.0},
		Result:    domain.JSONMap{"v": 1.0},
		CreatedAt: at,
	}
	if err := db.Create(&r).Error; err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return r.ID
}

func TestCreateRecord_OwnedAndAnonymous(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	ctx := context.Background()
	uid := seedUser(t, db, "alice")

	owned, err := CreateRecord(ctx, db, &uid, domain.CalcBMI,
		domain.JSONMap{"weight_kg": 70.0}, domain.JSONMap{"bmi_value": 22.86})
	if err != nil {
		t.Fatalf("CreateRecord(owned): %v", err)
	}
	if owned.ID == 0 || owned.UserID == nil || *owned.UserID != uid {
		t.Fatalf("unexpected owned record: %+v", owned)
	}
	if owned.CreatedAt.IsZero() {
		t.Fatalf("CreatedAt unset: %+v", owned)
	}

	anon, err := CreateRecord(ctx, db, nil, domain.CalcBMR,
		domain.JSONMap{"weight_kg": 70.0}, domain.JSONMap{"bmr_value": 1648.0})
	if err != nil {
		t.Fatalf("CreateRecord(anonymous): %v", err)
	}
	if anon.UserID != nil {
		t.Fatalf("anonymous record has owner: %+v", anon)
	}
}

func TestGetRecord_Missing(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	if _, err := GetRecord(context.Background(), db, 12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetRecord(missing) err = %v; want ErrNotFound", err)
	}
}

func TestListRecordsByUser_NewestFirstFilterAndPaging(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	ctx := context.Background()
	uid := seedUser(t, db, "alice")
	other := seedUser(t, db, "mallory")

	t1 := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	oldest := seedRecord(t, db, &uid, domain.CalcBMI, t1)
	middle := seedRecord(t, db, &uid, domain.CalcBMR, t1.Add(1*time.Hour))
	newest := seedRecord(t, db, &uid, domain.CalcBMI, t1.Add(2*time.Hour))
	seedRecord(t, db, &other, domain.CalcBMI, t1.Add(3*time.Hour)) // someone else's

	got, err := ListRecordsByUser(ctx, db, uid, "", 10, 0)
	if err != nil {
		t.Fatalf("ListRecordsByUser: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d; want 3", len(got))
	}
	if got[0].ID != newest || got[1].ID != middle || got[2].ID != oldest {
		t.Fatalf("order = [%d %d %d]; want [%d %d %d]",
			got[0].ID, got[1].ID, got[2].ID, newest, middle, oldest)
	}

	// calc_type filter is exact
	onlyBMI, err := ListRecordsByUser(ctx, db, uid, domain.CalcBMI, 10, 0)
	if err != nil {
		t.Fatalf("ListRecordsByUser(bmi): %v", err)
	}
	if len(onlyBMI) != 2 {
		t.Fatalf("bmi-only len = %d; want 2", len(onlyBMI))
	}

	// paging
	page, err := ListRecordsByUser(ctx, db, uid, "", 1, 1)
	if err != nil {
		t.Fatalf("ListRecordsByUser(page): %v", err)
	}
	if len(page) != 1 || page[0].ID != middle {
		t.Fatalf("page = %+v; want just record %d", page, middle)
	}

	total, err := CountRecordsByUser(ctx, db, uid, "")
	if err != nil || total != 3 {
		t.Fatalf("CountRecordsByUser = %d, %v; want 3, nil", total, err)
	}
}

func TestListRecordsByUser_TieBrokenByID(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	uid := seedUser(t, db, "alice")

	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	first := seedRecord(t, db, &uid, domain.CalcBMI, at)
	second := seedRecord(t, db, &uid, domain.CalcBMI, at)

	got, err := ListRecordsByUser(context.Background(), db, uid, "", 10, 0)
	if err != nil {
		t.Fatalf("ListRecordsByUser: %v", err)
	}
	if got[0].ID != second || got[1].ID != first {
		t.Fatalf("tie order = [%d %d]; want [%d %d]", got[0].ID, got[1].ID, second, first)
	}
}

func TestUpdateRecord_PartialUpdate(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	ctx := context.Background()
	uid := seedUser(t, db, "alice")
	id := seedRecord(t, db, &uid, domain.CalcBMI, time.Now().UTC())

	// Only result; inputs stay untouched.
	upd, err := UpdateRecord(ctx, db, id, nil, domain.JSONMap{"bmi_value": 23.0}, &uid)
	if err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if upd.Result["bmi_value"] != 23.0 {
		t.Fatalf("result not updated: %+v", upd.Result)
	}

	got, err := GetRecord(ctx, db, id)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.Inputs["weight_kg"] != 70.0 {
		t.Fatalf("inputs changed by result-only update: %+v", got.Inputs)
	}
	if got.Result["bmi_value"] != 23.0 {
		t.Fatalf("result not persisted: %+v", got.Result)
	}
}

func TestUpdateRecord_OwnershipScope(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	ctx := context.Background()
	owner := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "mallory")
	id := seedRecord(t, db, &owner, domain.CalcBMI, time.Now().UTC())

	// Not yours: indistinguishable from missing.
	if _, err := UpdateRecord(ctx, db, id, domain.JSONMap{"x": 1.0}, nil, &stranger); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign update err = %v; want ErrNotFound", err)
	}
	if _, err := UpdateRecord(ctx, db, 99999, domain.JSONMap{"x": 1.0}, nil, &owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing update err = %v; want ErrNotFound", err)
	}

	// The failed attempts must not have written anything.
	got, err := GetRecord(ctx, db, id)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if _, leaked := got.Inputs["x"]; leaked {
		t.Fatalf("foreign update leaked into record: %+v", got.Inputs)
	}
}

func TestDeleteRecord_OwnershipScope(t *testing.T) {
	db := newRepoDB(t, &domain.User{}, &domain.CalculationRecord{})
	ctx := context.Background()
	owner := seedUser(t, db, "alice")
	stranger := seedUser(t, db, "mallory")
	id := seedRecord(t, db, &owner, domain.CalcBMI, time.Now().UTC())

	removed, err := DeleteRecord(ctx, db, id, &stranger)
	if err != nil || removed {
		t.Fatalf("foreign delete = %v, %v; want false, nil", removed, err)
	}

	removed, err = DeleteRecord(ctx, db, id, &owner)
	if err != nil || !removed {
		t.Fatalf("owner delete = %v, %v; want true, nil", removed, err)
	}

	// Second delete of the same record reports nothing removed.
	removed, err = DeleteRecord(ctx, db, id, &owner)
	if err != nil || removed {
		t.Fatalf("repeat delete = %v, %v; want false, nil", removed, err)
	}
}
