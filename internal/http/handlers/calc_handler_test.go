package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/http/middleware"
	"github.com/tbourn/go-health-backend/internal/services"
)

// ---------- test DB + router ----------

func newHandlerDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:calc_handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	db.Exec("PRAGMA foreign_keys=ON;")
	if err := db.AutoMigrate(&domain.User{}, &domain.CalculationRecord{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// newTestRouter wires real services over the given DB with just the
// idempotency middleware; the full stack is covered by the router tests.
func newTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}))

	h := New(services.NewCalcService(db), services.NewHistoryService(db))
	r.POST("/calc/bmi", h.CalcBMI)
	r.POST("/calc/body-fat", h.CalcBodyFat)
	r.POST("/calc/calorie", h.CalcCalorie)
	r.POST("/calc/bmr", h.CalcBMR)
	r.POST("/calc/ideal-weight", h.CalcIdealWeight)
	r.GET("/calc/history", h.ListHistory)
	r.GET("/calc/history/:id", h.GetHistoryRecord)
	r.PATCH("/calc/history/:id", h.UpdateHistoryRecord)
	r.DELETE("/calc/history/:id", h.DeleteHistoryRecord)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, hdr map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range hdr {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeMap(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

// ---------- calculator endpoints ----------

func TestCalcBMI_OK(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/bmi", gin.H{
		"username": "alice", "age_years": 30, "gender": true,
		"weight_kg": 70, "height_cm": 175,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s; want 200", w.Code, w.Body.String())
	}
	got := decodeMap(t, w)
	if got["bmi_value"] != 22.86 || got["bmi_category"] != "Normal" {
		t.Fatalf("body = %+v; want bmi_value 22.86 Normal", got)
	}

	var n int64
	if err := db.Model(&domain.CalculationRecord{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("records = %d, %v; want 1", n, err)
	}
}

func TestCalcBMI_FemaleGenderIsNotRejected(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	// gender=false must bind as a present value, not a missing field.
	w := doJSON(t, r, http.MethodPost, "/calc/bmi", gin.H{
		"age_years": 30, "gender": false, "weight_kg": 70, "height_cm": 175,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s; want 200", w.Code, w.Body.String())
	}
}

func TestCalcBMI_MissingRequiredField(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/bmi", gin.H{
		"age_years": 30, "gender": true, "height_cm": 175, // no weight_kg
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
	got := decodeMap(t, w)
	if got["code"] != ErrCodeBadRequest {
		t.Fatalf("code = %v; want %q", got["code"], ErrCodeBadRequest)
	}
}

func TestCalcBMI_MalformedJSON(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	req := httptest.NewRequest(http.MethodPost, "/calc/bmi", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; want 400", w.Code)
	}
}

func TestCalcBMI_CategoryGapIsInvalidInput(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	// 76.5625 / 1.75^2 is exactly 25.0, inside the category gap.
	w := doJSON(t, r, http.MethodPost, "/calc/bmi", gin.H{
		"username": "alice", "age_years": 30, "gender": true,
		"weight_kg": 76.5625, "height_cm": 175,
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s; want 400", w.Code, w.Body.String())
	}
	got := decodeMap(t, w)
	if got["code"] != ErrCodeInvalidInput {
		t.Fatalf("code = %v; want %q", got["code"], ErrCodeInvalidInput)
	}

	// Nothing may have been persisted for the failed computation.
	var n int64
	if err := db.Model(&domain.CalculationRecord{}).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("records = %d, %v; want 0", n, err)
	}
}

func TestCalcCalorie_UnknownActivityListsAcceptedSet(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/calorie", gin.H{
		"age_years": 30, "gender": true, "weight_kg": 70, "height_cm": 175,
		"activity_factor": "Couch Potato",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s; want 400", w.Code, w.Body.String())
	}
	got := decodeMap(t, w)
	if got["code"] != ErrCodeInvalidInput {
		t.Fatalf("code = %v; want %q", got["code"], ErrCodeInvalidInput)
	}
	details, ok := got["details"].(map[string]any)
	if !ok {
		t.Fatalf("details missing: %+v", got)
	}
	accepted, ok := details["accepted_activity_factors"].([]any)
	if !ok || len(accepted) != 5 {
		t.Fatalf("accepted_activity_factors = %v; want the five labels", details["accepted_activity_factors"])
	}
}

func TestCalcCalorie_OK(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/calorie", gin.H{
		"age_years": 30, "gender": true, "weight_kg": 70, "height_cm": 175,
		"activity_factor": "Moderately Active",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s; want 200", w.Code, w.Body.String())
	}
	got := decodeMap(t, w)
	if got["daily_calories"] != float64(2556) {
		t.Fatalf("daily_calories = %v; want 2556", got["daily_calories"])
	}
}

func TestCalcBodyFat_WaistNotAboveNeckIsInvalidInput(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/body-fat", gin.H{
		"age_years": 30, "gender": true, "weight_kg": 70, "height_cm": 175,
		"neck_cm": 45, "waist_cm": 40, "hip_cm": 95,
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s; want 400", w.Code, w.Body.String())
	}
	if got := decodeMap(t, w); got["code"] != ErrCodeInvalidInput {
		t.Fatalf("code = %v; want %q", got["code"], ErrCodeInvalidInput)
	}
}

func TestCalcBMR_OK(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/bmr", gin.H{
		"age_years": 30, "gender": true, "weight_kg": 70, "height_cm": 175,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s; want 200", w.Code, w.Body.String())
	}
	if got := decodeMap(t, w); got["bmr_value"] != float64(1648) {
		t.Fatalf("bmr_value = %v; want 1648", got["bmr_value"])
	}
}

func TestCalcIdealWeight_OK(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/ideal-weight", gin.H{
		"age_years": 30, "gender": true, "height_cm": 175,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s; want 200", w.Code, w.Body.String())
	}
	got := decodeMap(t, w)
	if got["min_weight_kg"] != 64.82 || got["max_weight_kg"] != 79.23 {
		t.Fatalf("range = [%v, %v]; want [64.82, 79.23]", got["min_weight_kg"], got["max_weight_kg"])
	}
}

func TestCalc_IdempotencyKeyReplays(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)
	body := gin.H{
		"username": "alice", "age_years": 30, "gender": true,
		"weight_kg": 70, "height_cm": 175,
	}
	hdr := map[string]string{middleware.HeaderIdempotencyKey: "retry-abc"}

	for i := 0; i < 2; i++ {
		if w := doJSON(t, r, http.MethodPost, "/calc/bmi", body, hdr); w.Code != http.StatusOK {
			t.Fatalf("attempt %d status = %d, body %s; want 200", i, w.Code, w.Body.String())
		}
	}

	var n int64
	if err := db.Model(&domain.CalculationRecord{}).Count(&n).Error; err != nil || n != 1 {
		t.Fatalf("records = %d, %v; want 1 after replay", n, err)
	}
}

func TestCalc_MalformedIdempotencyKeyRejected(t *testing.T) {
	db := newHandlerDB(t)
	r := newTestRouter(db)

	w := doJSON(t, r, http.MethodPost, "/calc/bmi", gin.H{
		"age_years": 30, "gender": true, "weight_kg": 70, "height_cm": 175,
	}, map[string]string{middleware.HeaderIdempotencyKey: "bad key with spaces"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s; want 400", w.Code, w.Body.String())
	}
}
