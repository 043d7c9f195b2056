package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-health-backend/internal/config"
	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/http/middleware"
)

// --- test DB helper (pure-Go sqlite, no CGO) ---
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:routerdb_"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}, &domain.CalculationRecord{}, &domain.Idempotency{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func testConfig() config.Config {
	return config.Config{
		RateRPS:   100,
		RateBurst: 50,
		CORS:      config.CORSConfig{AllowedOrigins: nil}, // AllowAllOrigins branch
		Security:  config.SecurityConfig{EnableHSTS: false},
		OTEL:      config.OTELConfig{ServiceName: "test-svc"},
	}
}

func TestRegisterRoutes_HealthMetricsCORSAndFallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testConfig())

	// /health works
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}
	// Baseline security headers present
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("X-Content-Type-Options = %q; want nosniff", got)
	}
	// Correlation id issued
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("no X-Request-ID header")
	}

	// /metrics is wired
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || w.Body.Len() == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404 envelope
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (GET on a POST-only calculator route)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calc/bmi", nil))
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /calc/bmi expected 405, got %d", w.Code)
	}
}

func TestRegisterRoutes_CalculatorAndHistoryFlow(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testConfig())

	body, _ := json.Marshal(map[string]any{
		"username": "alice", "age_years": 30, "gender": true,
		"weight_kg": 70, "height_cm": 175,
	})
	req := httptest.NewRequest(http.MethodPost, "/calc/bmi", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("POST /calc/bmi = %d, body %s", w.Code, w.Body.String())
	}

	// The submission shows up in history through the full middleware stack.
	req = httptest.NewRequest(http.MethodGet, "/calc/history?username=alice", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /calc/history = %d, body %s", w.Code, w.Body.String())
	}
	var items []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode history: %v (body %q)", err, w.Body.String())
	}
	if len(items) != 1 {
		t.Fatalf("history items = %d; want 1", len(items))
	}
	if items[0]["calc_type"] != domain.CalcBMI {
		t.Fatalf("calc_type = %v; want %q", items[0]["calc_type"], domain.CalcBMI)
	}
}

func TestRegisterRoutes_AllowlistCORSBranch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig()
	cfg.CORS.AllowedOrigins = []string{"https://app.example.com"}
	RegisterRoutes(r, newTestDB(t), cfg)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Fatalf("ACAO = %q; want the allowlisted origin echoed", got)
	}

	// Unlisted origins get nothing.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got == "https://evil.example.com" {
		t.Fatalf("ACAO leaked to an unlisted origin")
	}
}

func TestRegisterRoutes_MalformedIdempotencyKeyRejected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, newTestDB(t), testConfig())

	body, _ := json.Marshal(map[string]any{
		"age_years": 30, "gender": true, "weight_kg": 70, "height_cm": 175,
	})
	req := httptest.NewRequest(http.MethodPost, "/calc/bmi", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderIdempotencyKey, "not a valid key !!")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("malformed key status = %d; want 400", w.Code)
	}
}

func TestGroupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, prefix := range []string{"", "/"} {
		r := gin.New()
		g := groupWithPrefix(r, prefix)
		g.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("prefix %q: GET /ping = %d; want 200", prefix, w.Code)
		}
	}

	r := gin.New()
	g := groupWithPrefix(r, "/api/v1")
	g.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("prefixed GET /api/v1/ping = %d; want 200", w.Code)
	}
}
