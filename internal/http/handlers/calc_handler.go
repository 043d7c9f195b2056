// Calculator HTTP handlers.
//
// This file exposes the five calculator endpoints:
//   - POST /calc/bmi
//   - POST /calc/body-fat
//   - POST /calc/calorie
//   - POST /calc/bmr
//   - POST /calc/ideal-weight
//
// Handlers are transport-thin: they bind and validate the JSON body, call
// the calc service, and translate results into HTTP responses. The optional
// username field controls persistence (no username, no record) and never
// appears in the persisted inputs payload.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/formula"
	"github.com/tbourn/go-health-backend/internal/http/middleware"
)

//
// Service contracts (context-aware)
//

// CalcService defines the calculator operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type CalcService interface {
	// BMI computes body mass index, persisting when username is non-empty.
	BMI(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm float64, idemKey string) (domain.JSONMap, error)
	// BodyFat computes the Navy-method body fat percentage.
	BodyFat(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm, neckCm, waistCm, hipCm float64, idemKey string) (domain.JSONMap, error)
	// Calories computes the activity-scaled daily calorie need.
	Calories(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm float64, activity, idemKey string) (domain.JSONMap, error)
	// BMR computes the Mifflin-St Jeor basal metabolic rate.
	BMR(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm float64, idemKey string) (domain.JSONMap, error)
	// IdealWeight computes the Hamwi ideal weight range.
	IdealWeight(ctx context.Context, username string, ageYears int, male bool, heightCm float64, idemKey string) (domain.JSONMap, error)
}

// HistoryService defines the history operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type HistoryService interface {
	// List returns a page of the user's records, newest first, plus the total.
	List(ctx context.Context, username, calcType string, limit, offset int) ([]domain.CalculationRecord, int64, error)
	// Stats returns count and newest created_at for ETag generation.
	Stats(ctx context.Context, username string) (int64, *time.Time, error)
	// Get fetches one record owned by username.
	Get(ctx context.Context, username string, id uint) (*domain.CalculationRecord, error)
	// Update partially updates a record's inputs and/or result.
	Update(ctx context.Context, username string, id uint, inputs, result domain.JSONMap) (*domain.CalculationRecord, error)
	// Delete removes a record owned by username.
	Delete(ctx context.Context, username string, id uint) error
}

// Handlers groups the HTTP endpoints for calculators and history.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	calcSvc CalcService
	histSvc HistoryService
}

// New constructs a Handlers instance bound to the given services.
func New(calcSvc CalcService, histSvc HistoryService) *Handlers {
	return &Handlers{calcSvc: calcSvc, histSvc: histSvc}
}

//
// DTOs
//
// Required numeric and boolean fields are pointers so that binding can tell
// "absent" apart from a legitimate zero value — in particular gender=false
// (female-pattern formula) must not be rejected as missing.
//

// BMIRequest is the JSON payload for POST /calc/bmi.
type BMIRequest struct {
	// Username, when present, makes the submission persist to history.
	Username string `json:"username" example:"alice"`
	// AgeYears is the age in years.
	AgeYears *int `json:"age_years" binding:"required" example:"30"`
	// Gender selects the formula branch: true = male, false = female.
	Gender *bool `json:"gender" binding:"required" example:"true"`
	// WeightKg is the body weight in kilograms.
	WeightKg *float64 `json:"weight_kg" binding:"required" example:"70"`
	// HeightCm is the height in centimeters.
	HeightCm *float64 `json:"height_cm" binding:"required" example:"175"`
}

// BodyFatRequest is the JSON payload for POST /calc/body-fat.
type BodyFatRequest struct {
	Username string   `json:"username" example:"alice"`
	AgeYears *int     `json:"age_years" binding:"required" example:"30"`
	Gender   *bool    `json:"gender" binding:"required" example:"true"`
	WeightKg *float64 `json:"weight_kg" binding:"required" example:"70"`
	HeightCm *float64 `json:"height_cm" binding:"required" example:"175"`
	// NeckCm is the neck circumference in centimeters.
	NeckCm *float64 `json:"neck_cm" binding:"required" example:"38"`
	// WaistCm is the waist circumference in centimeters.
	WaistCm *float64 `json:"waist_cm" binding:"required" example:"85"`
	// HipCm is the hip circumference in centimeters (used by the female branch).
	HipCm *float64 `json:"hip_cm" binding:"required" example:"95"`
}

// CalorieRequest is the JSON payload for POST /calc/calorie.
type CalorieRequest struct {
	Username string   `json:"username" example:"alice"`
	AgeYears *int     `json:"age_years" binding:"required" example:"30"`
	Gender   *bool    `json:"gender" binding:"required" example:"true"`
	WeightKg *float64 `json:"weight_kg" binding:"required" example:"70"`
	HeightCm *float64 `json:"height_cm" binding:"required" example:"175"`
	// ActivityFactor is one of: Sedentary, Lightly Active, Moderately Active,
	// Very Active, Extra Active.
	ActivityFactor string `json:"activity_factor" binding:"required" example:"Moderately Active"`
}

// BMRRequest is the JSON payload for POST /calc/bmr.
type BMRRequest struct {
	Username string   `json:"username" example:"alice"`
	AgeYears *int     `json:"age_years" binding:"required" example:"30"`
	Gender   *bool    `json:"gender" binding:"required" example:"true"`
	WeightKg *float64 `json:"weight_kg" binding:"required" example:"70"`
	HeightCm *float64 `json:"height_cm" binding:"required" example:"175"`
}

// IdealWeightRequest is the JSON payload for POST /calc/ideal-weight.
type IdealWeightRequest struct {
	Username string   `json:"username" example:"alice"`
	AgeYears *int     `json:"age_years" binding:"required" example:"30"`
	Gender   *bool    `json:"gender" binding:"required" example:"true"`
	HeightCm *float64 `json:"height_cm" binding:"required" example:"175"`
}

// calcFail translates calc service errors into HTTP responses. Formula
// domain rejections become invalid_input; everything else is a persistence
// failure.
func calcFail(c *gin.Context, err error) {
	var ua *formula.UnknownActivityError
	switch {
	case errors.As(err, &ua):
		failDetails(c, http.StatusBadRequest, ErrCodeInvalidInput, ua.Error(),
			gin.H{"accepted_activity_factors": ua.Accepted})
	case errors.Is(err, formula.ErrInvalidMeasurement),
		errors.Is(err, formula.ErrLogDomain),
		errors.Is(err, formula.ErrUnclassifiedBMI):
		fail(c, http.StatusBadRequest, ErrCodeInvalidInput, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeStore, "failed to persist calculation")
	}
}

// idemKey returns the validated Idempotency-Key for this request, if any.
func idemKey(c *gin.Context) string {
	k, _ := middleware.GetIdempotencyKey(c)
	return k
}

// CalcBMI godoc
// @ID          calcBMI
// @Summary     Compute body mass index
// @Description Computes BMI and its category; persists a history record when a username is supplied.
// @Tags        Calculators
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.BMIRequest true "BMI inputs"
// @Success     200 {object} domain.JSONMap
// @Failure     400 {object} handlers.ErrorResponse "Invalid input"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/bmi [post]
func (h *Handlers) CalcBMI(c *gin.Context) {
	var req BMIRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	result, err := h.calcSvc.BMI(c.Request.Context(), req.Username,
		*req.AgeYears, *req.Gender, *req.WeightKg, *req.HeightCm, idemKey(c))
	if err != nil {
		calcFail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

// CalcBodyFat godoc
// @ID          calcBodyFat
// @Summary     Compute body fat percentage (Navy method)
// @Tags        Calculators
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.BodyFatRequest true "Body fat inputs"
// @Success     200 {object} domain.JSONMap
// @Failure     400 {object} handlers.ErrorResponse "Invalid input"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/body-fat [post]
func (h *Handlers) CalcBodyFat(c *gin.Context) {
	var req BodyFatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	result, err := h.calcSvc.BodyFat(c.Request.Context(), req.Username,
		*req.AgeYears, *req.Gender, *req.WeightKg, *req.HeightCm,
		*req.NeckCm, *req.WaistCm, *req.HipCm, idemKey(c))
	if err != nil {
		calcFail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

// CalcCalorie godoc
// @ID          calcCalorie
// @Summary     Compute daily calorie need
// @Description Scales the Mifflin-St Jeor BMR by the named activity factor. Unknown labels are rejected with the accepted set in the error details.
// @Tags        Calculators
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.CalorieRequest true "Calorie inputs"
// @Success     200 {object} domain.JSONMap
// @Failure     400 {object} handlers.ErrorResponse "Invalid input"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/calorie [post]
func (h *Handlers) CalcCalorie(c *gin.Context) {
	var req CalorieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	result, err := h.calcSvc.Calories(c.Request.Context(), req.Username,
		*req.AgeYears, *req.Gender, *req.WeightKg, *req.HeightCm,
		req.ActivityFactor, idemKey(c))
	if err != nil {
		calcFail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

// CalcBMR godoc
// @ID          calcBMR
// @Summary     Compute basal metabolic rate (Mifflin-St Jeor)
// @Tags        Calculators
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.BMRRequest true "BMR inputs"
// @Success     200 {object} domain.JSONMap
// @Failure     400 {object} handlers.ErrorResponse "Invalid input"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/bmr [post]
func (h *Handlers) CalcBMR(c *gin.Context) {
	var req BMRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	result, err := h.calcSvc.BMR(c.Request.Context(), req.Username,
		*req.AgeYears, *req.Gender, *req.WeightKg, *req.HeightCm, idemKey(c))
	if err != nil {
		calcFail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}

// CalcIdealWeight godoc
// @ID          calcIdealWeight
// @Summary     Compute ideal weight range (Hamwi method)
// @Tags        Calculators
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key header string false "Safe-retry key"
// @Param       body body handlers.IdealWeightRequest true "Ideal weight inputs"
// @Success     200 {object} domain.JSONMap
// @Failure     400 {object} handlers.ErrorResponse "Invalid input"
// @Failure     500 {object} handlers.ErrorResponse "Store failure"
// @Router      /calc/ideal-weight [post]
func (h *Handlers) CalcIdealWeight(c *gin.Context) {
	var req IdealWeightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	result, err := h.calcSvc.IdealWeight(c.Request.Context(), req.Username,
		*req.AgeYears, *req.Gender, *req.HeightCm, idemKey(c))
	if err != nil {
		calcFail(c, err)
		return
	}
	ok(c, http.StatusOK, result)
}
