// Package services – CalcService
//
// This file implements the CalcService, the orchestrator for the five
// calculator endpoints. Each method runs the matching pure computation from
// internal/formula, then conditionally persists the submission: only when a
// username accompanies the request is the user resolved (created lazily on
// first sight) and a CalculationRecord written with the calculator's tag.
// Anonymous submissions persist nothing at all. The computed result is
// returned to the caller either way.
//
// Safe retries: when the request carried a validated Idempotency-Key and a
// non-expired idempotency row exists for (user, calc type, key), the stored
// record's result is replayed instead of writing a second record.
//
// Observability: persistence paths are OpenTelemetry-instrumented; spans
// carry the calculator tag and whether the submission was persisted.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-health-backend/internal/domain"
	"github.com/tbourn/go-health-backend/internal/formula"
	"github.com/tbourn/go-health-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CalcService coordinates formula evaluation and conditional persistence.
type CalcService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// IdempotencyTTL bounds how long a stored Idempotency-Key may be replayed.
	IdempotencyTTL time.Duration
}

// NewCalcService constructs a CalcService with a sane replay window.
func NewCalcService(db *gorm.DB) *CalcService {
	return &CalcService{DB: db, IdempotencyTTL: 24 * time.Hour}
}

// BMI computes the body mass index and persists the submission when a
// username is present.
func (s *CalcService) BMI(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm float64, idemKey string) (domain.JSONMap, error) {
	value, category, err := formula.BMI(weightKg, heightCm)
	if err != nil {
		return nil, err
	}
	inputs := domain.JSONMap{
		"age_years": ageYears,
		"gender":    male,
		"weight_kg": weightKg,
		"height_cm": heightCm,
	}
	result := domain.JSONMap{
		"bmi_value":    value,
		"bmi_category": category,
	}
	return s.finish(ctx, username, domain.CalcBMI, idemKey, inputs, result)
}

// BodyFat computes the Navy-method body fat percentage and persists the
// submission when a username is present.
func (s *CalcService) BodyFat(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm, neckCm, waistCm, hipCm float64, idemKey string) (domain.JSONMap, error) {
	pct, err := formula.BodyFat(male, heightCm, neckCm, waistCm, hipCm)
	if err != nil {
		return nil, err
	}
	inputs := domain.JSONMap{
		"age_years": ageYears,
		"gender":    male,
		"weight_kg": weightKg,
		"height_cm": heightCm,
		"neck_cm":   neckCm,
		"waist_cm":  waistCm,
		"hip_cm":    hipCm,
	}
	result := domain.JSONMap{"body_fat_percentage": pct}
	return s.finish(ctx, username, domain.CalcBodyFat, idemKey, inputs, result)
}

// Calories computes the daily calorie need for an activity label and
// persists the submission when a username is present. Unknown labels fail
// with *formula.UnknownActivityError; they are never silently defaulted.
func (s *CalcService) Calories(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm float64, activity, idemKey string) (domain.JSONMap, error) {
	daily, err := formula.DailyCalories(male, ageYears, weightKg, heightCm, activity)
	if err != nil {
		return nil, err
	}
	inputs := domain.JSONMap{
		"age_years":       ageYears,
		"gender":          male,
		"weight_kg":       weightKg,
		"height_cm":       heightCm,
		"activity_factor": activity,
	}
	result := domain.JSONMap{"daily_calories": daily}
	return s.finish(ctx, username, domain.CalcCalorie, idemKey, inputs, result)
}

// BMR computes the basal metabolic rate and persists the submission when a
// username is present.
func (s *CalcService) BMR(ctx context.Context, username string, ageYears int, male bool, weightKg, heightCm float64, idemKey string) (domain.JSONMap, error) {
	bmr, err := formula.BMR(male, ageYears, weightKg, heightCm)
	if err != nil {
		return nil, err
	}
	inputs := domain.JSONMap{
		"age_years": ageYears,
		"gender":    male,
		"weight_kg": weightKg,
		"height_cm": heightCm,
	}
	result := domain.JSONMap{"bmr_value": bmr}
	return s.finish(ctx, username, domain.CalcBMR, idemKey, inputs, result)
}

// IdealWeight computes the Hamwi ideal weight range and persists the
// submission when a username is present.
func (s *CalcService) IdealWeight(ctx context.Context, username string, ageYears int, male bool, heightCm float64, idemKey string) (domain.JSONMap, error) {
	minKg, maxKg, err := formula.IdealWeight(male, heightCm)
	if err != nil {
		return nil, err
	}
	inputs := domain.JSONMap{
		"age_years": ageYears,
		"gender":    male,
		"height_cm": heightCm,
	}
	result := domain.JSONMap{
		"min_weight_kg": minKg,
		"max_weight_kg": maxKg,
	}
	return s.finish(ctx, username, domain.CalcIdealWeight, idemKey, inputs, result)
}

// finish applies the conditional-save policy. With an empty username the
// computed result is returned untouched and nothing is written. Otherwise the
// user is resolved (get-or-create) and a record persisted; a valid replay key
// short-circuits to the previously stored result.
func (s *CalcService) finish(ctx context.Context, username, calcType, idemKey string, inputs, result domain.JSONMap) (domain.JSONMap, error) {
	if username == "" {
		return result, nil
	}

	tr := otel.Tracer("services/CalcService")
	ctx, span := tr.Start(ctx, "persist",
		trace.WithAttributes(
			attribute.String("calc.type", calcType),
			attribute.Bool("calc.replay_key", idemKey != ""),
		),
	)
	defer span.End()

	user, err := repo.GetOrCreateUser(ctx, s.DB, username)
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		if prior, err := repo.GetIdempotency(ctx, s.DB, user.ID, calcType, idemKey, time.Now().UTC()); err == nil {
			stored, gerr := repo.GetRecord(ctx, s.DB, prior.RecordID)
			if gerr == nil {
				return stored.Result, nil
			}
			// Stored record gone (e.g. deleted via history); fall through and
			// persist a fresh one.
		} else if !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
	}

	rec, err := repo.CreateRecord(ctx, s.DB, &user.ID, calcType, inputs, result)
	if err != nil {
		return nil, err
	}

	if idemKey != "" {
		if _, err := repo.CreateIdempotency(ctx, s.DB, user.ID, calcType, idemKey, rec.ID, 200, s.IdempotencyTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			return nil, err
		}
	}
	return result, nil
}
