// Package formula implements the five health metric calculators: BMI,
// body fat percentage (Navy method), BMR (Mifflin-St Jeor), daily calorie
// need, and ideal weight range (Hamwi method).
//
// All functions are pure and deterministic: identical inputs always produce
// identical outputs, and nothing here touches storage. The gender parameter
// is a binary flag (true = male-pattern formula, false = female-pattern);
// every calculator has exactly two hardcoded branches keyed on it.
//
// Inputs that would leave a formula's domain (non-positive measurements,
// non-positive log10 arguments, BMI values falling in a category gap,
// unrecognized activity labels) fail with a typed error instead of silently
// defaulting or propagating NaN/Inf.
package formula

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidMeasurement is returned when a weight, height, or circumference
// input is zero or negative.
var ErrInvalidMeasurement = errors.New("measurements must be positive")

// ErrUnclassifiedBMI is returned when a BMI value lands exactly on one of the
// gaps between category thresholds (18.5, 24.9–25.0, 29.9–30). The gaps are
// kept deliberately; see BMI.
var ErrUnclassifiedBMI = errors.New("bmi value does not fall into any category")

// ErrLogDomain is returned by BodyFat when the circumference combination
// yields a non-positive argument to log10 (e.g. waist not greater than neck).
var ErrLogDomain = errors.New("circumference values out of the formula domain")

// UnknownActivityError reports an activity label that is not in the accepted
// set. It carries the offending value and the accepted labels so the caller
// can surface them; an unknown label is never treated as Sedentary.
type UnknownActivityError struct {
	Value    string
	Accepted []string
}

// Error implements the error interface.
func (e *UnknownActivityError) Error() string {
	return fmt.Sprintf("unknown activity factor %q (accepted: %s)",
		e.Value, strings.Join(e.Accepted, ", "))
}

// activityFactors maps activity labels to BMR multipliers. The slice keeps
// the canonical label order for error payloads.
var (
	activityFactors = map[string]float64{
		"Sedentary":         1.2,
		"Lightly Active":    1.375,
		"Moderately Active": 1.55,
		"Very Active":       1.725,
		"Extra Active":      1.9,
	}
	activityLabels = []string{
		"Sedentary", "Lightly Active", "Moderately Active", "Very Active", "Extra Active",
	}
)

// ActivityLabels returns the accepted activity labels in canonical order.
func ActivityLabels() []string {
	out := make([]string, len(activityLabels))
	copy(out, activityLabels)
	return out
}

// round2 rounds to two decimal places.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BMI computes the body mass index weight_kg / (height_cm/100)^2 and its
// category. The returned value is rounded to two decimals; categorization
// uses the unrounded value.
//
// The category thresholds contain gaps: exactly 18.5, the closed interval
// [24.9, 25.0], and [29.9, 30). Values landing there return
// ErrUnclassifiedBMI rather than being forced into a neighboring bucket.
func BMI(weightKg, heightCm float64) (value float64, category string, err error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, "", ErrInvalidMeasurement
	}
	h := heightCm / 100
	bmi := weightKg / (h * h)

	switch {
	case bmi < 18.5:
		category = "Underweight"
	case bmi > 18.5 && bmi < 24.9:
		category = "Normal"
	case bmi > 25.0 && bmi < 29.9:
		category = "Overweight"
	case bmi >= 30:
		category = "Obese"
	default:
		return 0, "", ErrUnclassifiedBMI
	}
	return round2(bmi), category, nil
}

// BodyFat estimates body fat percentage with the US Navy circumference
// method, rounded to two decimals.
//
//	male:   495 / (1.0324 - 0.19077*log10(waist-neck) + 0.15456*log10(height)) - 450
//	female: 495 / (1.29579 - 0.35004*log10(waist+hip-neck) + 0.22100*log10(height)) - 450
//
// A non-positive log10 argument (waist ≤ neck for males, waist+hip ≤ neck
// for females) returns ErrLogDomain instead of propagating a math domain
// failure.
func BodyFat(male bool, heightCm, neckCm, waistCm, hipCm float64) (float64, error) {
	if heightCm <= 0 || neckCm <= 0 || waistCm <= 0 {
		return 0, ErrInvalidMeasurement
	}
	var pct float64
	if male {
		girth := waistCm - neckCm
		if girth <= 0 {
			return 0, ErrLogDomain
		}
		pct = 495/(1.0324-0.19077*math.Log10(girth)+0.15456*math.Log10(heightCm)) - 450
	} else {
		if hipCm <= 0 {
			return 0, ErrInvalidMeasurement
		}
		girth := waistCm + hipCm - neckCm
		if girth <= 0 {
			return 0, ErrLogDomain
		}
		pct = 495/(1.29579-0.35004*math.Log10(girth)+0.22100*math.Log10(heightCm)) - 450
	}
	return round2(pct), nil
}

// BMR computes the basal metabolic rate with the Mifflin-St Jeor equation.
// The result is truncated toward zero to an integer; this matches the
// reference behavior's integer cast and is a policy choice, not rounding.
func BMR(male bool, ageYears int, weightKg, heightCm float64) (int, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, ErrInvalidMeasurement
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if male {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(bmr), nil
}

// DailyCalories scales the Mifflin-St Jeor BMR by the activity factor for
// the given label and rounds to the nearest integer. An unrecognized label
// returns *UnknownActivityError; it is never defaulted to Sedentary.
func DailyCalories(male bool, ageYears int, weightKg, heightCm float64, activity string) (int, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return 0, ErrInvalidMeasurement
	}
	factor, ok := activityFactors[activity]
	if !ok {
		return 0, &UnknownActivityError{Value: activity, Accepted: ActivityLabels()}
	}
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if male {
		bmr += 5
	} else {
		bmr -= 161
	}
	return int(math.Round(bmr * factor)), nil
}

// IdealWeight computes the Hamwi ideal weight range in kilograms. The base
// weight grows linearly with height above 152.4 cm (5 ft); the returned
// range is base ±10%, each bound rounded to two decimals.
func IdealWeight(male bool, heightCm float64) (minKg, maxKg float64, err error) {
	if heightCm <= 0 {
		return 0, 0, ErrInvalidMeasurement
	}
	extraIn := (heightCm - 152.4) / 2.54
	var base float64
	if male {
		base = 48 + 2.7*extraIn
	} else {
		base = 45.5 + 2.2*extraIn
	}
	return round2(base * 0.90), round2(base * 1.10), nil
}
