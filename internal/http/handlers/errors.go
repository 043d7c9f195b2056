// Package handlers defines HTTP-layer error codes used across all API
// endpoints. The constants here give clients a stable, machine-readable
// taxonomy alongside the HTTP status and human-readable message.
//
// Conventions:
//   - Codes are lowercase snake_case.
//   - Generic codes mirror HTTP status semantics (bad_request, not_found).
//   - invalid_input marks domain-level rejections the schema layer cannot
//     catch: out-of-domain measurements, BMI values landing in a category
//     gap, unrecognized activity labels.
//   - store_error marks persistence failures; the computed result for that
//     request is lost and the client may retry.
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeInvalidInput = "invalid_input"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeStore        = "store_error"
	ErrCodeInternal     = "internal_error"

	ErrCodeMethodNotAllowed = "method_not_allowed"
)
