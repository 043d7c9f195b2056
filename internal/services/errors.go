// Package services defines the business logic for the health calculators and
// the calculation history. This file centralizes common service-level error
// values so that they can be consistently returned by service methods and
// checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrRecordNotFound indicates that the requested calculation record does
	// not exist or is not owned by the given username. The two cases are
	// deliberately indistinguishable so callers cannot probe for the
	// existence of other users' records.
	ErrRecordNotFound = errors.New("record not found")

	// ErrUsernameRequired is returned by history operations that cannot be
	// scoped without an owner.
	ErrUsernameRequired = errors.New("username is required")
)
