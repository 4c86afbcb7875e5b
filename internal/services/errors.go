// Package services defines the business logic for pokemon records.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

var (
	// ErrInvalidInput is returned when a required field is empty after
	// normalization or a number is negative.
	ErrInvalidInput = errors.New("invalid pokemon")

	// ErrNotModified is returned by Replace when the store reported zero
	// modified records, either because the id matched nothing or because the
	// stored value was already identical.
	ErrNotModified = errors.New("pokemon not modified")

	// ErrNotDeleted is returned by Delete when the store removed nothing.
	ErrNotDeleted = errors.New("pokemon not deleted")
)
