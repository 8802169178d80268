package domain

import "errors"

var (
	// ErrUnknownNutrient is returned when a nutrient label is not part of the vocabulary
	ErrUnknownNutrient = errors.New("unknown nutrient")

	// ErrNotFound is returned when a food, group or nutrient value does not exist in the catalog
	ErrNotFound = errors.New("not found")

	// ErrNoMatch is returned when a swap or optimization produced no candidate
	ErrNoMatch = errors.New("no matching food")

	// ErrNoGoals is returned when an optimization is requested without any goal
	ErrNoGoals = errors.New("no goals given")

	// ErrInvalidRange is returned when a date range is empty or inverted
	ErrInvalidRange = errors.New("invalid date range")

	// ErrDataAccess is returned when a backing store fails or returns malformed data
	ErrDataAccess = errors.New("data access failure")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrConflict is returned when a meal slot has already been logged
	ErrConflict = errors.New("already logged")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
