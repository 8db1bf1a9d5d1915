package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyQuery indicates a search was requested with an empty or
	// whitespace-only query. Rejected before any adapter is invoked.
	ErrEmptyQuery = errors.New("empty query")

	// ErrUnknownMode indicates a search mode outside the supported set.
	ErrUnknownMode = errors.New("unknown search mode")

	// ErrSuperseded indicates a dispatch was overtaken by a newer request.
	// The stale response is dropped by the dispatcher, never delivered.
	ErrSuperseded = errors.New("request superseded")

	// Adapter errors.

	// ErrNotConfigured indicates an adapter has no connection configured.
	// Recovered per source: the adapter contributes zero results plus a
	// "not configured" annotation, never a fatal failure.
	ErrNotConfigured = errors.New("source not configured")

	// ErrAuthInvalid indicates credentials are present but malformed or
	// rejected. Distinct from ErrNotConfigured so callers can surface an
	// actionable message.
	ErrAuthInvalid = errors.New("credentials invalid")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Catalog errors.

	// ErrToolNotFound indicates a toggle referenced an unknown tool.
	ErrToolNotFound = errors.New("tool not found")

	// ErrCorruptPreferences indicates the persisted tool preferences blob
	// could not be decoded. Recovered by falling back to computed defaults.
	ErrCorruptPreferences = errors.New("corrupt tool preferences")
)
