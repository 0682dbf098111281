package domain

import "errors"

// Domain errors represent pipeline failures.
// Adapters mark their transport errors with these so callers can match on kind.
var (
	// ErrSourceUnavailable indicates the record store query failed.
	// It is the only error that ends a run early.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrEmptyContent indicates no configured field produced usable text.
	ErrEmptyContent = errors.New(ReasonEmptyContent)

	// ErrEmptyInput indicates blank text was passed to the transformer.
	ErrEmptyInput = errors.New("empty input")

	// ErrModelFailure indicates the generation call errored, was blocked
	// or returned no text.
	ErrModelFailure = errors.New("model failure")

	// ErrConfiguration indicates a required setting is missing or invalid.
	ErrConfiguration = errors.New("configuration error")

	// ErrUnsupportedProvider indicates an unknown LLM provider name.
	ErrUnsupportedProvider = errors.New("unsupported provider")

	// ErrNotFound indicates a requested resource does not exist.
	ErrNotFound = errors.New("not found")
)
