package errors

import "errors"

// Pipeline failure taxonomy. Soft failures (extraction, adaptation) degrade
// the operation and are logged, never surfaced to the caller as a request
// error. Hard failures (synthesis, validation, persistence, not-found) map to
// user-facing responses.
var (
	// ErrExtraction marks a failed text extraction; callers fall back to any
	// raw text supplied alongside the upload.
	ErrExtraction = errors.New("extraction failed")
	// ErrAdaptation marks a failed provider adaptation call or an incomplete
	// variant bundle. Distinct from ErrNoAdaptationInput.
	ErrAdaptation = errors.New("adaptation failed")
	// ErrNoAdaptationInput means the input text failed the validity gate and
	// the provider was never invoked.
	ErrNoAdaptationInput = errors.New("no usable adaptation input")
	// ErrSynthesis marks a failed question synthesis; no questions are created.
	ErrSynthesis = errors.New("question synthesis failed")
	// ErrValidation marks invalid caller input, rejected with a message.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a failed database write; any artifact written for
	// the same operation must be rolled back.
	ErrPersistence = errors.New("persistence failed")
	ErrNotFound    = errors.New("not found")
	ErrForbidden   = errors.New("forbidden")
)
