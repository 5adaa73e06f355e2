package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by series and combination operations.
var (
	// ErrEmptySeries indicates that a series was constructed with no points.
	ErrEmptySeries = errors.New("series must contain at least one point")

	// ErrUnorderedSeries indicates that series timestamps are not strictly increasing.
	ErrUnorderedSeries = errors.New("series timestamps must be strictly increasing")

	// ErrInvalidRange indicates that a slice range is empty or out of bounds.
	ErrInvalidRange = errors.New("invalid series range")

	// ErrLengthMismatch indicates that two sequences expected to align have
	// different lengths.
	ErrLengthMismatch = errors.New("length mismatch")

	// ErrEvaluationImpossible indicates that at least one model could not be
	// validly cross-validated against the supplied series under the current
	// configuration, typically because the series is too short for the
	// requested number of evaluations.
	ErrEvaluationImpossible = errors.New("impossible to evaluate model on this series")

	// ErrNotFitted indicates that weights were requested before a successful fit.
	ErrNotFitted = errors.New("combiner has not been fitted")

	// ErrNoModels indicates that a fit was attempted with an empty model list.
	ErrNoModels = errors.New("no models to fit")
)

// EvaluationError reports which constituent model failed cross-validation.
// It wraps ErrEvaluationImpossible so callers can test for the condition
// with errors.Is while still recovering the failing index.
type EvaluationError struct {
	// ModelIndex is the position of the failing model in the constituent list.
	ModelIndex int

	// Err is the underlying error, usually ErrEvaluationImpossible.
	Err error
}

// Error implements the error interface for EvaluationError.
func (e *EvaluationError) Error() string {
	return fmt.Sprintf("model %d: %v", e.ModelIndex, e.Err)
}

// Unwrap returns the underlying error, supporting Go 1.13+ error unwrapping.
func (e *EvaluationError) Unwrap() error { return e.Err }

// NewEvaluationError creates an EvaluationError for the model at the given index.
func NewEvaluationError(index int, err error) *EvaluationError {
	return &EvaluationError{ModelIndex: index, Err: err}
}
