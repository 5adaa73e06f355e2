// Package combiners provides combination strategies that implement the
// ports.Combiner interface for the forecast combination engine.
package combiners

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Common errors returned by combiner constructors and factories.
var (
	// ErrEmptyCombinerName is returned when attempting to create a combiner with an empty name.
	ErrEmptyCombinerName = errors.New("combiner name cannot be empty")

	// ErrNilEvaluator is returned when a combiner requiring cross-validation
	// is created without an evaluator.
	ErrNilEvaluator = errors.New("evaluator cannot be nil")

	// ErrNilMetric is returned when a combiner requiring cross-validation
	// is created without a metric.
	ErrNilMetric = errors.New("metric cannot be nil")
)

// Package-level validator instance for configuration validation.
// Uses go-playground/validator v10 for struct tag-based validation.
var validate = validator.New()
