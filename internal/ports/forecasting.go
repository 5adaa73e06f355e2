// Package ports defines the core interfaces that form the contract between
// the domain/application layers and the infrastructure layer.
// These interfaces enable dependency inversion and make the system testable.
package ports

import (
	"context"

	"github.com/ahrav/go-ensemble/internal/domain"
)

// ForecastModel is a constituent forecasting model.
// Implementations are arbitrary: statistical models, regressions, or remote
// services. A model must be refittable: Fit may be called many times with
// different training windows, as cross-validation does during evaluation.
type ForecastModel interface {
	// Name returns a unique identifier for this model.
	// The name is used for observability and configuration.
	Name() string

	// Fit trains the model on the given series, replacing any prior training.
	// The context allows cancellation of long-running training.
	Fit(ctx context.Context, series domain.TimeSeries) error

	// Predict forecasts the next horizon points after the training series.
	// It returns an error if the model has not been fitted.
	Predict(ctx context.Context, horizon int) (domain.TimeSeries, error)
}

// Metric maps an actual and a predicted series to a non-negative scalar loss.
// Lower is better. Both series must have the same length.
type Metric func(actual, predicted domain.TimeSeries) (float64, error)

// Evaluator scores a model against a series using repeated rolling-origin
// train/test splits, aggregating the per-split metric losses into one scalar.
//
// Evaluate returns math.Inf(1) with a nil error when the model cannot be
// validly evaluated on the series under the given configuration (for example
// when the series is too short for the requested number of evaluations).
// The infinite value is a sentinel, not an error: callers decide how to
// react to it. Errors returned by the model or metric propagate unmodified.
type Evaluator interface {
	Evaluate(
		ctx context.Context,
		series domain.TimeSeries,
		model ForecastModel,
		metric Metric,
		evaluations int,
		options map[string]any,
	) (float64, error)
}

// Combiner is the pluggable aggregation strategy an ensemble delegates to.
// Fit derives whatever internal state the strategy needs from the training
// series and the constituent models; Combine aggregates per-model predictions
// into a single series using that state.
// Implementations must keep weight-to-model association by list order.
type Combiner interface {
	// Name returns a unique identifier for this combiner instance.
	Name() string

	// Fit derives the combination state for the given models.
	// A failed fit invalidates any previously derived state.
	Fit(ctx context.Context, train domain.TimeSeries, models []ForecastModel) error

	// Combine aggregates per-model predictions, in model list order, into a
	// single series. It is a pure function of the predictions and the state
	// derived by the last successful Fit, and may be called many times per fit.
	Combine(predictions []domain.TimeSeries) (domain.TimeSeries, error)

	// Validate checks if the combiner is properly configured.
	Validate() error
}
