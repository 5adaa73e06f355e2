// Package application wires combiners, models, and configuration into the
// ensemble forecasting lifecycle.
package application

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// EnsembleModel owns an ordered list of constituent forecasting models and a
// training series, and delegates the aggregation of their forecasts to a
// pluggable ports.Combiner.
//
// The lifecycle is fit then predict: Fit derives the combiner's state from
// the training series and trains every constituent on the full history;
// Predict collects one forecast per constituent, in model list order, and
// returns their combination. Predict may be called many times per fit.
type EnsembleModel struct {
	// models is the ordered list of constituent forecasting models.
	models []ports.ForecastModel
	// combiner aggregates the constituent forecasts.
	combiner ports.Combiner
	// train is the series the ensemble was last fitted on.
	train domain.TimeSeries
	// predictions holds the most recent per-model forecasts, in model list order.
	predictions []domain.TimeSeries
	// fitted reports whether the last Fit completed successfully.
	fitted bool
}

// NewEnsembleModel creates an EnsembleModel over the given constituents and
// combination strategy. The model list order is significant: combiners
// associate weights with models by position.
func NewEnsembleModel(models []ports.ForecastModel, combiner ports.Combiner) (*EnsembleModel, error) {
	if len(models) == 0 {
		return nil, domain.ErrNoModels
	}
	if combiner == nil {
		return nil, fmt.Errorf("combiner cannot be nil")
	}
	if err := combiner.Validate(); err != nil {
		return nil, fmt.Errorf("combiner %s: %w", combiner.Name(), err)
	}
	owned := make([]ports.ForecastModel, len(models))
	copy(owned, models)
	return &EnsembleModel{models: owned, combiner: combiner}, nil
}

// Fit derives the combination state and trains every constituent model.
//
// The combiner fits first: cross-validating combiners retrain the
// constituents on historical sub-windows, so the full-history training pass
// runs afterwards to leave every model trained on the complete series. If the
// combiner fit fails the ensemble stays unfitted and the error is returned
// unmodified.
func (e *EnsembleModel) Fit(ctx context.Context, series domain.TimeSeries) error {
	e.fitted = false
	e.predictions = nil

	if err := e.combiner.Fit(ctx, series, e.models); err != nil {
		return err
	}

	for i, model := range e.models {
		if err := model.Fit(ctx, series); err != nil {
			return fmt.Errorf("fitting model %d (%s): %w", i, model.Name(), err)
		}
	}

	e.train = series
	e.fitted = true
	return nil
}

// Predict forecasts the next horizon points by collecting one forecast per
// constituent model and delegating their aggregation to the combiner.
// Constituents predict concurrently; results are kept in model list order so
// the combiner's weight-to-model association holds.
func (e *EnsembleModel) Predict(ctx context.Context, horizon int) (domain.TimeSeries, error) {
	if !e.fitted {
		return domain.TimeSeries{}, domain.ErrNotFitted
	}
	if horizon < 1 {
		return domain.TimeSeries{}, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	predictions := make([]domain.TimeSeries, len(e.models))
	var mu sync.Mutex // Protect predictions slice

	g, gctx := errgroup.WithContext(ctx)
	for i, model := range e.models {
		g.Go(func() error {
			forecast, err := model.Predict(gctx, horizon)
			if err != nil {
				return fmt.Errorf("predicting with model %d (%s): %w", i, model.Name(), err)
			}
			mu.Lock()
			predictions[i] = forecast
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.TimeSeries{}, err
	}

	e.predictions = predictions
	return e.combiner.Combine(predictions)
}

// Predictions returns a copy of the most recent per-model forecasts, in model
// list order, or nil if Predict has not run since the last fit.
func (e *EnsembleModel) Predictions() []domain.TimeSeries {
	if e.predictions == nil {
		return nil
	}
	predictions := make([]domain.TimeSeries, len(e.predictions))
	copy(predictions, e.predictions)
	return predictions
}

// Combiner returns the ensemble's combination strategy.
func (e *EnsembleModel) Combiner() ports.Combiner { return e.combiner }
