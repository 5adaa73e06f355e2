// Package models provides baseline forecasting models implementing the
// ports.ForecastModel contract. They are intentionally simple: their role is
// to serve as ensemble constituents and reference points, not to compete with
// dedicated forecasting libraries.
package models

import (
	"context"
	"fmt"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// Verify interface compliance at compile time.
var (
	_ ports.ForecastModel = (*NaiveMean)(nil)
	_ ports.ForecastModel = (*NaiveDrift)(nil)
	_ ports.ForecastModel = (*NaiveSeasonal)(nil)
)

// fitState holds what a naive model retains from training.
type fitState struct {
	train domain.TimeSeries
	freq  time.Duration
}

func fit(series domain.TimeSeries) (fitState, error) {
	if series.Len() < 2 {
		return fitState{}, fmt.Errorf("training series needs at least 2 points, got %d", series.Len())
	}
	return fitState{
		train: series,
		freq:  series.At(1).Timestamp.Sub(series.At(0).Timestamp),
	}, nil
}

// forecast builds the horizon-length series continuing the training series,
// with values produced by the value function.
func (s fitState) forecast(horizon int, value func(step int) float64) (domain.TimeSeries, error) {
	values := make([]float64, horizon)
	for i := range values {
		values[i] = value(i)
	}
	return domain.NewTimeSeriesFromValues(s.train.End().Add(s.freq), s.freq, values)
}

// NaiveMean forecasts the arithmetic mean of the training series for every
// future point.
type NaiveMean struct {
	name  string
	state fitState
	mean  float64
}

// NewNaiveMean creates a NaiveMean model.
func NewNaiveMean(name string) *NaiveMean { return &NaiveMean{name: name} }

// Name returns the model identifier.
func (m *NaiveMean) Name() string { return m.name }

// Fit computes and stores the training mean.
func (m *NaiveMean) Fit(_ context.Context, series domain.TimeSeries) error {
	state, err := fit(series)
	if err != nil {
		return err
	}
	m.state = state
	m.mean = stat.Mean(series.Values(), nil)
	return nil
}

// Predict forecasts the training mean for the next horizon points.
func (m *NaiveMean) Predict(_ context.Context, horizon int) (domain.TimeSeries, error) {
	if m.state.train.Len() == 0 {
		return domain.TimeSeries{}, domain.ErrNotFitted
	}
	return m.state.forecast(horizon, func(int) float64 { return m.mean })
}

// NaiveDrift forecasts a straight line from the last training value with the
// average historical slope.
type NaiveDrift struct {
	name  string
	state fitState
	last  float64
	slope float64
}

// NewNaiveDrift creates a NaiveDrift model.
func NewNaiveDrift(name string) *NaiveDrift { return &NaiveDrift{name: name} }

// Name returns the model identifier.
func (m *NaiveDrift) Name() string { return m.name }

// Fit stores the last value and the average per-step drift.
func (m *NaiveDrift) Fit(_ context.Context, series domain.TimeSeries) error {
	state, err := fit(series)
	if err != nil {
		return err
	}
	m.state = state
	first := series.At(0).Value
	m.last = series.At(series.Len()-1).Value
	m.slope = (m.last - first) / float64(series.Len()-1)
	return nil
}

// Predict extrapolates the drift line for the next horizon points.
func (m *NaiveDrift) Predict(_ context.Context, horizon int) (domain.TimeSeries, error) {
	if m.state.train.Len() == 0 {
		return domain.TimeSeries{}, domain.ErrNotFitted
	}
	return m.state.forecast(horizon, func(step int) float64 {
		return m.last + m.slope*float64(step+1)
	})
}

// NaiveSeasonal repeats the last full season of the training series.
type NaiveSeasonal struct {
	name   string
	period int
	state  fitState
	season []float64
}

// NewNaiveSeasonal creates a NaiveSeasonal model with the given period.
func NewNaiveSeasonal(name string, period int) (*NaiveSeasonal, error) {
	if period < 1 {
		return nil, fmt.Errorf("seasonal period must be at least 1, got %d", period)
	}
	return &NaiveSeasonal{name: name, period: period}, nil
}

// Name returns the model identifier.
func (m *NaiveSeasonal) Name() string { return m.name }

// Fit stores the last full season of values. The training series must cover
// at least one full period.
func (m *NaiveSeasonal) Fit(_ context.Context, series domain.TimeSeries) error {
	state, err := fit(series)
	if err != nil {
		return err
	}
	if series.Len() < m.period {
		return fmt.Errorf("training series with %d points does not cover seasonal period %d",
			series.Len(), m.period)
	}
	m.state = state
	m.season = series.Values()[series.Len()-m.period:]
	return nil
}

// Predict repeats the stored season for the next horizon points.
func (m *NaiveSeasonal) Predict(_ context.Context, horizon int) (domain.TimeSeries, error) {
	if m.state.train.Len() == 0 {
		return domain.TimeSeries{}, domain.ErrNotFitted
	}
	return m.state.forecast(horizon, func(step int) float64 {
		return m.season[step%m.period]
	})
}
