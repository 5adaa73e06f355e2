// Package testutils provides deterministic mock implementations of the
// forecasting contracts for consistent testing across packages.
package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.ForecastModel = (*MockModel)(nil)

// MockModel implements the ForecastModel interface with deterministic
// forecasts for reliable testing of the combination pipeline.
//
// The mock forecasts a constant value at the frequency of its training
// series, records every training window it receives, and can be configured
// to fail on Fit or Predict. It is safe for concurrent use, matching the
// parallel evaluation paths that exercise it.
type MockModel struct {
	mu sync.Mutex

	// name is the mock model identifier.
	name string
	// constant is the value forecast for every future point.
	constant float64
	// fitErr, when set, is returned by every Fit call.
	fitErr error
	// predictErr, when set, is returned by every Predict call.
	predictErr error

	// train is the most recent training series.
	train domain.TimeSeries
	// fitWindows records the length of every training window seen, in call order.
	fitWindows []int
}

// NewMockModel creates a MockModel that always forecasts the given constant.
func NewMockModel(name string, constant float64) *MockModel {
	return &MockModel{name: name, constant: constant}
}

// FailFit configures the mock to return err from every Fit call.
func (m *MockModel) FailFit(err error) *MockModel {
	m.fitErr = err
	return m
}

// FailPredict configures the mock to return err from every Predict call.
func (m *MockModel) FailPredict(err error) *MockModel {
	m.predictErr = err
	return m
}

// Name returns the mock model identifier.
func (m *MockModel) Name() string { return m.name }

// Fit records the training window and stores the series for Predict.
func (m *MockModel) Fit(_ context.Context, series domain.TimeSeries) error {
	if m.fitErr != nil {
		return m.fitErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.train = series
	m.fitWindows = append(m.fitWindows, series.Len())
	return nil
}

// Predict forecasts the constant value for the next horizon points,
// continuing the training series at its sampling frequency.
func (m *MockModel) Predict(_ context.Context, horizon int) (domain.TimeSeries, error) {
	if m.predictErr != nil {
		return domain.TimeSeries{}, m.predictErr
	}
	m.mu.Lock()
	train := m.train
	m.mu.Unlock()

	if train.Len() == 0 {
		return domain.TimeSeries{}, fmt.Errorf("mock model %s: %w", m.name, domain.ErrNotFitted)
	}

	freq := inferFrequency(train)
	values := make([]float64, horizon)
	for i := range values {
		values[i] = m.constant
	}
	return domain.NewTimeSeriesFromValues(train.End().Add(freq), freq, values)
}

// FitWindows returns the length of every training window seen, in call order.
func (m *MockModel) FitWindows() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	windows := make([]int, len(m.fitWindows))
	copy(windows, m.fitWindows)
	return windows
}

// defaultFrequency is the sampling interval assumed for single-point series,
// which carry no usable frequency of their own.
const defaultFrequency = time.Hour

// inferFrequency derives the sampling interval from the first two points of
// the series.
func inferFrequency(series domain.TimeSeries) time.Duration {
	if series.Len() >= 2 {
		return series.At(1).Timestamp.Sub(series.At(0).Timestamp)
	}
	return defaultFrequency
}
