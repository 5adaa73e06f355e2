// Package metrics provides pluggable forecast accuracy metrics implementing
// the ports.Metric contract. All metrics map an actual series and a predicted
// series of equal length to a non-negative scalar loss where lower is better.
package metrics

import (
	"fmt"
	"math"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// Verify metric contract compliance at compile time.
var (
	_ ports.Metric = SMAPE
	_ ports.Metric = MAE
	_ ports.Metric = RMSE
)

// checkAligned validates that the two series can be compared elementwise.
func checkAligned(actual, predicted domain.TimeSeries) error {
	if actual.Len() != predicted.Len() {
		return fmt.Errorf("%w: actual has %d points, predicted has %d",
			domain.ErrLengthMismatch, actual.Len(), predicted.Len())
	}
	return nil
}

// SMAPE computes the symmetric mean absolute percentage error between the
// actual and predicted series, expressed as a percentage in [0, 200].
// It is the default metric for cross-validation weighting.
//
// Points where both the actual and predicted values are zero contribute zero
// error, avoiding a divide-by-zero on flat series.
func SMAPE(actual, predicted domain.TimeSeries) (float64, error) {
	if err := checkAligned(actual, predicted); err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < actual.Len(); i++ {
		a := actual.At(i).Value
		p := predicted.At(i).Value
		denom := math.Abs(a) + math.Abs(p)
		if denom == 0 {
			continue
		}
		sum += math.Abs(a-p) / denom
	}
	return 200 * sum / float64(actual.Len()), nil
}

// MAE computes the mean absolute error between the actual and predicted series.
func MAE(actual, predicted domain.TimeSeries) (float64, error) {
	if err := checkAligned(actual, predicted); err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < actual.Len(); i++ {
		sum += math.Abs(actual.At(i).Value - predicted.At(i).Value)
	}
	return sum / float64(actual.Len()), nil
}

// RMSE computes the root mean squared error between the actual and predicted
// series.
func RMSE(actual, predicted domain.TimeSeries) (float64, error) {
	if err := checkAligned(actual, predicted); err != nil {
		return 0, err
	}
	var sum float64
	for i := 0; i < actual.Len(); i++ {
		d := actual.At(i).Value - predicted.At(i).Value
		sum += d * d
	}
	return math.Sqrt(sum / float64(actual.Len())), nil
}
