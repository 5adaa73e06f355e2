// Package domain contains pure, dependency-free domain models and types
// for the forecast combination engine.
package domain

import (
	"fmt"
	"time"
)

// Point represents a single timestamped observation in a time series.
type Point struct {
	// Timestamp is the time at which the value was observed or forecast.
	Timestamp time.Time `json:"timestamp"`

	// Value is the observed or forecast value.
	Value float64 `json:"value"`
}

// TimeSeries is an ordered sequence of timestamped values.
// Values are immutable once the series is constructed: every operation that
// would change a value returns a new TimeSeries instead.
//
// Timestamps are strictly increasing; this is enforced at construction and
// preserved by all derived series.
type TimeSeries struct {
	points []Point
}

// NewTimeSeries creates a TimeSeries from the given points.
// It returns an error if the points are empty or their timestamps are not
// strictly increasing.
func NewTimeSeries(points []Point) (TimeSeries, error) {
	if len(points) == 0 {
		return TimeSeries{}, ErrEmptySeries
	}
	for i := 1; i < len(points); i++ {
		if !points[i].Timestamp.After(points[i-1].Timestamp) {
			return TimeSeries{}, fmt.Errorf(
				"%w: timestamp at index %d (%s) is not after index %d (%s)",
				ErrUnorderedSeries, i, points[i].Timestamp, i-1, points[i-1].Timestamp)
		}
	}
	// Copy to guarantee the series cannot be mutated through the caller's slice.
	owned := make([]Point, len(points))
	copy(owned, points)
	return TimeSeries{points: owned}, nil
}

// NewTimeSeriesFromValues creates a TimeSeries from raw values at a fixed
// frequency starting at the given time. It is a convenience constructor for
// regularly sampled series.
func NewTimeSeriesFromValues(start time.Time, freq time.Duration, values []float64) (TimeSeries, error) {
	if freq <= 0 {
		return TimeSeries{}, fmt.Errorf("%w: frequency must be positive, got %s", ErrUnorderedSeries, freq)
	}
	points := make([]Point, len(values))
	for i, v := range values {
		points[i] = Point{Timestamp: start.Add(time.Duration(i) * freq), Value: v}
	}
	return NewTimeSeries(points)
}

// Len returns the number of points in the series.
func (ts TimeSeries) Len() int { return len(ts.points) }

// At returns the point at index i.
func (ts TimeSeries) At(i int) Point { return ts.points[i] }

// Values returns a copy of the series values in order.
func (ts TimeSeries) Values() []float64 {
	values := make([]float64, len(ts.points))
	for i, p := range ts.points {
		values[i] = p.Value
	}
	return values
}

// Timestamps returns a copy of the series timestamps in order.
func (ts TimeSeries) Timestamps() []time.Time {
	stamps := make([]time.Time, len(ts.points))
	for i, p := range ts.points {
		stamps[i] = p.Timestamp
	}
	return stamps
}

// Start returns the timestamp of the first point.
func (ts TimeSeries) Start() time.Time { return ts.points[0].Timestamp }

// End returns the timestamp of the last point.
func (ts TimeSeries) End() time.Time { return ts.points[len(ts.points)-1].Timestamp }

// Slice returns the sub-series covering indices [from, to).
// It returns an error if the range is empty or out of bounds.
func (ts TimeSeries) Slice(from, to int) (TimeSeries, error) {
	if from < 0 || to > len(ts.points) || from >= to {
		return TimeSeries{}, fmt.Errorf("%w: slice [%d, %d) of series with %d points",
			ErrInvalidRange, from, to, len(ts.points))
	}
	owned := make([]Point, to-from)
	copy(owned, ts.points[from:to])
	return TimeSeries{points: owned}, nil
}

// Scale returns a new series with every value multiplied by factor.
// Timestamps are unchanged.
func (ts TimeSeries) Scale(factor float64) TimeSeries {
	scaled := make([]Point, len(ts.points))
	for i, p := range ts.points {
		scaled[i] = Point{Timestamp: p.Timestamp, Value: p.Value * factor}
	}
	return TimeSeries{points: scaled}
}

// Add returns the elementwise sum of ts and other.
// Both series must have the same length; timestamps are taken from the
// receiver. Callers are responsible for supplying aligned series.
func (ts TimeSeries) Add(other TimeSeries) (TimeSeries, error) {
	if len(ts.points) != len(other.points) {
		return TimeSeries{}, fmt.Errorf("%w: %d vs %d points",
			ErrLengthMismatch, len(ts.points), len(other.points))
	}
	sum := make([]Point, len(ts.points))
	for i, p := range ts.points {
		sum[i] = Point{Timestamp: p.Timestamp, Value: p.Value + other.points[i].Value}
	}
	return TimeSeries{points: sum}, nil
}
