package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seriesStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNewTimeSeries(t *testing.T) {
	t.Run("valid points", func(t *testing.T) {
		ts, err := NewTimeSeries([]Point{
			{Timestamp: seriesStart, Value: 1},
			{Timestamp: seriesStart.Add(time.Hour), Value: 2},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, ts.Len())
		assert.Equal(t, []float64{1, 2}, ts.Values())
		assert.Equal(t, seriesStart, ts.Start())
		assert.Equal(t, seriesStart.Add(time.Hour), ts.End())
	})

	t.Run("empty", func(t *testing.T) {
		_, err := NewTimeSeries(nil)
		assert.ErrorIs(t, err, ErrEmptySeries)
	})

	t.Run("unordered timestamps", func(t *testing.T) {
		_, err := NewTimeSeries([]Point{
			{Timestamp: seriesStart.Add(time.Hour), Value: 1},
			{Timestamp: seriesStart, Value: 2},
		})
		assert.ErrorIs(t, err, ErrUnorderedSeries)
	})

	t.Run("duplicate timestamps", func(t *testing.T) {
		_, err := NewTimeSeries([]Point{
			{Timestamp: seriesStart, Value: 1},
			{Timestamp: seriesStart, Value: 2},
		})
		assert.ErrorIs(t, err, ErrUnorderedSeries)
	})

	t.Run("caller slice cannot mutate the series", func(t *testing.T) {
		points := []Point{
			{Timestamp: seriesStart, Value: 1},
			{Timestamp: seriesStart.Add(time.Hour), Value: 2},
		}
		ts, err := NewTimeSeries(points)
		require.NoError(t, err)
		points[0].Value = 99
		assert.Equal(t, 1.0, ts.At(0).Value)
	})
}

func TestNewTimeSeriesFromValues(t *testing.T) {
	ts, err := NewTimeSeriesFromValues(seriesStart, time.Hour, []float64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, 3, ts.Len())
	assert.Equal(t, seriesStart.Add(2*time.Hour), ts.End())

	_, err = NewTimeSeriesFromValues(seriesStart, 0, []float64{1})
	assert.Error(t, err)
}

func TestTimeSeries_Slice(t *testing.T) {
	ts, err := NewTimeSeriesFromValues(seriesStart, time.Hour, []float64{1, 2, 3, 4, 5})
	require.NoError(t, err)

	head, err := ts.Slice(0, 3)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, head.Values())

	tail, err := ts.Slice(3, 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5}, tail.Values())
	assert.Equal(t, seriesStart.Add(3*time.Hour), tail.Start())

	for _, bounds := range [][2]int{{-1, 2}, {2, 2}, {3, 2}, {0, 6}} {
		_, err := ts.Slice(bounds[0], bounds[1])
		assert.ErrorIs(t, err, ErrInvalidRange, "slice [%d, %d)", bounds[0], bounds[1])
	}
}

func TestTimeSeries_Scale(t *testing.T) {
	ts, err := NewTimeSeriesFromValues(seriesStart, time.Hour, []float64{1, -2, 3})
	require.NoError(t, err)

	scaled := ts.Scale(0.5)
	assert.Equal(t, []float64{0.5, -1, 1.5}, scaled.Values())
	assert.Equal(t, []float64{1, -2, 3}, ts.Values(), "original series is unchanged")
	assert.Equal(t, ts.Timestamps(), scaled.Timestamps())
}

func TestTimeSeries_Add(t *testing.T) {
	a, err := NewTimeSeriesFromValues(seriesStart, time.Hour, []float64{1, 2, 3})
	require.NoError(t, err)
	b, err := NewTimeSeriesFromValues(seriesStart, time.Hour, []float64{10, 20, 30})
	require.NoError(t, err)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 33}, sum.Values())
	assert.Equal(t, a.Timestamps(), sum.Timestamps())

	short, err := NewTimeSeriesFromValues(seriesStart, time.Hour, []float64{1})
	require.NoError(t, err)
	_, err = a.Add(short)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestEvaluationError(t *testing.T) {
	err := NewEvaluationError(3, ErrEvaluationImpossible)
	assert.ErrorIs(t, err, ErrEvaluationImpossible)
	assert.Contains(t, err.Error(), "model 3")

	var evalErr *EvaluationError
	require.ErrorAs(t, error(err), &evalErr)
	assert.Equal(t, 3, evalErr.ModelIndex)
}
