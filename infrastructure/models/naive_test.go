package models

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-ensemble/internal/domain"
)

func series(t *testing.T, values ...float64) domain.TimeSeries {
	t.Helper()
	s, err := domain.NewTimeSeriesFromValues(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour, values)
	require.NoError(t, err)
	return s
}

func TestNaiveMean(t *testing.T) {
	model := NewNaiveMean("mean")
	train := series(t, 2, 4, 6, 8)

	require.NoError(t, model.Fit(context.Background(), train))
	forecast, err := model.Predict(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 3, forecast.Len())
	for i := 0; i < forecast.Len(); i++ {
		assert.InDelta(t, 5.0, forecast.At(i).Value, 1e-12)
	}
	assert.Equal(t, train.End().Add(time.Hour), forecast.Start(),
		"forecast continues the training series")
}

func TestNaiveDrift(t *testing.T) {
	model := NewNaiveDrift("drift")
	require.NoError(t, model.Fit(context.Background(), series(t, 1, 3, 5, 7)))

	forecast, err := model.Predict(context.Background(), 2)
	require.NoError(t, err)
	assert.InDelta(t, 9.0, forecast.At(0).Value, 1e-12)
	assert.InDelta(t, 11.0, forecast.At(1).Value, 1e-12)
}

func TestNaiveSeasonal(t *testing.T) {
	model, err := NewNaiveSeasonal("seasonal", 3)
	require.NoError(t, err)
	require.NoError(t, model.Fit(context.Background(), series(t, 9, 9, 9, 1, 2, 3)))

	forecast, err := model.Predict(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 1, 2}, forecast.Values())

	t.Run("training shorter than period", func(t *testing.T) {
		short, err := NewNaiveSeasonal("seasonal", 10)
		require.NoError(t, err)
		assert.Error(t, short.Fit(context.Background(), series(t, 1, 2, 3)))
	})

	t.Run("invalid period", func(t *testing.T) {
		_, err := NewNaiveSeasonal("seasonal", 0)
		assert.Error(t, err)
	})
}

func TestNaiveModels_PredictBeforeFit(t *testing.T) {
	seasonal, err := NewNaiveSeasonal("seasonal", 2)
	require.NoError(t, err)

	for _, model := range []interface {
		Predict(context.Context, int) (domain.TimeSeries, error)
	}{
		NewNaiveMean("mean"), NewNaiveDrift("drift"), seasonal,
	} {
		_, err := model.Predict(context.Background(), 1)
		assert.ErrorIs(t, err, domain.ErrNotFitted)
	}
}

func TestNaiveModels_RefitReplacesTraining(t *testing.T) {
	model := NewNaiveMean("mean")
	require.NoError(t, model.Fit(context.Background(), series(t, 10, 10)))
	require.NoError(t, model.Fit(context.Background(), series(t, 2, 2)))

	forecast, err := model.Predict(context.Background(), 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, forecast.At(0).Value, 1e-12)
}
