package application

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahrav/go-ensemble/infrastructure/combiners"
	"github.com/ahrav/go-ensemble/infrastructure/metrics"
	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
	"github.com/ahrav/go-ensemble/internal/testutils"
)

func trainSeries(t *testing.T, values ...float64) domain.TimeSeries {
	t.Helper()
	series, err := domain.NewTimeSeriesFromValues(
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Hour, values)
	require.NoError(t, err)
	return series
}

func cvCombiner(t *testing.T, evaluator ports.Evaluator) *combiners.CrossValidationCombiner {
	t.Helper()
	combiner, err := combiners.NewCrossValidationCombiner(
		"cv", evaluator, metrics.SMAPE, combiners.DefaultCrossValidationConfig())
	require.NoError(t, err)
	return combiner
}

func TestNewEnsembleModel(t *testing.T) {
	evaluator := testutils.NewMockEvaluator(1.0)
	models := []ports.ForecastModel{testutils.NewMockModel("a", 1)}

	t.Run("valid", func(t *testing.T) {
		ensemble, err := NewEnsembleModel(models, cvCombiner(t, evaluator))
		require.NoError(t, err)
		assert.Equal(t, "cv", ensemble.Combiner().Name())
	})

	t.Run("no models", func(t *testing.T) {
		_, err := NewEnsembleModel(nil, cvCombiner(t, evaluator))
		assert.ErrorIs(t, err, domain.ErrNoModels)
	})

	t.Run("nil combiner", func(t *testing.T) {
		_, err := NewEnsembleModel(models, nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "combiner cannot be nil")
	})
}

func TestEnsembleModel_FitPredict(t *testing.T) {
	train := trainSeries(t, 1, 2, 3, 4, 5, 6, 7, 8)
	// Losses [2, 1, 1] yield weights [0.2, 0.4, 0.4].
	evaluator := testutils.NewMockEvaluator(1.0).
		SetLoss("a", 2).
		SetLoss("b", 1).
		SetLoss("c", 1)
	modelA := testutils.NewMockModel("a", 10)
	modelB := testutils.NewMockModel("b", 20)
	modelC := testutils.NewMockModel("c", 30)

	ensemble, err := NewEnsembleModel(
		[]ports.ForecastModel{modelA, modelB, modelC}, cvCombiner(t, evaluator))
	require.NoError(t, err)

	require.NoError(t, ensemble.Fit(context.Background(), train))

	t.Run("constituents end trained on the full series", func(t *testing.T) {
		windows := modelA.FitWindows()
		require.NotEmpty(t, windows)
		assert.Equal(t, train.Len(), windows[len(windows)-1])
	})

	forecast, err := ensemble.Predict(context.Background(), 3)
	require.NoError(t, err)
	require.Equal(t, 3, forecast.Len())
	for i := 0; i < forecast.Len(); i++ {
		assert.InDelta(t, 0.2*10+0.4*20+0.4*30, forecast.At(i).Value, 1e-9)
	}

	t.Run("per-model predictions retained in order", func(t *testing.T) {
		predictions := ensemble.Predictions()
		require.Len(t, predictions, 3)
		assert.Equal(t, 10.0, predictions[0].At(0).Value)
		assert.Equal(t, 20.0, predictions[1].At(0).Value)
		assert.Equal(t, 30.0, predictions[2].At(0).Value)
	})

	t.Run("repeated predicts reuse the fitted weights", func(t *testing.T) {
		callsBefore := len(evaluator.Calls())
		again, err := ensemble.Predict(context.Background(), 3)
		require.NoError(t, err)
		assert.Equal(t, forecast.Values(), again.Values())
		assert.Len(t, evaluator.Calls(), callsBefore, "predict must not re-run evaluations")
	})

	t.Run("invalid horizon", func(t *testing.T) {
		_, err := ensemble.Predict(context.Background(), 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "horizon")
	})
}

func TestEnsembleModel_FitFailure(t *testing.T) {
	train := trainSeries(t, 1, 2, 3, 4)
	evaluator := testutils.NewMockEvaluator(1.0).SetLoss("b", math.Inf(1))
	models := []ports.ForecastModel{
		testutils.NewMockModel("a", 1),
		testutils.NewMockModel("b", 2),
	}

	ensemble, err := NewEnsembleModel(models, cvCombiner(t, evaluator))
	require.NoError(t, err)

	fitErr := ensemble.Fit(context.Background(), train)
	require.ErrorIs(t, fitErr, domain.ErrEvaluationImpossible)

	_, predictErr := ensemble.Predict(context.Background(), 1)
	assert.ErrorIs(t, predictErr, domain.ErrNotFitted)
}

func TestEnsembleModel_PredictBeforeFit(t *testing.T) {
	ensemble, err := NewEnsembleModel(
		[]ports.ForecastModel{testutils.NewMockModel("a", 1)},
		cvCombiner(t, testutils.NewMockEvaluator(1.0)))
	require.NoError(t, err)

	_, predictErr := ensemble.Predict(context.Background(), 1)
	assert.ErrorIs(t, predictErr, domain.ErrNotFitted)
	assert.Nil(t, ensemble.Predictions())
}

func TestEnsembleModel_PredictError(t *testing.T) {
	train := trainSeries(t, 1, 2, 3, 4)
	predictErr := errors.New("no forecast available")
	evaluator := testutils.NewMockEvaluator(1.0)
	models := []ports.ForecastModel{
		testutils.NewMockModel("a", 1),
		testutils.NewMockModel("b", 2).FailPredict(predictErr),
	}

	ensemble, err := NewEnsembleModel(models, cvCombiner(t, evaluator))
	require.NoError(t, err)
	require.NoError(t, ensemble.Fit(context.Background(), train))

	_, err = ensemble.Predict(context.Background(), 2)
	assert.ErrorIs(t, err, predictErr)
}
