// Package evaluation provides rolling-origin cross-validation for forecasting
// models, implementing the ports.Evaluator contract.
package evaluation

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

var _ ports.Evaluator = (*RollingOriginEvaluator)(nil)

// Option keys recognized in the auxiliary options map passed to Evaluate.
const (
	// OptionFirstOrigin sets the index at which the first training window ends.
	OptionFirstOrigin = "first_origin"

	// OptionStride sets how many points each successive origin advances by.
	OptionStride = "stride"

	// OptionForecastHorizon caps the length of each held-out test window.
	// When absent, each split is scored on all points after its origin.
	OptionForecastHorizon = "forecast_horizon"
)

// RollingOriginEvaluator scores a model by repeatedly training it on a growing
// historical window and measuring forecast accuracy on the subsequent held-out
// segment. The per-split losses are summed into a single aggregate criterion.
//
// When the series cannot support the requested number of splits under the
// given options, Evaluate returns math.Inf(1) with a nil error, the unbounded
// sentinel defined by the ports.Evaluator contract.
//
// The evaluator is stateless and thread-safe; distinct models may be
// evaluated concurrently.
type RollingOriginEvaluator struct{}

// NewRollingOriginEvaluator creates a new RollingOriginEvaluator.
func NewRollingOriginEvaluator() *RollingOriginEvaluator {
	return &RollingOriginEvaluator{}
}

// splitPlan holds the resolved split geometry for one evaluation run.
type splitPlan struct {
	firstOrigin int
	stride      int
	horizon     int // 0 means forecast to the end of the series
}

// resolvePlan derives the split geometry from the options map and series
// length. ok is false when no valid plan exists, which callers surface as the
// unbounded sentinel rather than an error.
func resolvePlan(n, evaluations int, options map[string]any) (splitPlan, bool, error) {
	plan := splitPlan{}

	firstOrigin, ok, err := intOption(options, OptionFirstOrigin)
	if err != nil {
		return plan, false, err
	}
	stride, strideSet, err := intOption(options, OptionStride)
	if err != nil {
		return plan, false, err
	}
	horizon, horizonSet, err := intOption(options, OptionForecastHorizon)
	if err != nil {
		return plan, false, err
	}

	if !ok {
		firstOrigin = n / 2
	}
	if !strideSet {
		if evaluations > 0 {
			stride = (n - firstOrigin) / evaluations
		}
	}
	if horizonSet {
		plan.horizon = horizon
	}

	plan.firstOrigin = firstOrigin
	plan.stride = stride

	lastOrigin := firstOrigin + (evaluations-1)*stride
	valid := evaluations >= 1 &&
		firstOrigin >= 1 &&
		stride >= 1 &&
		lastOrigin < n &&
		(!horizonSet || horizon >= 1)
	return plan, valid, nil
}

// Evaluate performs the configured number of rolling-origin splits, retraining
// the model on each training window and scoring its forecast of the held-out
// segment. The aggregate criterion is the sum of per-split metric losses.
//
// Model and metric errors propagate unmodified apart from %w wrapping; an
// unsupportable split configuration yields math.Inf(1) with a nil error.
func (e *RollingOriginEvaluator) Evaluate(
	ctx context.Context,
	series domain.TimeSeries,
	model ports.ForecastModel,
	metric ports.Metric,
	evaluations int,
	options map[string]any,
) (float64, error) {
	n := series.Len()
	plan, valid, err := resolvePlan(n, evaluations, options)
	if err != nil {
		return 0, err
	}
	if !valid {
		return math.Inf(1), nil
	}

	var total float64
	for i := 0; i < evaluations; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		origin := plan.firstOrigin + i*plan.stride
		horizon := n - origin
		if plan.horizon > 0 && plan.horizon < horizon {
			horizon = plan.horizon
		}

		train, err := series.Slice(0, origin)
		if err != nil {
			return 0, fmt.Errorf("training window for origin %d: %w", origin, err)
		}
		actual, err := series.Slice(origin, origin+horizon)
		if err != nil {
			return 0, fmt.Errorf("test window for origin %d: %w", origin, err)
		}

		if err := model.Fit(ctx, train); err != nil {
			return 0, fmt.Errorf("fitting %s at origin %d: %w", model.Name(), origin, err)
		}
		predicted, err := model.Predict(ctx, horizon)
		if err != nil {
			return 0, fmt.Errorf("predicting with %s at origin %d: %w", model.Name(), origin, err)
		}

		loss, err := metric(actual, predicted)
		if err != nil {
			return 0, fmt.Errorf("scoring %s at origin %d: %w", model.Name(), origin, err)
		}
		total += loss
	}

	return total, nil
}

// intOption extracts an integer option from the map, coercing the numeric
// representations YAML and JSON decoders commonly produce.
func intOption(options map[string]any, key string) (int, bool, error) {
	raw, ok := options[key]
	if !ok {
		return 0, false, nil
	}
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		return int(v), true, nil
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, false, fmt.Errorf("option %s: %w", key, err)
		}
		return parsed, true, nil
	default:
		return 0, false, fmt.Errorf("option %s: unsupported type %T", key, raw)
	}
}
