package combiners

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

var _ ports.Combiner = (*CrossValidationCombiner)(nil)

// Configuration constants for CrossValidationCombiner.
const (
	// DefaultEvaluations is the number of rolling-origin splits used to score
	// each constituent model when none is configured.
	DefaultEvaluations = 6

	// DefaultFitConcurrency is the number of models evaluated concurrently
	// during a fit. Evaluations retrain models repeatedly, so this bounds the
	// amount of simultaneous training work.
	DefaultFitConcurrency = 4

	// WeightSumTolerance is the absolute tolerance within which the derived
	// weight vector must sum to one.
	WeightSumTolerance = 1e-9

	// optionEvaluations is the auxiliary option key that, when present in an
	// UpdateOptions call, is pulled out into the evaluation count instead of
	// being forwarded to the evaluator.
	optionEvaluations = "n_evaluations"
)

// CrossValidationCombiner derives per-model combination weights from
// rolling-origin cross-validation losses. Each constituent model is scored by
// the injected evaluator; the weight of a model is the reciprocal of its loss,
// normalized so all weights sum to one. A model with half the loss of another
// therefore contributes twice the unnormalized score.
//
// Two degenerate outcomes are defined:
//   - A model whose loss is exactly zero takes the entire weight. When several
//     models are perfect, the FIRST one in list order wins; later perfect
//     models receive weight zero. This is a deterministic tie-break, not an
//     error.
//   - A model whose loss is the unbounded sentinel (+Inf) makes the fit fail
//     with domain.ErrEvaluationImpossible. No weight vector is published and
//     any previously derived weights are invalidated.
//
// The combiner is not safe for concurrent mutation: Fit and UpdateOptions must
// not overlap. Combine is a pure read and may be called repeatedly between
// fits.
type CrossValidationCombiner struct {
	// name is the unique identifier for this combiner instance.
	name string
	// config contains the validated configuration parameters.
	config CrossValidationConfig
	// evaluator scores each model against the training series.
	evaluator ports.Evaluator
	// metric is the accuracy measure passed to the evaluator, fixed at construction.
	metric ports.Metric
	// options are auxiliary evaluator options, replaced wholesale by UpdateOptions.
	options map[string]any

	// criterion holds the per-model aggregate losses from the last fit attempt.
	criterion []float64
	// weights holds the normalized weight vector from the last successful fit;
	// nil when no valid fit exists.
	weights []float64
}

// CrossValidationConfig defines the configuration parameters for the
// CrossValidationCombiner. All fields are validated during combiner creation
// and parameter unmarshaling.
type CrossValidationConfig struct {
	// Evaluations is the number of rolling-origin splits used to compute each
	// model's aggregate loss.
	Evaluations int `yaml:"n_evaluations" json:"n_evaluations" validate:"required,min=1"`

	// MaxConcurrency limits how many models are evaluated simultaneously
	// during a fit. Defaults to DefaultFitConcurrency if not specified.
	MaxConcurrency int `yaml:"max_concurrency" json:"max_concurrency" validate:"min=1,max=64"`
}

// DefaultCrossValidationConfig returns a CrossValidationConfig with sensible defaults.
func DefaultCrossValidationConfig() CrossValidationConfig {
	return CrossValidationConfig{
		Evaluations:    DefaultEvaluations,
		MaxConcurrency: DefaultFitConcurrency,
	}
}

// NewCrossValidationCombiner creates a new CrossValidationCombiner with the
// specified evaluator, metric, and configuration.
// It returns an error if the configuration is invalid or a dependency is missing.
func NewCrossValidationCombiner(
	name string,
	evaluator ports.Evaluator,
	metric ports.Metric,
	config CrossValidationConfig,
) (*CrossValidationCombiner, error) {
	if name == "" {
		return nil, ErrEmptyCombinerName
	}
	if evaluator == nil {
		return nil, ErrNilEvaluator
	}
	if metric == nil {
		return nil, ErrNilMetric
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &CrossValidationCombiner{
		name:      name,
		config:    config,
		evaluator: evaluator,
		metric:    metric,
	}, nil
}

// Name returns the unique identifier for this combiner instance.
func (c *CrossValidationCombiner) Name() string { return c.name }

// UpdateOptions replaces the auxiliary evaluator options wholesale with the
// supplied mapping; options from previous calls are discarded, never merged.
// An "n_evaluations" entry is extracted into the evaluation count and removed
// from the forwarded options; when absent, the evaluation count is unchanged.
//
// Updating options has no effect on already-derived weights until the next Fit.
func (c *CrossValidationCombiner) UpdateOptions(options map[string]any) error {
	replaced := make(map[string]any, len(options))
	for k, v := range options {
		replaced[k] = v
	}

	if raw, ok := replaced[optionEvaluations]; ok {
		evaluations, err := coerceInt(raw)
		if err != nil {
			return fmt.Errorf("option %s: %w", optionEvaluations, err)
		}
		if evaluations < 1 {
			return fmt.Errorf("option %s: must be at least 1, got %d", optionEvaluations, evaluations)
		}
		c.config.Evaluations = evaluations
		delete(replaced, optionEvaluations)
	}

	c.options = replaced
	return nil
}

// Fit scores every constituent model with the evaluator and derives the
// weight vector. Models are evaluated concurrently up to the configured
// limit, with results written back in model list order so the first-zero
// tie-break and the weight-to-model association stay deterministic.
//
// On any failure, including the unbounded sentinel, previously derived
// weights are invalidated and Combine returns domain.ErrNotFitted until a
// subsequent fit succeeds.
func (c *CrossValidationCombiner) Fit(
	ctx context.Context,
	train domain.TimeSeries,
	models []ports.ForecastModel,
) error {
	if len(models) == 0 {
		return domain.ErrNoModels
	}

	criterion := make([]float64, len(models))
	var mu sync.Mutex // Protect criterion slice

	g, gctx := errgroup.WithContext(ctx)

	maxConcurrency := c.config.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultFitConcurrency
	}
	g.SetLimit(maxConcurrency)

	for i, model := range models {
		g.Go(func() error {
			loss, err := c.evaluator.Evaluate(gctx, train, model, c.metric, c.config.Evaluations, c.options)
			if err != nil {
				return fmt.Errorf("evaluating model %d (%s): %w", i, model.Name(), err)
			}

			mu.Lock()
			criterion[i] = loss
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.criterion = nil
		c.weights = nil
		return err
	}

	// The criterion vector is published even when weighting fails below, so
	// callers can inspect which model was impossible to evaluate.
	c.criterion = criterion
	c.weights = nil

	for i, loss := range criterion {
		if math.IsInf(loss, 1) {
			return domain.NewEvaluationError(i, domain.ErrEvaluationImpossible)
		}
	}

	for i, loss := range criterion {
		if loss == 0 {
			weights := make([]float64, len(criterion))
			weights[i] = 1
			c.weights = weights
			return nil
		}
	}

	scores := make([]float64, len(criterion))
	for i, loss := range criterion {
		scores[i] = 1 / loss
	}
	floats.Scale(1/floats.Sum(scores), scores)
	c.weights = scores
	return nil
}

// Combine aggregates per-model predictions into a single series as the
// elementwise weighted sum using the weights from the last successful fit.
// Predictions must be supplied in model list order and be elementwise
// compatible; timestamp alignment is the caller's contract and is not
// re-validated here.
//
// Combine has no side effects and yields identical output for identical input.
func (c *CrossValidationCombiner) Combine(predictions []domain.TimeSeries) (domain.TimeSeries, error) {
	if c.weights == nil {
		return domain.TimeSeries{}, domain.ErrNotFitted
	}
	if len(predictions) != len(c.weights) {
		return domain.TimeSeries{}, fmt.Errorf("%w: %d predictions for %d weights",
			domain.ErrLengthMismatch, len(predictions), len(c.weights))
	}

	combined := predictions[0].Scale(c.weights[0])
	for i := 1; i < len(predictions); i++ {
		sum, err := combined.Add(predictions[i].Scale(c.weights[i]))
		if err != nil {
			return domain.TimeSeries{}, fmt.Errorf("combining prediction %d: %w", i, err)
		}
		combined = sum
	}
	return combined, nil
}

// Weights returns a copy of the weight vector from the last successful fit,
// or nil when no valid fit exists.
func (c *CrossValidationCombiner) Weights() []float64 {
	if c.weights == nil {
		return nil
	}
	weights := make([]float64, len(c.weights))
	copy(weights, c.weights)
	return weights
}

// Criterion returns a copy of the per-model aggregate losses from the last
// fit attempt, or nil before the first fit.
func (c *CrossValidationCombiner) Criterion() []float64 {
	if c.criterion == nil {
		return nil
	}
	criterion := make([]float64, len(c.criterion))
	copy(criterion, c.criterion)
	return criterion
}

// Validate checks if the combiner is properly configured.
func (c *CrossValidationCombiner) Validate() error {
	if c.evaluator == nil {
		return fmt.Errorf("combiner %s: %w", c.name, ErrNilEvaluator)
	}
	if c.metric == nil {
		return fmt.Errorf("combiner %s: %w", c.name, ErrNilMetric)
	}
	if err := validate.Struct(c.config); err != nil {
		return fmt.Errorf("combiner %s: configuration validation failed: %w", c.name, err)
	}
	return nil
}

// UnmarshalParameters deserializes YAML configuration parameters and returns
// a new CrossValidationCombiner instance with the updated configuration.
// The existing instance is not mutated; derived weights do not carry over.
func (c *CrossValidationCombiner) UnmarshalParameters(params yaml.Node) (*CrossValidationCombiner, error) {
	config := DefaultCrossValidationConfig()
	if err := params.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode parameters: %w", err)
	}
	if err := validate.Struct(config); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}
	return &CrossValidationCombiner{
		name:      c.name,
		config:    config,
		evaluator: c.evaluator,
		metric:    c.metric,
		options:   c.options,
	}, nil
}

// CreateCrossValidationCombiner is a factory function that creates a
// CrossValidationCombiner from a configuration map, for use with the
// CombinerRegistry. The evaluator and metric dependencies are injected
// through the "evaluator" and "metric" config keys.
func CreateCrossValidationCombiner(id string, config map[string]any) (*CrossValidationCombiner, error) {
	evaluator, ok := config["evaluator"].(ports.Evaluator)
	if !ok {
		return nil, fmt.Errorf("evaluator is required and must implement ports.Evaluator")
	}
	metric, ok := config["metric"].(ports.Metric)
	if !ok {
		return nil, fmt.Errorf("metric is required and must be a ports.Metric")
	}

	cvConfig := DefaultCrossValidationConfig()
	if raw, ok := config[optionEvaluations]; ok {
		evaluations, err := coerceInt(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", optionEvaluations, err)
		}
		cvConfig.Evaluations = evaluations
	}
	if raw, ok := config["max_concurrency"]; ok {
		maxConcurrency, err := coerceInt(raw)
		if err != nil {
			return nil, fmt.Errorf("max_concurrency: %w", err)
		}
		cvConfig.MaxConcurrency = maxConcurrency
	}

	combiner, err := NewCrossValidationCombiner(id, evaluator, metric, cvConfig)
	if err != nil {
		return nil, err
	}

	if raw, ok := config["options"].(map[string]any); ok {
		if err := combiner.UpdateOptions(raw); err != nil {
			return nil, err
		}
	}
	return combiner, nil
}

// coerceInt converts the numeric representations YAML and JSON decoders
// commonly produce into an int.
func coerceInt(raw any) (int, error) {
	switch v := raw.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	case string:
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return 0, err
		}
		return parsed, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", raw)
	}
}
