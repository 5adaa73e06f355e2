package combiners

import (
	"context"
	"fmt"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

var _ ports.Combiner = (*UniformCombiner)(nil)

// UniformCombiner combines per-model predictions with equal weights,
// producing the arithmetic mean of the constituent forecasts. It performs no
// cross-validation; Fit only records how many models participate.
//
// It serves as the naive baseline strategy and as a fallback when
// cross-validation weighting is impossible on short series.
type UniformCombiner struct {
	// name is the unique identifier for this combiner instance.
	name string
	// modelCount is the number of models recorded by the last fit; zero
	// before the first fit.
	modelCount int
}

// NewUniformCombiner creates a new UniformCombiner.
func NewUniformCombiner(name string) (*UniformCombiner, error) {
	if name == "" {
		return nil, ErrEmptyCombinerName
	}
	return &UniformCombiner{name: name}, nil
}

// Name returns the unique identifier for this combiner instance.
func (u *UniformCombiner) Name() string { return u.name }

// Fit records the model count. The training series is not consulted.
func (u *UniformCombiner) Fit(_ context.Context, _ domain.TimeSeries, models []ports.ForecastModel) error {
	if len(models) == 0 {
		return domain.ErrNoModels
	}
	u.modelCount = len(models)
	return nil
}

// Combine returns the arithmetic mean of the predictions.
func (u *UniformCombiner) Combine(predictions []domain.TimeSeries) (domain.TimeSeries, error) {
	if u.modelCount == 0 {
		return domain.TimeSeries{}, domain.ErrNotFitted
	}
	if len(predictions) != u.modelCount {
		return domain.TimeSeries{}, fmt.Errorf("%w: %d predictions for %d models",
			domain.ErrLengthMismatch, len(predictions), u.modelCount)
	}

	weight := 1 / float64(u.modelCount)
	combined := predictions[0].Scale(weight)
	for i := 1; i < len(predictions); i++ {
		sum, err := combined.Add(predictions[i].Scale(weight))
		if err != nil {
			return domain.TimeSeries{}, fmt.Errorf("combining prediction %d: %w", i, err)
		}
		combined = sum
	}
	return combined, nil
}

// Validate checks if the combiner is properly configured.
func (u *UniformCombiner) Validate() error {
	if u.name == "" {
		return ErrEmptyCombinerName
	}
	return nil
}

// CreateUniformCombiner is a factory function that creates a UniformCombiner
// from a configuration map, for use with the CombinerRegistry.
func CreateUniformCombiner(id string, _ map[string]any) (*UniformCombiner, error) {
	return NewUniformCombiner(id)
}
