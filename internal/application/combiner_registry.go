package application

import (
	"fmt"
	"sync"

	"github.com/ahrav/go-ensemble/infrastructure/combiners"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// CombinerFactory creates a combiner instance from an identifier and a
// flexible configuration map.
type CombinerFactory func(id string, config map[string]any) (ports.Combiner, error)

// CombinerRegistry provides a factory for creating combination strategies
// based on type and configuration. It supports dynamic registration of
// combiner factories and manages dependencies like the evaluator and metric
// for strategies that require them.
type CombinerRegistry struct {
	// factories maps combiner type strings to their factory functions.
	factories map[string]CombinerFactory
	// mu protects concurrent access to the factories map.
	mu sync.RWMutex
	// evaluator is the default evaluator injected into combiners that need it.
	evaluator ports.Evaluator
	// metric is the default metric injected into combiners that need it.
	metric ports.Metric
}

// NewCombinerRegistry creates a new registry with the standard combiner types
// pre-registered and default evaluator and metric dependencies for
// cross-validating strategies.
func NewCombinerRegistry(evaluator ports.Evaluator, metric ports.Metric) *CombinerRegistry {
	registry := &CombinerRegistry{
		factories: make(map[string]CombinerFactory),
		evaluator: evaluator,
		metric:    metric,
	}
	registry.registerBuiltinFactories()
	return registry
}

// registerBuiltinFactories registers the standard combiner types provided by
// the engine: cv_weighted and uniform.
func (r *CombinerRegistry) registerBuiltinFactories() {
	evaluator := r.evaluator
	metric := r.metric

	r.factories["cv_weighted"] = func(id string, config map[string]any) (ports.Combiner, error) {
		// Inject evaluator and metric into config.
		config["evaluator"] = evaluator
		config["metric"] = metric
		return combiners.CreateCrossValidationCombiner(id, config)
	}

	r.factories["uniform"] = func(id string, config map[string]any) (ports.Combiner, error) {
		return combiners.CreateUniformCombiner(id, config)
	}
}

// Register adds a custom combiner factory under the given type string.
// It returns an error if the type is already registered.
func (r *CombinerRegistry) Register(combinerType string, factory CombinerFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[combinerType]; exists {
		return fmt.Errorf("combiner type %q is already registered", combinerType)
	}
	r.factories[combinerType] = factory
	return nil
}

// Create instantiates a combiner of the given type with the provided
// identifier and configuration.
func (r *CombinerRegistry) Create(combinerType, id string, config map[string]any) (ports.Combiner, error) {
	r.mu.RLock()
	factory, exists := r.factories[combinerType]
	r.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown combiner type %q", combinerType)
	}
	if config == nil {
		config = make(map[string]any)
	}
	combiner, err := factory(id, config)
	if err != nil {
		return nil, fmt.Errorf("creating %s combiner %q: %w", combinerType, id, err)
	}
	return combiner, nil
}

// ListTypes returns the registered combiner type strings.
func (r *CombinerRegistry) ListTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.factories))
	for t := range r.factories {
		types = append(types, t)
	}
	return types
}
