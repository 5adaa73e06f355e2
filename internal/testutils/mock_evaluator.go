package testutils

import (
	"context"
	"sync"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// Verify interface compliance at compile time.
var _ ports.Evaluator = (*MockEvaluator)(nil)

// MockEvaluator implements the Evaluator interface with canned per-model
// criterion values, enabling weighting tests that do not depend on real
// cross-validation. Unknown models receive the configured default loss.
//
// The mock records every invocation so tests can assert on call counts and
// forwarded configuration. It is safe for concurrent use.
type MockEvaluator struct {
	mu sync.Mutex

	// losses maps model names to the criterion returned for them.
	losses map[string]float64
	// errs maps model names to errors returned instead of a criterion.
	errs map[string]error
	// defaultLoss is returned for models with no configured loss.
	defaultLoss float64

	// calls records the model name of each Evaluate invocation.
	calls []string
	// lastEvaluations is the evaluation count of the most recent invocation.
	lastEvaluations int
	// lastOptions is the options map of the most recent invocation.
	lastOptions map[string]any
}

// NewMockEvaluator creates a MockEvaluator with the given default loss.
func NewMockEvaluator(defaultLoss float64) *MockEvaluator {
	return &MockEvaluator{
		losses:      make(map[string]float64),
		errs:        make(map[string]error),
		defaultLoss: defaultLoss,
	}
}

// SetLoss configures the criterion returned for the named model.
// Use math.Inf(1) to simulate the unbounded sentinel.
func (m *MockEvaluator) SetLoss(model string, loss float64) *MockEvaluator {
	m.losses[model] = loss
	return m
}

// SetError configures an error returned for the named model, simulating an
// evaluator internal failure that must propagate unmodified.
func (m *MockEvaluator) SetError(model string, err error) *MockEvaluator {
	m.errs[model] = err
	return m
}

// Evaluate returns the canned criterion or error for the model and records
// the invocation.
func (m *MockEvaluator) Evaluate(
	_ context.Context,
	_ domain.TimeSeries,
	model ports.ForecastModel,
	_ ports.Metric,
	evaluations int,
	options map[string]any,
) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, model.Name())
	m.lastEvaluations = evaluations
	m.lastOptions = options

	if err, ok := m.errs[model.Name()]; ok {
		return 0, err
	}
	if loss, ok := m.losses[model.Name()]; ok {
		return loss, nil
	}
	return m.defaultLoss, nil
}

// Calls returns the model names of all Evaluate invocations, in call order.
func (m *MockEvaluator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]string, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// LastEvaluations returns the evaluation count of the most recent invocation.
func (m *MockEvaluator) LastEvaluations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastEvaluations
}

// LastOptions returns the options map of the most recent invocation.
func (m *MockEvaluator) LastOptions() map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOptions
}
