package middleware

import (
	"context"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// EvaluationMetrics records Prometheus metrics for evaluator invocations.
// It tracks how often models are cross-validated, how long each evaluation
// takes, and the most recent criterion per model.
type EvaluationMetrics struct {
	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	modelCriterion     *prometheus.GaugeVec
}

// NewEvaluationMetrics creates an EvaluationMetrics instance with all metrics
// registered against the given registerer. Pass prometheus.DefaultRegisterer
// for the global registry.
func NewEvaluationMetrics(reg prometheus.Registerer) *EvaluationMetrics {
	factory := promauto.With(reg)
	return &EvaluationMetrics{
		evaluationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ensemble_evaluations_total",
				Help: "Total number of rolling-origin evaluations performed per model.",
			},
			[]string{"model", "status"},
		),
		evaluationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ensemble_evaluation_duration_seconds",
				Help:    "Execution time of rolling-origin evaluations.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"model"},
		),
		modelCriterion: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ensemble_model_criterion",
				Help: "Most recent aggregate cross-validation loss per model.",
			},
			[]string{"model"},
		),
	}
}

// Evaluation statuses recorded on the evaluations counter.
const (
	statusOK        = "ok"
	statusUnbounded = "unbounded"
	statusError     = "error"
)

// MetricsMiddleware creates middleware that records evaluation metrics.
func MetricsMiddleware(metrics *EvaluationMetrics) Middleware {
	return func(next ports.Evaluator) ports.Evaluator {
		return &meteredEvaluator{next: next, metrics: metrics}
	}
}

type meteredEvaluator struct {
	next    ports.Evaluator
	metrics *EvaluationMetrics
}

// Evaluate forwards the call and records duration, status, and the resulting
// criterion. The unbounded sentinel is counted separately from hard errors;
// it is not exported as a gauge value since +Inf is not a useful sample.
func (m *meteredEvaluator) Evaluate(
	ctx context.Context,
	series domain.TimeSeries,
	model ports.ForecastModel,
	metric ports.Metric,
	evaluations int,
	options map[string]any,
) (float64, error) {
	start := time.Now()
	loss, err := m.next.Evaluate(ctx, series, model, metric, evaluations, options)
	m.metrics.evaluationDuration.WithLabelValues(model.Name()).Observe(time.Since(start).Seconds())

	switch {
	case err != nil:
		m.metrics.evaluationsTotal.WithLabelValues(model.Name(), statusError).Inc()
	case math.IsInf(loss, 1):
		m.metrics.evaluationsTotal.WithLabelValues(model.Name(), statusUnbounded).Inc()
	default:
		m.metrics.evaluationsTotal.WithLabelValues(model.Name(), statusOK).Inc()
		m.metrics.modelCriterion.WithLabelValues(model.Name()).Set(loss)
	}
	return loss, err
}
