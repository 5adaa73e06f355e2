package middleware

import (
	"context"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// TracingMiddleware creates middleware that emits an OpenTelemetry span per
// evaluator invocation, with attributes describing the model, the series, and
// the resulting criterion.
func TracingMiddleware(tracerName string) Middleware {
	return func(next ports.Evaluator) ports.Evaluator {
		return &tracedEvaluator{next: next, tracerName: tracerName}
	}
}

type tracedEvaluator struct {
	next       ports.Evaluator
	tracerName string
}

// Evaluate wraps the call in a span. The unbounded sentinel is recorded as a
// span attribute rather than an error status; it is a defined outcome of the
// evaluator contract, not a failure.
func (t *tracedEvaluator) Evaluate(
	ctx context.Context,
	series domain.TimeSeries,
	model ports.ForecastModel,
	metric ports.Metric,
	evaluations int,
	options map[string]any,
) (float64, error) {
	tracer := otel.Tracer(t.tracerName)
	ctx, span := tracer.Start(ctx, "Evaluator.Evaluate")
	defer span.End()

	span.SetAttributes(
		attribute.String("ensemble.model", model.Name()),
		attribute.Int("ensemble.series_length", series.Len()),
		attribute.Int("ensemble.evaluations", evaluations),
	)

	loss, err := t.next.Evaluate(ctx, series, model, metric, evaluations, options)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case math.IsInf(loss, 1):
		span.SetAttributes(attribute.Bool("ensemble.unbounded", true))
	default:
		span.SetAttributes(attribute.Float64("ensemble.criterion", loss))
	}
	return loss, err
}
