package middleware

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/ahrav/go-ensemble/internal/domain"
	"github.com/ahrav/go-ensemble/internal/ports"
)

// RateLimitMiddleware creates middleware that enforces rate limiting on
// evaluator invocations using a token bucket algorithm. Each evaluation
// retrains a model several times, so pacing invocations bounds the training
// load an ensemble fit can generate. The limit parameter sets evaluations per
// second, while burst allows temporary spikes above the sustained rate.
func RateLimitMiddleware(limit rate.Limit, burst int) Middleware {
	limiter := rate.NewLimiter(limit, burst)

	return func(next ports.Evaluator) ports.Evaluator {
		return &rateLimitedEvaluator{next: next, limiter: limiter}
	}
}

type rateLimitedEvaluator struct {
	next    ports.Evaluator
	limiter *rate.Limiter
}

// Evaluate waits for rate limit permission before forwarding the call.
// This blocks the calling goroutine until a token is available.
func (r *rateLimitedEvaluator) Evaluate(
	ctx context.Context,
	series domain.TimeSeries,
	model ports.ForecastModel,
	metric ports.Metric,
	evaluations int,
	options map[string]any,
) (float64, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Evaluate(ctx, series, model, metric, evaluations, options)
}
