// Package middleware provides cross-cutting concerns for model evaluation:
// metrics, tracing, and rate limiting layered over the ports.Evaluator
// contract using the decorator pattern.
package middleware

import "github.com/ahrav/go-ensemble/internal/ports"

// Middleware wraps an Evaluator with additional behavior.
// Middlewares compose; each receives the next evaluator in the chain.
type Middleware func(ports.Evaluator) ports.Evaluator

// Chain applies middlewares to the base evaluator in reverse order, so the
// first middleware in the list observes the call first.
//
// Example:
//
//	evaluator := middleware.Chain(
//	    evaluation.NewRollingOriginEvaluator(),
//	    middleware.TracingMiddleware("ensemble"),
//	    middleware.RateLimitMiddleware(rate.Limit(10), 2),
//	)
func Chain(base ports.Evaluator, middlewares ...Middleware) ports.Evaluator {
	evaluator := base
	for i := len(middlewares) - 1; i >= 0; i-- {
		evaluator = middlewares[i](evaluator)
	}
	return evaluator
}
