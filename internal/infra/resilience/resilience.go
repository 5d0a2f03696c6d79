// Package resilience provides fault-isolation patterns for the data layer:
// a circuit breaker around the store and a bulkhead around workbook renders.
// Nothing here retries; callers retry read-only requests themselves.
package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/boddenberg/backoffice-reporting-go/internal/domain"

	"github.com/sony/gobreaker"
)

// BreakerConfig holds circuit breaker parameters.
type BreakerConfig struct {
	MaxRequests  uint32
	Interval     time.Duration
	Timeout      time.Duration
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerConfig mirrors the production settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		MaxRequests:  3,                // half-open: allow 3 requests
		Interval:     30 * time.Second, // closed: reset counters every 30s
		Timeout:      10 * time.Second, // open -> half-open after 10s
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// NewCircuitBreaker creates a circuit breaker. Not-found and validation
// outcomes are answers, not faults, and never trip it.
func NewCircuitBreaker(name string, cfg BreakerConfig) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureRatio
		},
		IsSuccessful: IsBenign,
	})
}

// IsBenign reports whether err should count as a successful call.
func IsBenign(err error) bool {
	if err == nil {
		return true
	}
	var notFound *domain.ErrNotFound
	var validation *domain.ErrValidation
	return errors.As(err, &notFound) || errors.As(err, &validation) ||
		errors.Is(err, context.Canceled)
}

// Execute runs fn through cb and translates an open breaker into
// domain.ErrCircuitOpen.
func Execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	out, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, &domain.ErrCircuitOpen{Service: cb.Name()}
	}
	v, _ := out.(T)
	return v, err
}

// Bulkhead limits concurrent access to a resource.
type Bulkhead struct {
	sem chan struct{}
}

// NewBulkhead creates a bulkhead with the given max concurrency.
func NewBulkhead(maxConcurrency int) *Bulkhead {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Bulkhead{sem: make(chan struct{}, maxConcurrency)}
}

// Acquire blocks until a slot is available or context is cancelled.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (b *Bulkhead) Release() {
	<-b.sem
}
