package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/ratelimit"

	"github.com/nathanaelowenk/bookrental/internal/domain"
)

// Resilient wraps a Service with client-side resilience patterns from
// fortify: a rate limiter so the status poll loop cannot hammer the backend,
// a bulkhead capping concurrent requests, and a circuit breaker that fails
// fast once the service is clearly down.
//
// There is deliberately no retry wrapper: the core treats every API failure
// as the outcome of the operation that produced it.
type Resilient struct {
	next     Service
	breaker  circuitbreaker.CircuitBreaker[any]
	bulkhead bulkhead.Bulkhead[any]
	limiter  ratelimit.RateLimiter
	logger   *slog.Logger
}

var _ Service = (*Resilient)(nil)

// ResilientConfig holds settings for the resilience wrapper.
type ResilientConfig struct {
	// EnableCircuitBreaker enables fail-fast once the service is down.
	EnableCircuitBreaker bool

	// EnableBulkhead enables concurrency limiting.
	EnableBulkhead bool

	// EnableRateLimit enables request rate limiting.
	EnableRateLimit bool

	// MaxConcurrent for bulkhead (default: 4)
	MaxConcurrent int

	// RatePerSecond for rate limiting (default: 10)
	RatePerSecond int

	// Logger for resilience events
	Logger *slog.Logger
}

// DefaultResilientConfig returns sensible defaults for a mobile-style client.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		EnableCircuitBreaker: true,
		EnableBulkhead:       true,
		EnableRateLimit:      true,
		MaxConcurrent:        4,
		RatePerSecond:        10,
	}
}

// NewResilient wraps a service with the configured resilience patterns.
func NewResilient(next Service, cfg ResilientConfig) *Resilient {
	r := &Resilient{
		next:   next,
		logger: cfg.Logger,
	}

	if cfg.EnableCircuitBreaker {
		r.breaker = circuitbreaker.New[any](circuitbreaker.Config{
			MaxRequests: 2,
			Interval:    10 * time.Second,
			Timeout:     30 * time.Second,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
			OnStateChange: func(from, to circuitbreaker.State) {
				if r.logger != nil {
					r.logger.Warn("api circuit breaker state change",
						"from", from.String(),
						"to", to.String())
				}
			},
		})
	}

	if cfg.EnableBulkhead {
		maxConcurrent := cfg.MaxConcurrent
		if maxConcurrent <= 0 {
			maxConcurrent = 4
		}
		r.bulkhead = bulkhead.New[any](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
			MaxQueue:      maxConcurrent * 2,
			QueueTimeout:  10 * time.Second,
		})
	}

	if cfg.EnableRateLimit {
		rate := cfg.RatePerSecond
		if rate <= 0 {
			rate = 10
		}
		r.limiter = ratelimit.New(&ratelimit.Config{
			Rate:     rate,
			Burst:    rate * 2,
			Interval: time.Second,
		})
	}

	return r
}

// Close releases resources held by the wrapper.
func (r *Resilient) Close() error {
	if r.limiter != nil {
		return r.limiter.Close()
	}
	return nil
}

func (r *Resilient) exec(ctx context.Context, op string, fn func(context.Context) (any, error)) (any, error) {
	if r.limiter != nil && !r.limiter.Allow(ctx, op) {
		return nil, fmt.Errorf("rate limit exceeded for %s", op)
	}

	operation := fn
	if r.bulkhead != nil {
		operation = func(ctx context.Context) (any, error) {
			return r.bulkhead.Execute(ctx, fn)
		}
	}

	if r.breaker != nil {
		return r.breaker.Execute(ctx, operation)
	}
	return operation(ctx)
}

func (r *Resilient) Login(ctx context.Context, username, password string) (*Credentials, error) {
	v, err := r.exec(ctx, "login", func(ctx context.Context) (any, error) {
		return r.next.Login(ctx, username, password)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credentials), nil
}

func (r *Resilient) Register(ctx context.Context, username, password string) (*Credentials, error) {
	v, err := r.exec(ctx, "register", func(ctx context.Context) (any, error) {
		return r.next.Register(ctx, username, password)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credentials), nil
}

func (r *Resilient) ListBooks(ctx context.Context) ([]domain.Book, error) {
	v, err := r.exec(ctx, "list_books", func(ctx context.Context) (any, error) {
		return r.next.ListBooks(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Book), nil
}

func (r *Resilient) RentBook(ctx context.Context, bookID, rentLength int) (*RentOrder, error) {
	v, err := r.exec(ctx, "rent_book", func(ctx context.Context) (any, error) {
		return r.next.RentBook(ctx, bookID, rentLength)
	})
	if err != nil {
		return nil, err
	}
	return v.(*RentOrder), nil
}

func (r *Resilient) TransactionStatus(ctx context.Context, orderID string) (*domain.Transaction, error) {
	v, err := r.exec(ctx, "transaction_status", func(ctx context.Context) (any, error) {
		return r.next.TransactionStatus(ctx, orderID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Transaction), nil
}

func (r *Resilient) RentedBooks(ctx context.Context) ([]domain.RentedBook, error) {
	v, err := r.exec(ctx, "rented_books", func(ctx context.Context) (any, error) {
		return r.next.RentedBooks(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.RentedBook), nil
}

func (r *Resilient) TransactionHistory(ctx context.Context) ([]domain.HistoryEntry, error) {
	v, err := r.exec(ctx, "transaction_history", func(ctx context.Context) (any, error) {
		return r.next.TransactionHistory(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.HistoryEntry), nil
}

func (r *Resilient) BookAccess(ctx context.Context, bookID int) (string, error) {
	v, err := r.exec(ctx, "book_access", func(ctx context.Context) (any, error) {
		return r.next.BookAccess(ctx, bookID)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
