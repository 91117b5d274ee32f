package popularity

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/metrics"
)

type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
}

func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// BreakerStore stops calling a failing backend until it has had time to
// recover. Only a lookup that finds no record counts as success; every
// other error, ErrNotFound from a write included, counts against it.
type BreakerStore struct {
	inner Store
	cb    *gobreaker.CircuitBreaker[interface{}]
	name  string
}

func NewBreakerStore(inner Store, cfg BreakerConfig) *BreakerStore {
	log := debuglog.WithFields(map[string]interface{}{"component": "breaker", "name": cfg.Name})
	metrics.SetBreakerState(cfg.Name, 0)

	cb := gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warnf("state %s -> %s", from, to)
			metrics.SetBreakerState(name, stateToFloat(to))
		},
	})

	return &BreakerStore{inner: inner, cb: cb, name: cfg.Name}
}

// State reports the breaker state for diagnostics.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

func (b *BreakerStore) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("popularity store %s: %w", b.name, err)
	}
	return result, err
}

func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func (b *BreakerStore) FindByTerm(ctx context.Context, term string) (Record, error) {
	var missing error
	rec, err := castResult[Record](b.execute(func() (interface{}, error) {
		rec, err := b.inner.FindByTerm(ctx, term)
		if errors.Is(err, ErrNotFound) {
			missing = err
			return Record{}, nil
		}
		return rec, err
	}))
	if err == nil && missing != nil {
		return Record{}, missing
	}
	return rec, err
}

func (b *BreakerStore) Create(ctx context.Context, rec Record) (Record, error) {
	return castResult[Record](b.execute(func() (interface{}, error) {
		return b.inner.Create(ctx, rec)
	}))
}

func (b *BreakerStore) Increment(ctx context.Context, rec Record) (Record, error) {
	return castResult[Record](b.execute(func() (interface{}, error) {
		return b.inner.Increment(ctx, rec)
	}))
}

func (b *BreakerStore) Top(ctx context.Context, limit int) ([]Record, error) {
	return castResult[[]Record](b.execute(func() (interface{}, error) {
		return b.inner.Top(ctx, limit)
	}))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
