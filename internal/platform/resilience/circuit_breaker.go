package resilience

import (
	"errors"

	"github.com/sony/gobreaker"

	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker guards calls to an unreliable dependency. Only errors accepted by
// the failure classifier move it toward the open state.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// NewBreaker returns nil when cfg.Enabled is false; a nil *Breaker runs
// every call directly.
func NewBreaker(name string, cfg CircuitBreakerConfig, isFailure func(error) bool, logger *logging.Logger) *Breaker {
	if !cfg.Enabled {
		return nil
	}
	cfg = cfg.withFallbacks()
	if logger == nil {
		logger = logging.Default()
	}
	if isFailure == nil {
		isFailure = func(err error) bool { return err != nil }
	}

	threshold := uint32(cfg.FailureThreshold)
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(cfg.HalfOpenMaxReq),
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			return err == nil || !isFailure(err)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

func (b *Breaker) State() string {
	if b == nil {
		return "disabled"
	}
	return b.cb.State().String()
}

// Execute runs fn through the breaker. Rejected calls return ErrCircuitOpen.
func Execute[T any](b *Breaker, fn func() (T, error)) (T, error) {
	if b == nil {
		return fn()
	}

	out, err := b.cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		var zero T
		return zero, ErrCircuitOpen
	}
	typed, _ := out.(T)
	return typed, err
}
