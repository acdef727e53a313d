package resilience

import "time"

// Fallbacks applied to zero or negative CircuitBreakerConfig fields.
const (
	fallbackFailureThreshold = 5
	fallbackOpenTimeout      = 30 * time.Second
	fallbackHalfOpenRequests = 1
)

// CircuitBreakerConfig mirrors the API_FOOTBALL_CIRCUIT_* settings.
type CircuitBreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      time.Duration
	HalfOpenMaxReq   int
}

func (c CircuitBreakerConfig) withFallbacks() CircuitBreakerConfig {
	if c.FailureThreshold < 1 {
		c.FailureThreshold = fallbackFailureThreshold
	}
	if c.OpenTimeout <= 0 {
		c.OpenTimeout = fallbackOpenTimeout
	}
	if c.HalfOpenMaxReq < 1 {
		c.HalfOpenMaxReq = fallbackHalfOpenRequests
	}
	return c
}
