// Package observability starts the optional tracing and profiling sinks of
// the API process.
package observability

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/player-rating/internal/config"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

// Stack owns whichever sinks Start enabled. The zero value is an empty stack.
type Stack struct {
	logger *logging.Logger
	stops  []namedStop
}

type namedStop struct {
	name string
	fn   func(context.Context) error
}

// Start enables tracing, the pyroscope agent and the pprof listener as cfg
// requests. On error every sink started so far is stopped again.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Stack{logger: logger}

	steps := []struct {
		name  string
		start func(config.Config, *logging.Logger) (func(context.Context) error, error)
	}{
		{"uptrace", startTracing},
		{"pyroscope", startPyroscope},
		{"pprof", startPprof},
	}
	for _, step := range steps {
		stop, err := step.start(cfg, logger)
		if err != nil {
			_ = s.Shutdown(context.Background())
			return nil, fmt.Errorf("start %s: %w", step.name, err)
		}
		if stop != nil {
			s.stops = append(s.stops, namedStop{name: step.name, fn: stop})
		}
	}
	return s, nil
}

// Enabled lists the sinks that are running, in start order.
func (s *Stack) Enabled() []string {
	if s == nil {
		return nil
	}
	names := make([]string, len(s.stops))
	for i, st := range s.stops {
		names[i] = st.name
	}
	return names
}

// Shutdown stops sinks in reverse start order and joins their errors.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}
	var errs []error
	for i := len(s.stops) - 1; i >= 0; i-- {
		st := s.stops[i]
		if err := st.fn(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", st.name, err))
			continue
		}
		s.logger.Info("observability sink stopped", "sink", st.name)
	}
	s.stops = nil
	return errors.Join(errs...)
}
