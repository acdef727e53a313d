package rating

import (
	"context"
	"errors"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
)

// ErrConcurrencyConflict reports that storage could not serialize a unit of
// work against a concurrent one for the same player.
var ErrConcurrencyConflict = errors.New("rating: concurrency conflict")

// Repositories are bound to one unit of work. Writes through them become
// visible together when the unit commits.
type Repositories struct {
	Players player.Repository
	Stats   matchstats.Repository
	History ratinghistory.Repository
}

// UnitOfWork runs fn while holding an exclusive lock on playerID. fn's
// writes are committed when it returns nil and discarded otherwise. Units
// for different players never wait on each other.
type UnitOfWork interface {
	WithinPlayer(ctx context.Context, playerID string, fn func(ctx context.Context, repos Repositories) error) error
}
