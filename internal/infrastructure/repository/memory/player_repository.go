package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/player"
)

type PlayerRepository struct {
	store *Store
}

func NewPlayerRepository(store *Store) *PlayerRepository {
	return &PlayerRepository{store: store}
}

func (r *PlayerRepository) Create(_ context.Context, p player.Player) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.store.insertPlayerLocked(p)
}

func (r *PlayerRepository) GetByID(_ context.Context, playerID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.players[playerID]
	return p, ok, nil
}

func (r *PlayerRepository) GetByUserID(_ context.Context, userID string) (player.Player, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	id, ok := r.store.playerByUser[userID]
	if !ok {
		return player.Player{}, false, nil
	}
	return r.store.players[id], true, nil
}

func (r *PlayerRepository) ListIDs(_ context.Context) ([]string, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return append([]string(nil), r.store.playerOrder...), nil
}

func (r *PlayerRepository) UpdateRating(_ context.Context, playerID string, overall decimal.Decimal, matchesPlayed int, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	p, ok := r.store.players[playerID]
	if !ok {
		return fmt.Errorf("player %s not found", playerID)
	}
	p.OverallRating = overall
	p.MatchesPlayed = matchesPlayed
	p.UpdatedAt = updatedAt
	r.store.players[playerID] = p
	return nil
}
