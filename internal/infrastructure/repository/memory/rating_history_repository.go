package memory

import (
	"context"
	"fmt"

	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
)

type RatingHistoryRepository struct {
	store *Store
}

func NewRatingHistoryRepository(store *Store) *RatingHistoryRepository {
	return &RatingHistoryRepository{store: store}
}

func (r *RatingHistoryRepository) Append(_ context.Context, entry *ratinghistory.Entry) error {
	if entry == nil {
		return fmt.Errorf("history entry is required")
	}
	entry.ID = r.store.allocHistoryID()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.history[entry.PlayerID] = append(r.store.history[entry.PlayerID], *entry)
	return nil
}

func (r *RatingHistoryRepository) ListRecent(_ context.Context, playerID string, limit int) ([]ratinghistory.Entry, error) {
	return recentHistory(r.store.playerHistory(playerID), limit), nil
}
