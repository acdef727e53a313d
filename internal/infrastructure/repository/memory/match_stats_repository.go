package memory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
)

type MatchStatsRepository struct {
	store *Store
}

func NewMatchStatsRepository(store *Store) *MatchStatsRepository {
	return &MatchStatsRepository{store: store}
}

func (r *MatchStatsRepository) Create(_ context.Context, record *matchstats.Record) error {
	if record == nil {
		return fmt.Errorf("record is required")
	}
	record.ID = r.store.allocRecordID()

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.players[record.PlayerID]; !ok {
		return fmt.Errorf("player %s not found", record.PlayerID)
	}
	r.store.records[record.ID] = *record
	r.store.recordsByPlayer[record.PlayerID] = append(r.store.recordsByPlayer[record.PlayerID], record.ID)
	return nil
}

func (r *MatchStatsRepository) GetByID(_ context.Context, recordID int64) (matchstats.Record, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	record, ok := r.store.records[recordID]
	return record, ok, nil
}

func (r *MatchStatsRepository) Update(_ context.Context, record matchstats.Record) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, ok := r.store.records[record.ID]
	if !ok {
		return fmt.Errorf("match stats record %d not found", record.ID)
	}
	current.Stats = record.Stats
	current.MatchRating = record.MatchRating
	current.UpdatedAt = record.UpdatedAt
	r.store.records[record.ID] = current
	return nil
}

func (r *MatchStatsRepository) CountByPlayer(_ context.Context, playerID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	return len(r.store.recordsByPlayer[playerID]), nil
}

func (r *MatchStatsRepository) ListRecentRated(_ context.Context, playerID string, limit int) ([]decimal.Decimal, error) {
	return recentRated(r.store.playerRecords(playerID), limit), nil
}

func (r *MatchStatsRepository) TotalsByPlayer(_ context.Context, playerID string) (matchstats.Totals, error) {
	return sumTotals(r.store.playerRecords(playerID)), nil
}
