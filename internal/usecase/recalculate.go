package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
)

const defaultRecalculateWorkers = 8

type RecalculateAllInput struct {
	MaxWorkers int
}

const (
	recalcStatusChanged   = "changed"
	recalcStatusUnchanged = "unchanged"
	recalcStatusFailed    = "failed"
)

type RecalculatedPlayer struct {
	PlayerID      string
	Status        string
	OverallRating decimal.Decimal
	MatchesPlayed int
	Message       string
	DurationMs    int64
}

type RecalculateAllResult struct {
	Total     int
	Changed   int
	Unchanged int
	Failed    int
	Players   []RecalculatedPlayer
}

// RecalculateAll refreshes every registered player. A failing player is
// counted and reported; it does not stop the run.
func (s *RatingService) RecalculateAll(ctx context.Context, input RecalculateAllInput) (RecalculateAllResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.RecalculateAll")
	defer span.End()

	workerCount := input.MaxWorkers
	if workerCount <= 0 {
		workerCount = s.recalcWorkers
	}

	playerIDs, err := s.playerRepo.ListIDs(ctx)
	if err != nil {
		return RecalculateAllResult{}, fmt.Errorf("list player ids: %w", err)
	}

	result := RecalculateAllResult{Total: len(playerIDs)}
	if len(playerIDs) == 0 {
		return result, nil
	}

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return RecalculateAllResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	rows := make(chan RecalculatedPlayer, len(playerIDs))
	var changedCount, unchangedCount, failedCount atomic.Int32

	var workers sync.WaitGroup
	var submitErr error
	for _, playerID := range playerIDs {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			start := time.Now()
			row := RecalculatedPlayer{PlayerID: playerID}
			update, err := s.RefreshRating(ctx, playerID)
			switch {
			case err != nil:
				row.Status = recalcStatusFailed
				row.Message = err.Error()
				failedCount.Add(1)
			case update.Changed:
				row.Status = recalcStatusChanged
				changedCount.Add(1)
			default:
				row.Status = recalcStatusUnchanged
				unchangedCount.Add(1)
			}
			row.OverallRating = update.OverallRating
			row.MatchesPlayed = update.MatchesPlayed
			row.DurationMs = time.Since(start).Milliseconds()

			rows <- row
		}); err != nil {
			workers.Done()
			submitErr = fmt.Errorf("submit player %s to worker pool: %w", playerID, err)
			break
		}
	}

	workers.Wait()
	close(rows)
	if submitErr != nil {
		return RecalculateAllResult{}, submitErr
	}

	for row := range rows {
		result.Players = append(result.Players, row)
	}
	sort.Slice(result.Players, func(i, j int) bool {
		return result.Players[i].PlayerID < result.Players[j].PlayerID
	})

	result.Changed = int(changedCount.Load())
	result.Unchanged = int(unchangedCount.Load())
	result.Failed = int(failedCount.Load())

	s.logger.InfoContext(ctx, "player ratings recalculated",
		"total", result.Total,
		"changed", result.Changed,
		"unchanged", result.Unchanged,
		"failed", result.Failed,
		"workers", workerCount,
	)
	return result, nil
}
