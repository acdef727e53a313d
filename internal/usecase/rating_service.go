package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/rating"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

type RecordMatchStatsInput struct {
	PlayerID string
	MatchID  int64
	Stats    matchstats.Stats
}

type CorrectMatchStatsInput struct {
	PlayerID string
	RecordID int64
	Stats    matchstats.Stats
}

// RatingUpdate is the player's derived state after a refresh.
type RatingUpdate struct {
	OverallRating decimal.Decimal
	MatchesPlayed int
	Changed       bool
}

type MatchStatsResult struct {
	Record matchstats.Record
	RatingUpdate
}

// RatingService owns every write to a player's derived rating state. Each
// operation runs inside one per-player unit of work.
type RatingService struct {
	uow           rating.UnitOfWork
	playerRepo    player.Repository
	logger        *logging.Logger
	now           func() time.Time
	recalcWorkers int
}

func NewRatingService(uow rating.UnitOfWork, playerRepo player.Repository, logger *logging.Logger) *RatingService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RatingService{
		uow:           uow,
		playerRepo:    playerRepo,
		logger:        logger,
		now:           time.Now,
		recalcWorkers: defaultRecalculateWorkers,
	}
}

// SetRecalculateWorkers sets the pool size RecalculateAll uses when the
// caller does not ask for one.
func (s *RatingService) SetRecalculateWorkers(n int) {
	if n > 0 {
		s.recalcWorkers = n
	}
}

// RecordMatchStats stores a new stats record with its computed match rating
// and refreshes the player's overall rating in the same unit of work.
func (s *RatingService) RecordMatchStats(ctx context.Context, input RecordMatchStatsInput) (MatchStatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.RecordMatchStats", attribute.String("player.id", input.PlayerID))
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return MatchStatsResult{}, invalidInput("player id is required")
	}
	if input.MatchID <= 0 {
		return MatchStatsResult{}, invalidInput("match id must be > 0")
	}
	if err := input.Stats.Validate(); err != nil {
		return MatchStatsResult{}, invalidInput("%v", err)
	}

	var result MatchStatsResult
	err := s.withinPlayer(ctx, input.PlayerID, "record match stats", func(ctx context.Context, repos rating.Repositories) error {
		p, err := mustGetPlayer(ctx, repos.Players, input.PlayerID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		record := matchstats.Record{
			PlayerID:    p.ID,
			MatchID:     input.MatchID,
			Stats:       input.Stats,
			MatchRating: decimal.NewNullDecimal(rating.MatchRating(input.Stats, p.Position)),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repos.Stats.Create(ctx, &record); err != nil {
			return fmt.Errorf("create match stats: %w", err)
		}

		update, err := refreshPlayer(ctx, repos, p, now)
		if err != nil {
			return err
		}
		result = MatchStatsResult{Record: record, RatingUpdate: update}
		return nil
	})
	if err != nil {
		return MatchStatsResult{}, err
	}

	s.logger.InfoContext(ctx, "match stats recorded",
		"player_id", input.PlayerID,
		"match_id", input.MatchID,
		"record_id", result.Record.ID,
		"match_rating", result.Record.MatchRating.Decimal.StringFixed(1),
		"overall_rating", result.OverallRating.StringFixed(2),
		"matches_played", result.MatchesPlayed,
		"rating_changed", result.Changed,
	)
	return result, nil
}

// CorrectMatchStats replaces the stats of an existing record, recomputes its
// match rating from the player's current position and refreshes the player.
func (s *RatingService) CorrectMatchStats(ctx context.Context, input CorrectMatchStatsInput) (MatchStatsResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.CorrectMatchStats")
	defer span.End()

	input.PlayerID = strings.TrimSpace(input.PlayerID)
	if input.PlayerID == "" {
		return MatchStatsResult{}, invalidInput("player id is required")
	}
	if input.RecordID <= 0 {
		return MatchStatsResult{}, invalidInput("record id must be > 0")
	}
	if err := input.Stats.Validate(); err != nil {
		return MatchStatsResult{}, invalidInput("%v", err)
	}

	var result MatchStatsResult
	err := s.withinPlayer(ctx, input.PlayerID, "correct match stats", func(ctx context.Context, repos rating.Repositories) error {
		p, err := mustGetPlayer(ctx, repos.Players, input.PlayerID)
		if err != nil {
			return err
		}

		record, exists, err := repos.Stats.GetByID(ctx, input.RecordID)
		if err != nil {
			return fmt.Errorf("get match stats: %w", err)
		}
		if !exists || record.PlayerID != p.ID {
			return notFound("match stats record %d for player %s", input.RecordID, p.ID)
		}

		now := s.now().UTC()
		record.Stats = input.Stats
		record.MatchRating = decimal.NewNullDecimal(rating.MatchRating(input.Stats, p.Position))
		record.UpdatedAt = now
		if err := repos.Stats.Update(ctx, record); err != nil {
			return fmt.Errorf("update match stats: %w", err)
		}

		update, err := refreshPlayer(ctx, repos, p, now)
		if err != nil {
			return err
		}
		result = MatchStatsResult{Record: record, RatingUpdate: update}
		return nil
	})
	if err != nil {
		return MatchStatsResult{}, err
	}

	s.logger.InfoContext(ctx, "match stats corrected",
		"player_id", input.PlayerID,
		"record_id", input.RecordID,
		"match_rating", result.Record.MatchRating.Decimal.StringFixed(1),
		"overall_rating", result.OverallRating.StringFixed(2),
		"rating_changed", result.Changed,
	)
	return result, nil
}

// RefreshRating recomputes matches played and the overall rating from the
// stored records. A second call with no new records changes nothing.
func (s *RatingService) RefreshRating(ctx context.Context, playerID string) (RatingUpdate, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RatingService.RefreshRating", attribute.String("player.id", playerID))
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return RatingUpdate{}, invalidInput("player id is required")
	}

	var update RatingUpdate
	err := s.withinPlayer(ctx, playerID, "refresh rating", func(ctx context.Context, repos rating.Repositories) error {
		p, err := mustGetPlayer(ctx, repos.Players, playerID)
		if err != nil {
			return err
		}
		update, err = refreshPlayer(ctx, repos, p, s.now().UTC())
		return err
	})
	if err != nil {
		return RatingUpdate{}, err
	}

	if update.Changed {
		s.logger.InfoContext(ctx, "player rating refreshed",
			"player_id", playerID,
			"overall_rating", update.OverallRating.StringFixed(2),
			"matches_played", update.MatchesPlayed,
		)
	}
	return update, nil
}

// withinPlayer retries the unit once on a concurrency conflict.
func (s *RatingService) withinPlayer(ctx context.Context, playerID, op string, fn func(ctx context.Context, repos rating.Repositories) error) error {
	err := s.uow.WithinPlayer(ctx, playerID, fn)
	if err == nil || !errors.Is(err, rating.ErrConcurrencyConflict) {
		return err
	}

	s.logger.WarnContext(ctx, "player unit of work conflicted, retrying once",
		"operation", op,
		"player_id", playerID,
		"error", err,
	)
	err = s.uow.WithinPlayer(ctx, playerID, fn)
	if err != nil && errors.Is(err, rating.ErrConcurrencyConflict) {
		s.logger.ErrorContext(ctx, "player unit of work conflicted after retry",
			"operation", op,
			"player_id", playerID,
			"error", err,
		)
		return fmt.Errorf("%s for player %s: %w", op, playerID, err)
	}
	return err
}

func mustGetPlayer(ctx context.Context, repo player.Repository, playerID string) (player.Player, error) {
	p, exists, err := repo.GetByID(ctx, playerID)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player: %w", err)
	}
	if !exists {
		return player.Player{}, notFound("player=%s", playerID)
	}
	return p, nil
}

// refreshPlayer must run inside a unit of work for p. History is appended
// only when the overall rating changes value.
func refreshPlayer(ctx context.Context, repos rating.Repositories, p player.Player, now time.Time) (RatingUpdate, error) {
	ratings, err := repos.Stats.ListRecentRated(ctx, p.ID, rating.WindowSize)
	if err != nil {
		return RatingUpdate{}, fmt.Errorf("list recent match ratings: %w", err)
	}
	count, err := repos.Stats.CountByPlayer(ctx, p.ID)
	if err != nil {
		return RatingUpdate{}, fmt.Errorf("count match stats: %w", err)
	}

	overall := rating.OverallRating(ratings)
	changed := !overall.Equal(p.OverallRating)
	if changed || count != p.MatchesPlayed {
		if err := repos.Players.UpdateRating(ctx, p.ID, overall, count, now); err != nil {
			return RatingUpdate{}, fmt.Errorf("update player rating: %w", err)
		}
	}
	if changed {
		entry := &ratinghistory.Entry{PlayerID: p.ID, Rating: overall, RecordedAt: now}
		if err := repos.History.Append(ctx, entry); err != nil {
			return RatingUpdate{}, fmt.Errorf("append rating history: %w", err)
		}
	}

	return RatingUpdate{OverallRating: overall, MatchesPlayed: count, Changed: changed}, nil
}
