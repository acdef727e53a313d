package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/rating"
	"github.com/riskibarqy/player-rating/internal/infrastructure/repository/memory"
	ratingmock "github.com/riskibarqy/player-rating/internal/mocks/domain/rating"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

type ratingFixture struct {
	store   *memory.Store
	service *RatingService
	stats   *memory.MatchStatsRepository
	history *memory.RatingHistoryRepository
	players *memory.PlayerRepository
}

func newRatingFixture(t *testing.T) *ratingFixture {
	t.Helper()

	store := memory.NewStore()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	if err := memory.Seed(context.Background(), store, memory.SeedPlayers(base)); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	players := memory.NewPlayerRepository(store)
	svc := NewRatingService(memory.NewUnitOfWork(store, 5*time.Second), players, logging.NewNop())

	var mu sync.Mutex
	tick := 0
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	return &ratingFixture{
		store:   store,
		service: svc,
		stats:   memory.NewMatchStatsRepository(store),
		history: memory.NewRatingHistoryRepository(store),
		players: players,
	}
}

func TestRatingService_RecordMatchStatsCascades(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	ctx := context.Background()

	result, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{
		PlayerID: "ply_demo_fwd",
		MatchID:  101,
		Stats:    matchstats.Stats{MinutesPlayed: 90, Goals: 2, Assists: 1, ShotsOnTarget: 4, YellowCards: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "7.8", result.Record.MatchRating.Decimal.String())
	require.True(t, result.OverallRating.Equal(decimal.RequireFromString("7.80")))
	require.Equal(t, 1, result.MatchesPlayed)
	require.True(t, result.Changed)

	p, exists, err := fx.players.GetByID(ctx, "ply_demo_fwd")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "7.80", p.OverallRating.StringFixed(2))
	require.Equal(t, 1, p.MatchesPlayed)

	history, err := fx.history.ListRecent(ctx, "ply_demo_fwd", 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "7.80", history[0].Rating.StringFixed(2))
}

func TestRatingService_RefreshIsIdempotent(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	ctx := context.Background()

	_, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{
		PlayerID: "ply_demo_gk",
		MatchID:  1,
		Stats:    matchstats.Stats{MinutesPlayed: 90, Saves: 5},
	})
	require.NoError(t, err)

	first, err := fx.service.RefreshRating(ctx, "ply_demo_gk")
	require.NoError(t, err)
	second, err := fx.service.RefreshRating(ctx, "ply_demo_gk")
	require.NoError(t, err)

	require.False(t, first.Changed)
	require.False(t, second.Changed)
	require.Equal(t, "6.50", second.OverallRating.StringFixed(2))

	history, err := fx.history.ListRecent(ctx, "ply_demo_gk", 10)
	require.NoError(t, err)
	require.Len(t, history, 1, "refresh without new records must not append history")
}

func TestRatingService_NoRecordsGivesZero(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)

	update, err := fx.service.RefreshRating(context.Background(), "ply_demo_mid")
	require.NoError(t, err)
	require.True(t, update.OverallRating.IsZero())
	require.Equal(t, 0, update.MatchesPlayed)
	require.False(t, update.Changed)
}

func TestRatingService_WindowUsesTenMostRecent(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	ctx := context.Background()

	// Five early cameos rate 3.5, ten full matches rate 5.0.
	for i := 1; i <= 15; i++ {
		minutes := 90
		if i <= 5 {
			minutes = 10
		}
		_, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{
			PlayerID: "ply_demo_fwd",
			MatchID:  int64(i),
			Stats:    matchstats.Stats{MinutesPlayed: minutes},
		})
		require.NoError(t, err)
	}

	p, _, err := fx.players.GetByID(ctx, "ply_demo_fwd")
	require.NoError(t, err)
	require.Equal(t, 15, p.MatchesPlayed)
	require.Equal(t, "5.00", p.OverallRating.StringFixed(2))
}

func TestRatingService_ConcurrentSubmissionsCountExactly(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	ctx := context.Background()

	const n = 25
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(matchID int64) {
			defer wg.Done()
			_, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{
				PlayerID: "ply_demo_def",
				MatchID:  matchID,
				Stats:    matchstats.Stats{MinutesPlayed: 90, Tackles: 2},
			})
			errs <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	p, _, err := fx.players.GetByID(ctx, "ply_demo_def")
	require.NoError(t, err)
	require.Equal(t, n, p.MatchesPlayed)

	count, err := fx.stats.CountByPlayer(ctx, "ply_demo_def")
	require.NoError(t, err)
	require.Equal(t, n, count)
}

func TestRatingService_RejectsBeforePersisting(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	cases := []struct {
		name  string
		ctx   context.Context
		input RecordMatchStatsInput
		isErr error
	}{
		{
			name:  "negative stat",
			ctx:   context.Background(),
			input: RecordMatchStatsInput{PlayerID: "ply_demo_mid", MatchID: 1, Stats: matchstats.Stats{MinutesPlayed: 90, Goals: -1}},
			isErr: ErrInvalidInput,
		},
		{
			name:  "stat above bound",
			ctx:   context.Background(),
			input: RecordMatchStatsInput{PlayerID: "ply_demo_mid", MatchID: 1, Stats: matchstats.Stats{MinutesPlayed: 90, Tackles: math.MaxInt, Interceptions: 1}},
			isErr: ErrInvalidInput,
		},
		{
			name:  "minutes above bound",
			ctx:   context.Background(),
			input: RecordMatchStatsInput{PlayerID: "ply_demo_mid", MatchID: 1, Stats: matchstats.Stats{MinutesPlayed: matchstats.MaxMinutesPlayed + 1}},
			isErr: ErrInvalidInput,
		},
		{
			name:  "missing match id",
			ctx:   context.Background(),
			input: RecordMatchStatsInput{PlayerID: "ply_demo_mid", Stats: matchstats.Stats{MinutesPlayed: 90}},
			isErr: ErrInvalidInput,
		},
		{
			name:  "unknown player",
			ctx:   context.Background(),
			input: RecordMatchStatsInput{PlayerID: "ply_missing", MatchID: 1, Stats: matchstats.Stats{MinutesPlayed: 90}},
			isErr: ErrNotFound,
		},
		{
			name:  "canceled context",
			ctx:   canceled,
			input: RecordMatchStatsInput{PlayerID: "ply_demo_mid", MatchID: 1, Stats: matchstats.Stats{MinutesPlayed: 90}},
			isErr: context.Canceled,
		},
	}

	for _, tc := range cases {
		_, err := fx.service.RecordMatchStats(tc.ctx, tc.input)
		require.ErrorIs(t, err, tc.isErr, tc.name)
	}

	count, err := fx.stats.CountByPlayer(context.Background(), "ply_demo_mid")
	require.NoError(t, err)
	require.Zero(t, count)

	history, err := fx.history.ListRecent(context.Background(), "ply_demo_mid", 10)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestRatingService_CorrectMatchStats(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	ctx := context.Background()

	recorded, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{
		PlayerID: "ply_demo_mid",
		MatchID:  7,
		Stats:    matchstats.Stats{MinutesPlayed: 90, KeyPasses: 1},
	})
	require.NoError(t, err)
	require.Equal(t, "5.2", recorded.Record.MatchRating.Decimal.String())

	corrected, err := fx.service.CorrectMatchStats(ctx, CorrectMatchStatsInput{
		PlayerID: "ply_demo_mid",
		RecordID: recorded.Record.ID,
		Stats:    matchstats.Stats{MinutesPlayed: 90, KeyPasses: 3},
	})
	require.NoError(t, err)
	require.Equal(t, "5.4", corrected.Record.MatchRating.Decimal.String())
	require.True(t, corrected.Changed)
	require.Equal(t, 1, corrected.MatchesPlayed)

	stored, exists, err := fx.stats.GetByID(ctx, recorded.Record.ID)
	require.NoError(t, err)
	require.True(t, exists)
	require.True(t, stored.CreatedAt.Equal(recorded.Record.CreatedAt))
	require.True(t, stored.UpdatedAt.After(stored.CreatedAt))

	history, err := fx.history.ListRecent(ctx, "ply_demo_mid", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, "5.40", history[0].Rating.StringFixed(2))
	require.Equal(t, "5.20", history[1].Rating.StringFixed(2))

	_, err = fx.service.CorrectMatchStats(ctx, CorrectMatchStatsInput{
		PlayerID: "ply_demo_fwd",
		RecordID: recorded.Record.ID,
		Stats:    matchstats.Stats{MinutesPlayed: 90},
	})
	require.ErrorIs(t, err, ErrNotFound, "record of another player")
}

func TestRatingService_RetriesConflictOnce(t *testing.T) {
	t.Parallel()

	conflict := fmt.Errorf("%w: serialization failure", rating.ErrConcurrencyConflict)

	t.Run("second attempt succeeds", func(t *testing.T) {
		uow := ratingmock.NewUnitOfWork(t)
		uow.On("WithinPlayer", mock.Anything, "ply_1", mock.Anything).Return(conflict).Once()
		uow.On("WithinPlayer", mock.Anything, "ply_1", mock.Anything).Return(nil).Once()

		svc := NewRatingService(uow, nil, logging.NewNop())
		_, err := svc.RefreshRating(context.Background(), "ply_1")
		require.NoError(t, err)
	})

	t.Run("second conflict surfaces", func(t *testing.T) {
		uow := ratingmock.NewUnitOfWork(t)
		uow.On("WithinPlayer", mock.Anything, "ply_1", mock.Anything).Return(conflict).Twice()

		svc := NewRatingService(uow, nil, logging.NewNop())
		_, err := svc.RefreshRating(context.Background(), "ply_1")
		require.ErrorIs(t, err, rating.ErrConcurrencyConflict)
	})

	t.Run("other errors are not retried", func(t *testing.T) {
		uow := ratingmock.NewUnitOfWork(t)
		uow.On("WithinPlayer", mock.Anything, "ply_1", mock.Anything).Return(errors.New("disk full")).Once()

		svc := NewRatingService(uow, nil, logging.NewNop())
		_, err := svc.RefreshRating(context.Background(), "ply_1")
		require.EqualError(t, err, "disk full")
	})
}

func TestRatingService_RecalculateAll(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	ctx := context.Background()

	_, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{
		PlayerID: "ply_demo_gk",
		MatchID:  1,
		Stats:    matchstats.Stats{MinutesPlayed: 90, Saves: 5},
	})
	require.NoError(t, err)

	// Drift the stored rating so one player has something to heal.
	require.NoError(t, fx.players.UpdateRating(ctx, "ply_demo_gk", decimal.RequireFromString("1.00"), 0, time.Now()))

	result, err := fx.service.RecalculateAll(ctx, RecalculateAllInput{MaxWorkers: 2})
	require.NoError(t, err)
	require.Equal(t, 4, result.Total)
	require.Equal(t, 1, result.Changed)
	require.Equal(t, 3, result.Unchanged)
	require.Zero(t, result.Failed)
	require.Len(t, result.Players, 4)
	require.Equal(t, "ply_demo_def", result.Players[0].PlayerID)

	for _, row := range result.Players {
		if row.PlayerID == "ply_demo_gk" {
			require.Equal(t, recalcStatusChanged, row.Status)
			require.Equal(t, "6.50", row.OverallRating.StringFixed(2))
			require.Equal(t, 1, row.MatchesPlayed)
		}
	}
}

func TestRatingService_LogsMatchRatingWithOneDecimal(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	var buf bytes.Buffer
	fx.service.logger = logging.New(logging.Options{Level: logging.LevelInfo, Format: logging.FormatJSON, Output: &buf})

	result, err := fx.service.RecordMatchStats(context.Background(), RecordMatchStatsInput{
		PlayerID: "ply_demo_fwd",
		MatchID:  1,
		Stats:    matchstats.Stats{MinutesPlayed: 90},
	})
	require.NoError(t, err)
	require.True(t, result.Record.MatchRating.Decimal.Equal(decimal.NewFromInt(5)))

	require.Contains(t, buf.String(), `"match_rating":"5.0"`)
}
