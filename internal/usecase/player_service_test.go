package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/infrastructure/repository/memory"
	idgen "github.com/riskibarqy/player-rating/internal/platform/id"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

type fixedIDGen struct {
	ids []string
}

func (g *fixedIDGen) NewID() (string, error) {
	id := g.ids[0]
	g.ids = g.ids[1:]
	return id, nil
}

func newPlayerService(store *memory.Store, gen idgen.Generator) *PlayerService {
	return NewPlayerService(
		memory.NewPlayerRepository(store),
		memory.NewMatchStatsRepository(store),
		memory.NewRatingHistoryRepository(store),
		gen,
		logging.NewNop(),
	)
}

func TestPlayerService_RegisterPlayer(t *testing.T) {
	t.Parallel()

	store := memory.NewStore()
	svc := newPlayerService(store, &fixedIDGen{ids: []string{"ply_a", "ply_b", "ply_c"}})
	ctx := context.Background()

	p, err := svc.RegisterPlayer(ctx, RegisterPlayerInput{UserID: " user-1 ", Name: "Artem Dovbyk", Position: "fwd"})
	require.NoError(t, err)
	require.Equal(t, "ply_a", p.ID)
	require.Equal(t, "user-1", p.UserID)
	require.Equal(t, "FWD", string(p.Position))
	require.True(t, p.OverallRating.IsZero())

	_, err = svc.RegisterPlayer(ctx, RegisterPlayerInput{UserID: "user-1", Name: "Again", Position: "MID"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.RegisterPlayer(ctx, RegisterPlayerInput{UserID: "user-2", Name: "Keeper", Position: "sweeper"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestPlayerService_RegisterPlayerWithNanoID(t *testing.T) {
	t.Parallel()

	svc := newPlayerService(memory.NewStore(), idgen.NewNanoGenerator("ply_"))

	p, err := svc.RegisterPlayer(context.Background(), RegisterPlayerInput{UserID: "user-9", Name: "Mykola Matviienko", Position: "DEF"})
	require.NoError(t, err)
	require.Len(t, p.ID, len("ply_")+16)
}

func TestPlayerService_GetRatingAndStatistics(t *testing.T) {
	t.Parallel()

	fx := newRatingFixture(t)
	svc := newPlayerService(fx.store, &fixedIDGen{})
	ctx := context.Background()

	inputs := []matchstats.Stats{
		{MinutesPlayed: 90, Saves: 5},
		{MinutesPlayed: 90, Saves: 2, YellowCards: 1},
		{MinutesPlayed: 30},
	}
	for i, stats := range inputs {
		_, err := fx.service.RecordMatchStats(ctx, RecordMatchStatsInput{PlayerID: "ply_demo_gk", MatchID: int64(i + 1), Stats: stats})
		require.NoError(t, err)
	}

	got, err := svc.GetRating(ctx, "ply_demo_gk", 2)
	require.NoError(t, err)
	require.Equal(t, 3, got.Player.MatchesPlayed)
	require.Len(t, got.History, 2)
	require.True(t, got.History[0].RecordedAt.After(got.History[1].RecordedAt))
	require.True(t, got.History[0].Rating.Equal(got.Player.OverallRating))

	stats, err := svc.GetStatistics(ctx, "ply_demo_gk")
	require.NoError(t, err)
	require.Equal(t, 7, stats.Totals.Saves)
	require.Equal(t, 1, stats.Totals.YellowCards)
	require.Equal(t, 210, stats.Totals.MinutesPlayed)
	require.Equal(t, 3, stats.Totals.MatchesPlayed)
	// 6.5, 4.6 and 4.25 rounded to 4.2.
	require.Equal(t, "5.10", stats.Totals.AverageRating.StringFixed(2))

	_, err = svc.GetRating(ctx, "ply_missing", 0)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.GetStatistics(ctx, "ply_missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestNormalizeHistoryLimit(t *testing.T) {
	t.Parallel()

	cases := map[int]int{-1: DefaultHistoryLimit, 0: DefaultHistoryLimit, 5: 5, 100: 100, 500: MaxHistoryLimit}
	for in, want := range cases {
		if got := normalizeHistoryLimit(in); got != want {
			t.Fatalf("normalizeHistoryLimit(%d)=%d want=%d", in, got, want)
		}
	}
}
