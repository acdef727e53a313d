package rating

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
)

func TestMatchRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		pos   player.Position
		stats matchstats.Stats
		want  string
	}{
		{
			name:  "goalkeeper saves",
			pos:   player.PositionGoalkeeper,
			stats: matchstats.Stats{MinutesPlayed: 90, Saves: 5},
			want:  "6.5",
		},
		{
			name:  "forward brace with assist and booking",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 90, Goals: 2, Assists: 1, ShotsOnTarget: 4, YellowCards: 1},
			want:  "7.8",
		},
		{
			name:  "half to even rounds 5.15 up",
			pos:   player.PositionMidfielder,
			stats: matchstats.Stats{MinutesPlayed: 90, KeyPasses: 1},
			want:  "5.2",
		},
		{
			name:  "half to even rounds 5.45 down",
			pos:   player.PositionMidfielder,
			stats: matchstats.Stats{MinutesPlayed: 90, KeyPasses: 3},
			want:  "5.4",
		},
		{
			name:  "cameo penalty",
			pos:   player.PositionDefender,
			stats: matchstats.Stats{MinutesPlayed: 10},
			want:  "3.5",
		},
		{
			name:  "under 45 minutes penalty rounds 4.25 to 4.2",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 30},
			want:  "4.2",
		},
		{
			name:  "under 60 minutes penalty rounds 4.75 to 4.8",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 59},
			want:  "4.8",
		},
		{
			name:  "exactly 60 minutes has no penalty",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 60},
			want:  "5",
		},
		{
			name:  "defender goal weight",
			pos:   player.PositionDefender,
			stats: matchstats.Stats{MinutesPlayed: 90, Goals: 1},
			want:  "6.5",
		},
		{
			name:  "goalkeeper goal weight",
			pos:   player.PositionGoalkeeper,
			stats: matchstats.Stats{MinutesPlayed: 90, Goals: 1},
			want:  "5.5",
		},
		{
			name:  "shot bonus capped",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 90, ShotsOnTarget: 10},
			want:  "6.5",
		},
		{
			name:  "key pass bonus capped",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 90, KeyPasses: 10},
			want:  "5.9",
		},
		{
			name:  "save bonus capped",
			pos:   player.PositionGoalkeeper,
			stats: matchstats.Stats{MinutesPlayed: 90, Saves: 10},
			want:  "7",
		},
		{
			name:  "saves ignored outside goal",
			pos:   player.PositionDefender,
			stats: matchstats.Stats{MinutesPlayed: 90, Saves: 5},
			want:  "5",
		},
		{
			name:  "defensive bonus capped",
			pos:   player.PositionDefender,
			stats: matchstats.Stats{MinutesPlayed: 90, Tackles: 8, Interceptions: 5},
			want:  "6",
		},
		{
			name:  "defensive sum beyond int range still caps",
			pos:   player.PositionDefender,
			stats: matchstats.Stats{MinutesPlayed: 90, Tackles: math.MaxInt, Interceptions: 1},
			want:  "6",
		},
		{
			name:  "defensive actions ignored for forwards",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 90, Tackles: 8, Interceptions: 5},
			want:  "5",
		},
		{
			name:  "clamped to maximum",
			pos:   player.PositionForward,
			stats: matchstats.Stats{MinutesPlayed: 90, Goals: 10},
			want:  "10",
		},
		{
			name:  "clamped to minimum",
			pos:   player.PositionMidfielder,
			stats: matchstats.Stats{MinutesPlayed: 90, RedCards: 3},
			want:  "1",
		},
		{
			name:  "unknown position uses neutral goal weight",
			pos:   player.Position("XX"),
			stats: matchstats.Stats{MinutesPlayed: 90, Goals: 2, Tackles: 5},
			want:  "7",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := MatchRating(tc.stats, tc.pos)
			want := decimal.RequireFromString(tc.want)
			if !got.Equal(want) {
				t.Fatalf("MatchRating()=%s want %s", got, want)
			}
		})
	}
}

func TestMatchRating_AlwaysInRangeWithOneDecimal(t *testing.T) {
	t.Parallel()

	positions := []player.Position{
		player.PositionGoalkeeper,
		player.PositionDefender,
		player.PositionMidfielder,
		player.PositionForward,
	}
	minutes := []int{0, 19, 20, 44, 45, 59, 60, 90, 120}

	for _, pos := range positions {
		for _, mins := range minutes {
			for n := 0; n <= 12; n++ {
				stats := matchstats.Stats{
					MinutesPlayed: mins,
					Goals:         n % 4,
					Assists:       n % 3,
					YellowCards:   n % 2,
					RedCards:      n / 11,
					ShotsOnTarget: n,
					KeyPasses:     12 - n,
					Saves:         n,
					Tackles:       n / 2,
					Interceptions: n / 3,
				}
				got := MatchRating(stats, pos)
				if got.LessThan(MinMatchRating) || got.GreaterThan(MaxMatchRating) {
					t.Fatalf("rating %s out of range for %s %+v", got, pos, stats)
				}
				if !got.Equal(got.Truncate(1)) {
					t.Fatalf("rating %s has more than one decimal for %s %+v", got, pos, stats)
				}
			}
		}
	}
}

func TestOverallRating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ratings []string
		want    string
	}{
		{name: "no ratings", ratings: nil, want: "0"},
		{name: "single", ratings: []string{"6.5"}, want: "6.5"},
		{name: "half to even rounds 3.325 down", ratings: []string{"3.3", "3.3", "3.3", "3.4"}, want: "3.32"},
		{name: "half to even rounds 1.075 up", ratings: []string{"1.0", "1.1", "1.1", "1.1"}, want: "1.08"},
		{name: "repeating mean", ratings: []string{"1.0", "1.0", "2.0"}, want: "1.33"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ratings := make([]decimal.Decimal, 0, len(tc.ratings))
			for _, r := range tc.ratings {
				ratings = append(ratings, decimal.RequireFromString(r))
			}
			got := OverallRating(ratings)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("OverallRating()=%s want %s", got, tc.want)
			}
		})
	}
}

func TestOverallRating_FormatsTwoDecimals(t *testing.T) {
	t.Parallel()

	if got := OverallRating(nil).StringFixed(2); got != "0.00" {
		t.Fatalf("expected 0.00, got %s", got)
	}
}
