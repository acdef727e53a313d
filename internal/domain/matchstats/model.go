package matchstats

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Stats are the raw counting statistics reported for one appearance.
type Stats struct {
	MinutesPlayed int
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	Shots         int
	ShotsOnTarget int
	KeyPasses     int
	Saves         int
	Tackles       int
	Interceptions int
}

// Upper bounds for one appearance. They keep every stored value and every
// per-player total well inside a Postgres INT.
const (
	MaxMinutesPlayed = 150
	MaxCount         = 1000
)

func (s Stats) Validate() error {
	fields := []struct {
		name  string
		value int
		max   int
	}{
		{"minutes_played", s.MinutesPlayed, MaxMinutesPlayed},
		{"goals", s.Goals, MaxCount},
		{"assists", s.Assists, MaxCount},
		{"yellow_cards", s.YellowCards, MaxCount},
		{"red_cards", s.RedCards, MaxCount},
		{"shots", s.Shots, MaxCount},
		{"shots_on_target", s.ShotsOnTarget, MaxCount},
		{"key_passes", s.KeyPasses, MaxCount},
		{"saves", s.Saves, MaxCount},
		{"tackles", s.Tackles, MaxCount},
		{"interceptions", s.Interceptions, MaxCount},
	}
	for _, f := range fields {
		if f.value < 0 {
			return fmt.Errorf("%s must be >= 0, got %d", f.name, f.value)
		}
		if f.value > f.max {
			return fmt.Errorf("%s must be <= %d, got %d", f.name, f.max, f.value)
		}
	}
	return nil
}

// Record is one player's statistics for one match. MatchRating is derived
// from Stats and the player's position whenever the record is written.
type Record struct {
	ID          int64
	PlayerID    string
	MatchID     int64
	Stats       Stats
	MatchRating decimal.NullDecimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Totals aggregates every record of a player.
type Totals struct {
	Goals         int
	Assists       int
	Shots         int
	ShotsOnTarget int
	KeyPasses     int
	Saves         int
	Tackles       int
	Interceptions int
	YellowCards   int
	RedCards      int
	MinutesPlayed int
	MatchesPlayed int
	AverageRating decimal.Decimal
}

// Add folds a record into the totals. AverageRating is not touched.
func (t *Totals) Add(s Stats) {
	t.Goals += s.Goals
	t.Assists += s.Assists
	t.Shots += s.Shots
	t.ShotsOnTarget += s.ShotsOnTarget
	t.KeyPasses += s.KeyPasses
	t.Saves += s.Saves
	t.Tackles += s.Tackles
	t.Interceptions += s.Interceptions
	t.YellowCards += s.YellowCards
	t.RedCards += s.RedCards
	t.MinutesPlayed += s.MinutesPlayed
	t.MatchesPlayed++
}
