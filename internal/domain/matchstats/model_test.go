package matchstats

import (
	"math"
	"strings"
	"testing"
)

func TestStatsValidate(t *testing.T) {
	t.Parallel()

	if err := (Stats{MinutesPlayed: 90, Goals: 1}).Validate(); err != nil {
		t.Fatalf("expected valid stats: %v", err)
	}
	if err := (Stats{}).Validate(); err != nil {
		t.Fatalf("expected zero stats to be valid: %v", err)
	}

	err := (Stats{MinutesPlayed: 90, Tackles: -1}).Validate()
	if err == nil {
		t.Fatalf("expected negative tackles to be rejected")
	}
	if !strings.Contains(err.Error(), "tackles") {
		t.Fatalf("expected error to name the field, got %v", err)
	}
}

func TestStatsValidate_UpperBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		stats   Stats
		field   string
		wantErr bool
	}{
		{name: "minutes at bound", stats: Stats{MinutesPlayed: MaxMinutesPlayed}},
		{name: "minutes over bound", stats: Stats{MinutesPlayed: MaxMinutesPlayed + 1}, field: "minutes_played", wantErr: true},
		{name: "count at bound", stats: Stats{Tackles: MaxCount, Interceptions: MaxCount}},
		{name: "count over bound", stats: Stats{Interceptions: MaxCount + 1}, field: "interceptions", wantErr: true},
		{name: "int32 overflow", stats: Stats{Goals: math.MaxInt32 + 1}, field: "goals", wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.stats.Validate()
			if !tc.wantErr {
				if err != nil {
					t.Fatalf("expected valid stats: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("expected error naming %s, got %v", tc.field, err)
			}
		})
	}
}

func TestTotalsAdd(t *testing.T) {
	t.Parallel()

	var totals Totals
	totals.Add(Stats{MinutesPlayed: 90, Goals: 2, Saves: 1})
	totals.Add(Stats{MinutesPlayed: 30, Goals: 1, YellowCards: 1})

	if totals.MatchesPlayed != 2 || totals.Goals != 3 || totals.MinutesPlayed != 120 || totals.YellowCards != 1 || totals.Saves != 1 {
		t.Fatalf("unexpected totals: %+v", totals)
	}
}
