package squadcache

import (
	"testing"
	"time"
)

func TestEntryIsFresh(t *testing.T) {
	t.Parallel()

	fetchedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	entry := Entry{TeamName: "Динамо", ExternalTeamID: 572, FetchedAt: fetchedAt}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "just fetched", now: fetchedAt, want: true},
		{name: "one second before expiry", now: fetchedAt.Add(DefaultTTL - time.Second), want: true},
		{name: "exactly at ttl", now: fetchedAt.Add(DefaultTTL), want: false},
		{name: "long expired", now: fetchedAt.Add(72 * time.Hour), want: false},
	}

	for _, tc := range tests {
		if got := entry.IsFresh(tc.now, DefaultTTL); got != tc.want {
			t.Fatalf("%s: IsFresh()=%v want %v", tc.name, got, tc.want)
		}
	}
}
