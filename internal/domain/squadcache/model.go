package squadcache

import (
	"context"
	"time"
)

// DefaultTTL is how long a fetched roster counts as fresh.
const DefaultTTL = 24 * time.Hour

type Provenance string

const (
	ProvenanceCache      Provenance = "cache"
	ProvenanceAPI        Provenance = "api"
	ProvenanceStaleCache Provenance = "stale_cache"
	ProvenanceFallback   Provenance = "fallback"
)

// PlayerSummary is one roster line as reported by the squad provider.
type PlayerSummary struct {
	Name     string `json:"name"`
	Age      *int   `json:"age"`
	Number   *int   `json:"number"`
	Position string `json:"position"`
	PhotoURL string `json:"photo"`
}

// Entry is the last successfully fetched roster of a team.
type Entry struct {
	TeamName       string
	ExternalTeamID int64
	Roster         []PlayerSummary
	FetchedAt      time.Time
}

// IsFresh reports whether now-FetchedAt < ttl.
func (e Entry) IsFresh(now time.Time, ttl time.Duration) bool {
	return now.Sub(e.FetchedAt) < ttl
}

type Repository interface {
	Get(ctx context.Context, teamName string) (Entry, bool, error)
	Upsert(ctx context.Context, entry Entry) error
	Delete(ctx context.Context, teamName string) error
}

// Provider fetches rosters from the external football data API. An empty
// slice with a nil error means the upstream had no players.
type Provider interface {
	FetchCurrentSquad(ctx context.Context, externalTeamID int64) ([]PlayerSummary, error)
	FetchSeasonPlayers(ctx context.Context, externalTeamID int64, season int) ([]PlayerSummary, error)
}
