package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	"github.com/riskibarqy/player-rating/internal/platform/keylock"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
)

const (
	defaultSquadSeason       = 2024
	defaultSquadFetchTimeout = 10 * time.Second
	defaultSquadSyncWorkers  = 4
)

// SquadTeam maps a team name to its id at the football data provider.
type SquadTeam struct {
	Name           string
	ExternalTeamID int64
}

type SquadCacheConfig struct {
	Teams        []SquadTeam
	Season       int
	TTL          time.Duration
	FetchTimeout time.Duration
	SyncWorkers  int
}

// SquadResult is what a roster read resolved to. FetchedAt is nil for a
// fallback. Error is set for fallbacks only.
type SquadResult struct {
	TeamName       string
	ExternalTeamID int64
	Roster         []squadcache.PlayerSummary
	Provenance     squadcache.Provenance
	FetchedAt      *time.Time
	Error          string
}

type SyncAllInput struct {
	MaxWorkers int
}

type SyncedTeam struct {
	TeamName   string
	Players    int
	Provenance squadcache.Provenance
	Error      string
}

type SyncAllResult struct {
	Teams        int
	Players      int
	ByProvenance map[squadcache.Provenance]int
	Items        []SyncedTeam
}

type fetchedSquad struct {
	roster    []squadcache.PlayerSummary
	fetchedAt time.Time
}

// SquadCacheService keeps per-team rosters from the provider fresh for TTL
// and serves the last good roster when a refresh yields nothing.
type SquadCacheService struct {
	repo     squadcache.Repository
	provider squadcache.Provider
	teams    map[string]int64
	cfg      SquadCacheConfig
	group    singleflight.Group
	locks    *keylock.Locker
	logger   *logging.Logger
	now      func() time.Time
}

func NewSquadCacheService(
	repo squadcache.Repository,
	provider squadcache.Provider,
	cfg SquadCacheConfig,
	logger *logging.Logger,
) *SquadCacheService {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Season <= 0 {
		cfg.Season = defaultSquadSeason
	}
	if cfg.TTL <= 0 {
		cfg.TTL = squadcache.DefaultTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = defaultSquadFetchTimeout
	}
	if cfg.SyncWorkers <= 0 {
		cfg.SyncWorkers = defaultSquadSyncWorkers
	}

	teams := make(map[string]int64, len(cfg.Teams))
	for _, team := range cfg.Teams {
		teams[team.Name] = team.ExternalTeamID
	}

	return &SquadCacheService{
		repo:     repo,
		provider: provider,
		teams:    teams,
		cfg:      cfg,
		locks:    keylock.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// ListTeams returns the known teams sorted by name.
func (s *SquadCacheService) ListTeams() []SquadTeam {
	out := make([]SquadTeam, 0, len(s.teams))
	for name, id := range s.teams {
		out = append(out, SquadTeam{Name: name, ExternalTeamID: id})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Get never fails. Storage and provider errors are logged and degrade the
// provenance of the result.
func (s *SquadCacheService) Get(ctx context.Context, teamName string) SquadResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadCacheService.Get", attribute.String("squad.team", teamName))
	defer span.End()

	teamName = strings.TrimSpace(teamName)
	externalTeamID, known := s.teams[teamName]
	if !known {
		return SquadResult{
			TeamName:   teamName,
			Roster:     []squadcache.PlayerSummary{},
			Provenance: squadcache.ProvenanceFallback,
			Error:      "Unknown team: " + teamName,
		}
	}

	cached, hasCached, err := s.repo.Get(ctx, teamName)
	if err != nil {
		s.logger.WarnContext(ctx, "read squad cache failed", "team", teamName, "error", err)
		hasCached = false
	}
	if hasCached && cached.IsFresh(s.now(), s.cfg.TTL) {
		return entryResult(cached, squadcache.ProvenanceCache)
	}

	fetched, err := s.fetch(ctx, teamName, externalTeamID)
	switch {
	case err == nil && len(fetched.roster) > 0:
		fetchedAt := fetched.fetchedAt
		return SquadResult{
			TeamName:       teamName,
			ExternalTeamID: externalTeamID,
			Roster:         fetched.roster,
			Provenance:     squadcache.ProvenanceAPI,
			FetchedAt:      &fetchedAt,
		}
	case err != nil:
		s.logger.WarnContext(ctx, "fetch squad failed", "team", teamName, "external_team_id", externalTeamID, "error", err)
	}

	if hasCached {
		return entryResult(cached, squadcache.ProvenanceStaleCache)
	}
	return SquadResult{
		TeamName:       teamName,
		ExternalTeamID: externalTeamID,
		Roster:         []squadcache.PlayerSummary{},
		Provenance:     squadcache.ProvenanceFallback,
		Error:          "No data available",
	}
}

// fetch collapses concurrent refreshes of one team. The shared call is
// detached from the caller's cancellation and bounded by FetchTimeout.
func (s *SquadCacheService) fetch(ctx context.Context, teamName string, externalTeamID int64) (fetchedSquad, error) {
	ch := s.group.DoChan(teamName, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.FetchTimeout)
		defer cancel()
		return s.fetchAndStore(fetchCtx, teamName, externalTeamID)
	})

	select {
	case <-ctx.Done():
		return fetchedSquad{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return fetchedSquad{}, res.Err
		}
		fetched, _ := res.Val.(fetchedSquad)
		return fetched, nil
	}
}

func (s *SquadCacheService) fetchAndStore(ctx context.Context, teamName string, externalTeamID int64) (fetchedSquad, error) {
	fetchedAt := s.now().UTC()

	roster, primaryErr := s.provider.FetchCurrentSquad(ctx, externalTeamID)
	if primaryErr != nil {
		s.logger.WarnContext(ctx, "fetch current squad failed, trying season players",
			"team", teamName,
			"external_team_id", externalTeamID,
			"error", primaryErr,
		)
	}
	if primaryErr != nil || len(roster) == 0 {
		var err error
		roster, err = s.provider.FetchSeasonPlayers(ctx, externalTeamID, s.cfg.Season)
		if err != nil {
			return fetchedSquad{}, errors.Join(primaryErr, fmt.Errorf("fetch season players: %w", err))
		}
	}
	if len(roster) == 0 {
		return fetchedSquad{}, nil
	}

	unlock, err := s.locks.Lock(ctx, teamName)
	if err != nil {
		s.logger.WarnContext(ctx, "lock squad cache entry failed", "team", teamName, "error", err)
		return fetchedSquad{roster: roster, fetchedAt: fetchedAt}, nil
	}
	defer unlock()

	entry := squadcache.Entry{
		TeamName:       teamName,
		ExternalTeamID: externalTeamID,
		Roster:         roster,
		FetchedAt:      fetchedAt,
	}
	if err := s.repo.Upsert(ctx, entry); err != nil {
		s.logger.WarnContext(ctx, "write squad cache failed", "team", teamName, "error", err)
	}

	return fetchedSquad{roster: roster, fetchedAt: fetchedAt}, nil
}

// SyncAll drops every cached roster and reads it again from the provider.
func (s *SquadCacheService) SyncAll(ctx context.Context, input SyncAllInput) SyncAllResult {
	ctx, span := startUsecaseSpan(ctx, "usecase.SquadCacheService.SyncAll")
	defer span.End()

	workers := input.MaxWorkers
	if workers <= 0 {
		workers = s.cfg.SyncWorkers
	}

	teams := s.ListTeams()
	p := pool.NewWithResults[SyncedTeam]().WithMaxGoroutines(workers)
	for _, team := range teams {
		p.Go(func() SyncedTeam {
			s.dropEntry(ctx, team.Name)
			res := s.Get(ctx, team.Name)
			return SyncedTeam{
				TeamName:   team.Name,
				Players:    len(res.Roster),
				Provenance: res.Provenance,
				Error:      res.Error,
			}
		})
	}
	items := p.Wait()
	sort.Slice(items, func(i, j int) bool { return items[i].TeamName < items[j].TeamName })

	result := SyncAllResult{
		Teams:        len(items),
		ByProvenance: make(map[squadcache.Provenance]int),
		Items:        items,
	}
	for _, item := range items {
		result.Players += item.Players
		result.ByProvenance[item.Provenance]++
	}

	s.logger.InfoContext(ctx, "squad cache synced",
		"teams", result.Teams,
		"players", result.Players,
		"api", result.ByProvenance[squadcache.ProvenanceAPI],
		"fallback", result.ByProvenance[squadcache.ProvenanceFallback],
	)
	return result
}

func (s *SquadCacheService) dropEntry(ctx context.Context, teamName string) {
	unlock, err := s.locks.Lock(ctx, teamName)
	if err != nil {
		s.logger.WarnContext(ctx, "lock squad cache entry failed", "team", teamName, "error", err)
		return
	}
	defer unlock()

	if err := s.repo.Delete(ctx, teamName); err != nil {
		s.logger.WarnContext(ctx, "delete squad cache entry failed", "team", teamName, "error", err)
	}
}

func entryResult(entry squadcache.Entry, provenance squadcache.Provenance) SquadResult {
	fetchedAt := entry.FetchedAt
	return SquadResult{
		TeamName:       entry.TeamName,
		ExternalTeamID: entry.ExternalTeamID,
		Roster:         entry.Roster,
		Provenance:     provenance,
		FetchedAt:      &fetchedAt,
	}
}
