package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/player-rating/internal/config"
	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
	"github.com/riskibarqy/player-rating/internal/usecase"
)

func memoryConfig(baseURL string) config.Config {
	return config.Config{
		AppEnv:                           config.EnvDev,
		HTTPAddr:                         ":0",
		CORSAllowedOrigins:               []string{"*"},
		StorageDriver:                    config.StorageMemory,
		SquadCacheBackend:                config.StorageMemory,
		CacheEnabled:                     true,
		CacheTTL:                         time.Minute,
		SquadCacheTTL:                    24 * time.Hour,
		SquadFetchTimeout:                2 * time.Second,
		SquadSeason:                      2024,
		SquadTeams:                       []config.TeamID{{Name: "Динамо", ID: 572}},
		SquadSyncWorkers:                 2,
		RatingRecalcWorkers:              2,
		RatingLockTimeout:                time.Second,
		APIFootballBaseURL:               baseURL,
		APIFootballKey:                   "test-key",
		APIFootballTimeout:               2 * time.Second,
		APIFootballCircuitEnabled:        true,
		APIFootballCircuitFailureCount:   3,
		APIFootballCircuitOpenTimeout:    time.Minute,
		APIFootballCircuitHalfOpenMaxReq: 1,
		SeedDemoPlayers:                  true,
	}
}

func TestBuild_MemoryContainer(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors":[],"response":[{"team":{"id":572},"players":[
			{"id":7,"name":"V. Vanat","age":22,"number":11,"position":"Attacker","photo":""}
		]}]}`))
	}))
	t.Cleanup(provider.Close)

	c, err := Build(t.Context(), memoryConfig(provider.URL), logging.NewNop())
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(c.Close)

	got, err := c.Players.GetRating(t.Context(), "ply_demo_fwd", 0)
	if err != nil {
		t.Fatalf("get seeded player rating: %v", err)
	}
	if !got.Player.OverallRating.IsZero() || got.Player.MatchesPlayed != 0 {
		t.Fatalf("expected fresh seeded player, got %+v", got.Player)
	}

	recalc, err := c.Ratings.RecalculateAll(t.Context(), usecase.RecalculateAllInput{})
	if err != nil {
		t.Fatalf("recalculate: %v", err)
	}
	if recalc.Total != 4 || recalc.Unchanged != 4 {
		t.Fatalf("unexpected recalculation result: %+v", recalc)
	}

	squad := c.Squads.Get(t.Context(), "Динамо")
	if squad.Provenance != squadcache.ProvenanceAPI || len(squad.Roster) != 1 {
		t.Fatalf("unexpected squad result: %+v", squad)
	}
	if again := c.Squads.Get(t.Context(), "Динамо"); again.Provenance != squadcache.ProvenanceCache {
		t.Fatalf("expected cached squad on second read, got %s", again.Provenance)
	}

	services := c.CLIServices()
	if services.Ratings != c.Ratings || services.Players != c.Players || services.Squads != c.Squads {
		t.Fatalf("cli services not wired to container use cases")
	}
}

func TestContainer_NewHTTPServer(t *testing.T) {
	c, err := Build(t.Context(), memoryConfig("http://127.0.0.1:1"), logging.NewNop())
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(c.Close)

	srv, err := c.NewHTTPServer()
	if err != nil {
		t.Fatalf("new http server: %v", err)
	}

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected healthz status: %d", rec.Code)
	}

	c.Config.HTTPAddr = ""
	if _, err := c.NewHTTPServer(); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}

func TestContainer_StartSquadSync(t *testing.T) {
	c, err := Build(t.Context(), memoryConfig("http://127.0.0.1:1"), logging.NewNop())
	if err != nil {
		t.Fatalf("build container: %v", err)
	}
	t.Cleanup(c.Close)

	scheduler, err := c.StartSquadSync()
	if err != nil || scheduler != nil {
		t.Fatalf("expected no scheduler without schedule, got %v err=%v", scheduler, err)
	}

	c.Config.SquadSyncSchedule = "not a cron spec"
	if _, err := c.StartSquadSync(); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}

	c.Config.SquadSyncSchedule = "@every 1h"
	scheduler, err = c.StartSquadSync()
	if err != nil {
		t.Fatalf("start squad sync: %v", err)
	}
	if len(scheduler.Entries()) != 1 {
		t.Fatalf("expected one scheduled entry, got %d", len(scheduler.Entries()))
	}
	<-scheduler.Stop().Done()
}
