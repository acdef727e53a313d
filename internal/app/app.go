package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/player-rating/external/apifootball"
	"github.com/riskibarqy/player-rating/internal/config"
	"github.com/riskibarqy/player-rating/internal/domain/matchstats"
	"github.com/riskibarqy/player-rating/internal/domain/player"
	"github.com/riskibarqy/player-rating/internal/domain/rating"
	"github.com/riskibarqy/player-rating/internal/domain/ratinghistory"
	"github.com/riskibarqy/player-rating/internal/domain/squadcache"
	"github.com/riskibarqy/player-rating/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/player-rating/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/player-rating/internal/infrastructure/repository/postgres"
	redisrepo "github.com/riskibarqy/player-rating/internal/infrastructure/repository/redis"
	"github.com/riskibarqy/player-rating/internal/interfaces/cli"
	"github.com/riskibarqy/player-rating/internal/interfaces/httpapi"
	idgen "github.com/riskibarqy/player-rating/internal/platform/id"
	"github.com/riskibarqy/player-rating/internal/platform/logging"
	"github.com/riskibarqy/player-rating/internal/platform/resilience"
	"github.com/riskibarqy/player-rating/internal/usecase"
)

const (
	playerIDPrefix       = "ply_"
	redisSquadKeyPrefix  = "player-rating:squad:"
	dbConnMaxIdleTimeout = 5 * time.Minute
)

// Container holds the wired use cases for one process.
type Container struct {
	Config  config.Config
	Logger  *logging.Logger
	Ratings *usecase.RatingService
	Players *usecase.PlayerService
	Squads  *usecase.SquadCacheService

	closers []func() error
}

type repositories struct {
	players player.Repository
	stats   matchstats.Repository
	history ratinghistory.Repository
	uow     rating.UnitOfWork
}

// Build opens storage, the squad provider and the use cases described by cfg.
func Build(ctx context.Context, cfg config.Config, logger *logging.Logger) (*Container, error) {
	if logger == nil {
		logger = logging.Default()
	}

	c := &Container{Config: cfg, Logger: logger}

	repos, sqlDB, err := c.openRatingStorage(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	squadRepo, err := c.openSquadCache(ctx, sqlDB)
	if err != nil {
		c.Close()
		return nil, err
	}

	if cfg.CacheEnabled {
		playerCache := cache.NewPlayerCache(cfg.CacheTTL)
		repos.players = cache.NewPlayerRepository(repos.players, playerCache)
		repos.uow = cache.NewUnitOfWork(repos.uow, playerCache)
		squadRepo = cache.NewSquadCacheRepository(squadRepo, cfg.CacheTTL)
	}

	provider := apifootball.NewClient(apifootball.ClientConfig{
		BaseURL:       cfg.APIFootballBaseURL,
		APIKey:        cfg.APIFootballKey,
		Timeout:       cfg.APIFootballTimeout,
		MaxRetries:    cfg.APIFootballMaxRetries,
		RatePerMinute: cfg.APIFootballRatePerMinute,
		Logger:        logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.APIFootballCircuitEnabled,
			FailureThreshold: cfg.APIFootballCircuitFailureCount,
			OpenTimeout:      cfg.APIFootballCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.APIFootballCircuitHalfOpenMaxReq,
		},
	})
	if cfg.APIFootballKey == "" {
		logger.Warn("API_FOOTBALL_KEY empty, squad fetches will fall back to cache")
	}

	c.Ratings = usecase.NewRatingService(repos.uow, repos.players, logger)
	c.Ratings.SetRecalculateWorkers(cfg.RatingRecalcWorkers)
	c.Players = usecase.NewPlayerService(
		repos.players,
		repos.stats,
		repos.history,
		idgen.NewNanoGenerator(playerIDPrefix),
		logger,
	)
	c.Squads = usecase.NewSquadCacheService(squadRepo, provider, usecase.SquadCacheConfig{
		Teams:        squadTeams(cfg.SquadTeams),
		Season:       cfg.SquadSeason,
		TTL:          cfg.SquadCacheTTL,
		FetchTimeout: cfg.SquadFetchTimeout,
		SyncWorkers:  cfg.SquadSyncWorkers,
	}, logger)

	logger.Info("app container ready",
		"storage_driver", cfg.StorageDriver,
		"squad_cache_backend", cfg.SquadCacheBackend,
		"cache_enabled", cfg.CacheEnabled,
		"teams", len(cfg.SquadTeams),
	)

	return c, nil
}

func (c *Container) openRatingStorage(ctx context.Context) (repositories, *sqlx.DB, error) {
	cfg := c.Config

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := openPostgres(ctx, cfg, c.Logger)
		if err != nil {
			return repositories{}, nil, err
		}
		c.closers = append(c.closers, db.Close)

		return repositories{
			players: postgres.NewPlayerRepository(db),
			stats:   postgres.NewMatchStatsRepository(db),
			history: postgres.NewRatingHistoryRepository(db),
			uow:     postgres.NewUnitOfWork(db, cfg.RatingLockTimeout),
		}, db, nil
	default:
		store := memory.NewStore()
		if cfg.SeedDemoPlayers {
			if err := memory.Seed(ctx, store, memory.SeedPlayers(time.Now().UTC())); err != nil {
				return repositories{}, nil, fmt.Errorf("seed demo players: %w", err)
			}
			c.Logger.Info("seeded demo players")
		}

		return repositories{
			players: memory.NewPlayerRepository(store),
			stats:   memory.NewMatchStatsRepository(store),
			history: memory.NewRatingHistoryRepository(store),
			uow:     memory.NewUnitOfWork(store, cfg.RatingLockTimeout),
		}, nil, nil
	}
}

func (c *Container) openSquadCache(ctx context.Context, db *sqlx.DB) (squadcache.Repository, error) {
	cfg := c.Config

	switch cfg.SquadCacheBackend {
	case config.StorageRedis:
		client, err := redisrepo.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, client.Close)
		return redisrepo.NewSquadCacheRepository(client, redisSquadKeyPrefix), nil
	case config.StoragePostgres:
		if db == nil {
			opened, err := openPostgres(ctx, cfg, c.Logger)
			if err != nil {
				return nil, err
			}
			c.closers = append(c.closers, opened.Close)
			db = opened
		}
		return postgres.NewSquadCacheRepository(db), nil
	default:
		return memory.NewSquadCacheRepository(), nil
	}
}

// Close releases storage handles in reverse open order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			c.Logger.Warn("close resource failed", "error", err)
		}
	}
	c.closers = nil
}

// CLIServices exposes the use cases to the operator CLI.
func (c *Container) CLIServices() cli.Services {
	return cli.Services{
		Ratings: c.Ratings,
		Players: c.Players,
		Squads:  c.Squads,
	}
}

func (c *Container) NewHTTPServer() (*http.Server, error) {
	cfg := c.Config
	if cfg.AdminToken == "" {
		c.Logger.Warn("ADMIN_TOKEN empty, admin routes disabled")
	}

	handler := httpapi.NewHandler(c.Ratings, c.Players, c.Squads, c.Logger)
	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		Logger:         c.Logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AdminToken:     cfg.AdminToken,
	})

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

func squadTeams(in []config.TeamID) []usecase.SquadTeam {
	out := make([]usecase.SquadTeam, 0, len(in))
	for _, team := range in {
		out = append(out, usecase.SquadTeam{Name: team.Name, ExternalTeamID: team.ID})
	}
	return out
}
