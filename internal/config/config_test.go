package config

import (
	"testing"
	"time"
)

func TestLoad_AppEnvValidation(t *testing.T) {
	t.Setenv("APP_ENV", "invalid")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid APP_ENV")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("STORAGE_DRIVER", "")
	t.Setenv("SQUAD_CACHE_BACKEND", "")
	t.Setenv("SQUAD_TEAM_ID_MAP", "")
	t.Setenv("SEED_DEMO_PLAYERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.StorageDriver != StorageMemory || cfg.SquadCacheBackend != StorageMemory {
		t.Fatalf("unexpected storage defaults: driver=%s squad=%s", cfg.StorageDriver, cfg.SquadCacheBackend)
	}
	if cfg.SquadCacheTTL != 24*time.Hour {
		t.Fatalf("unexpected squad cache ttl: %s", cfg.SquadCacheTTL)
	}
	if cfg.SquadFetchTimeout != 10*time.Second {
		t.Fatalf("unexpected squad fetch timeout: %s", cfg.SquadFetchTimeout)
	}
	if cfg.SquadSeason != 2024 {
		t.Fatalf("unexpected squad season: %d", cfg.SquadSeason)
	}
	if cfg.RatingRecalcWorkers != 8 || cfg.SquadSyncWorkers != 4 {
		t.Fatalf("unexpected worker defaults: recalc=%d sync=%d", cfg.RatingRecalcWorkers, cfg.SquadSyncWorkers)
	}
	if !cfg.SeedDemoPlayers {
		t.Fatalf("expected demo players seeded in dev with memory storage")
	}
	if len(cfg.SquadTeams) != 15 {
		t.Fatalf("expected 15 default teams, got %d", len(cfg.SquadTeams))
	}
	if cfg.SquadTeams[0] != (TeamID{Name: "Динамо", ID: 572}) {
		t.Fatalf("unexpected first team: %+v", cfg.SquadTeams[0])
	}
	if cfg.SquadTeams[14] != (TeamID{Name: "Верес", ID: 6501}) {
		t.Fatalf("unexpected last team: %+v", cfg.SquadTeams[14])
	}
}

func TestLoad_StorageDriverValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "sqlite")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for unknown STORAGE_DRIVER")
		}
	})

	t.Run("redis is squad cache only", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageRedis)
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for STORAGE_DRIVER=redis")
		}
	})

	t.Run("squad backend follows storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StoragePostgres)
		t.Setenv("SQUAD_CACHE_BACKEND", "")
		t.Setenv("SEED_DEMO_PLAYERS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SquadCacheBackend != StoragePostgres {
			t.Fatalf("unexpected squad cache backend: %s", cfg.SquadCacheBackend)
		}
		if cfg.SeedDemoPlayers {
			t.Fatalf("expected no demo seed with postgres storage")
		}
	})

	t.Run("redis squad backend", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", StorageMemory)
		t.Setenv("SQUAD_CACHE_BACKEND", "REDIS")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if cfg.SquadCacheBackend != StorageRedis {
			t.Fatalf("unexpected squad cache backend: %s", cfg.SquadCacheBackend)
		}
	})
}

func TestLoad_SquadTeamIDMap(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("keeps order", func(t *testing.T) {
		t.Setenv("SQUAD_TEAM_ID_MAP", " Dynamo Kyiv:572 , Shakhtar:550")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		want := []TeamID{{Name: "Dynamo Kyiv", ID: 572}, {Name: "Shakhtar", ID: 550}}
		if len(cfg.SquadTeams) != len(want) {
			t.Fatalf("unexpected teams: %+v", cfg.SquadTeams)
		}
		for i := range want {
			if cfg.SquadTeams[i] != want[i] {
				t.Fatalf("team %d: got %+v want %+v", i, cfg.SquadTeams[i], want[i])
			}
		}
	})

	invalid := map[string]string{
		"missing id":     "Dynamo",
		"non numeric id": "Dynamo:abc",
		"zero id":        "Dynamo:0",
		"empty name":     ":572",
		"duplicate name": "Dynamo:572,Dynamo:573",
	}
	for name, raw := range invalid {
		t.Run(name, func(t *testing.T) {
			t.Setenv("SQUAD_TEAM_ID_MAP", raw)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for SQUAD_TEAM_ID_MAP=%q", raw)
			}
		})
	}
}

func TestParseTeamIDs_NameWithColon(t *testing.T) {
	got, err := parseTeamIDs("FC A:B:42")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0].Name != "FC A:B" || got[0].ID != 42 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestLoad_WorkerAndTimeoutValidation(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	cases := map[string]string{
		"SQUAD_SYNC_WORKERS":                 "0",
		"RATING_RECALC_WORKERS":              "-1",
		"RATING_LOCK_TIMEOUT":                "0s",
		"SQUAD_CACHE_TTL":                    "bad",
		"SQUAD_FETCH_TIMEOUT":                "-1s",
		"SQUAD_SEASON":                       "0",
		"API_FOOTBALL_MAX_RETRIES":           "-1",
		"API_FOOTBALL_RATE_PER_MINUTE":       "x",
		"API_FOOTBALL_CIRCUIT_FAILURE_COUNT": "0",
		"DB_MAX_OPEN_CONNS":                  "0",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%q", key, value)
			}
		})
	}
}

func TestLoad_APIFootballConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("API_FOOTBALL_KEY", " key-123 ")
	t.Setenv("API_FOOTBALL_RATE_PER_MINUTE", "30")
	t.Setenv("API_FOOTBALL_CIRCUIT_OPEN_TIMEOUT", "45s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.APIFootballKey != "key-123" {
		t.Fatalf("unexpected api key: %q", cfg.APIFootballKey)
	}
	if cfg.APIFootballBaseURL != "https://v3.football.api-sports.io" {
		t.Fatalf("unexpected base url: %q", cfg.APIFootballBaseURL)
	}
	if cfg.APIFootballRatePerMinute != 30 {
		t.Fatalf("unexpected rate: %d", cfg.APIFootballRatePerMinute)
	}
	if !cfg.APIFootballCircuitEnabled || cfg.APIFootballCircuitOpenTimeout != 45*time.Second {
		t.Fatalf("unexpected circuit config: enabled=%v open=%s", cfg.APIFootballCircuitEnabled, cfg.APIFootballCircuitOpenTimeout)
	}
}

func TestLoad_UptraceRequiresDSNWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when UPTRACE_ENABLED=true without UPTRACE_DSN")
	}
}

func TestLoad_UptraceDSNFromOTLPHeaders(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("UPTRACE_ENABLED", "true")
	t.Setenv("UPTRACE_DSN", "")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "foo=bar, uptrace-dsn='https://token@api.uptrace.dev?grpc=4317'")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.UptraceDSN != "https://token@api.uptrace.dev?grpc=4317" {
		t.Fatalf("unexpected dsn: %q", cfg.UptraceDSN)
	}
}

func TestLoad_PprofDefaultsAddr(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PPROF_ENABLED", "true")
	t.Setenv("PPROF_ADDR", "  ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PprofAddr != ":6060" {
		t.Fatalf("expected default pprof addr :6060, got %q", cfg.PprofAddr)
	}
}

func TestLoad_PyroscopeRequiresServerAddressWhenEnabled(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when PYROSCOPE_ENABLED=true without PYROSCOPE_SERVER_ADDRESS")
	}
}

func TestLoad_PyroscopeAppNameDefaultsToServiceName(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("APP_SERVICE_NAME", "player-rating-api-test")
	t.Setenv("PYROSCOPE_ENABLED", "true")
	t.Setenv("PYROSCOPE_SERVER_ADDRESS", "http://localhost:4040")
	t.Setenv("PYROSCOPE_APP_NAME", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.PyroscopeAppName != "player-rating-api-test" {
		t.Fatalf("unexpected pyroscope app name: %q", cfg.PyroscopeAppName)
	}
}

func TestLoad_CORSOriginsDefaultAndParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("default wildcard", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", "")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
			t.Fatalf("unexpected default CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("comma separated parsing", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example.com, http://localhost:5173 ")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if len(cfg.CORSAllowedOrigins) != 2 {
			t.Fatalf("unexpected CORS origins length: %d", len(cfg.CORSAllowedOrigins))
		}
		if cfg.CORSAllowedOrigins[0] != "https://a.example.com" || cfg.CORSAllowedOrigins[1] != "http://localhost:5173" {
			t.Fatalf("unexpected CORS origins: %+v", cfg.CORSAllowedOrigins)
		}
	})

	t.Run("only separators", func(t *testing.T) {
		t.Setenv("CORS_ALLOWED_ORIGINS", " , ,")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for empty CORS_ALLOWED_ORIGINS")
		}
	})
}

func TestLoad_CacheConfigParsing(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("CACHE_ENABLED", "")
		t.Setenv("CACHE_TTL", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("load config: %v", err)
		}
		if !cfg.CacheEnabled {
			t.Fatalf("expected cache enabled by default")
		}
		if cfg.CacheTTL != 60*time.Second {
			t.Fatalf("unexpected default cache ttl: %s", cfg.CacheTTL)
		}
	})

	t.Run("invalid ttl", func(t *testing.T) {
		t.Setenv("CACHE_TTL", "bad")
		if _, err := Load(); err == nil {
			t.Fatalf("expected error for invalid CACHE_TTL")
		}
	})
}
