// Command server boots the risk-screening HTTP service: load config,
// validate required upstream credentials and the database DSN, wire
// adapters/cache/circuit-breakers/registry/orchestrator/reconciliation, and
// serve the REST + websocket surface. Grounded on the teacher's
// cmd/server/main.go boot/wire/Start/Fatalf shape, generalized from a
// single hand-built dependency set to the full screening stack.
package main

import (
	"database/sql"
	"log"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/oceanic/riskscreen/internal/adapters/intelligencea"
	"github.com/oceanic/riskscreen/internal/adapters/intelligenceb"
	"github.com/oceanic/riskscreen/internal/adapters/sanctions"
	"github.com/oceanic/riskscreen/internal/adapters/watchlist"
	"github.com/oceanic/riskscreen/internal/api"
	"github.com/oceanic/riskscreen/internal/cache"
	"github.com/oceanic/riskscreen/internal/circuitbreaker"
	"github.com/oceanic/riskscreen/internal/config"
	"github.com/oceanic/riskscreen/internal/events"
	"github.com/oceanic/riskscreen/internal/metrics"
	"github.com/oceanic/riskscreen/internal/middleware"
	"github.com/oceanic/riskscreen/internal/orchestrator"
	"github.com/oceanic/riskscreen/internal/reconciliation"
	"github.com/oceanic/riskscreen/internal/registry"
	"github.com/oceanic/riskscreen/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("server: no .env file found, relying on process environment")
	}

	cfg := config.Get()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("server: %v", err)
	}

	verdictStore, err := store.Open(cfg.Database.DSN, cfg.Database.SanctionsSchema, cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		log.Fatalf("server: %v", err)
	}

	watchlistDB, err := sql.Open("postgres", cfg.Watchlist.DSN)
	if err != nil {
		log.Fatalf("server: opening watchlist database: %v", err)
	}
	sanctionsDB, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		log.Fatalf("server: opening sanctions database: %v", err)
	}

	intelA := intelligencea.New(cfg.IntelligenceA.BaseURL, cfg.IntelligenceA.BearerToken)
	intelB := intelligenceb.New(cfg.IntelligenceB.BaseURL, cfg.IntelligenceB.APIKey)
	watchlistClient := watchlist.New(watchlistDB, cfg.Watchlist.Table)
	sanctionsClient := sanctions.New(sanctionsDB, cfg.Database.SanctionsSchema)

	var mirror cache.Mirror
	if cfg.Cache.MirrorToRedis && cfg.Cache.RedisAddr != "" {
		redisMirror, err := cache.NewRedisMirror(cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
		if err != nil {
			slog.Warn("server: redis cache mirror unavailable, continuing without it", "error", err)
		} else {
			mirror = redisMirror
		}
	}
	coalescingCache := cache.New(time.Duration(cfg.Cache.TTLSeconds)*time.Second, mirror)

	breakers := circuitbreaker.NewAdapterCircuitBreakers()
	reg := registry.New()
	bus := events.NewEventBus()
	metricsCollectors := metrics.New()

	orch := orchestrator.New(reg, coalescingCache, breakers, intelA, intelB, watchlistClient, sanctionsClient, verdictStore, bus)
	reconciler := reconciliation.New(verdictStore)

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{MaxCallsPerMinute: 120})

	server := api.New(orch, reconciler, verdictStore, reg, bus, metricsCollectors, rateLimiter, cfg.Server.CORSAllowOrigins)

	addr := ":" + cfg.GetPort()
	if err := server.Start(addr); err != nil {
		log.Fatalf("server: %v", err)
	}
}
