package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/motospirit/internal/adapters/credentials"
	"github.com/samirrijal/motospirit/internal/adapters/gemini"
	"github.com/samirrijal/motospirit/internal/adapters/http"
	"github.com/samirrijal/motospirit/internal/adapters/memcache"
	natsadapter "github.com/samirrijal/motospirit/internal/adapters/nats"
	openaiadapter "github.com/samirrijal/motospirit/internal/adapters/openai"
	"github.com/samirrijal/motospirit/internal/adapters/postgres"
	"github.com/samirrijal/motospirit/internal/adapters/valkey"
	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/core/usecases"
	"github.com/samirrijal/motospirit/internal/pkg/config"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
	"github.com/samirrijal/motospirit/internal/pkg/maprender"
	"github.com/samirrijal/motospirit/internal/pkg/metrics"
	"github.com/samirrijal/motospirit/internal/pkg/telemetry"
	"github.com/samirrijal/motospirit/internal/pkg/timezone"
	"github.com/samirrijal/motospirit/internal/pkg/waypoints"
)

// cacheBackend is what the use cases and the readiness probe need from a cache.
type cacheBackend interface {
	ports.CacheService
	http.Pinger
}

func main() {
	cfg, err := config.Load("motospirit-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()
	go reportPoolStats(ctx, db)

	// Cache: valkey when reachable, otherwise in-process.
	var cache cacheBackend = memcache.New(5 * time.Minute)
	if cfg.Valkey.Enabled {
		vc, err := valkey.New(cfg.Valkey.Addr, "moto:")
		if err != nil {
			slog.Warn("valkey unavailable, using in-process cache", "error", err)
		} else {
			defer vc.Close()
			cache = vc
		}
	}

	// NATS
	var events ports.EventPublisher
	var prompter credentials.Prompter
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
	} else {
		defer pub.Close()
		events = pub
		prompter = pub
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Generation
	gen := newGenerator(cfg.LLM)
	creds := credentials.NewBroker(cfg.LLM.APIKey, prompter)

	var tz ports.TimezoneService
	if finder, err := timezone.NewFinder(); err != nil {
		slog.Warn("timezone finder unavailable", "error", err)
	} else {
		tz = finder
	}

	// Repos
	bikeRepo := postgres.NewBikeRepo(db)
	maintenanceRepo := postgres.NewMaintenanceRepo(db)
	fuelRepo := postgres.NewFuelRepo(db)

	// Use cases
	trips := usecases.NewTripService(gen, creds, postgres.NewRouteHistoryRepo(db), events, tz, usecases.TripOptions{
		Model:            cfg.LLM.TripModel,
		Marker:           cfg.Trips.Marker,
		MinWaypoints:     cfg.Trips.MinWaypoints,
		Language:         cfg.Trips.Language,
		Mode:             cfg.Trips.Mode,
		Envelope:         envelope(cfg.Trips.Envelope),
		HistoryLimit:     cfg.Trips.HistoryLimit,
		HistoryWaypoints: cfg.Trips.HistoryWaypoints,
	})

	render := maprender.DefaultOptions()
	render.Stride = cfg.Trips.Render.Stride
	render.MinLen = cfg.Trips.Render.Threshold
	render.Padding = cfg.Trips.Render.PaddingPx

	deps := &http.Dependencies{
		Profiles: usecases.NewProfileService(postgres.NewProfileRepo(db), cfg.Assistant.Language),
		Garage:   usecases.NewGarageService(bikeRepo, maintenanceRepo, cache),
		Logbook:  usecases.NewLogbookService(bikeRepo, fuelRepo, maintenanceRepo, cache, events),
		Receipts: usecases.NewReceiptService(gen, creds, cfg.LLM.ReceiptModel, cfg.Assistant.Language),
		Analysis: usecases.NewAnalysisService(gen, creds, bikeRepo, maintenanceRepo,
			postgres.NewAnalysisRepo(db), events, cfg.LLM.AnalysisModel, cfg.Assistant.Language),
		Trips:    trips,
		Sessions: usecases.NewTripSessions(trips, render),
		Chat: usecases.NewChatService(gen, creds, postgres.NewChatRepo(db), usecases.ChatOptions{
			Model:    cfg.LLM.ChatModel,
			Language: cfg.Assistant.Language,
			Greeting: cfg.Assistant.Greeting,
		}),
		NATS:         natsConn,
		DB:           db,
		Cache:        cache,
		Credentials:  creds,
		HistoryLimit: cfg.Trips.HistoryLimit,
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    cfg.Server.BodyLimitMB * 1024 * 1024, // receipt photos
		AppName:      "MotoSpirit API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173, https://*.motospirit.app",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, " + http.SessionHeader,
		ExposeHeaders:    "Link, ETag, X-Request-ID",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "provider", cfg.LLM.Provider)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Trip generation can take a while; give in-flight requests up to 60s.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func newGenerator(cfg config.LLMConfig) ports.GenerationService {
	if cfg.Provider == "openai" {
		return openaiadapter.New(cfg.APIKey, cfg.BaseURL, "")
	}
	return gemini.New(cfg.APIKey, "")
}

func envelope(e config.EnvelopeConfig) waypoints.Envelope {
	return waypoints.Envelope{
		Enabled: e.Enabled,
		Bounds:  domain.Bounds{MinLat: e.MinLat, MinLon: e.MinLon, MaxLat: e.MaxLat, MaxLon: e.MaxLon},
	}
}

func reportPoolStats(ctx context.Context, db *postgres.DB) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
		}
	}
}
