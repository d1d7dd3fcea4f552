package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/samirrijal/geotz/internal/adapters/http"
	natsadapter "github.com/samirrijal/geotz/internal/adapters/nats"
	"github.com/samirrijal/geotz/internal/adapters/nominatim"
	"github.com/samirrijal/geotz/internal/adapters/postgres"
	"github.com/samirrijal/geotz/internal/adapters/tzindex"
	"github.com/samirrijal/geotz/internal/adapters/valkey"
	"github.com/samirrijal/geotz/internal/core/usecases"
	"github.com/samirrijal/geotz/internal/pkg/config"
	"github.com/samirrijal/geotz/internal/pkg/logging"
	"github.com/samirrijal/geotz/internal/pkg/metrics"
	"github.com/samirrijal/geotz/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("geotz-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logging.Setup(cfg.Log.Level, cfg.Log.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Timezone index: built before Listen, failure is fatal
	start := time.Now()
	index, err := tzindex.Open(tzindex.Options{
		Backend:             cfg.Index.Backend,
		Path:                cfg.Index.Path,
		CoastalRadiusMeters: cfg.Index.CoastalRadiusM,
	})
	if err != nil {
		log.Fatalf("timezone index: %v", err)
	}
	slog.Info("timezone index ready", "backend", index.Backend(), "took", time.Since(start))
	if bad := index.Verify(); len(bad) > 0 {
		slog.Error("timezone integrity defect: index reports zones the tz database cannot load", "zones", bad)
	}

	// Geocoder
	geocoder, err := nominatim.New(nominatim.Config{
		Endpoint:       cfg.Geocoder.Endpoint,
		UserAgent:      cfg.Geocoder.UserAgent,
		Referer:        cfg.Geocoder.Referer,
		AcceptLanguage: cfg.Geocoder.AcceptLanguage,
		Timeout:        cfg.Geocoder.Timeout(),
		RatePerSecond:  cfg.Geocoder.RatePerSecond,
		Burst:          cfg.Geocoder.Burst,
	})
	if err != nil {
		log.Fatalf("geocoder: %v", err)
	}

	timezones := usecases.NewTimezoneService(index)
	placeOpts := []usecases.PlaceOption{usecases.WithTimeout(cfg.Geocoder.Timeout())}
	deps := &http.Dependencies{
		Timezones:      timezones,
		Index:          index,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		RateLimit:      cfg.Server.RateLimit,
	}

	// Optional backends. Each is only wired when it came up, so handlers
	// and services never see a typed nil.
	var searchLog *postgres.SearchRepo
	if cfg.Database.Enabled {
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			slog.Warn("database unavailable, search log disabled", "error", err)
		} else {
			defer db.Close()
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			searchLog = postgres.NewSearchRepo(db)
			deps.DB = db
			placeOpts = append(placeOpts, usecases.WithSearchLog(searchLog))
		}
	}

	if cfg.Cache.Enabled {
		cache, err := valkey.New(cfg.Cache.Addr, "geotz:")
		if err != nil {
			slog.Warn("valkey unavailable, geocode cache disabled", "error", err)
		} else {
			defer cache.Close()
			deps.Cache = cache
			placeOpts = append(placeOpts, usecases.WithCache(cache, cfg.Cache.TTLSeconds))
		}
	}

	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable, events disabled", "error", err)
		} else {
			defer pub.Close()
			deps.NATS = pub.Conn()
			deps.Events = natsadapter.NewSubscriber(pub.Conn())
			placeOpts = append(placeOpts, usecases.WithEvents(pub))
		}
	}

	deps.Places = usecases.NewPlaceService(geocoder, timezones, placeOpts...)
	if searchLog != nil {
		deps.Searches = usecases.NewSearchHistoryService(searchLog)
	} else {
		deps.Searches = usecases.NewSearchHistoryService(nil)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    64 * 1024,
		AppName:      "geotz",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := cfg.Server.Addr()
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
