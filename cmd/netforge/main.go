package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	nfhttp "github.com/Strob0t/NetForge/internal/adapter/http"
	nfnats "github.com/Strob0t/NetForge/internal/adapter/nats"
	nfotel "github.com/Strob0t/NetForge/internal/adapter/otel"
	"github.com/Strob0t/NetForge/internal/adapter/postgres"
	"github.com/Strob0t/NetForge/internal/adapter/ristretto"
	"github.com/Strob0t/NetForge/internal/adapter/ws"
	"github.com/Strob0t/NetForge/internal/config"
	"github.com/Strob0t/NetForge/internal/logger"
	"github.com/Strob0t/NetForge/internal/middleware"
	"github.com/Strob0t/NetForge/internal/port/messagequeue"
	"github.com/Strob0t/NetForge/internal/service"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	defer logCloser.Close()
	slog.SetDefault(log)
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"auth", cfg.Auth.Enabled,
		"telemetry", cfg.Telemetry.Enabled,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Telemetry ---
	shutdownOtel, err := nfotel.Setup(ctx, cfg.Telemetry, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOtel(flushCtx); err != nil {
			slog.Warn("otel shutdown", "error", err)
		}
	}()

	metrics, err := nfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("otel metrics: %w", err)
	}

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	// The queue is a best-effort mirror: an unreachable broker degrades to
	// synchronous-only operation instead of failing startup.
	var queue messagequeue.Queue
	if q, err := nfnats.Connect(ctx, cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, lifecycle events disabled", "error", err)
	} else {
		queue = q
		defer func() { _ = q.Close() }()
	}

	pendingCache, err := ristretto.New(cfg.Cache.MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer pendingCache.Close()

	// --- Services ---

	hub := ws.NewHub()
	store := postgres.NewStore(pool)
	events := &service.Events{Queue: queue, Broadcaster: hub}

	runtime := service.NewRuntime(store, events)
	runtime.UsePendingCache(pendingCache, cfg.Cache.PendingTTL)
	runtime.UseMetrics(metrics)

	registry := service.NewRegistry(events)
	registry.UseMetrics(metrics)
	runtime.AddTenantListener(registry)

	if err := runtime.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	if err := launchComponents(ctx, registry, queue, cfg.Components); err != nil {
		return err
	}

	// --- HTTP ---

	handlers := nfhttp.NewHandlers(runtime, registry)
	handlers.Hub = hub
	handlers.DB = pool

	r := chi.NewRouter()
	r.Use(nfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(nfhttp.SecurityHeaders)
	r.Use(nfhttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	if cfg.Telemetry.Enabled {
		r.Use(nfotel.HTTPMiddleware(cfg.Logging.Service))
	}
	r.Use(middleware.Auth(runtime, cfg.Auth.Enabled))

	nfhttp.MountRoutes(r, handlers)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// launchComponents registers the components declared in the config from the
// factory catalog. Components exposing a queue handler are subscribed to the
// full lifecycle subject space.
func launchComponents(ctx context.Context, registry *service.Registry, queue messagequeue.Queue, components []config.Component) error {
	for _, comp := range components {
		if err := registry.Launch(ctx, comp.Name, comp.Kind, comp.Params); err != nil {
			return fmt.Errorf("component %s: %w", comp.Name, err)
		}

		if queue == nil {
			continue
		}
		c, err := registry.Component(comp.Name)
		if err != nil {
			return fmt.Errorf("component %s: %w", comp.Name, err)
		}
		if h, ok := c.(interface{ Handle(string, []byte) error }); ok {
			if _, err := queue.Subscribe(ctx, "registry.>", h.Handle); err != nil {
				slog.Warn("component subscription failed", "component", comp.Name, "error", err)
			}
		}
	}
	return nil
}
