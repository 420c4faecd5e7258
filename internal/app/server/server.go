package server

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

	"worklog/internal/domain/auth"
	"worklog/internal/domain/projects"
	"worklog/internal/domain/reports"
	"worklog/internal/domain/settings"
	"worklog/internal/domain/timeentries"
	"worklog/internal/domain/users"
	"worklog/internal/platform/config"
	"worklog/internal/platform/db"
	"worklog/internal/platform/kv"
	"worklog/internal/platform/logging"
	"worklog/internal/platform/metrics"
	"worklog/internal/platform/tracing"
	"worklog/internal/repo/local"
	"worklog/internal/repo/postgres"
	authhandler "worklog/internal/transport/http/handlers/auth"
	projectshandler "worklog/internal/transport/http/handlers/projects"
	reportshandler "worklog/internal/transport/http/handlers/reports"
	settingshandler "worklog/internal/transport/http/handlers/settings"
	timeentrieshandler "worklog/internal/transport/http/handlers/timeentries"
	usershandler "worklog/internal/transport/http/handlers/users"
	"worklog/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Router  http.Handler
	Metrics *metrics.Collector

	closers []func(context.Context) error
}

// stores is the record store picked by STORE_DRIVER.
type stores struct {
	users    users.Store
	projects projects.Store
	entries  timeentries.Store
	settings settings.Store
	sessions kv.Backend
	ping     func(context.Context) error
}

// New builds the application: store, services and the HTTP router. Close
// releases what it opened.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{Config: cfg, Logger: logging.New(cfg.Environment)}
	if cfg.MetricsEnabled {
		app.Metrics = metrics.New()
	}

	shutdownTracing, err := tracing.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}
	app.closers = append(app.closers, shutdownTracing)

	st, err := app.openStores(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	userService := users.NewService(st.users, app.Logger)
	projectService := projects.NewService(st.projects, app.Logger)
	entryService := timeentries.NewService(st.entries, projectService, app.Logger)
	settingsService := settings.NewService(st.settings, app.Logger)
	authService := auth.NewService(userService, auth.NewSessionStore(st.sessions), cfg.JWTSecret, cfg.SessionTTL, app.Logger)
	reportService := reports.NewService(userService, projectService, entryService, settingsService)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(app.Logger))
	router.Use(middleware.Recoverer(app.Logger))
	router.Use(middleware.Metrics(app.Metrics))
	router.Use(middleware.SecureHeaders(cfg.IsProduction()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(chimw.Timeout(cfg.RequestTimeout))
	router.Use(middleware.Auth(authService))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute, app.Metrics))
	router.Use(middleware.RouteRateLimit(cfg.RateLimitPerMinute, time.Minute, app.Metrics))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := st.ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if app.Metrics != nil {
		router.Handle("/metrics", app.Metrics.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		authhandler.NewHandler(authService).RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			usershandler.NewHandler(userService).RegisterRoutes(r)
			projectshandler.NewHandler(projectService).RegisterRoutes(r)
			timeentrieshandler.NewHandler(entryService).RegisterRoutes(r)
			settingshandler.NewHandler(settingsService).RegisterRoutes(r)
			reportshandler.NewHandler(reportService, app.Metrics).RegisterRoutes(r)
		})
	})

	app.Router = router
	return app, nil
}

func (a *App) openStores(ctx context.Context) (stores, error) {
	cfg := a.Config
	var cache kv.Backend = kv.NewMemory()
	if cfg.RedisAddr != "" {
		redisBackend := kv.NewRedis(kv.RedisConfig{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := redisBackend.Ping(ctx); err != nil {
			_ = redisBackend.Close()
			return stores{}, fmt.Errorf("redis ping: %w", err)
		}
		cache = redisBackend
	}
	a.closers = append(a.closers, func(context.Context) error { return cache.Close() })

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pool, err := db.Connect(ctx, cfg)
		if err != nil {
			return stores{}, fmt.Errorf("db connect: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { pool.Close(); return nil })

		if cfg.RunMigrations {
			if err := db.Migrate(ctx, pool, cfg.MigrationsDir); err != nil {
				return stores{}, fmt.Errorf("migrations: %w", err)
			}
		}
		if err := db.Seed(ctx, pool, cfg); err != nil {
			return stores{}, fmt.Errorf("seed: %w", err)
		}
		store := postgres.New(pool, a.Metrics)
		a.Logger.Info("store ready", "driver", cfg.StoreDriver)
		return stores{
			users:    store.Users(),
			projects: store.Projects(),
			entries:  store.TimeEntries(),
			settings: store.Settings(),
			sessions: cache,
			ping:     store.Ping,
		}, nil

	default:
		store := local.New(cache, a.Metrics)
		err := store.Seed(ctx, local.SeedOptions{
			AdminEmail:    cfg.SeedAdminEmail,
			AdminPassword: cfg.SeedAdminPassword,
			Demo:          cfg.SeedDemoData,
		})
		if err != nil {
			return stores{}, fmt.Errorf("seed: %w", err)
		}
		a.Logger.Info("store ready", "driver", cfg.StoreDriver, "redis", cfg.RedisAddr != "")
		return stores{
			users:    store.Users(),
			projects: store.Projects(),
			entries:  store.TimeEntries(),
			settings: store.Settings(),
			sessions: cache,
			ping:     store.Ping,
		}, nil
	}
}

// Close runs the registered closers in reverse order.
func (a *App) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			a.Logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}

func Run() {
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		logging.New(cfg.Environment).Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.RequestTimeout,
		WriteTimeout:      cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.Logger.Info("worklog server listening", "addr", cfg.Addr, "driver", cfg.StoreDriver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("server failed", "error", err)
		}
	case <-ctx.Done():
		app.Logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("shutdown failed", "error", err)
		}
	}
}
