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

	"github.com/example/availability-tracker/internal/application"
	"github.com/example/availability-tracker/internal/config"
	httptransport "github.com/example/availability-tracker/internal/http"
	"github.com/example/availability-tracker/internal/logging"
	"github.com/example/availability-tracker/internal/persistence"
	"github.com/example/availability-tracker/internal/persistence/memory"
	"github.com/example/availability-tracker/internal/persistence/sqlite"
	"github.com/example/availability-tracker/internal/worker"
)

func main() {
	logger := logging.NewLogger(os.Stdout, slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	store, err := openStorage(cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := store.close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	userRepo := newUserRepositoryAdapter(store.users)
	scheduleRepo := newScheduleRepositoryAdapter(store.schedule)
	defaultRepo := newDefaultRepositoryAdapter(store.defaults)

	scheduleService := application.NewScheduleService(userRepo, scheduleRepo, defaultRepo, time.Now, logger)
	statusService := application.NewStatusService(userRepo, logger)
	renderService := application.NewRenderService(userRepo, scheduleRepo, cfg.ChunkSize, logger)

	refresher, err := worker.NewStatusRefresher(statusService, logger, worker.RefresherConfig{
		Interval: cfg.RefreshInterval,
	})
	if err != nil {
		logger.Error("failed to build status refresher", "error", err)
		os.Exit(1)
	}
	refresher.Start()
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		refresher.Stop(stopCtx)
	}()

	userHandler := httptransport.NewUserHandler(scheduleService, logger)
	scheduleHandler := httptransport.NewScheduleHandler(scheduleService, renderService, logger)

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Users:     userHandler,
		Schedules: scheduleHandler,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(logger),
			httptransport.PrincipalFromHeaders,
		},
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("availability API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// backend bundles the repositories of whichever store the DSN selected.
type backend struct {
	users    persistence.UserRepository
	schedule persistence.ScheduleRepository
	defaults persistence.DefaultRepository
	close    func() error
}

// openStorage picks the store for the configured DSN: the literal "memory"
// selects the non-durable in-process store, anything else opens SQLite.
func openStorage(cfg config.Config, logger *slog.Logger) (backend, error) {
	if cfg.SQLiteDSN == "memory" {
		store := memory.Open()
		logger.Info("using in-memory storage, data will not survive a restart")
		return backend{users: store, schedule: store, defaults: store, close: store.Close}, nil
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		return backend{}, err
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		return backend{}, err
	}
	return backend{
		users:    storage.Users,
		schedule: storage.Schedule,
		defaults: storage.Defaults,
		close:    storage.Close,
	}, nil
}
