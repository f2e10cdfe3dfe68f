package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/burenotti/go_training_backend/internal/adapter/api"
	"github.com/burenotti/go_training_backend/internal/adapter/cache"
	"github.com/burenotti/go_training_backend/internal/adapter/storage"
	"github.com/burenotti/go_training_backend/internal/adapter/storage/backend"
	friendservice "github.com/burenotti/go_training_backend/internal/app/friendship"
	goalservice "github.com/burenotti/go_training_backend/internal/app/goal"
	identityapp "github.com/burenotti/go_training_backend/internal/app/identity"
	measurementservice "github.com/burenotti/go_training_backend/internal/app/measurement"
	"github.com/burenotti/go_training_backend/internal/app/messagebus"
	"github.com/burenotti/go_training_backend/internal/app/unitofwork"
	workoutservice "github.com/burenotti/go_training_backend/internal/app/workout"
	"github.com/burenotti/go_training_backend/internal/config"
	"github.com/burenotti/go_training_backend/internal/domain"
	"github.com/burenotti/go_training_backend/internal/domain/account"
	"github.com/burenotti/go_training_backend/internal/domain/friendship"
	"github.com/burenotti/go_training_backend/internal/domain/goal"
	"github.com/burenotti/go_training_backend/internal/domain/workout"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/leporo/sqlf"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	flag.Parse()

	// .env is optional, real environment always wins.
	_ = godotenv.Load()

	cfg := config.MustLoad(configPath)
	logger := initLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bus := messagebus.New(logger)
	defer bus.Close()
	bus.RegisterAll(logEvent(logger),
		account.EventRegistered,
		account.EventProfileUpdated,
		friendship.EventRequested,
		friendship.EventAccepted,
		friendship.EventRemoved,
		workout.EventCreated,
		workout.EventAssigned,
		workout.EventShared,
		workout.EventDeleted,
		goal.EventProgressRecorded,
	)

	b, closeBackend := initBackend(ctx, cfg, logger)
	defer closeBackend()

	units := backend.NewUnits(b, bus, logger, unitofwork.WithTimeout(cfg.DB.RequestTimeout))

	var identityOpts []identityapp.Option
	if cfg.Redis.URL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.Redis.URL, cfg.Redis.TTL)
		if err != nil {
			panic("failed to connect redis: " + err.Error())
		}
		defer rc.Close()
		identityOpts = append(identityOpts, identityapp.WithCache(rc))
	}

	server := api.NewServer(
		api.Addr(cfg.Server.Host, cfg.Server.Port),
		api.Logger(logger),
		api.Units(units),
		api.Verifier(initVerifier(cfg)),
		api.IdentityService(identityapp.New(logger, identityOpts...)),
		api.FriendService(friendservice.New(logger)),
		api.WorkoutService(workoutservice.New(logger, workoutservice.WithLocale(cfg.App.Locale))),
		api.GoalService(goalservice.New(logger)),
		api.MeasurementService(measurementservice.New(logger)),
	)

	errCh := make(chan error)

	go func() {
		defer close(errCh)
		logger.Info("server started", "addr", cfg.Server.Host, "port", cfg.Server.Port)
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server was not shutdown gracefully", "error", err)
		}
	case err := <-errCh:
		if err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server closed with unexpected error", "error", err)
			}
		}
	}
	logger.Info("server shutdown")
}

func initBackend(ctx context.Context, cfg *config.Config, logger *slog.Logger) (backend.Backend, func()) {
	if cfg.DB.Driver == config.DriverMemory {
		logger.Warn("using in-memory storage, data is lost on restart")
		return backend.NewMemory(), func() {}
	}

	sqlf.SetDialect(sqlf.PostgreSQL)

	conn, err := sql.Open("pgx", cfg.DB.DSN)
	if err != nil {
		panic("failed to connect database: " + err.Error())
	}
	db := &storage.DB{DB: conn}

	if cfg.DB.Migrate {
		migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := storage.Migrate(migrateCtx, db); err != nil {
			panic("failed to migrate database: " + err.Error())
		}
		logger.Info("database schema is up to date")
	}

	return backend.NewPostgres(db), func() {
		if err := conn.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}
}

func initVerifier(cfg *config.Config) identityapp.Verifier {
	switch cfg.Auth.Mode {
	case config.AuthRemote:
		return identityapp.NewRemoteVerifier(cfg.Auth.ProviderURL, cfg.Auth.APIKey, cfg.Auth.Timeout)
	default:
		return &identityapp.JWTVerifier{Secret: cfg.Auth.JWTSecret}
	}
}

func logEvent(logger *slog.Logger) messagebus.EventHandler {
	return func(event domain.Event) error {
		logger.Info("event processed",
			"type", event.Type(),
			"published_at", event.PublishedAt(),
			"event", event,
		)
		return nil
	}
}

func initLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler
	switch cfg.App.Env {
	case config.Development:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: true,
			Level:     slog.LevelDebug,
		})
	case config.Production:
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			AddSource: false,
			Level:     slog.LevelInfo,
		})
	default:
		panic("invalid env")
	}

	return slog.New(handler)
}
