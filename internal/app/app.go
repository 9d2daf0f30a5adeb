package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"heavysync/internal/config"
	"heavysync/internal/metrics"
	"heavysync/internal/repository"
	"heavysync/internal/repository/memory"
	"heavysync/internal/server"
	"heavysync/internal/service"
	"heavysync/internal/ws"
	"heavysync/pkg/cache"
	"heavysync/pkg/database"
	"heavysync/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// App owns every long-lived dependency of the API process.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	Redis   *redis.Client
	Hub     *ws.Hub
	Metrics *metrics.Metrics
	Server  *fiber.App

	stopHub context.CancelFunc
	hubDone chan struct{}
}

// New connects the store (and redis when configured), migrates the schema
// and builds the HTTP server. Nothing is listening yet.
func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	tokens, err := jwt.NewManager(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  log,
		Metrics: metrics.New(),
	}

	// 1. Store
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}

	// 2. Rate-limit storage; counters stay in memory without redis
	var limiterStorage fiber.Storage
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			a.closeStore()
			return nil, err
		}
		a.Redis = client
		limiterStorage = cache.NewStorage(client)
		log.Info("rate limiter uses redis", "addr", cfg.RedisAddr)
	}

	// 3. Event hub
	hubCtx, stopHub := context.WithCancel(context.Background())
	a.Hub = ws.NewHub(log)
	a.stopHub = stopHub
	a.hubDone = make(chan struct{})
	go func() {
		defer close(a.hubDone)
		a.Hub.Run(hubCtx)
	}()

	// 4. HTTP
	a.Server = server.New(server.Deps{
		Context:        hubCtx,
		Config:         cfg,
		Logger:         log,
		Services:       service.New(store, tokens, a.Hub, log),
		Tokens:         tokens,
		Hub:            a.Hub,
		Metrics:        a.Metrics,
		LimiterStorage: limiterStorage,
		StartedAt:      time.Now(),
	})
	return a, nil
}

func (a *App) openStore(ctx context.Context) (*repository.Store, error) {
	if a.Config.UsesMemoryStore() {
		a.Logger.Warn("using in-memory store; data is lost on exit")
		return memory.NewStore(), nil
	}

	db, err := database.ConnectDB(ctx, &a.Config.DatabaseConfig, a.Logger)
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(db); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("migrate: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("database handle: %w", err)
	}
	if err := a.Metrics.Registerer().Register(collectors.NewDBStatsCollector(sqlDB, "heavysync")); err != nil {
		_ = database.Close(db)
		return nil, fmt.Errorf("register db metrics: %w", err)
	}
	a.DB = db
	return repository.NewStore(db), nil
}

// Run blocks serving HTTP until Shutdown is called.
func (a *App) Run() error {
	a.Logger.Info("server listening", "addr", a.Config.HTTPAddress(), "env", a.Config.AppEnv)
	return a.Server.Listen(a.Config.HTTPAddress())
}

// Shutdown drains HTTP, stops the hub and closes redis and the database.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error
	if a.Server != nil {
		if err := a.Server.ShutdownWithContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http: %w", err))
		}
	}
	if a.stopHub != nil {
		a.stopHub()
		select {
		case <-a.hubDone:
		case <-ctx.Done():
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if err := a.closeStore(); err != nil {
		errs = append(errs, fmt.Errorf("database: %w", err))
	}
	return errors.Join(errs...)
}

func (a *App) closeStore() error {
	if a.DB == nil {
		return nil
	}
	return database.Close(a.DB)
}
