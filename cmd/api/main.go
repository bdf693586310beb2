// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/spendledger/internal/auth"
	"github.com/carterperez-dev/spendledger/internal/binding"
	"github.com/carterperez-dev/spendledger/internal/budget"
	"github.com/carterperez-dev/spendledger/internal/category"
	"github.com/carterperez-dev/spendledger/internal/config"
	"github.com/carterperez-dev/spendledger/internal/core"
	"github.com/carterperez-dev/spendledger/internal/expense"
	"github.com/carterperez-dev/spendledger/internal/group"
	"github.com/carterperez-dev/spendledger/internal/health"
	"github.com/carterperez-dev/spendledger/internal/middleware"
	"github.com/carterperez-dev/spendledger/internal/server"
	"github.com/carterperez-dev/spendledger/internal/subscription"
	"github.com/carterperez-dev/spendledger/internal/system"
	"github.com/carterperez-dev/spendledger/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	tokenManager, err := auth.NewTokenManager(cfg.Auth)
	if err != nil {
		return err
	}
	logger.Info("token manager initialized",
		"algorithm", "HS256",
		"token_ttl", cfg.Auth.TokenTTL,
	)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(tokenManager, userSvc)
	authHandler := auth.NewHandler(authSvc)

	groupRepo := group.NewRepository(db.DB)
	groupSvc := group.NewService(groupRepo)
	guard := group.NewGuard(groupSvc)
	groupHandler := group.NewHandler(groupSvc, guard)

	categoryRepo := category.NewRepository(db.DB)
	categorySvc := category.NewService(categoryRepo)
	categoryHandler := category.NewHandler(categorySvc, guard)

	budgetRepo := budget.NewRepository(db.DB)
	budgetSvc := budget.NewService(budgetRepo)
	budgetHandler := budget.NewHandler(budgetSvc, guard)

	expenseRepo := expense.NewRepository(db.DB)
	expenseSvc := expense.NewService(expenseRepo)
	expenseHandler := expense.NewHandler(expenseSvc, guard)

	bindingRepo := binding.NewRepository(db.DB)
	bindingSvc := binding.NewService(bindingRepo)
	bindingHandler := binding.NewHandler(bindingSvc, guard)

	subRepo := subscription.NewRepository(db.DB)
	subSvc := subscription.NewService(subRepo)
	subHandler := subscription.NewHandler(subSvc)

	healthHandler := health.NewHandler(db, redis)

	systemHandler := system.NewHandler(system.HandlerConfig{
		AppName:    cfg.App.Name,
		AppVersion: cfg.App.Version,
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)
	systemHandler.RegisterPublicRoutes(router)

	authenticator := middleware.Authenticator(
		tokenManager,
		bindingSvc,
		[]byte(cfg.Auth.RelaySecret),
	)
	tierGate := middleware.SubscriptionGate(subSvc, cfg.Billing.UpgradeURL)

	router.Route("/v1", func(r chi.Router) {
		authHandler.RegisterRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(tierGate)
			r.Use(middleware.TieredRateLimiter(
				redis.Client,
				middleware.DefaultTiers,
			))

			userHandler.RegisterRoutes(r)
			groupHandler.RegisterRoutes(r)
			categoryHandler.RegisterRoutes(r)
			budgetHandler.RegisterRoutes(r)
			expenseHandler.RegisterRoutes(r)
			bindingHandler.RegisterRoutes(r)
			subHandler.RegisterRoutes(r)
			systemHandler.RegisterRoutes(r)
		})
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
