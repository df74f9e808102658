package server

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"payhook/internal/application/payment/gateway"
	"payhook/internal/domain/event"
	"payhook/internal/infrastructure/config"
	"payhook/internal/infrastructure/database"
	"payhook/internal/infrastructure/dedupe"
	"payhook/internal/infrastructure/migration"
	"payhook/internal/infrastructure/repository"
	httpRouter "payhook/internal/interfaces/http"
	"payhook/internal/shared/logger"
)

var (
	env         string
	autoMigrate bool
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Start the HTTP server",
		Long:  `Start the webhook and session API server with the specified configuration.`,
		RunE:  run,
	}

	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "Run pending database migrations on startup")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Server.Mode = mapEnvToGinMode(env)

	if err := logger.Init(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger()

	log.Infow("starting server", "environment", env)

	gin.SetMode(cfg.Server.Mode)
	gin.DefaultWriter = io.Discard

	if err := database.Init(&cfg.Database); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if autoMigrate {
		if env == "production" {
			log.Warnw("auto-migration is enabled in production")
		}
		if err := migration.Up(database.Get(), log); err != nil {
			return fmt.Errorf("auto-migration failed: %w", err)
		}
	}

	dedupeStore, cleanup, err := buildDedupeStore(cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	router, err := httpRouter.NewRouter(httpRouter.Deps{
		Config:      cfg,
		Gateway:     gateway.NewStripeGateway(&cfg.Stripe, log),
		Archive:     repository.NewWebhookEventRepository(database.Get()),
		DedupeStore: dedupeStore,
		Logger:      log,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	srv := &http.Server{
		Addr:         cfg.Server.GetAddr(),
		Handler:      router.GetEngine(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server listening", "address", cfg.Server.GetAddr(), "mode", cfg.Server.Mode)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorw("server stopped unexpectedly", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
		return err
	}

	log.Infow("server exited gracefully")
	return nil
}

// buildDedupeStore selects the Redis store when Redis is configured and the
// process-local store otherwise. Single-instance deployments do not need
// Redis; multi-instance deployments do, or each instance dedupes alone.
func buildDedupeStore(cfg *config.Config, log logger.Interface) (event.DedupeStore, func(), error) {
	if !cfg.Redis.Enabled {
		log.Infow("using in-process dedupe store")
		store := dedupe.NewMemoryStore()
		return store, store.Close, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Infow("using redis dedupe store", "address", cfg.Redis.GetAddr())
	return dedupe.NewRedisStore(client), func() { client.Close() }, nil
}

func mapEnvToGinMode(environment string) string {
	switch environment {
	case "production", "prod", "release":
		return "release"
	case "test", "testing":
		return "test"
	default:
		return "debug"
	}
}
