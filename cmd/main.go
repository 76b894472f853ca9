package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cah-online/internal/auth"
	authconfig "cah-online/internal/auth/config"
	"cah-online/internal/cards"
	"cah-online/internal/di"
	"cah-online/internal/server"
	"cah-online/internal/shared/config"
	"cah-online/internal/shared/database"
	"cah-online/internal/shared/eventbus"
	"cah-online/internal/shared/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

// runFunc starts the server with a fully resolved configuration.
type runFunc func(ctx context.Context, cfg *config.Config) error

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(cfg, run).ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// newRootCmd builds the command line. Flags override the environment.
func newRootCmd(cfg *config.Config, runner runFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cah-online",
		Short:        "CAH Online API server",
		Long:         `Serves session authentication and card data for CAH Online.`,
		Version:      server.APIVersion,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runner(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(cmd.Flags())
	return cmd
}

func run(ctx context.Context, cfg *config.Config) error {
	appLogger := logger.New(cfg.LoggerOptions())
	appLogger.Info("Application configuration loaded successfully")

	authConfig, err := authconfig.LoadConfig()
	if err != nil {
		return err
	}

	container := di.NewContainer(appLogger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := container.Close(closeCtx); err != nil {
			appLogger.Errorf("Failed to close container: %v", err)
		}
	}()

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	client, db, err := database.Connect(startCtx, cfg.Mongo(), appLogger)
	if err != nil {
		return err
	}
	if err := container.InitializeDatabase(client, db); err != nil {
		return err
	}
	appLogger.Infof("MongoDB connection established (database %s)", cfg.DatabaseName)

	container.InitializeEventBus(eventbus.DefaultConfig())

	if cfg.RedisEnabled() {
		if err := container.InitializeRedis(startCtx, cfg.Redis()); err != nil {
			return err
		}
		appLogger.Infof("Rate limiter backed by Redis at %s", cfg.RedisAddr)
	} else {
		appLogger.Info("REDIS_ADDR not set, rate limiter keeps counters in memory")
	}

	if err := container.InitializeCards(cfg.CardsPath); err != nil {
		return err
	}

	if err := container.InitializeAuth(authConfig); err != nil {
		return err
	}
	authModule, err := di.GetService[*auth.AuthModule](container)
	if err != nil {
		return err
	}
	if err := authModule.EnsureIndexes(startCtx); err != nil {
		return fmt.Errorf("failed to create session indexes: %w", err)
	}
	appLogger.Info("Auth module initialized successfully")

	cardsModule, err := di.GetService[*cards.CardsModule](container)
	if err != nil {
		return err
	}

	app := server.New(server.Options{
		Logger:     appLogger,
		TrustProxy: cfg.TrustProxy,
		Health:     container,
		Auth:       authModule,
		Cards:      cardsModule,
	})

	addr := cfg.Addr()
	appLogger.Infof("Starting HTTP server on %s", addr)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- app.Listen(addr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		appLogger.Info("Shutdown signal received, stopping HTTP server")
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		appLogger.Errorf("Server forced to shutdown: %v", err)
	}
	appLogger.Info("HTTP server stopped")
	return nil
}
