package database

import (
	"context"
	"fmt"
	"time"

	"cah-online/internal/shared/logger"

	"github.com/sethvargo/go-retry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultRetryDelay = 500 * time.Millisecond

// MongoConfig holds connection settings for the shared MongoDB client.
type MongoConfig struct {
	URI                    string
	Database               string
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	// ConnectRetries is the number of extra ping attempts made at startup.
	ConnectRetries uint64
	RetryDelay     time.Duration
}

// ClientOptions builds driver options with the bounded connect and server
// selection timeouts every store call inherits.
func ClientOptions(cfg MongoConfig) *options.ClientOptions {
	opts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		opts.SetConnectTimeout(cfg.ConnectTimeout)
	}
	if cfg.ServerSelectionTimeout > 0 {
		opts.SetServerSelectionTimeout(cfg.ServerSelectionTimeout)
	}
	return opts
}

// Connect creates the process-wide client and verifies the deployment answers
// a ping before returning the configured database handle.
func Connect(ctx context.Context, cfg MongoConfig, log logger.Logger) (*mongo.Client, *mongo.Database, error) {
	if log == nil {
		log = logger.Nop()
	}

	client, err := mongo.Connect(ctx, ClientOptions(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = defaultRetryDelay
	}
	backoff := retry.WithMaxRetries(cfg.ConnectRetries, retry.NewConstant(delay))

	attempt := 0
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := Ping(ctx, client); err != nil {
			log.Warnf("MongoDB ping attempt %d failed: %v", attempt, err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("failed to ping mongo after %d attempts: %w", attempt, err)
	}

	log.Debug("Successfully connected to MongoDB")
	return client, client.Database(cfg.Database), nil
}

// Ping runs the ping command against the admin database.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}
