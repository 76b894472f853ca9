package di

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"cah-online/internal/auth"
	"cah-online/internal/auth/config"
	"cah-online/internal/cards"
	"cah-online/internal/shared/database"
	"cah-online/internal/shared/eventbus"
	"cah-online/internal/shared/logger"
	"cah-online/internal/shared/ratelimit"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// Container represents a dependency injection container with proper lifecycle management
type Container struct {
	mu        sync.RWMutex
	services map[reflect.Type]interface{}
	// Module instances
	AuthModule  *auth.AuthModule
	CardsModule *cards.CardsModule
	// Database connections
	MongoClient *mongo.Client
	MongoDB     *mongo.Database
	Redis       *redis.Client
	// Shared components
	EventBus *eventbus.EventBus
	// Configuration
	AuthConfig *config.Config
	// Logger
	Logger logger.Logger
}

// NewContainer creates a new DI container. A nil logger discards output.
func NewContainer(log logger.Logger) *Container {
	if log == nil {
		log = logger.Nop()
	}
	return &Container{
		services: make(map[reflect.Type]interface{}),
		Logger:   log,
	}
}

// InitializeDatabase adopts the process-wide MongoDB client and database handle.
func (c *Container) InitializeDatabase(client *mongo.Client, db *mongo.Database) error {
	if client == nil || db == nil {
		return fmt.Errorf("mongo client and database are required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.MongoClient = client
	c.MongoDB = db
	return nil
}

// InitializeEventBus creates the event bus and attaches the audit log subscriber.
func (c *Container) InitializeEventBus(cfg eventbus.Config) {
	bus := eventbus.New(c.Logger, cfg)
	eventbus.SubscribeAudit(bus, c.Logger)

	c.mu.Lock()
	c.EventBus = bus
	c.mu.Unlock()
	_ = c.Register(bus)
}

// InitializeRedis connects the Redis client backing the rate limiter and
// registers its fiber.Storage.
func (c *Container) InitializeRedis(ctx context.Context, cfg ratelimit.RedisConfig) error {
	client := ratelimit.NewRedisClient(cfg)
	if err := ratelimit.Ping(ctx, client); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.mu.Lock()
	c.Redis = client
	c.mu.Unlock()
	return c.Register(ratelimit.NewRedisStorage(client, ratelimit.DefaultKeyPrefix))
}

// InitializeAuth initializes the session authentication module. The event
// bus and Redis storage are picked up from the registry when present.
func (c *Container) InitializeAuth(authConfig *config.Config) error {
	deps := auth.Dependencies{Logger: c.Logger}
	if bus, err := GetService[*eventbus.EventBus](c); err == nil {
		deps.Events = bus
	}
	if storage, err := GetService[*ratelimit.RedisStorage](c); err == nil {
		deps.LimiterStorage = storage
	}

	c.mu.RLock()
	db := c.MongoDB
	c.mu.RUnlock()
	if db == nil {
		return fmt.Errorf("MongoDB must be initialized before the auth module")
	}

	authModule, err := auth.NewAuthModule(db, authConfig, deps)
	if err != nil {
		return fmt.Errorf("failed to create auth module: %w", err)
	}

	c.mu.Lock()
	c.AuthConfig = authConfig
	c.AuthModule = authModule
	c.mu.Unlock()
	return c.Register(authModule)
}

// InitializeCards loads the card data file.
func (c *Container) InitializeCards(path string) error {
	cardsModule, err := cards.NewCardsModule(path, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to load card data: %w", err)
	}

	c.mu.Lock()
	c.CardsModule = cardsModule
	c.mu.Unlock()
	return c.Register(cardsModule)
}

// Register registers a service instance
func (c *Container) Register(service interface{}) error {
	if service == nil {
		return fmt.Errorf("cannot register a nil service")
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	serviceType := reflect.TypeOf(service)
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	c.services[serviceType] = service
	return nil
}

// Resolve resolves a service by type
func (c *Container) Resolve(serviceType reflect.Type) (interface{}, error) {
	if serviceType == nil {
		return nil, fmt.Errorf("service type is required")
	}
	if serviceType.Kind() == reflect.Ptr {
		serviceType = serviceType.Elem()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if service, exists := c.services[serviceType]; exists {
		return service, nil
	}
	return nil, fmt.Errorf("service of type %v not registered", serviceType)
}

// GetService is a generic helper for resolving services
func GetService[T any](c *Container) (T, error) {
	var zero T
	serviceType := reflect.TypeOf((*T)(nil)).Elem()

	service, err := c.Resolve(serviceType)
	if err != nil {
		return zero, err
	}

	if typedService, ok := service.(T); ok {
		return typedService, nil
	}

	return zero, fmt.Errorf("service is not of expected type %T", zero)
}

// HealthCheck pings MongoDB and, when configured, Redis.
func (c *Container) HealthCheck(ctx context.Context) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.MongoClient != nil {
		if err := database.Ping(ctx, c.MongoClient); err != nil {
			return fmt.Errorf("MongoDB health check failed: %w", err)
		}
	}

	if c.Redis != nil {
		if err := ratelimit.Ping(ctx, c.Redis); err != nil {
			return fmt.Errorf("Redis health check failed: %w", err)
		}
	}

	return nil
}

// Cleanup performs cleanup of registered services with proper shutdown order
func (c *Container) Cleanup(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error

	// Cleanup modules in reverse order of initialization
	c.CardsModule = nil
	if c.AuthModule != nil {
		if err := c.AuthModule.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop auth module: %w", err))
		}
		c.AuthModule = nil
	}

	for _, service := range c.services {
		if cleaner, ok := service.(interface{ Cleanup(context.Context) error }); ok {
			if err := cleaner.Cleanup(ctx); err != nil {
				errs = append(errs, fmt.Errorf("failed to cleanup service: %w", err))
			}
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis: %w", err))
		}
		c.Redis = nil
	}

	if c.MongoClient != nil {
		if err := c.MongoClient.Disconnect(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to disconnect MongoDB: %w", err))
		}
		c.MongoClient = nil
		c.MongoDB = nil
	}

	c.services = make(map[reflect.Type]interface{})

	if len(errs) > 0 {
		return fmt.Errorf("cleanup errors: %v", errs)
	}

	return nil
}

// Close gracefully shuts down all services in the container with timeout
func (c *Container) Close(ctx context.Context) error {
	c.Logger.Info("Closing DI container resources...")

	if err := c.Cleanup(ctx); err != nil {
		c.Logger.Warnf("Cleanup errors occurred: %v", err)
		return err
	}

	c.Logger.Info("DI container resources closed")
	return nil
}
