package auth

import (
	"context"
	"fmt"

	authhttp "cah-online/internal/auth/adapter/http"
	"cah-online/internal/auth/adapter/persistence/mongodb"
	"cah-online/internal/auth/adapter/security"
	"cah-online/internal/auth/config"
	"cah-online/internal/auth/usecase"
	"cah-online/internal/shared/eventbus"
	"cah-online/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"
)

// Dependencies are the collaborators the module borrows from the container.
// Every field is optional.
type Dependencies struct {
	Logger         logger.Logger
	Events         eventbus.Publisher
	LimiterStorage fiber.Storage
}

// AuthModule represents the complete session authentication module
type AuthModule struct {
	repository *mongodb.MongoSessionRepository
	usecase    usecase.AuthUsecaseInterface
	handler    *authhttp.AuthHTTPHandler
	middleware *authhttp.AuthMiddleware
	config     *config.Config
	limiter    fiber.Storage
}

// NewAuthModule creates a new authentication module instance
func NewAuthModule(db *mongo.Database, cfg *config.Config, deps Dependencies) (*AuthModule, error) {
	if db == nil {
		return nil, fmt.Errorf("auth module requires a database handle")
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}

	tokens, err := security.NewTokenGenerator(cfg.TokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to create token generator: %w", err)
	}

	repo := mongodb.NewMongoSessionRepository(db, tokens, mongodb.WithOperationTimeout(cfg.OperationTimeout))

	opts := []usecase.Option{usecase.WithLogger(deps.Logger)}
	if deps.Events != nil {
		opts = append(opts, usecase.WithPublisher(deps.Events))
	}
	authUsecase := usecase.NewAuthUsecase(repo, opts...)

	handler := authhttp.NewAuthHTTPHandler(authUsecase, authhttp.CookieConfig{
		Name:     cfg.CookieName,
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		Secure:   cfg.CookieSecure,
		SameSite: cfg.CookieSameSite,
	}, deps.Logger)

	return &AuthModule{
		repository: repo,
		usecase:    authUsecase,
		handler:    handler,
		middleware: authhttp.NewAuthMiddleware(authUsecase, cfg.CookieName, deps.Logger),
		config:     cfg,
		limiter:    deps.LimiterStorage,
	}, nil
}

// EnsureIndexes creates the indexes the session collection relies on.
func (am *AuthModule) EnsureIndexes(ctx context.Context) error {
	return am.repository.EnsureIndexes(ctx)
}

// RegisterRoutes registers authentication routes with the provided router
func (am *AuthModule) RegisterRoutes(router fiber.Router) {
	am.handler.SetupAuthRoutesWithMiddleware(router, am.middleware, authhttp.RateLimit{
		Max:     am.config.RateLimitMax,
		Window:  am.config.RateLimitWindow,
		Storage: am.limiter,
	})
}

// GetUsecase returns the auth usecase for external access
func (am *AuthModule) GetUsecase() usecase.AuthUsecaseInterface {
	return am.usecase
}

// GetMiddleware returns the auth middleware
func (am *AuthModule) GetMiddleware() *authhttp.AuthMiddleware {
	return am.middleware
}

// Stop performs cleanup when the module is shut down
func (am *AuthModule) Stop() error {
	return nil
}
