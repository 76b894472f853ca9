package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "cah-online/internal/shared/errors"
	"cah-online/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	AppName    = "CAH Online API"
	APIVersion = "0.1.0"

	healthTimeout = 5 * time.Second
)

// HealthChecker reports whether the backing services answer.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// RouteRegistrar is implemented by every module that exposes HTTP routes.
type RouteRegistrar interface {
	RegisterRoutes(router fiber.Router)
}

// Options wires the modules into the application. Nil modules are skipped.
type Options struct {
	Logger     logger.Logger
	TrustProxy bool
	Health     HealthChecker
	Auth       RouteRegistrar
	Cards      RouteRegistrar
	// Gatherer backs /metrics; prometheus.DefaultGatherer when nil.
	Gatherer prometheus.Gatherer
}

// New assembles the fiber application.
func New(opts Options) *fiber.App {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("http")

	cfg := fiber.Config{
		AppName:      AppName + " v" + APIVersion,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: errorHandler(log),
	}
	if opts.TrustProxy {
		cfg.ProxyHeader = fiber.HeaderXForwardedFor
		cfg.EnableIPValidation = true
	}
	app := fiber.New(cfg)

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(RequestLogger(log))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,DELETE",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", healthHandler(opts.Health, log))

	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	api := app.Group("/api")
	api.Get("/", welcome)
	if opts.Auth != nil {
		opts.Auth.RegisterRoutes(api.Group("/auth"))
	}
	if opts.Cards != nil {
		opts.Cards.RegisterRoutes(api.Group("/cards"))
	}

	app.Use(notFound)
	return app
}

func welcome(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Welcome to the CAH Online API",
		"version": APIVersion,
	})
}

func notFound(c *fiber.Ctx) error {
	appErr := apperrors.NewNotFoundError(fmt.Sprintf("The requested resource `%s` was not found", c.OriginalURL()))
	return c.Status(appErr.HTTPCode).JSON(appErr.WithCode("NOT_FOUND").Body())
}

func healthHandler(checker HealthChecker, log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if checker != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
			defer cancel()

			if err := checker.HealthCheck(ctx); err != nil {
				log.WithContext(c.UserContext()).Errorf("Health check failed: %v", err)
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"status":  "UNHEALTHY",
					"message": "One or more services are unhealthy",
				})
			}
		}
		return c.JSON(fiber.Map{
			"status":    "HEALTHY",
			"message":   AppName + " is running",
			"timestamp": time.Now().UTC(),
		})
	}
}

// errorHandler renders errors that escape the handlers in the shared
// {"error","message"} envelope.
func errorHandler(log logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var appErr *apperrors.AppError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &fiberErr):
			if fiberErr.Code == fiber.StatusNotFound {
				appErr = apperrors.NewNotFoundError(fiberErr.Message).WithCode("NOT_FOUND")
			} else {
				appErr = apperrors.NewAppError(apperrors.ErrorTypeInternal, fiberErr.Message, fiberErr.Code)
			}
		default:
			appErr = apperrors.NewInternalError("Internal Server Error").WithCause(err)
		}

		if appErr.HTTPCode >= fiber.StatusInternalServerError {
			log.WithContext(c.UserContext()).Errorf("HTTP error on %s %s: %v", c.Method(), c.Path(), err)
		}
		return c.Status(appErr.HTTPCode).JSON(appErr.Body())
	}
}
