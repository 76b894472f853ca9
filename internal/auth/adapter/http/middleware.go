package http

import (
	"strings"
	"time"

	"cah-online/internal/auth/domain/model"
	"cah-online/internal/auth/usecase"
	apperrors "cah-online/internal/shared/errors"
	"cah-online/internal/shared/logger"
	"cah-online/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	localsSession = "session"
	localsToken   = "session_token"
)

// AuthMiddleware provides authentication middleware for Fiber
type AuthMiddleware struct {
	usecase    usecase.AuthUsecaseInterface
	cookieName string
	logger     logger.Logger
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(uc usecase.AuthUsecaseInterface, cookieName string, log logger.Logger) *AuthMiddleware {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthMiddleware{
		usecase:    uc,
		cookieName: cookieName,
		logger:     log.WithComponent("auth-http"),
	}
}

// RateLimiter limits requests per client IP with a sliding window. A nil
// storage keeps counters in process memory.
func (m *AuthMiddleware) RateLimiter(max int, window time.Duration, storage fiber.Storage) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        window,
		LimiterMiddleware: limiter.SlidingWindow{},
		Storage:           storage,
		KeyGenerator: func(c *fiber.Ctx) string {
			return "session-issue:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return writeError(c, apperrors.NewRateLimitError("Too many session requests, try again later").
				WithCode(CodeRateLimited))
		},
	})
}

// Protect returns middleware that requires an active session
func (m *AuthMiddleware) Protect() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)

		session, err := m.usecase.Authenticate(c.UserContext(), token)
		if err != nil {
			appErr := toAppError(err)
			if apperrors.IsInfrastructure(appErr) {
				m.logger.WithContext(c.UserContext()).Errorf("authentication failed: %v", err)
			}
			return writeError(c, appErr)
		}

		ctx := utils.WithSessionID(c.UserContext(), session.ID.Hex())
		ctx = utils.WithUsername(ctx, session.Username)
		c.SetUserContext(ctx)

		c.Locals(localsSession, session)
		c.Locals(localsToken, token)
		return c.Next()
	}
}

// RequireToken attaches the presented token without authenticating it, for
// routes that resolve the session themselves. A missing token is rejected.
func (m *AuthMiddleware) RequireToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := m.extractToken(c)
		if token == "" {
			return writeError(c, toAppError(usecase.ErrInvalidToken))
		}
		c.Locals(localsToken, token)
		return c.Next()
	}
}

// extractToken reads the bearer token, falling back to the session cookie.
// A missing token yields "" which Authenticate rejects as invalid.
func (m *AuthMiddleware) extractToken(c *fiber.Ctx) string {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(authHeader, "Bearer ") {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer ")); token != "" {
			return token
		}
	}
	return c.Cookies(m.cookieName)
}

// SessionFromCtx returns the session attached by Protect.
func SessionFromCtx(c *fiber.Ctx) (*model.Session, bool) {
	session, ok := c.Locals(localsSession).(*model.Session)
	return session, ok
}

// TokenFromCtx returns the token Protect authenticated.
func TokenFromCtx(c *fiber.Ctx) (string, bool) {
	token, ok := c.Locals(localsToken).(string)
	return token, ok
}
