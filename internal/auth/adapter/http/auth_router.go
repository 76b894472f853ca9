package http

import (
	"time"

	"cah-online/internal/auth/domain/model"
	"cah-online/internal/auth/usecase"
	apperrors "cah-online/internal/shared/errors"
	"cah-online/internal/shared/logger"

	"github.com/gofiber/fiber/v2"
)

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Name     string
	Path     string
	Domain   string
	Secure   bool
	SameSite string
}

// RateLimit bounds session issuing per client IP. Storage may be nil.
type RateLimit struct {
	Max     int
	Window  time.Duration
	Storage fiber.Storage
}

// AuthHTTPHandler handles HTTP requests for session authentication
type AuthHTTPHandler struct {
	usecase usecase.AuthUsecaseInterface
	cookie  CookieConfig
	logger  logger.Logger
}

// IssueSessionResponse is returned by POST /session.
type IssueSessionResponse struct {
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionResponse is returned by GET /session. It never carries the token.
type SessionResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewAuthHTTPHandler creates a new authentication HTTP handler
func NewAuthHTTPHandler(uc usecase.AuthUsecaseInterface, cookie CookieConfig, log logger.Logger) *AuthHTTPHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthHTTPHandler{
		usecase: uc,
		cookie:  cookie,
		logger:  log.WithComponent("auth-http"),
	}
}

// SetupAuthRoutesWithMiddleware sets up authentication routes with middleware
func (h *AuthHTTPHandler) SetupAuthRoutesWithMiddleware(router fiber.Router, middleware *AuthMiddleware, limit RateLimit) {
	router.Post("/session", middleware.RateLimiter(limit.Max, limit.Window, limit.Storage), h.IssueSession)
	router.Get("/session", middleware.Protect(), h.GetSession)
	router.Delete("/session", middleware.RequireToken(), h.RevokeSession)
}

// IssueSession handles POST /session
func (h *AuthHTTPHandler) IssueSession(c *fiber.Ctx) error {
	var req usecase.IssueSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, apperrors.NewValidationError("Request body must be a JSON object with a username").
			WithCode(CodeInvalidRequestBody))
	}
	req.IPAddress = c.IP()
	req.UserAgent = c.Get(fiber.HeaderUserAgent)

	session, err := h.usecase.IssueSession(c.UserContext(), req)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Code == CodeCouldNotIssue || apperrors.IsInfrastructure(appErr) {
			h.logger.WithContext(c.UserContext()).Errorf("issue session failed: %v", err)
		}
		return writeError(c, appErr)
	}

	h.setCookie(c, session)

	return c.Status(fiber.StatusCreated).JSON(IssueSessionResponse{
		Username:  session.Username,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

// GetSession handles GET /session
func (h *AuthHTTPHandler) GetSession(c *fiber.Ctx) error {
	session, ok := SessionFromCtx(c)
	if !ok {
		return writeError(c, toAppError(usecase.ErrInvalidToken))
	}

	return c.JSON(SessionResponse{
		ID:        session.ID.Hex(),
		Username:  session.Username,
		CreatedAt: session.CreatedAt,
		ExpiresAt: session.ExpiresAt,
	})
}

// RevokeSession handles DELETE /session. Repeating it with the same token
// succeeds; expired sessions can still be revoked.
func (h *AuthHTTPHandler) RevokeSession(c *fiber.Ctx) error {
	token, ok := TokenFromCtx(c)
	if !ok {
		return writeError(c, toAppError(usecase.ErrInvalidToken))
	}

	if err := h.usecase.RevokeSession(c.UserContext(), token); err != nil {
		appErr := toAppError(err)
		if apperrors.IsInfrastructure(appErr) {
			h.logger.WithContext(c.UserContext()).Errorf("revoke session failed: %v", err)
		}
		return writeError(c, appErr)
	}

	h.clearCookie(c)

	return c.JSON(fiber.Map{
		"message": "Session revoked",
	})
}

// Helper methods

func (h *AuthHTTPHandler) setCookie(c *fiber.Ctx, session *model.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		MaxAge:   int(model.SessionTTL.Seconds()),
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cookie.SameSite,
		Expires:  session.ExpiresAt,
	})
}

func (h *AuthHTTPHandler) clearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     h.cookie.Path,
		Domain:   h.cookie.Domain,
		MaxAge:   -1,
		Secure:   h.cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cookie.SameSite,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
}
