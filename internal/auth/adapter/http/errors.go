package http

import (
	"errors"

	"cah-online/internal/auth/usecase"
	"cah-online/internal/shared/database"
	apperrors "cah-online/internal/shared/errors"

	"github.com/gofiber/fiber/v2"
)

// Error codes returned in the "error" field of failed responses.
const (
	CodeDBFailure          = "DB_FAILURE"
	CodeInvalidToken       = "INVALID_SESSION_TOKEN"
	CodeSessionExpired     = "SESSION_EXPIRED"
	CodeSessionRevoked     = "SESSION_REVOKED"
	CodeCouldNotIssue      = "COULD_NOT_ISSUE"
	CodeInvalidUsername    = "INVALID_USERNAME"
	CodeInvalidRequestBody = "INVALID_REQUEST_BODY"
	CodeRateLimited        = "RATE_LIMITED"
)

// toAppError maps a use case error onto its outward representation.
// ErrCouldNotIssue is checked first since it wraps the store failure behind it.
func toAppError(err error) *apperrors.AppError {
	switch {
	case errors.Is(err, usecase.ErrCouldNotIssue):
		return apperrors.NewAuthenticationError("Could not issue a session").
			WithCode(CodeCouldNotIssue).WithCause(err)
	case database.IsStoreFailure(err):
		return apperrors.NewInfrastructureError("The session store is unavailable").
			WithCode(CodeDBFailure).WithCause(err)
	case errors.Is(err, usecase.ErrInvalidToken):
		return apperrors.NewAuthenticationError("The session token is invalid").
			WithCode(CodeInvalidToken)
	case errors.Is(err, usecase.ErrSessionExpired):
		return apperrors.NewAuthenticationError("The session has expired").
			WithCode(CodeSessionExpired)
	case errors.Is(err, usecase.ErrSessionRevoked):
		return apperrors.NewAuthenticationError("The session has been revoked").
			WithCode(CodeSessionRevoked)
	case errors.Is(err, usecase.ErrInvalidUsername):
		return apperrors.NewValidationError("A non-empty username is required").
			WithCode(CodeInvalidUsername)
	default:
		return apperrors.WrapError(err, "Internal server error")
	}
}

func writeError(c *fiber.Ctx, appErr *apperrors.AppError) error {
	return c.Status(appErr.HTTPCode).JSON(appErr.Body())
}
