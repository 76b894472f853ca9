package server

import (
	"time"

	"cah-online/internal/shared/logger"
	"cah-online/internal/shared/utils"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger copies the request id into the user context and logs every
// request once it has been handled.
func RequestLogger(log logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		id := c.GetRespHeader(fiber.HeaderXRequestID)
		if id != "" {
			c.SetUserContext(utils.WithRequestID(c.UserContext(), id))
		}

		err := c.Next()
		if err != nil {
			// Let the error handler pick the status before it is logged.
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		entry := log.WithContext(c.UserContext()).WithFields(map[string]interface{}{
			"method":  c.Method(),
			"path":    c.Path(),
			"status":  c.Response().StatusCode(),
			"latency": time.Since(start).String(),
			"ip":      c.IP(),
		})
		if c.Response().StatusCode() >= fiber.StatusInternalServerError {
			entry.Warn("request completed with server error")
		} else {
			entry.Debug("request completed")
		}
		return nil
	}
}
