package api

import (
	"errors"

	"gita-assistant/internal/domain/entity"
	"gita-assistant/internal/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// bind parses the JSON body into dst and validates its tags.
func bind(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return entity.ErrInvalidRequest
	}
	if err := validate.Struct(dst); err != nil {
		return entity.ErrInvalidRequest
	}
	return nil
}

// writeError maps a business error to an HTTP status code.
func writeError(c *fiber.Ctx, err error) error {
	status, msg := fiber.StatusInternalServerError, entity.ErrInternalServer.Error()
	switch {
	case errors.Is(err, entity.ErrInvalidRequest):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, entity.ErrInvalidOTP):
		status, msg = fiber.StatusBadRequest, err.Error()
	case errors.Is(err, entity.ErrUnauthorized), errors.Is(err, entity.ErrInvalidCredentials):
		status, msg = fiber.StatusUnauthorized, err.Error()
	case errors.Is(err, entity.ErrResourceNotFound):
		status, msg = fiber.StatusNotFound, err.Error()
	case errors.Is(err, entity.ErrUserExists):
		status, msg = fiber.StatusConflict, err.Error()
	case errors.Is(err, entity.ErrRateLimitExceeded):
		status, msg = fiber.StatusTooManyRequests, err.Error()
	default:
		logger.FromContext(c.UserContext()).Error("Request failed",
			"method", c.Method(), "path", c.Path(), "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": msg})
}
