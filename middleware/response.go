package middleware

import (
	"errors"
	"learnhub/logger"
	"learnhub/services"

	"github.com/gofiber/fiber/v2"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorResponse maps a service error to its HTTP status. Unexpected errors are
// logged and answered with a generic message.
func ErrorResponse(c *fiber.Ctx, log *logger.Logger, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err)
		return JsonResponse(c, status, false, "Something went wrong!", nil)
	}
	return JsonResponse(c, status, false, err.Error(), nil)
}

// StatusFor returns the HTTP status for a service error.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredential), errors.Is(err, services.ErrAccountLocked):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrNotEligible):
		return fiber.StatusBadRequest
	case errors.Is(err, services.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrNotAuthorized):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// Pagination builds the pagination block of list responses. Missing values
// report the defaults the store applies.
func Pagination(total int64, page, limit int) fiber.Map {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	return fiber.Map{
		"total": total,
		"page":  page,
		"limit": limit,
	}
}
