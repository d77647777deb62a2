package handler

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/gofiber/fiber/v2"

	"complytrack/internal/http/middleware"
	"complytrack/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: middleware.RequestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// writeServiceError translates service sentinel errors into the error envelope.
// Anything unrecognized is reported as INTERNAL_ERROR.
func writeServiceError(c *fiber.Ctx, err error) error {
	var verrs validation.Errors
	switch {
	case errors.As(err, &verrs):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", verrs.Error())
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrForbidden):
		return writeError(c, fiber.StatusForbidden, "ACCESS_DENIED", "access denied")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	case errors.Is(err, service.ErrOrganizationRequired):
		return writeError(c, fiber.StatusBadRequest, "ORGANIZATION_REQUIRED", "organization is required")
	case errors.Is(err, service.ErrReaderNil):
		return writeError(c, fiber.StatusBadRequest, "FILE_REQUIRED", "file is required")
	case errors.Is(err, service.ErrInvalidFileType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_FILE_TYPE", "file type not allowed")
	case errors.Is(err, service.ErrUnknownReminderType):
		return writeError(c, fiber.StatusBadRequest, "INVALID_REMINDER_TYPE", "type must be one of 30_day, 7_day, day_of")
	case errors.Is(err, service.ErrNoRecipient):
		return writeError(c, fiber.StatusUnprocessableEntity, "NO_RECIPIENT", "organization has no users to notify")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if errors.Is(err, middleware.ErrMissingOrganization) {
			return writeError(c, fiber.StatusBadRequest, "ORGANIZATION_REQUIRED", middleware.ErrMissingOrganization.Message)
		}

		status := fiber.StatusInternalServerError
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "FILE_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
