package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"recipes/internal/apperror"
	"recipes/internal/middleware"
)

// ErrorMessage is the body of every error response.
type ErrorMessage struct {
	StatusCode  int       `json:"statusCode"`
	Timestamp   time.Time `json:"timestamp"`
	Messages    []string  `json:"messages"`
	Description string    `json:"description"`
}

const msgBadRequestData = "Bad request data"

// ErrorHandler renders errors as ErrorMessage. Application errors map by code;
// fiber errors keep their status.
func ErrorHandler(c *fiber.Ctx, err error) error {
	status, messages := classify(err)
	if status >= fiber.StatusInternalServerError {
		slog.ErrorContext(c.UserContext(), "request failed",
			"request_id", middleware.RequestID(c),
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}

	return c.Status(status).JSON(ErrorMessage{
		StatusCode:  status,
		Timestamp:   time.Now(),
		Messages:    messages,
		Description: "uri=" + c.Path(),
	})
}

func classify(err error) (int, []string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, []string{fe.Message}
	}

	switch apperror.CodeOf(err) {
	case apperror.CodeValidation, apperror.CodeInvalidSearchCombination:
		return fiber.StatusBadRequest, apperror.MessagesOf(err)
	case apperror.CodeNotFound:
		return fiber.StatusNotFound, apperror.MessagesOf(err)
	}
	return fiber.StatusInternalServerError, []string{"Internal Server Error"}
}

// parseBody decodes the request body into out, reporting malformed input as a 400.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		slog.DebugContext(c.UserContext(), "invalid request body", "path", c.Path(), "error", err)
		return fiber.NewError(fiber.StatusBadRequest, msgBadRequestData)
	}
	return nil
}
