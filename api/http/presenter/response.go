package presenter

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/blog/pkg/apperr"
)

// Envelope is the shape of every API response.
type Envelope struct {
	Success    bool        `json:"success"`
	Data       any         `json:"data,omitempty"`
	Message    string      `json:"message,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Stack      string      `json:"stack,omitempty"`
}

type Pagination struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// ErrorResponse documents failed responses in the API docs.
type ErrorResponse struct {
	Success bool   `json:"success" example:"false"`
	Error   string `json:"error"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

// OK writes a successful envelope; message may be empty.
func OK(c *fiber.Ctx, status int, data any, message string) error {
	return JSON(c, status, Envelope{Success: true, Data: data, Message: message})
}

// Paginated writes a list envelope. items must be a non-nil slice.
func Paginated(c *fiber.Ctx, items any, p Pagination) error {
	return JSON(c, http.StatusOK, Envelope{Success: true, Data: items, Pagination: &p})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, Envelope{Success: false, Error: message})
}

// StatusFor maps an error kind to its HTTP status. Conflicts are reported as
// 400 to keep the duplicate-entry contract clients already rely on.
func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.KindValidation, apperr.KindConflict:
		return http.StatusBadRequest
	case apperr.KindAuthentication:
		return http.StatusUnauthorized
	case apperr.KindAuthorization:
		return http.StatusForbidden
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every error returned by a handler as an envelope.
// Internal errors are logged and their message hidden; the error chain is
// exposed as "stack" only when debug is set.
func ErrorHandler(debug bool, log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			body := Envelope{Success: false, Error: fe.Message}
			if fe.Code == fiber.StatusNotFound {
				body.Error = "Route not found"
			}
			return JSON(c, fe.Code, body)
		}

		kind := apperr.KindOf(err)
		status := StatusFor(kind)
		body := Envelope{Success: false, Error: apperr.MessageOf(err)}
		if kind == apperr.KindInternal {
			body.Error = "Internal server error"
			log.Error("request failed",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
				"error", err)
		}
		if debug {
			body.Stack = err.Error()
		}
		return JSON(c, status, body)
	}
}
