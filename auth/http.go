package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Message  string `json:"message"`
	TextCode string `json:"text_code,omitempty"`
	Category string `json:"category,omitempty"`
}

// NewErrorHandler returns the app-level fiber error handler. Auth
// failures propagate unmodified to this boundary, which maps error
// categories to HTTP status codes.
func NewErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		if fiberErr, ok := err.(*fiber.Error); ok {
			return c.Status(fiberErr.Code).JSON(ErrorResponse{
				Error: ErrorBody{Message: fiberErr.Message},
			})
		}

		var richErr *errors.Error
		if !errors.As(err, &richErr) {
			richErr = errors.Wrap(err, errors.CategoryInternal, "An unexpected server error occurred").
				WithCode(errors.CodeInternal)
		}

		status := statusFromError(richErr)
		if status >= fiber.StatusInternalServerError {
			logger.Error(
				"request error",
				"error", richErr.Message,
				"category", richErr.Category,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		} else {
			logger.Info(
				"request rejected",
				"error", richErr.Message,
				"text_code", richErr.TextCode,
				"path", c.OriginalURL(),
			)
		}

		return c.Status(status).JSON(ErrorResponse{
			Error: ErrorBody{
				Message:  richErr.Message,
				TextCode: richErr.TextCode,
				Category: fmt.Sprintf("%v", richErr.Category),
			},
		})
	}
}

func statusFromError(err *errors.Error) int {
	if err.Code > 0 {
		return err.Code
	}

	switch err.Category {
	case errors.CategoryAuth:
		return fiber.StatusUnauthorized
	case errors.CategoryAuthz:
		return fiber.StatusForbidden
	case errors.CategoryNotFound:
		return fiber.StatusNotFound
	case errors.CategoryValidation, errors.CategoryBadInput:
		return fiber.StatusBadRequest
	case errors.CategoryConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
