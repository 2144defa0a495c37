package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

func SuccessResponse[T any](message string, data T) Response[T] {
	return Response[T]{
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

// HTTPError carries a status code through the fiber error path.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string { return e.Message }

func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

// ErrorHandlerMiddleware converts handler errors into the shared
// {status, message} envelope.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError

		var httpErr *HTTPError
		var fiberErr *fiber.Error
		switch {
		case errors.As(err, &httpErr):
			code = httpErr.Code
		case errors.As(err, &fiberErr):
			code = fiberErr.Code
		}

		return ctx.Status(code).JSON(fiber.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}
}
