package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"courier-backend/internal/apperr"

	"github.com/labstack/echo/v4"
)

// ErrorHandler writes every failure as {"message": ...} plus any extra
// fields carried by an *apperr.Error. Causes are logged, never returned.
func ErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", status,
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, body)
		}
		if err != nil {
			logger.Error("write error response", "error", err)
		}
	}
}

func errorResponse(err error) (int, map[string]any) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		body := make(map[string]any, len(appErr.Fields)+1)
		for k, v := range appErr.Fields {
			body[k] = v
		}
		body["message"] = appErr.Message
		return appErr.Kind.HTTPStatus(), body
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		message := http.StatusText(httpErr.Code)
		if m, ok := httpErr.Message.(string); ok {
			message = m
		}
		return httpErr.Code, map[string]any{"message": message}
	}

	return http.StatusInternalServerError, map[string]any{"message": "Internal server error"}
}
