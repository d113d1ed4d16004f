package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/SoundInkube/soundinkube-sub000/internal/service"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInterval), errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrResourceNotFound), errors.Is(err, service.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrConflict),
		errors.Is(err, service.ErrAlreadyExists),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrStaleState),
		errors.Is(err, service.ErrHasActiveReservations):
		return http.StatusConflict
	case errors.Is(err, service.ErrResourceInactive):
		return http.StatusGone
	case errors.Is(err, service.ErrStoreTimeout):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func errorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusFor(err)
		msg := err.Error()
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			} else {
				msg = http.StatusText(code)
			}
		}
		if code >= http.StatusInternalServerError {
			log.Error("request failed", "method", c.Request().Method, "path", c.Path(), "err", err)
			if code == http.StatusInternalServerError {
				msg = "internal error"
			}
		}

		if err := c.JSON(code, map[string]string{"error": msg}); err != nil {
			log.Warn("write error response", "err", err)
		}
	}
}
