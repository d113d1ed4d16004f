package httpapi

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewRouter returns an echo instance with all routes registered.
func NewRouter(h *Handler, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "http request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/healthz", h.Health)

	v1 := e.Group("/v1", actorFromHeaders)

	v1.POST("/resources", h.RegisterResource)
	v1.GET("/resources/:id", h.GetResource)
	v1.POST("/resources/:id/deactivate", h.DeactivateResource)
	v1.GET("/resources/:id/reservations", h.ListResourceReservations)
	v1.GET("/resources/:id/availability", h.Availability)
	v1.GET("/resources/:id/slots/:slot/seats", h.RemainingSeats)

	v1.POST("/reservations", h.CreateReservation)
	v1.GET("/reservations/:id", h.GetReservation)
	v1.POST("/reservations/:id/transitions", h.TransitionReservation)

	v1.GET("/bookers/:id/reservations", h.ListBookerReservations)
	v1.GET("/owners/:id/resources", h.ListOwnerResources)

	return e
}
