package httpapi

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/SoundInkube/soundinkube-sub000/internal/model"
)

// Identity headers set by the upstream gateway after authentication.
const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorRole = "X-Actor-Role"

	actorKey = "actor"
)

// actorFromHeaders stores the caller in the context when both headers are
// present. Malformed headers are rejected with 401.
func actorFromHeaders(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		rawID := c.Request().Header.Get(HeaderActorID)
		rawRole := c.Request().Header.Get(HeaderActorRole)
		if rawID == "" && rawRole == "" {
			return next(c)
		}

		id, err := uuid.Parse(rawID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+HeaderActorID)
		}
		role, err := model.ParseActorRole(rawRole)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid "+HeaderActorRole)
		}
		c.Set(actorKey, model.Actor{ID: id, Role: role})
		return next(c)
	}
}

func currentActor(c echo.Context) (model.Actor, bool) {
	a, ok := c.Get(actorKey).(model.Actor)
	return a, ok
}

func requireActor(c echo.Context) (model.Actor, error) {
	a, ok := currentActor(c)
	if !ok {
		return model.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "actor headers are required")
	}
	return a, nil
}
