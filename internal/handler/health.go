package handler

import (
	"context"
	"net/http"
	"time"

	"bilemo-api/internal/database"

	"github.com/labstack/echo/v4"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthResponse is the probe payload.
// swagger:model HealthResponse
type HealthResponse struct {
	Status       string            `json:"status" example:"ok"`
	Dependencies map[string]string `json:"dependencies,omitempty"`
}

// LivenessHandler
// @Summary     Liveness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Router      /health [get]
func LivenessHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// ReadinessHandler pings the database and the cache backend.
// @Summary     Readiness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} HealthResponse
// @Failure     503 {object} HealthResponse
// @Router      /health/ready [get]
func ReadinessHandler(db database.DB, cache Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
		defer cancel()

		deps := map[string]string{"database": "ok", "cache": "ok"}
		status := http.StatusOK
		if err := db.Ping(ctx); err != nil {
			deps["database"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
		}
		if err := cache.Ping(ctx); err != nil {
			deps["cache"] = "unhealthy: " + err.Error()
			status = http.StatusServiceUnavailable
		}

		resp := HealthResponse{Status: "ok", Dependencies: deps}
		if status != http.StatusOK {
			resp.Status = "unavailable"
		}
		return c.JSON(status, resp)
	}
}
