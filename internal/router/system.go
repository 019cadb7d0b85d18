package router

import (
	"github.com/firmdata/dataroom/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers endpoints that are not business logic:
// probes, docs UI, and the static assets backing it.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Liveness probe: process is up.
	r.GET("/health", h.Health.CheckLiveness)

	// Readiness: dependency checks (database, redis).
	r.GET("/status", h.Health.CheckHealth)

	// Serve ./static at /static/* (openapi.json, openapi.html).
	r.Static("/static", "static")

	// Docs UI.
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
