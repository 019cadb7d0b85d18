package router

import (
	"github.com/firmdata/dataroom/internal/handler"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes registers the authenticated business routes. Every
// route in the group sits behind bearer-token auth and the per-caller
// rate limit.
func registerAPIRoutes(r *echo.Echo, m *middleware.Middlewares, h *handler.Handlers) {
	api := r.Group("")

	api.Use(m.Auth.RequireAuth)
	api.Use(m.RateLimit.Limit())

	h.Me.Routes(api)
	h.Clients.Routes(api)
	h.Datasets.Routes(api)
	h.Reports.Routes(api)
}
