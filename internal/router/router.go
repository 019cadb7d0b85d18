// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/firmdata/dataroom/internal/handler"
	"github.com/firmdata/dataroom/internal/middleware"
	"github.com/labstack/echo/v4"
)

// New builds the Echo instance with the global middleware chain and all
// route groups registered.
//
// Middleware order matters: RequestID before ContextEnhancer so the
// request-scoped logger carries the ID; New Relic before EnhanceTracing
// so a transaction exists to annotate.
func New(middlewares *middleware.Middlewares, handlers *handler.Handlers) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	e.Use(middlewares.Global.Recover())
	e.Use(middlewares.Global.Secure())
	e.Use(middlewares.Global.CORS())
	e.Use(middleware.RequestID())
	e.Use(middlewares.Tracing.NewRelicMiddleware())
	e.Use(middlewares.ContextEnhancer.EnhanceContext())
	e.Use(middlewares.Tracing.EnhanceTracing())
	e.Use(middlewares.Global.RequestLogger())

	registerSystemRoutes(e, handlers)
	registerAPIRoutes(e, middlewares, handlers)

	return e
}
