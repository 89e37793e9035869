// Package router builds the echo instance: global middleware, system
// routes and the contact routes.
package router

import (
	"github.com/deppfellow/contacts/internal/handler"
	"github.com/deppfellow/contacts/internal/middleware"
	"github.com/deppfellow/contacts/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter wires the middleware chain and every route.
//
// Order matters: the rate limiter rejects early, RequestID must run before
// the New Relic and logging middleware that read it, and Recover is last
// so panics in handlers still go through the request logger.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.RateLimit.Limit(),
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerContactRoutes(router, h)

	return router
}
