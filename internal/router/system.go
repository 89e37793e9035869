package router

import (
	"github.com/deppfellow/contacts/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints outside the contacts
// resource: health, docs, static assets and the owner greeting.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", "static")

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)

	r.GET("/name", handler.HandleText(h.System.Handler, h.System.Name, &handler.EmptyRequest{}))
}
