package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/deppfellow/contacts/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIPage is the docs UI. It loads static/openapi.json.
const OpenAPIPage = "static/openapi.html"

// OpenAPIHandler serves the API docs UI.
type OpenAPIHandler struct {
	Handler
	page string
}

func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
		page:    OpenAPIPage,
	}
}

// ServeOpenAPIUI serves the docs page with caching disabled.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile(h.page)

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	if err := c.HTML(http.StatusOK, string(templateBytes)); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
