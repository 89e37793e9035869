package handler

import (
	"github.com/deppfellow/contacts/internal/server"
	"github.com/labstack/echo/v4"
)

// SystemHandler serves small informational endpoints.
type SystemHandler struct {
	Handler
}

func NewSystemHandler(s *server.Server) *SystemHandler {
	return &SystemHandler{
		Handler: NewHandler(s),
	}
}

// Name answers GET /name with the configured owner.
func (h *SystemHandler) Name(c echo.Context, _ *EmptyRequest) (string, error) {
	return "My name is " + h.server.Config.Primary.Owner, nil
}
