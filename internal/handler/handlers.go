package handler

import (
	"github.com/deppfellow/contacts/internal/server"
	"github.com/deppfellow/contacts/internal/service"
)

// Handlers groups every HTTP handler so the router receives a single value.
type Handlers struct {
	Contact *ContactHandler
	System  *SystemHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Contact: NewContactHandler(s, services.Contacts),
		System:  NewSystemHandler(s),
		Health:  NewHealthHandler(s, services.Contacts),
		OpenAPI: NewOpenAPIHandler(s),
	}
}
