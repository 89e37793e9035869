package handler

import (
	"fmt"

	"github.com/deppfellow/contacts/internal/model"
	"github.com/deppfellow/contacts/internal/server"
	"github.com/deppfellow/contacts/internal/service"
	"github.com/labstack/echo/v4"
)

type ContactHandler struct {
	Handler
	contactService *service.ContactService
}

func NewContactHandler(s *server.Server, contactService *service.ContactService) *ContactHandler {
	return &ContactHandler{
		Handler:        NewHandler(s),
		contactService: contactService,
	}
}

// ListContacts returns up to 100 contacts, or an empty array.
func (h *ContactHandler) ListContacts(c echo.Context, _ *EmptyRequest) ([]model.Contact, error) {
	return h.contactService.List(c.Request().Context())
}

func (h *ContactHandler) GetContact(c echo.Context, req *ContactNameRequest) (*model.Contact, error) {
	return h.contactService.Get(c.Request().Context(), req.Name)
}

func (h *ContactHandler) CreateContact(c echo.Context, req *CreateContactRequest) (*MessageResponse, error) {
	if err := h.contactService.Create(c.Request().Context(), req.Contact()); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: "New contact added successfully"}, nil
}

func (h *ContactHandler) UpdateContact(c echo.Context, req *UpdateContactRequest) (*MessageResponse, error) {
	if err := h.contactService.Update(c.Request().Context(), req.Name, req.Patch()); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: fmt.Sprintf("Contact '%s' updated.", req.Name)}, nil
}

func (h *ContactHandler) DeleteContact(c echo.Context, req *ContactNameRequest) (*MessageResponse, error) {
	if err := h.contactService.Delete(c.Request().Context(), req.Name); err != nil {
		return nil, err
	}
	return &MessageResponse{Message: fmt.Sprintf("Contact %s was DELETED successfully.", req.Name)}, nil
}
