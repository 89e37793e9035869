package router

import (
	"net/http"

	"github.com/deppfellow/contacts/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerContactRoutes(r *echo.Echo, h *handler.Handlers) {
	ch := h.Contact
	contacts := r.Group("/contacts")

	contacts.GET("", handler.Handle(ch.Handler, ch.ListContacts, http.StatusOK, &handler.EmptyRequest{}))
	contacts.POST("", handler.Handle(ch.Handler, ch.CreateContact, http.StatusCreated, &handler.CreateContactRequest{}))

	// A trailing slash with no name is a missing name, not an unknown route.
	contacts.GET("/", handler.Handle(ch.Handler, ch.GetContact, http.StatusOK, &handler.ContactNameRequest{}))
	contacts.GET("/:name", handler.Handle(ch.Handler, ch.GetContact, http.StatusOK, &handler.ContactNameRequest{}))
	contacts.PUT("/:name", handler.Handle(ch.Handler, ch.UpdateContact, http.StatusOK, &handler.UpdateContactRequest{}))
	contacts.DELETE("/:name", handler.Handle(ch.Handler, ch.DeleteContact, http.StatusOK, &handler.ContactNameRequest{}))
}
