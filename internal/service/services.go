package service

import (
	"github.com/deppfellow/contacts/internal/repository"
	"github.com/deppfellow/contacts/internal/server"
)

type Services struct {
	Contacts *ContactService
}

func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Contacts: NewContactService(s, repos.Contacts),
	}, nil
}
