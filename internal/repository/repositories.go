package repository

import (
	"fmt"

	"github.com/deppfellow/contacts/internal/config"
	"github.com/deppfellow/contacts/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Contacts ContactRepository
}

// NewRepositories picks the contact repository matching the store driver
// and the pool the server opened for it.
func NewRepositories(s *server.Server) (*Repositories, error) {
	var contacts ContactRepository

	switch s.Config.Store.Driver {
	case config.DriverMongo:
		if s.Mongo == nil {
			return nil, fmt.Errorf("mongo store is not initialized")
		}
		contacts = NewMongoContactRepository(s.Mongo.Collection())

	case config.DriverPostgres:
		if s.DB == nil {
			return nil, fmt.Errorf("postgres store is not initialized")
		}
		contacts = NewPostgresContactRepository(s.DB.Pool)

	case config.DriverMemory:
		contacts = NewMemoryContactRepository()

	default:
		return nil, fmt.Errorf("unknown store driver %q", s.Config.Store.Driver)
	}

	return &Repositories{
		Contacts: contacts,
	}, nil
}
