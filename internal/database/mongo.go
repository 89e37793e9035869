package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/contacts/internal/config"
	loggerConfig "github.com/deppfellow/contacts/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// ContactNameIndex is the unique index enforcing one document per contact_name.
const ContactNameIndex = "contact_name_unique"

// Mongo wraps a pooled MongoDB client and the contacts collection.
type Mongo struct {
	Client     *mongo.Client
	collection *mongo.Collection
	log        *zerolog.Logger
}

// commandLogger logs every command in the local env and slow commands
// everywhere else.
func commandLogger(logger zerolog.Logger, local bool, slow time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Started: func(_ context.Context, evt *event.CommandStartedEvent) {
			if local {
				logger.Debug().
					Str("command", evt.CommandName).
					Str("db", evt.DatabaseName).
					Int64("request_id", evt.RequestID).
					Msg("mongo command started")
			}
		},
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			switch {
			case slow > 0 && evt.Duration > slow:
				logger.Warn().
					Str("command", evt.CommandName).
					Int64("request_id", evt.RequestID).
					Dur("duration", evt.Duration).
					Msg("slow mongo command")
			case local:
				logger.Debug().
					Str("command", evt.CommandName).
					Int64("request_id", evt.RequestID).
					Dur("duration", evt.Duration).
					Msg("mongo command succeeded")
			}
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			logger.Error().
				Str("command", evt.CommandName).
				Int64("request_id", evt.RequestID).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}

// NewMongo connects the MongoDB client pool, pings the primary and makes
// sure the unique contact_name index exists.
func NewMongo(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Mongo, error) {
	storeLogger := loggerConfig.NewStoreLogger(logger)
	monitor := commandLogger(
		storeLogger,
		cfg.Primary.Env == "local",
		cfg.Observability.Logging.SlowQueryThreshold,
	)

	// nrmongo wraps the logging monitor so both run.
	if loggerService != nil && loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	clientOptions := options.Client().
		ApplyURI(cfg.Store.URI).
		SetAppName(cfg.Observability.ServiceName).
		SetMaxPoolSize(cfg.Store.MaxPoolSize).
		SetMinPoolSize(cfg.Store.MinPoolSize).
		SetConnectTimeout(time.Duration(cfg.Store.ConnectTimeout) * time.Second).
		SetMonitor(monitor)

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to create mongo client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	m := &Mongo{
		Client:     client,
		collection: client.Database(cfg.Store.Database).Collection(cfg.Store.Collection),
		log:        logger,
	}

	if err := m.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	logger.Info().
		Str("database", cfg.Store.Database).
		Str("collection", cfg.Store.Collection).
		Msg("connected to mongo")

	return m, nil
}

// Collection returns the contacts collection.
func (m *Mongo) Collection() *mongo.Collection {
	return m.collection
}

// EnsureIndexes creates the unique contact_name index. Creating an index
// that already exists with the same keys and options is a no-op.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "contact_name", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(ContactNameIndex),
	})
	if err != nil {
		return fmt.Errorf("failed to create %s index: %w", ContactNameIndex, err)
	}
	return nil
}

// Close disconnects the client pool.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("closing mongo connection pool")
	return m.Client.Disconnect(ctx)
}
