package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/contacts/internal/dberr"
	"github.com/deppfellow/contacts/internal/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoContactRepository stores contacts as documents in one collection.
// Documents carry exactly the four contact fields plus the generated _id.
type MongoContactRepository struct {
	collection *mongo.Collection
}

func NewMongoContactRepository(collection *mongo.Collection) *MongoContactRepository {
	return &MongoContactRepository{collection: collection}
}

func byName(name string) bson.D {
	return bson.D{{Key: model.FieldContactName, Value: name}}
}

// withoutID keeps the store identifier out of decoded documents.
var withoutID = bson.D{{Key: "_id", Value: 0}}

func (r *MongoContactRepository) List(ctx context.Context, limit int) ([]model.Contact, error) {
	opts := options.Find().
		SetLimit(int64(limit)).
		SetProjection(withoutID)

	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find contacts: %w", err)
	}

	contacts := make([]model.Contact, 0)
	if err := cursor.All(ctx, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	return contacts, nil
}

func (r *MongoContactRepository) GetByName(ctx context.Context, name string) (*model.Contact, error) {
	var contact model.Contact

	err := r.collection.FindOne(ctx, byName(name), options.FindOne().SetProjection(withoutID)).Decode(&contact)
	if dberr.IsNoRows(err) {
		return nil, ErrContactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find contact %q: %w", name, err)
	}

	return &contact, nil
}

func (r *MongoContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	_, err := r.collection.InsertOne(ctx, contact)
	if dberr.IsUniqueViolation(err) {
		return ErrContactExists
	}
	if err != nil {
		return fmt.Errorf("insert contact %q: %w", contact.ContactName, err)
	}

	return nil
}

func (r *MongoContactRepository) Update(ctx context.Context, name string, patch model.ContactPatch) error {
	if patch.IsEmpty() {
		return fmt.Errorf("update contact %q: empty patch", name)
	}

	fields := patch.Fields()
	set := bson.D{}
	for _, field := range model.UpdatableFields {
		if value, ok := fields[field]; ok {
			set = append(set, bson.E{Key: field, Value: value})
		}
	}

	result, err := r.collection.UpdateOne(ctx, byName(name), bson.D{{Key: "$set", Value: set}})
	if dberr.IsUniqueViolation(err) {
		return ErrContactExists
	}
	if err != nil {
		return fmt.Errorf("update contact %q: %w", name, err)
	}

	if result.MatchedCount == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *MongoContactRepository) Delete(ctx context.Context, name string) error {
	result, err := r.collection.DeleteOne(ctx, byName(name))
	if err != nil {
		return fmt.Errorf("delete contact %q: %w", name, err)
	}

	if result.DeletedCount == 0 {
		return ErrContactNotFound
	}

	return nil
}

func (r *MongoContactRepository) Ping(ctx context.Context) error {
	return r.collection.Database().Client().Ping(ctx, readpref.Primary())
}
