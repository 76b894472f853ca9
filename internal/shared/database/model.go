package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Entity is implemented by every persisted document type. CollectionName must
// have a value receiver and return a constant.
type Entity interface {
	CollectionName() string
}

// CollectionNameOf returns the collection that stores entities of type T.
func CollectionNameOf[T Entity]() string {
	var zero T
	return zero.CollectionName()
}

// Collection returns the handle for T's collection in db.
func Collection[T Entity](db *mongo.Database) *mongo.Collection {
	return db.Collection(CollectionNameOf[T]())
}

// FindByID loads the entity of type T stored under id. A missing document is
// reported as (nil, nil); every other failure is a StoreFailure.
func FindByID[T Entity](ctx context.Context, db *mongo.Database, id primitive.ObjectID) (*T, error) {
	return FindOne[T](ctx, db, bson.M{"_id": id})
}

// FindOne loads the first entity of type T matching filter with the same
// absence semantics as FindByID.
func FindOne[T Entity](ctx context.Context, db *mongo.Database, filter interface{}) (*T, error) {
	coll := Collection[T](db)

	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, StoreFailure("find", coll.Name(), err)
	}
	return &out, nil
}
