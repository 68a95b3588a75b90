package repository

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// ErrInvalidObjectID is returned when a string id is not a 24 character hex ObjectID.
var ErrInvalidObjectID = errors.New("invalid object id")

type BaseRepository[K any] struct {
	Database       *mongo.Database
	CollectionName string
}

func NewRepository[K any](database *mongo.Database, collection_name string) *BaseRepository[K] {
	return &BaseRepository[K]{Database: database, CollectionName: collection_name}
}

func (r *BaseRepository[K]) Namespace() (string, string) {
	return r.Database.Name(), r.CollectionName
}

func (r *BaseRepository[K]) GetAll(ctx context.Context, filter bson.M, sort bson.D) ([]K, error) {
	coll := r.Database.Collection(r.CollectionName)
	cursor, err := coll.Find(ctx, orEmpty(filter), findOptions(sort))
	if err != nil {
		zap.S().Errorw("Error fetching data", "collection", r.CollectionName, "error", err)
		return []K{}, err
	}
	defer cursor.Close(context.WithoutCancel(ctx))

	results := []K{}
	if err = cursor.All(ctx, &results); err != nil {
		zap.S().Errorw("Error decoding data", "collection", r.CollectionName, "error", err)
		return []K{}, err
	}

	return results, nil
}

// Stream opens a cursor eagerly and returns a single-use sequence over it.
// The cursor is closed once the sequence is exhausted or the consumer stops.
func (r *BaseRepository[K]) Stream(ctx context.Context, filter bson.M, sort bson.D) (iter.Seq2[K, error], error) {
	coll := r.Database.Collection(r.CollectionName)
	cursor, err := coll.Find(ctx, orEmpty(filter), findOptions(sort))
	if err != nil {
		zap.S().Errorw("Error opening cursor", "collection", r.CollectionName, "error", err)
		return nil, err
	}

	return func(yield func(K, error) bool) {
		defer cursor.Close(context.WithoutCancel(ctx))

		for cursor.Next(ctx) {
			var item K
			if err := cursor.Decode(&item); err != nil {
				zap.S().Errorw("Error decoding data", "collection", r.CollectionName, "error", err)
				yield(item, err)
				return
			}
			if !yield(item, nil) {
				return
			}
		}

		if err := cursor.Err(); err != nil {
			var zero K
			yield(zero, err)
		}
	}, nil
}

func (r *BaseRepository[K]) Find(ctx context.Context, filter bson.M) (*K, error) {
	var result K

	query := make(bson.M, len(filter))
	for key, value := range filter {
		query[key] = value
	}

	if idStr, ok := query["_id"].(string); ok {
		objectID, err := toObjectID(idStr)
		if err != nil {
			return nil, err
		}
		query["_id"] = objectID
	}

	coll := r.Database.Collection(r.CollectionName)
	err := coll.FindOne(ctx, query).Decode(&result)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			zap.S().Errorw("Error finding data", "collection", r.CollectionName, "error", err)
		}
		return nil, err
	}

	return &result, nil
}

func (r *BaseRepository[K]) Insert(ctx context.Context, obj K) (interface{}, error) {
	coll := r.Database.Collection(r.CollectionName)
	result, err := coll.InsertOne(ctx, obj)
	if err != nil {
		zap.S().Errorw("Error inserting data", "collection", r.CollectionName, "error", err)
		return nil, err
	}

	return result.InsertedID, nil
}

// ReplaceOne swaps the whole document stored under id for obj.
// With upsert set, a missing document is inserted instead.
func (r *BaseRepository[K]) ReplaceOne(ctx context.Context, obj K, id string, upsert bool) (*mongo.UpdateResult, error) {
	coll := r.Database.Collection(r.CollectionName)

	objectId, err := toObjectID(id)
	if err != nil {
		return nil, err
	}

	opts := options.Replace().SetUpsert(upsert)
	result, err := coll.ReplaceOne(ctx, bson.M{"_id": objectId}, obj, opts)
	if err != nil {
		zap.S().Errorw("Error replacing data", "collection", r.CollectionName, "id", id, "error", err)
	}

	return result, err
}

func (r *BaseRepository[K]) DeleteOne(ctx context.Context, id string) (K, error) {
	coll := r.Database.Collection(r.CollectionName)
	var result K

	objectId, err := toObjectID(id)
	if err != nil {
		return result, err
	}

	err = coll.FindOneAndDelete(ctx, bson.M{"_id": objectId}).Decode(&result)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		zap.S().Errorw("Error deleting data", "collection", r.CollectionName, "id", id, "error", err)
	}
	return result, err
}

func (r *BaseRepository[K]) DeleteAll(ctx context.Context) (int64, error) {
	coll := r.Database.Collection(r.CollectionName)
	result, err := coll.DeleteMany(ctx, bson.D{})
	if err != nil {
		zap.S().Errorw("Error deleting all data", "collection", r.CollectionName, "error", err)
		return 0, err
	}

	return result.DeletedCount, nil
}

func (r *BaseRepository[K]) Count(ctx context.Context, filter bson.M) (int64, error) {
	coll := r.Database.Collection(r.CollectionName)
	count, err := coll.CountDocuments(ctx, orEmpty(filter))
	if err != nil {
		zap.S().Errorw("Error counting data", "collection", r.CollectionName, "error", err)
	}
	return count, err
}

func toObjectID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidObjectID, id)
	}
	return objectID, nil
}

func orEmpty(filter bson.M) bson.M {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

func findOptions(sort bson.D) *options.FindOptionsBuilder {
	opts := options.Find()
	if len(sort) > 0 {
		opts.SetSort(sort)
	}
	return opts
}
