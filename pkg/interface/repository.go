package interfaces

import (
	"context"
	"iter"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type RepositoryInterface[K any] interface {
	GetAll(ctx context.Context, filter bson.M, sort bson.D) ([]K, error)
	Stream(ctx context.Context, filter bson.M, sort bson.D) (iter.Seq2[K, error], error)
	Find(ctx context.Context, filter bson.M) (*K, error)
	Insert(ctx context.Context, entity K) (interface{}, error)
	ReplaceOne(ctx context.Context, entity K, id string, upsert bool) (*mongo.UpdateResult, error)
	DeleteOne(ctx context.Context, id string) (K, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	Namespace() (database string, collection string)
}
