package service

import (
	"context"
	"iter"

	interfaces "bookrepository/pkg/interface"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"
)

// BaseService validates entities before they reach the repository and
// passes everything else straight through.
type BaseService[K any] struct {
	Repo      interfaces.RepositoryInterface[K]
	Validator interfaces.ValidatorInterface[K]
}

func NewBaseService[K any](repository interfaces.RepositoryInterface[K]) *BaseService[K] {
	return &BaseService[K]{
		Repo:      repository,
		Validator: NewValidationService[K](),
	}
}

func (s *BaseService[K]) List(ctx context.Context, filter bson.M, sort bson.D) ([]K, error) {
	return s.Repo.GetAll(ctx, filter, sort)
}

func (s *BaseService[K]) Stream(ctx context.Context, filter bson.M, sort bson.D) (iter.Seq2[K, error], error) {
	return s.Repo.Stream(ctx, filter, sort)
}

func (s *BaseService[K]) FindById(ctx context.Context, id string) (*K, error) {
	return s.Repo.Find(ctx, bson.M{"_id": id})
}

func (s *BaseService[K]) Find(ctx context.Context, filter bson.M) (*K, error) {
	return s.Repo.Find(ctx, filter)
}

func (s *BaseService[K]) Create(ctx context.Context, entity K) error {
	if err := s.Validator.Validate(entity); err != nil {
		zap.S().Debugw("Error validating data", "error", err)
		return err
	}

	_, err := s.Repo.Insert(ctx, entity)
	return err
}

func (s *BaseService[K]) Replace(ctx context.Context, entity K, id string, upsert bool) (*mongo.UpdateResult, error) {
	if err := s.Validator.Validate(entity); err != nil {
		zap.S().Debugw("Error validating data", "error", err)
		return nil, err
	}

	return s.Repo.ReplaceOne(ctx, entity, id, upsert)
}

func (s *BaseService[K]) Delete(ctx context.Context, id string) (K, error) {
	return s.Repo.DeleteOne(ctx, id)
}

func (s *BaseService[K]) DeleteAll(ctx context.Context) (int64, error) {
	return s.Repo.DeleteAll(ctx)
}

func (s *BaseService[K]) Count(ctx context.Context, filter bson.M) (int64, error) {
	return s.Repo.Count(ctx, filter)
}
