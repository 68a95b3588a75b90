package mocks

import (
	"context"
	"iter"

	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Mock repository for testing
type MockRepository[K any] struct {
	mock.Mock
}

func (m *MockRepository[K]) Namespace() (string, string) {
	return "library_test", "book"
}

func (m *MockRepository[K]) GetAll(ctx context.Context, filter bson.M, sort bson.D) ([]K, error) {
	args := m.Called(ctx, filter, sort)
	if v, ok := args.Get(0).([]K); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// Stream replays the slice registered for the call as a sequence.
func (m *MockRepository[K]) Stream(ctx context.Context, filter bson.M, sort bson.D) (iter.Seq2[K, error], error) {
	args := m.Called(ctx, filter, sort)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	items, _ := args.Get(0).([]K)
	return func(yield func(K, error) bool) {
		for _, item := range items {
			if !yield(item, nil) {
				return
			}
		}
	}, nil
}

func (m *MockRepository[K]) Find(ctx context.Context, filter bson.M) (*K, error) {
	args := m.Called(ctx, filter)
	if v, ok := args.Get(0).(*K); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository[K]) Insert(ctx context.Context, entity K) (interface{}, error) {
	args := m.Called(ctx, entity)
	return args.Get(0), args.Error(1)
}

func (m *MockRepository[K]) ReplaceOne(ctx context.Context, entity K, id string, upsert bool) (*mongo.UpdateResult, error) {
	args := m.Called(ctx, entity, id, upsert)
	if v, ok := args.Get(0).(*mongo.UpdateResult); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockRepository[K]) DeleteOne(ctx context.Context, id string) (K, error) {
	args := m.Called(ctx, id)
	var zero K
	if v, ok := args.Get(0).(K); ok {
		return v, args.Error(1)
	}
	return zero, args.Error(1)
}

func (m *MockRepository[K]) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRepository[K]) Count(ctx context.Context, filter bson.M) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Mock validation service for testing
type MockValidationService[K any] struct {
	mock.Mock
}

func (m *MockValidationService[K]) Validate(entity K) error {
	args := m.Called(entity)
	return args.Error(0)
}
