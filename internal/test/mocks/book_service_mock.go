package mocks

import (
	"context"
	"iter"

	"bookrepository/internal/book"
	"bookrepository/pkg/model"

	"github.com/stretchr/testify/mock"
)

type MockBookService struct{ mock.Mock }

func (m *MockBookService) List(ctx context.Context, sortField string) ([]model.Book, error) {
	args := m.Called(ctx, sortField)
	if v, ok := args.Get(0).([]model.Book); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

// StreamList replays the registered books. A third return value, when set,
// is yielded as a failure after them.
func (m *MockBookService) StreamList(ctx context.Context, sortField string) (iter.Seq2[model.Book, error], error) {
	args := m.Called(ctx, sortField)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	books, _ := args.Get(0).([]model.Book)
	var failure error
	if len(args) > 2 {
		failure = args.Error(2)
	}

	return func(yield func(model.Book, error) bool) {
		for _, b := range books {
			if !yield(b, nil) {
				return
			}
		}
		if failure != nil {
			yield(model.Book{}, failure)
		}
	}, nil
}

func (m *MockBookService) Create(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	if v, ok := args.Get(0).(model.Book); ok {
		return v, args.Error(1)
	}
	return model.Book{}, args.Error(1)
}

func (m *MockBookService) Update(ctx context.Context, b model.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookService) Upsert(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	if v, ok := args.Get(0).(model.Book); ok {
		return v, args.Error(1)
	}
	return model.Book{}, args.Error(1)
}

func (m *MockBookService) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookService) Get(ctx context.Context, id string) (*model.Book, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.Book); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookService) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	args := m.Called(ctx, author)
	if v, ok := args.Get(0).([]model.Book); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookService) SearchOne(ctx context.Context, params book.SearchParams) (*model.Book, error) {
	args := m.Called(ctx, params)
	if v, ok := args.Get(0).(*model.Book); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookService) SearchOneNamed(ctx context.Context, params book.SearchParams) (*model.Book, error) {
	args := m.Called(ctx, params)
	if v, ok := args.Get(0).(*model.Book); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBookService) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(int64); ok {
		return v, args.Error(1)
	}
	return 0, args.Error(1)
}

func (m *MockBookService) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	if v, ok := args.Get(0).(int64); ok {
		return v, args.Error(1)
	}
	return 0, args.Error(1)
}
