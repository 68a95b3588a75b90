package book

import (
	"context"
	"iter"
	"time"

	interfaces "bookrepository/pkg/interface"
	"bookrepository/pkg/model"
	"bookrepository/pkg/service"
	"bookrepository/pkg/utils"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

const (
	cacheKeyPrefix = "book:"
	// epochKey sits outside the book: prefix so DeleteAll cannot wipe it.
	epochKey = "books:epoch"
)

// BookService exposes CRUD and query operations over the book collection.
// It holds no cross-call state besides the optional cache client.
type BookService struct {
	Service  *service.BaseService[model.Book]
	Cache    *redis.Client
	CacheTTL time.Duration
}

func NewBookService(repository interfaces.RepositoryInterface[model.Book], cache *redis.Client, cacheTTL time.Duration) *BookService {
	database, collection := repository.Namespace()
	zap.S().Infof("Using BookRepository[database=%s, collection=%s]", database, collection)

	return &BookService{
		Service:  service.NewBaseService[model.Book](repository),
		Cache:    cache,
		CacheTTL: cacheTTL,
	}
}

// List returns every book, ascending by sortField when it is not empty.
func (s *BookService) List(ctx context.Context, sortField string) ([]model.Book, error) {
	sort, err := SortAscending(sortField)
	if err != nil {
		return nil, err
	}

	books, err := s.Service.List(ctx, bson.M{}, sort)
	if err != nil {
		return nil, classify("list", err)
	}
	return books, nil
}

// StreamList is List delivered one book at a time. Each call opens a new
// cursor; the returned sequence can be ranged over once.
func (s *BookService) StreamList(ctx context.Context, sortField string) (iter.Seq2[model.Book, error], error) {
	sort, err := SortAscending(sortField)
	if err != nil {
		return nil, err
	}

	seq, err := s.Service.Stream(ctx, bson.M{}, sort)
	if err != nil {
		return nil, classify("stream", err)
	}

	return func(yield func(model.Book, error) bool) {
		for book, err := range seq {
			if err != nil {
				yield(book, classify("stream", err))
				return
			}
			if !yield(book, nil) {
				return
			}
		}
	}, nil
}

// Create persists a book that has no identifier yet and returns it with
// the identifier assigned.
func (s *BookService) Create(ctx context.Context, book model.Book) (model.Book, error) {
	if !book.Id.IsZero() {
		return model.Book{}, invalidInput("a new book must not carry an id")
	}

	book.Id = bson.NewObjectID()
	book.CreationDate = model.TruncateToDate(book.CreationDate)

	if err := s.Service.Create(ctx, book); err != nil {
		return model.Book{}, classify("create", err)
	}
	return book, nil
}

// Update replaces the stored book with the same identifier.
func (s *BookService) Update(ctx context.Context, book model.Book) error {
	if book.Id.IsZero() {
		return invalidInput("an updated book must carry an id")
	}
	book.CreationDate = model.TruncateToDate(book.CreationDate)

	result, err := s.Service.Replace(ctx, book, book.Id.Hex(), false)
	if err != nil {
		return classify("update", err)
	}
	s.invalidate(ctx, book.Id.Hex())

	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts the book when it is new and replaces it otherwise.
func (s *BookService) Upsert(ctx context.Context, book model.Book) (model.Book, error) {
	if book.Id.IsZero() {
		book.Id = bson.NewObjectID()
	}
	book.CreationDate = model.TruncateToDate(book.CreationDate)

	if _, err := s.Service.Replace(ctx, book, book.Id.Hex(), true); err != nil {
		return model.Book{}, classify("upsert", err)
	}
	s.invalidate(ctx, book.Id.Hex())

	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id string) error {
	objectID, err := parseID(id)
	if err != nil {
		return err
	}

	if _, err := s.Service.Delete(ctx, objectID.Hex()); err != nil {
		return classify("delete", err)
	}
	s.invalidate(ctx, objectID.Hex())

	return nil
}

func (s *BookService) Get(ctx context.Context, id string) (*model.Book, error) {
	objectID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	key := cacheKey(objectID.Hex())

	if cached, ok := utils.GetCachedData[model.Book](ctx, s.Cache, key); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return cached, nil
	}
	if s.Cache != nil {
		cacheLookups.WithLabelValues("miss").Inc()
	}

	version, versioned := utils.ReadVersion(ctx, s.Cache, epochKey, versionKey(objectID.Hex()))

	book, err := s.Service.FindById(ctx, objectID.Hex())
	if err != nil {
		return nil, classify("get", err)
	}

	if versioned {
		utils.SetCachedDataIfVersion(ctx, s.Cache, key, *book, s.CacheTTL, version, epochKey, versionKey(objectID.Hex()))
	}
	return book, nil
}

func (s *BookService) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	books, err := s.Service.List(ctx, bson.M{"author": author}, nil)
	if err != nil {
		return nil, classify("find_by_author", err)
	}
	return books, nil
}

// SearchOne returns the first book matching author and title, or, when no
// author is given, the first book inside the date range.
func (s *BookService) SearchOne(ctx context.Context, params SearchParams) (*model.Book, error) {
	filter, err := params.PositionalFilter()
	if err != nil {
		return nil, err
	}
	return s.findFirst(ctx, "search", filter)
}

// SearchOneNamed is SearchOne built from named parameters.
func (s *BookService) SearchOneNamed(ctx context.Context, params SearchParams) (*model.Book, error) {
	filter, err := params.NamedFilter()
	if err != nil {
		return nil, err
	}
	return s.findFirst(ctx, "search_named", filter)
}

func (s *BookService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.Service.DeleteAll(ctx)
	if err != nil {
		return 0, classify("delete_all", err)
	}
	utils.BumpVersion(ctx, s.Cache, epochKey, 0)
	utils.InvalidateCachePattern(ctx, s.Cache, cacheKeyPrefix+"*")

	zap.S().Infow("Deleted all books", "count", deleted)
	return deleted, nil
}

func (s *BookService) Count(ctx context.Context) (int64, error) {
	count, err := s.Service.Count(ctx, bson.M{})
	if err != nil {
		return 0, classify("count", err)
	}
	return count, nil
}

func (s *BookService) findFirst(ctx context.Context, operation string, filter bson.M) (*model.Book, error) {
	book, err := s.Service.Find(ctx, filter)
	if err != nil {
		return nil, classify(operation, err)
	}
	return book, nil
}

// invalidate drops the cached book and advances its version.
func (s *BookService) invalidate(ctx context.Context, id string) {
	utils.BumpVersion(ctx, s.Cache, versionKey(id), 2*s.CacheTTL, cacheKey(id))
}

func parseID(id string) (bson.ObjectID, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, invalidInput("book id %q", id)
	}
	return objectID, nil
}

func cacheKey(id string) string {
	return cacheKeyPrefix + id
}

func versionKey(id string) string {
	return cacheKeyPrefix + id + ":version"
}
