package handler_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bookrepository/internal/book"
	"bookrepository/internal/handler"
	"bookrepository/internal/test/mocks"
	"bookrepository/pkg/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(svc handler.BookService) *gin.Engine {
	h := handler.NewBookHandler(svc)
	router := gin.New()
	router.Use(handler.RequestIDMiddleware())

	books := router.Group("/books/repository")
	books.GET("", h.ListBooks)
	books.POST("", h.CreateBook)
	books.PUT("", h.UpdateBook)
	books.PATCH("", h.UpsertBook)
	books.DELETE("", h.DeleteAllBooks)
	books.GET("/stream", h.StreamBooks)
	books.GET("/count", h.CountBooks)
	books.GET("/search", h.SearchBook)
	books.GET("/search2", h.SearchBookNamed)
	books.GET("/search/:author", h.FindByAuthor)
	books.GET("/:id", h.GetBookById)
	books.DELETE("/:id", h.DeleteBook)
	return router
}

func serve(router *gin.Engine, method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func hobbit() model.Book {
	b := model.NewBook("J.R.R. Tolkien", "The Hobbit", time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC))
	b.Id, _ = bson.ObjectIDFromHex("65a1f0c2e4b0a1b2c3d4e5f6")
	return b
}

func ptr(s string) *string { return &s }

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) model.HttpResponse {
	t.Helper()
	var resp model.HttpResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestListBooks(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("List", mock.Anything, "author").Return([]model.Book{hobbit()}, nil).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository?sort=author", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"id":"65a1f0c2e4b0a1b2c3d4e5f6","author":"J.R.R. Tolkien","title":"The Hobbit","creationDate":"1937-09-21"}]`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(handler.RequestIDHeader))
}

func TestListBooks_Empty(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("List", mock.Anything, "").Return([]model.Book{}, nil).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", book.ErrNotFound, http.StatusNotFound},
		{"invalid input", fmt.Errorf("%w: sort field", book.ErrInvalidInput), http.StatusBadRequest},
		{"conflict", fmt.Errorf("%w: duplicate", book.ErrConflict), http.StatusConflict},
		{"store unavailable", fmt.Errorf("%w: list: timeout", book.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mocks.MockBookService{}
			svc.On("List", mock.Anything, "").Return(nil, tt.err).Once()

			w := serve(newRouter(svc), http.MethodGet, "/books/repository", "")

			assert.Equal(t, tt.status, w.Code)
			resp := decodeEnvelope(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, tt.status, resp.Code)
			assert.Equal(t, tt.err.Error(), resp.Message)
			assert.Empty(t, resp.Data)
		})
	}
}

func TestStreamBooks(t *testing.T) {
	svc := &mocks.MockBookService{}
	carroll := model.NewBook("Lewis Carroll", "Alice in Wonderland", time.Date(1865, 11, 26, 0, 0, 0, 0, time.UTC))
	svc.On("StreamList", mock.Anything, "author").Return([]model.Book{hobbit(), carroll}, nil).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository/stream?sort=author", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	var titles []string
	scanner := bufio.NewScanner(w.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		var b model.Book
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data:")), &b))
		titles = append(titles, b.Title)
	}
	assert.Equal(t, []string{"The Hobbit", "Alice in Wonderland"}, titles)
}

func TestStreamBooks_EmptyCollection(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("StreamList", mock.Anything, "").Return([]model.Book{}, nil).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository/stream", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "data:")
}

func TestStreamBooks_FailureMidStream(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("StreamList", mock.Anything, "").
		Return([]model.Book{hobbit()}, nil, fmt.Errorf("%w: stream: cursor killed", book.ErrStoreUnavailable)).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository/stream", "")

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "The Hobbit")
	assert.Contains(t, body, "event:error")
	assert.Contains(t, body, "cursor killed")
}

func TestStreamBooks_OpenFailure(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("StreamList", mock.Anything, "").Return(nil, fmt.Errorf("%w: stream: no primary", book.ErrStoreUnavailable)).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository/stream", "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, http.StatusServiceUnavailable, decodeEnvelope(t, w).Code)
}

func TestCreateBook(t *testing.T) {
	svc := &mocks.MockBookService{}
	input := model.NewBook("J.R.R. Tolkien", "The Hobbit", time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC))
	svc.On("Create", mock.Anything, input).Return(hobbit(), nil).Once()

	w := serve(newRouter(svc), http.MethodPost, "/books/repository",
		`{"author":"J.R.R. Tolkien","title":"The Hobbit","creationDate":"1937-09-21"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "/books/repository/65a1f0c2e4b0a1b2c3d4e5f6", w.Header().Get("Location"))
	svc.AssertExpectations(t)
}

func TestCreateBook_MalformedBody(t *testing.T) {
	tests := map[string]string{
		"not json": `{"author":`,
		"bad date": `{"author":"a","title":"t","creationDate":"21.09.1937"}`,
		"bad id":    `{"id":"42","author":"a","title":"t"}`,
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			svc := &mocks.MockBookService{}

			w := serve(newRouter(svc), http.MethodPost, "/books/repository", body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateBook(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("Update", mock.Anything, hobbit()).Return(nil).Once()

	w := serve(newRouter(svc), http.MethodPut, "/books/repository",
		`{"id":"65a1f0c2e4b0a1b2c3d4e5f6","author":"J.R.R. Tolkien","title":"The Hobbit","creationDate":"1937-09-21"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	svc.AssertExpectations(t)
}

func TestUpdateBook_Unknown(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("Update", mock.Anything, mock.Anything).Return(book.ErrNotFound).Once()

	w := serve(newRouter(svc), http.MethodPut, "/books/repository",
		`{"id":"65a1f0c2e4b0a1b2c3d4e5f6","author":"J.R.R. Tolkien","title":"The Hobbit"}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpsertBook(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("Upsert", mock.Anything, mock.AnythingOfType("model.Book")).Return(hobbit(), nil).Once()

	w := serve(newRouter(svc), http.MethodPatch, "/books/repository",
		`{"author":"J.R.R. Tolkien","title":"The Hobbit"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteBook(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("Delete", mock.Anything, "65a1f0c2e4b0a1b2c3d4e5f6").Return(nil).Once()
	svc.On("Delete", mock.Anything, "65a1f0c2e4b0a1b2c3d4e5f7").Return(book.ErrNotFound).Once()

	router := newRouter(svc)

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodDelete, "/books/repository/65a1f0c2e4b0a1b2c3d4e5f6", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodDelete, "/books/repository/65a1f0c2e4b0a1b2c3d4e5f7", "").Code)
}

func TestGetBookById(t *testing.T) {
	svc := &mocks.MockBookService{}
	b := hobbit()
	svc.On("Get", mock.Anything, b.Id.Hex()).Return(&b, nil).Once()
	svc.On("Get", mock.Anything, "nope").Return(nil, fmt.Errorf("%w: book id %q", book.ErrInvalidInput, "nope")).Once()

	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/books/repository/"+b.Id.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	var got model.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, b, got)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/books/repository/nope", "").Code)
}

func TestFindByAuthor(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("FindByAuthor", mock.Anything, "Lewis Carroll").Return([]model.Book{
		model.NewBook("Lewis Carroll", "Alice in Wonderland", time.Time{}),
	}, nil).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository/search/Lewis%20Carroll", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"author":"Lewis Carroll","title":"Alice in Wonderland"}]`, w.Body.String())
}

func TestSearchBook(t *testing.T) {
	svc := &mocks.MockBookService{}
	b := hobbit()
	svc.On("SearchOne", mock.Anything, book.SearchParams{Author: ptr("J.R.R. Tolkien"), Title: ptr("The Hobbit")}).Return(&b, nil).Once()
	svc.On("SearchOneNamed", mock.Anything, book.SearchParams{Author: ptr("")}).Return(nil, book.ErrNotFound).Once()
	svc.On("SearchOne", mock.Anything, book.SearchParams{DateFrom: ptr("1930-01-01")}).
		Return(nil, fmt.Errorf("%w: dateFrom and dateTo are required", book.ErrInvalidInput)).Once()

	router := newRouter(svc)

	w := serve(router, http.MethodGet, "/books/repository/search?author=J.R.R.%20Tolkien&title=The%20Hobbit", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(router, http.MethodGet, "/books/repository/search2?author=", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, http.MethodGet, "/books/repository/search?dateFrom=1930-01-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	svc.AssertExpectations(t)
}

func TestDeleteAllBooks(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("DeleteAll", mock.Anything).Return(int64(3), nil).Once()

	w := serve(newRouter(svc), http.MethodDelete, "/books/repository", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCountBooks(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("Count", mock.Anything).Return(int64(4), nil).Once()

	w := serve(newRouter(svc), http.MethodGet, "/books/repository/count", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":4}`, w.Body.String())
}

func TestRequestIDIsEchoed(t *testing.T) {
	svc := &mocks.MockBookService{}
	svc.On("Count", mock.Anything).Return(int64(0), nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/books/repository/count", nil)
	req.Header.Set(handler.RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(handler.RequestIDHeader))
}
