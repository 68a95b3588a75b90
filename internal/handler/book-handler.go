package handler

import (
	"context"
	"errors"
	"iter"
	"net/http"

	"bookrepository/internal/book"
	"bookrepository/pkg/model"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const basePath = "/books/repository"

type BookService interface {
	List(ctx context.Context, sortField string) ([]model.Book, error)
	StreamList(ctx context.Context, sortField string) (iter.Seq2[model.Book, error], error)
	Create(ctx context.Context, book model.Book) (model.Book, error)
	Update(ctx context.Context, book model.Book) error
	Upsert(ctx context.Context, book model.Book) (model.Book, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*model.Book, error)
	FindByAuthor(ctx context.Context, author string) ([]model.Book, error)
	SearchOne(ctx context.Context, params book.SearchParams) (*model.Book, error)
	SearchOneNamed(ctx context.Context, params book.SearchParams) (*model.Book, error)
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type BookHandler struct {
	service BookService
}

func NewBookHandler(service BookService) *BookHandler {
	return &BookHandler{service: service}
}

func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.service.List(c.Request.Context(), c.Query("sort"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

// StreamBooks writes one server-sent event per book and ends the response
// after the last one.
func (h *BookHandler) StreamBooks(c *gin.Context) {
	ctx := c.Request.Context()
	books, err := h.service.StreamList(ctx, c.Query("sort"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Type", sse.ContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	sent := 0
	for b, err := range books {
		if err != nil {
			if errors.Is(err, context.Canceled) {
				zap.S().Debugw("Client left the book stream", "sent", sent)
				return
			}
			zap.S().Errorw("Error streaming books", "sent", sent, "error", err)
			c.Render(-1, sse.Event{Event: "error", Data: err.Error()})
			c.Writer.Flush()
			return
		}

		c.Render(-1, sse.Event{Data: b})
		c.Writer.Flush()
		sent++
	}
}

func (h *BookHandler) CreateBook(c *gin.Context) {
	var b model.Book
	if err := c.ShouldBindJSON(&b); err != nil {
		AbortWithError(c, invalidBody(err))
		return
	}

	created, err := h.service.Create(c.Request.Context(), b)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Location", basePath+"/"+created.Id.Hex())
	c.Status(http.StatusCreated)
}

func (h *BookHandler) UpdateBook(c *gin.Context) {
	var b model.Book
	if err := c.ShouldBindJSON(&b); err != nil {
		AbortWithError(c, invalidBody(err))
		return
	}

	if err := h.service.Update(c.Request.Context(), b); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *BookHandler) UpsertBook(c *gin.Context) {
	var b model.Book
	if err := c.ShouldBindJSON(&b); err != nil {
		AbortWithError(c, invalidBody(err))
		return
	}

	if _, err := h.service.Upsert(c.Request.Context(), b); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) GetBookById(c *gin.Context) {
	b, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookHandler) FindByAuthor(c *gin.Context) {
	books, err := h.service.FindByAuthor(c.Request.Context(), c.Param("author"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *BookHandler) SearchBook(c *gin.Context) {
	b, err := h.service.SearchOne(c.Request.Context(), ParseSearchParams(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookHandler) SearchBookNamed(c *gin.Context) {
	b, err := h.service.SearchOneNamed(c.Request.Context(), ParseSearchParams(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

func (h *BookHandler) DeleteAllBooks(c *gin.Context) {
	if _, err := h.service.DeleteAll(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BookHandler) CountBooks(c *gin.Context) {
	count, err := h.service.Count(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.CountResponse{Count: count})
}
