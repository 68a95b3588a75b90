package handler

import (
	"errors"
	"fmt"
	"net/http"

	"bookrepository/internal/book"
	"bookrepository/pkg/model"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ParseSearchParams reads the search query. A key that is present with an
// empty value still counts as supplied.
func ParseSearchParams(c *gin.Context) book.SearchParams {
	return book.SearchParams{
		Author:   queryPtr(c, "author"),
		Title:    queryPtr(c, "title"),
		DateFrom: queryPtr(c, "dateFrom"),
		DateTo:   queryPtr(c, "dateTo"),
	}
}

func queryPtr(c *gin.Context, key string) *string {
	if value, ok := c.GetQuery(key); ok {
		return &value
	}
	return nil
}

func BuildHttpResponse(success bool, code int, message string, data []interface{}) model.HttpResponse {
	return model.HttpResponse{
		Success: success,
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// StatusFor maps a service error onto its HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, book.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, book.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, book.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, book.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the error envelope and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	code := StatusFor(err)
	if code >= http.StatusInternalServerError {
		zap.S().Errorw("Request failed", "path", c.FullPath(), "request_id", RequestID(c), "error", err)
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(code, BuildHttpResponse(false, code, err.Error(), []interface{}{}))
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: request body: %w", book.ErrInvalidInput, err)
}
