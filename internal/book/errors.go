package book

import (
	"context"
	"errors"
	"fmt"

	"bookrepository/pkg/repository"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

var (
	ErrNotFound         = errors.New("book not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("book already exists")
	ErrStoreUnavailable = errors.New("book store unavailable")
)

func invalidInput(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// classify maps repository and driver errors onto the service's error kinds.
func classify(operation string, err error) error {
	var validationErrs validator.ValidationErrors

	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case errors.Is(err, repository.ErrInvalidObjectID):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case errors.As(err, &validationErrs):
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	case mongo.IsDuplicateKeyError(err):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		storeErrors.WithLabelValues(operation).Inc()
		return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, operation, err)
	}
}
