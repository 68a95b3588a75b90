package service

import (
	"github.com/go-playground/validator/v10"
)

type ValidationService[K any] struct {
	validator *validator.Validate
}

func NewValidationService[K any]() *ValidationService[K] {
	return &ValidationService[K]{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (v *ValidationService[K]) Validate(entity K) error {
	return v.validator.Struct(entity)
}
