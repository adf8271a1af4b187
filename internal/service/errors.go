package service

import (
	"errors"
	"fmt"

	"github.com/alexivanou/tourbook-api/internal/pricing"
	"github.com/alexivanou/tourbook-api/internal/repository"
	"github.com/alexivanou/tourbook-api/internal/storage"
)

var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = repository.ErrConflict
	ErrGridMismatch      = pricing.ErrGridMismatch
	ErrUnresolvablePrice = pricing.ErrUnresolvablePrice
	ErrInvalidStatus     = errors.New("invalid reservation status")
)

// Error kinds reported to API clients
const (
	KindValidation        = "validation"
	KindNotFound          = "not_found"
	KindConflict          = "conflict"
	KindGridMismatch      = "grid_mismatch"
	KindUnresolvablePrice = "unresolvable_price"
	KindInvalidStatus     = "invalid_status"
	KindInternal          = "internal"
)

// ErrorKind classifies err into one of the reported kinds
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, ErrInvalidStatus):
		return KindInvalidStatus
	case errors.Is(err, ErrValidation),
		errors.Is(err, pricing.ErrInvalidInput),
		errors.Is(err, repository.ErrInvalidReference),
		errors.Is(err, storage.ErrEmptyImage),
		errors.Is(err, storage.ErrUnsupportedImage):
		return KindValidation
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrConflict):
		return KindConflict
	case errors.Is(err, ErrGridMismatch):
		return KindGridMismatch
	case errors.Is(err, ErrUnresolvablePrice):
		return KindUnresolvablePrice
	}
	return KindInternal
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func notFound(what string, id interface{}) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, what, id)
}
