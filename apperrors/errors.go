// Package apperrors holds the error taxonomy shared by services and controllers.
package apperrors

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound: the referenced row does not exist or is outside the caller's scope.
	ErrNotFound = errors.New("not found")
	// ErrInvalidRequest: a business rule rejected the request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnavailable: persistence failed; the operation was rolled back.
	ErrUnavailable = errors.New("unavailable")
)

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// StockError reports a line item that cannot be served from current stock.
type StockError struct {
	ProductID   uint
	ProductName string
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %q (id %d): available %d, requested %d",
		e.ProductName, e.ProductID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInvalidRequest }

// Classify maps an arbitrary error onto the taxonomy. Already classified errors are
// returned untouched, gorm.ErrRecordNotFound becomes ErrNotFound and everything else
// is treated as a persistence failure.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnavailable):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	default:
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
}
