package service

import (
	"errors"
	"fmt"
)

// ErrEmptyOrder is returned for an order with no items. No storage
// access has happened when it is returned.
var ErrEmptyOrder = errors.New("no items provided")

// InvalidRequestError is a malformed order line or listing field.
type InvalidRequestError struct {
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return "invalid request: " + e.Reason
}

// NotFoundError is returned when a referenced product does not exist.
type NotFoundError struct {
	ProductID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product not found: %d", e.ProductID)
}

// InsufficientStockError is returned when a product's quantity on hand
// is below the requested quantity. The caller may retry with a reduced
// quantity.
type InsufficientStockError struct {
	ProductName string
	Requested   int
	Available   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested=%d, available=%d",
		e.ProductName, e.Requested, e.Available)
}

// StorageError wraps a failure of the durability layer. The enclosing
// atomic unit has been rolled back, so retrying the whole operation is
// safe.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
