// Package apperr holds the error taxonomy shared by services and handlers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrValidation        = errors.New("validation")         // 400
	ErrNotFound          = errors.New("not found")          // 404
	ErrUnauthenticated   = errors.New("unauthenticated")    // 401
	ErrConflict          = errors.New("conflict")           // 400 on register
	ErrEmptyCart         = errors.New("cart is empty")      // 400
	ErrInsufficientStock = errors.New("insufficient stock") // 400
	ErrCheckoutFailed    = errors.New("checkout failed")    // 500
)

// StockError names the product whose stock could not cover a request.
// errors.Is(err, ErrInsufficientStock) matches it.
type StockError struct {
	ProductID uint
	Requested uint
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *StockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
