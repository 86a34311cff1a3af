package domain

import (
	"errors"
	"fmt"
)

// Sentinels for the expected business outcomes of order operations. The typed
// errors below unwrap to these so callers can branch with errors.Is without
// inspecting fields.
var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// ProductNotFoundError reports a requested line against an unknown product.
type ProductNotFoundError struct {
	ProductID int64
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product with ID %d not found", e.ProductID)
}

func (e *ProductNotFoundError) Unwrap() error { return ErrProductNotFound }

// InsufficientStockError reports a reservation that exceeds available stock.
type InsufficientStockError struct {
	ProductID int64
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for product ID %d", e.ProductID)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
