package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

// Category groups products for storefront navigation.
type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryClothing    Category = "clothing"
	CategoryHome        Category = "home"
	CategoryBooks       Category = "books"
	CategoryOther       Category = "other"
)

var (
	ErrEmptyName       = errors.New("product name is required")
	ErrNegativePrice   = errors.New("product price must not be negative")
	ErrNegativeStock   = errors.New("stock quantity must not be negative")
	ErrInvalidCategory = errors.New("product category is invalid")
)

// Product models a catalog item. Stock is only mutated through the inventory
// ledger in the orders context; the catalog mutates it solely via SetStock
// (absolute restock by an operator).
type Product struct {
	ID            int64
	Name          string
	Description   string
	Price         decimal.Decimal
	StockQuantity int
	Category      Category
	ImageURLs     []string
	Audit         audit.Envelope
}

// NewProduct validates and constructs a product aggregate.
func NewProduct(id int64, name string, price decimal.Decimal, stock int) (*Product, error) {
	p := &Product{ID: id, Category: CategoryOther}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	if err := p.SetStock(stock); err != nil {
		return nil, err
	}
	return p, nil
}

// Rename trims and validates the product name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// SetPrice enforces the non-negative price invariant.
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// SetStock replaces the stock quantity with an absolute value.
func (p *Product) SetStock(quantity int) error {
	if quantity < 0 {
		return ErrNegativeStock
	}
	p.StockQuantity = quantity
	return nil
}

// UpdateCategory sets a known category, defaulting to "other" on empty input.
func (p *Product) UpdateCategory(category Category) error {
	if category == "" {
		category = CategoryOther
	}
	if !isValidCategory(category) {
		return ErrInvalidCategory
	}
	p.Category = category
	return nil
}

// Validate re-applies core invariants for persistence.
func (p *Product) Validate() error {
	if err := p.Rename(p.Name); err != nil {
		return err
	}
	if err := p.SetPrice(p.Price); err != nil {
		return err
	}
	if err := p.SetStock(p.StockQuantity); err != nil {
		return err
	}
	return p.UpdateCategory(p.Category)
}

func isValidCategory(category Category) bool {
	switch category {
	case CategoryElectronics, CategoryClothing, CategoryHome, CategoryBooks, CategoryOther:
		return true
	default:
		return false
	}
}
