package mapper

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/domain"
)

// Product represents the transport-layer shape used by the HTTP handlers.
type Product struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	Category      string          `json:"category"`
	ImageURLs     []string        `json:"imageUrls,omitempty"`
}

// ToDomainProduct converts a transport product into the catalog domain model.
func ToDomainProduct(payload Product) (*catalogdomain.Product, error) {
	product, err := catalogdomain.NewProduct(payload.ID, payload.Name, payload.Price, payload.StockQuantity)
	if err != nil {
		return nil, err
	}
	product.Description = payload.Description
	product.ImageURLs = append([]string(nil), payload.ImageURLs...)
	if err := product.UpdateCategory(catalogdomain.Category(payload.Category)); err != nil {
		return nil, err
	}
	return product, nil
}

// FromDomainProduct converts a domain product to the transport representation.
func FromDomainProduct(product *catalogdomain.Product) Product {
	if product == nil {
		return Product{}
	}
	return Product{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      string(product.Category),
		ImageURLs:     product.ImageURLs,
	}
}

// FromDomainProducts maps a list of domain products.
func FromDomainProducts(products []*catalogdomain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, product := range products {
		out = append(out, FromDomainProduct(product))
	}
	return out
}
