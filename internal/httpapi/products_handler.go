package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	producthttpmapper "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/adapters/http/mapper"
	catalogports "github.com/AhmetSulu/online-shopping-api/internal/domains/catalog/ports"
)

// ProductAPI wires HTTP transport with the catalog bounded context service.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI creates a ProductAPI backed by the provided service.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Post /api/v1/products
// Add a new product to the catalog
func (api *ProductAPI) AddProduct(c *gin.Context) {
	var payload producthttpmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := producthttpmapper.ToDomainProduct(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	saved, err := api.service.AddProduct(c.Request.Context(), product)
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, producthttpmapper.FromDomainProduct(saved))
}

// Put /api/v1/products/:productId
// Update an existing product
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload producthttpmapper.Product
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	payload.ID = id
	product, err := producthttpmapper.ToDomainProduct(payload)
	if err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateProduct(c.Request.Context(), product)
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(updated))
}

// Patch /api/v1/products/:productId/stock
// Set the absolute stock level of a product
func (api *ProductAPI) UpdateStock(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	var payload struct {
		StockQuantity int `json:"stockQuantity"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	updated, err := api.service.UpdateStock(c.Request.Context(), id, payload.StockQuantity)
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(updated))
}

// Get /api/v1/products/:productId
// Find product by ID
func (api *ProductAPI) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	product, err := api.service.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProduct(product))
}

// Get /api/v1/products
// List all visible products
func (api *ProductAPI) GetAllProducts(c *gin.Context) {
	products, err := api.service.GetAllProducts(c.Request.Context())
	if err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, producthttpmapper.FromDomainProducts(products))
}

// Delete /api/v1/products/:productId
// Soft-delete a product
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "productId")
	if !ok {
		return
	}
	if err := api.service.DeleteProduct(c.Request.Context(), id); err != nil {
		respondCatalogServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
