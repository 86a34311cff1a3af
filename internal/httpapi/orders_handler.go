package httpapi

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/adapters/http/mapper"
	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator) OrderAPI {
	return OrderAPI{service: service, workflows: workflows}
}

// Post /api/v1/orders
// Place a new order
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.placeOrder(c.Request.Context(), orderhttpmapper.ToCreateInput(payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, orderhttpmapper.OrderResult{
		IsSuccess: true,
		Message:   "Order created successfully",
		OrderID:   order.ID,
	})
}

func (api *OrderAPI) placeOrder(ctx context.Context, input ordersports.CreateOrderInput) (*ordersdomain.Order, error) {
	if api.workflows != nil {
		return api.workflows.PlaceOrder(ctx, input)
	}
	return api.service.CreateOrder(ctx, input)
}

// Put /api/v1/orders/:orderId
// Replace an order's date and lines
func (api *OrderAPI) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	var payload orderhttpmapper.UpdateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	order, err := api.service.UpdateOrder(c.Request.Context(), orderhttpmapper.ToUpdateInput(id, payload))
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.OrderResult{
		IsSuccess: true,
		Message:   "Order updated successfully",
		OrderID:   order.ID,
	})
}

// Get /api/v1/orders/:orderId
// Find order by ID
func (api *OrderAPI) GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	order, err := api.service.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrder(order))
}

// Get /api/v1/orders
// List all visible orders
func (api *OrderAPI) GetAllOrders(c *gin.Context) {
	orders, err := api.service.GetAllOrders(c.Request.Context())
	if err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.FromDomainOrders(orders))
}

// Delete /api/v1/orders/:orderId
// Soft-delete an order
func (api *OrderAPI) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "orderId")
	if !ok {
		return
	}
	if err := api.service.DeleteOrder(c.Request.Context(), id); err != nil {
		respondOrderServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, orderhttpmapper.OrderResult{
		IsSuccess: true,
		Message:   "Order deleted successfully",
		OrderID:   id,
	})
}
