package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/domain"
	ordersports "github.com/AhmetSulu/online-shopping-api/internal/domains/orders/ports"
)

// OrderLine is the transport-layer shape of one order line.
type OrderLine struct {
	ProductID int64           `json:"productId" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Total     decimal.Decimal `json:"total"`
}

// OrderView is the read shape returned by the order endpoints.
type OrderView struct {
	ID          int64           `json:"id"`
	CustomerID  int64           `json:"customerId"`
	OrderDate   time.Time       `json:"orderDate"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Lines       []OrderLine     `json:"lines"`
}

// CreateOrderRequest is the payload accepted by POST /orders.
type CreateOrderRequest struct {
	CustomerID int64       `json:"customerId" binding:"required"`
	Lines      []OrderLine `json:"lines" binding:"required"`
}

// UpdateOrderRequest is the payload accepted by PUT /orders/:id.
type UpdateOrderRequest struct {
	OrderDate time.Time   `json:"orderDate"`
	Lines     []OrderLine `json:"lines" binding:"required"`
}

// OrderResult reports the outcome of a write, mirroring the message the
// service produced.
type OrderResult struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	OrderID   int64  `json:"orderId,omitempty"`
}

// ToCreateInput converts a create payload into the service input. Prices on
// incoming lines are ignored; the ledger snapshots them at reservation time.
func ToCreateInput(payload CreateOrderRequest) ordersports.CreateOrderInput {
	return ordersports.CreateOrderInput{
		CustomerID: payload.CustomerID,
		Lines:      toLineRequests(payload.Lines),
	}
}

// ToUpdateInput converts an update payload into the service input.
func ToUpdateInput(orderID int64, payload UpdateOrderRequest) ordersports.UpdateOrderInput {
	return ordersports.UpdateOrderInput{
		OrderID:   orderID,
		OrderDate: payload.OrderDate,
		Lines:     toLineRequests(payload.Lines),
	}
}

func toLineRequests(lines []OrderLine) []ordersports.LineRequest {
	out := make([]ordersports.LineRequest, 0, len(lines))
	for _, line := range lines {
		out = append(out, ordersports.LineRequest{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	return out
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) OrderView {
	if order == nil {
		return OrderView{}
	}
	lines := make([]OrderLine, 0, len(order.Lines))
	for _, line := range order.Lines {
		lines = append(lines, OrderLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Total:     line.Total(),
		})
	}
	return OrderView{
		ID:          order.ID,
		CustomerID:  order.CustomerID,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		Lines:       lines,
	}
}

// FromDomainOrders maps a list of domain orders.
func FromDomainOrders(orders []*ordersdomain.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for _, order := range orders {
		out = append(out, FromDomainOrder(order))
	}
	return out
}
