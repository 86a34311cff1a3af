package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AhmetSulu/online-shopping-api/internal/shared/audit"
)

var (
	ErrInvalidCustomerID = errors.New("customer id must be greater than zero")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrEmptyOrder        = errors.New("order must contain at least one line")
)

// OrderLine is one (order, product) position. Identity is the composite
// (OrderID, ProductID); there is no surrogate key. UnitPrice is the price
// snapshot captured when the line was reserved and is unaffected by later
// catalog price changes.
type OrderLine struct {
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Total is the derived line amount.
func (l OrderLine) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order models the order aggregate: header plus its ordered line collection.
// TotalAmount always equals the sum of line totals; ReplaceLines is the only
// way to change the collection so the invariant cannot drift.
type Order struct {
	ID          int64
	CustomerID  int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Lines       []OrderLine
	Audit       audit.Envelope
}

// NewOrder constructs an order aggregate with its lines and derived total.
func NewOrder(customerID int64, orderDate time.Time, lines []OrderLine) (*Order, error) {
	order := &Order{CustomerID: customerID, OrderDate: orderDate}
	if err := order.ReplaceLines(lines); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// ReplaceLines swaps the full line collection and recomputes the total.
// Orders are replaced wholesale on update; lines are never merged.
func (o *Order) ReplaceLines(lines []OrderLine) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	o.Lines = append([]OrderLine(nil), lines...)
	for i := range o.Lines {
		o.Lines[i].OrderID = o.ID
	}
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Total())
	}
	o.TotalAmount = total
	return nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if len(o.Lines) == 0 {
		return ErrEmptyOrder
	}
	for _, line := range o.Lines {
		if line.Quantity <= 0 {
			return ErrInvalidQuantity
		}
	}
	return nil
}
