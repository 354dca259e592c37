package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

// ParseOrderStatus maps a raw string onto one of the three statuses the
// orders.status column allows.
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusCompleted, OrderStatusCanceled:
		return OrderStatus(s), nil
	}
	return "", ErrInvalidStatus
}

// CanTransitionTo reports whether an order may move from s to next.
// Only pending orders move; completed and canceled are terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s != OrderStatusPending {
		return false
	}
	return next == OrderStatusCompleted || next == OrderStatusCanceled
}

type Order struct {
	ID          int64
	UserID      int64
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	Status      OrderStatus
	Items       []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal // product price captured at order time
}

// ComputeTotal sums quantity * unit_price over the order's items.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
