package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderEventType string

const (
	OrderEventCreated       OrderEventType = "order.created"
	OrderEventStatusChanged OrderEventType = "order.status_changed"
)

// OrderEvent describes an order lifecycle change handed to the async
// publisher workers. The struct doubles as the broker payload.
type OrderEvent struct {
	Type        OrderEventType  `json:"type"`
	OrderID     int64           `json:"order_id"`
	UserID      int64           `json:"user_id"`
	Status      OrderStatus     `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
