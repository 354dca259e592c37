package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

// OrderItemInput is one requested line of a new order. Unit prices are not
// client-supplied; PlaceOrder captures the current product price.
type OrderItemInput struct {
	ProductID int64
	Quantity  int
}

type OrderService struct {
	orders  port.OrderRepository
	catalog port.CatalogRepository
	cache   port.CacheRepository
	events  chan domain.OrderEvent
}

func NewOrderService(orders port.OrderRepository, catalog port.CatalogRepository, cache port.CacheRepository, queueSize int) *OrderService {
	return &OrderService{
		orders:  orders,
		catalog: catalog,
		cache:   cache,
		events:  make(chan domain.OrderEvent, queueSize),
	}
}

// PlaceOrder creates an order for the user. The requestID makes the call
// idempotent: a second call with the same ID yields ErrDuplicateRequest. If
// placement fails after the idempotency key was taken, the key is released
// so the client may retry.
func (s *OrderService) PlaceOrder(ctx context.Context, requestID string, userID int64, items []OrderItemInput) (*domain.Order, error) {
	if requestID == "" {
		return nil, fmt.Errorf("%w: request id is required", ErrInvalidInput)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: order needs at least one item", ErrInvalidInput)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidInput)
		}
	}

	ok, err := s.cache.SetIdempotency(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("idempotency check failed: %w", err)
	}
	if !ok {
		return nil, ErrDuplicateRequest
	}

	order, err := s.buildOrder(ctx, userID, items)
	if err == nil {
		err = s.orders.CreateOrder(ctx, order)
	}
	if err != nil {
		_ = s.cache.ReleaseIdempotency(ctx, requestID)
		return nil, err
	}

	s.emit(domain.OrderEventCreated, order)
	return order, nil
}

// buildOrder snapshots the current product prices into order items and
// computes the total.
func (s *OrderService) buildOrder(ctx context.Context, userID int64, items []OrderItemInput) (*domain.Order, error) {
	order := &domain.Order{
		UserID:    userID,
		OrderDate: time.Now().UTC(),
		Status:    domain.OrderStatusPending,
		Items:     make([]domain.OrderItem, 0, len(items)),
	}

	for _, item := range items {
		product, err := s.catalog.GetProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, domain.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
	}

	order.TotalAmount = order.ComputeTotal()
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *OrderService) ListUserOrders(ctx context.Context, userID int64) ([]domain.Order, error) {
	return s.orders.ListOrdersByUser(ctx, userID)
}

// UpdateStatus applies a pending -> completed/canceled transition. The
// repository enforces the rule and restores stock on cancel; invalid moves
// come back as domain.ErrInvalidTransition.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status domain.OrderStatus) (*domain.Order, error) {
	order, err := s.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, err
	}

	s.emit(domain.OrderEventStatusChanged, order)
	return order, nil
}

func (s *OrderService) emit(eventType domain.OrderEventType, order *domain.Order) {
	s.events <- domain.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		UserID:      order.UserID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
}

// Events exposes the order event queue drained by the publisher workers.
func (s *OrderService) Events() <-chan domain.OrderEvent {
	return s.events
}

// Close closes the event queue. No further orders may be placed afterwards.
func (s *OrderService) Close() {
	close(s.events)
}
