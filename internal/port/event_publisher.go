package port

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
)

type EventPublisher interface {
	// Publish delivers one order event to the configured broker
	Publish(ctx context.Context, event domain.OrderEvent) error

	// Close flushes and releases the underlying connection
	Close() error
}
