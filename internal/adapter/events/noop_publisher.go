package events

import (
	"context"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var _ port.EventPublisher = NoopPublisher{}

// NoopPublisher discards events. Used when no brokers are configured, so the
// rest of the pipeline does not need to care.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, domain.OrderEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
