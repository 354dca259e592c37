package port

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
)

type CacheRepository interface {
	// GetPriceReport returns a cached report for the threshold, with found=false on miss
	GetPriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, bool, error)

	// SetPriceReport caches a report for the threshold
	SetPriceReport(ctx context.Context, minPrice decimal.Decimal, rows []domain.PriceReportRow) error

	// InvalidatePriceReports drops every cached report after a catalog write
	InvalidatePriceReports(ctx context.Context) error

	// SetIdempotency sets a key for idempotency check, returns false if already exists
	SetIdempotency(ctx context.Context, key string) (bool, error)

	// ReleaseIdempotency removes an idempotency key so a failed request can be retried
	ReleaseIdempotency(ctx context.Context, key string) error
}
