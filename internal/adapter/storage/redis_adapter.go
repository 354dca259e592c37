package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rl1809/storefront/internal/core/domain"
	"github.com/rl1809/storefront/internal/port"
)

var _ port.CacheRepository = (*RedisAdapter)(nil)

const (
	reportKeyPrefix      = "report:catalog:"
	idempotencyKeyPrefix = "idempotency:"
	idempotencyKeyTTL    = 24 * time.Hour
)

type RedisAdapter struct {
	client    *redis.Client
	reportTTL time.Duration
}

func NewRedisAdapter(client *redis.Client, reportTTL time.Duration) *RedisAdapter {
	return &RedisAdapter{client: client, reportTTL: reportTTL}
}

func reportKey(minPrice decimal.Decimal) string {
	return reportKeyPrefix + minPrice.String()
}

func (r *RedisAdapter) GetPriceReport(ctx context.Context, minPrice decimal.Decimal) ([]domain.PriceReportRow, bool, error) {
	data, err := r.client.Get(ctx, reportKey(minPrice)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cached report: %w", err)
	}

	var rows []domain.PriceReportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return rows, true, nil
}

func (r *RedisAdapter) SetPriceReport(ctx context.Context, minPrice decimal.Decimal, rows []domain.PriceReportRow) error {
	data, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return r.client.Set(ctx, reportKey(minPrice), data, r.reportTTL).Err()
}

// InvalidatePriceReports drops every cached report variant. Thresholds are
// part of the key, so a catalog write has to sweep the whole prefix.
func (r *RedisAdapter) InvalidatePriceReports(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, reportKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan report keys: %w", err)
	}

	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisAdapter) SetIdempotency(ctx context.Context, key string) (bool, error) {
	ok, err := r.client.SetNX(ctx, idempotencyKeyPrefix+key, 1, idempotencyKeyTTL).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

func (r *RedisAdapter) ReleaseIdempotency(ctx context.Context, key string) error {
	return r.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
