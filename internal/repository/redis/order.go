package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/repository"
	"github.com/adityabima03/YuhuKopi/pkg/database"
	apperrors "github.com/adityabima03/YuhuKopi/pkg/errors"
)

const (
	keyPrefix = "order:"
	indexKey  = "orders:by_created"
	system    = "redis"
)

func orderKey(id string) string { return keyPrefix + id }

// OrderRepository stores each order as a JSON blob and keeps a sorted set
// of ids scored by creation time for listing.
type OrderRepository struct {
	client redis.UniversalClient
}

// NewOrderRepository creates a Redis-backed order repository.
func NewOrderRepository(client redis.UniversalClient) *OrderRepository {
	return &OrderRepository{client: client}
}

// Create writes the blob and the index entry in one MULTI/EXEC. An existing
// id is a conflict.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (err error) {
	ctx, end := database.TraceQuery(ctx, system, "CreateOrder", "SETNX+ZADD")
	defer func() { end(err) }()

	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshal order: %w", err)
	}

	var created *redis.BoolCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		created = pipe.SetNX(ctx, orderKey(o.ID), data, 0)
		pipe.ZAddNX(ctx, indexKey, redis.Z{Score: float64(o.CreatedAt.UnixMilli()), Member: o.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis create order: %w", err)
	}
	if !created.Val() {
		return apperrors.Conflict(fmt.Sprintf("order %s already exists", o.ID))
	}
	return nil
}

// GetByID loads one order.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (_ *domain.Order, err error) {
	ctx, end := database.TraceQuery(ctx, system, "GetOrder", "GET")
	defer func() { end(err) }()

	data, err := r.client.Get(ctx, orderKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("redis get order: %w", err)
	}

	var o domain.Order
	if err := json.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	return &o, nil
}

// List walks the index newest first and fetches the page with MGET. Ids
// whose blob has disappeared are skipped.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) (_ []domain.Order, _ int, err error) {
	ctx, end := database.TraceQuery(ctx, system, "ListOrders", "ZREVRANGE+MGET")
	defer func() { end(err) }()

	total, err := r.client.ZCard(ctx, indexKey).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis count orders: %w", err)
	}

	start := int64(filter.Offset())
	stop := start + int64(filter.Limit()) - 1
	ids, err := r.client.ZRevRange(ctx, indexKey, start, stop).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis list order ids: %w", err)
	}

	orders := make([]domain.Order, 0, len(ids))
	if len(ids) == 0 {
		return orders, int(total), nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = orderKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("redis mget orders: %w", err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var o domain.Order
		if err := json.Unmarshal([]byte(s), &o); err != nil {
			return nil, 0, fmt.Errorf("unmarshal order %s: %w", ids[i], err)
		}
		orders = append(orders, o)
	}
	return orders, int(total), nil
}

func (r *OrderRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	return nil
}
