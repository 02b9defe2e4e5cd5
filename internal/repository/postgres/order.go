package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/adityabima03/YuhuKopi/internal/domain"
	"github.com/adityabima03/YuhuKopi/internal/repository"
	"github.com/adityabima03/YuhuKopi/pkg/database"
	apperrors "github.com/adityabima03/YuhuKopi/pkg/errors"
)

const system = "postgresql"

const (
	insertOrderSQL = `
		INSERT INTO orders (id, delivery_type, address, subtotal, delivery_fee, total, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	insertItemSQL = `
		INSERT INTO order_items (order_id, position, coffee_id, name, description, price, size, quantity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getOrderSQL = `
		SELECT
			o.id::text, o.delivery_type, o.address, o.subtotal::text, o.delivery_fee::text,
			o.total::text, o.status, o.created_at,
			COALESCE(
				JSONB_AGG(
					JSONB_BUILD_OBJECT(
						'coffeeId', oi.coffee_id,
						'name', oi.name,
						'description', oi.description,
						'price', oi.price,
						'size', oi.size,
						'quantity', oi.quantity
					) ORDER BY oi.position
				) FILTER (WHERE oi.order_id IS NOT NULL),
				'[]'::jsonb
			) AS items
		FROM orders o
		LEFT JOIN order_items oi ON o.id = oi.order_id
		WHERE o.id = $1
		GROUP BY o.id`

	listOrdersSQL = `
		SELECT id::text, delivery_type, address, subtotal::text, delivery_fee::text,
			total::text, status, created_at,
			count(*) OVER() AS total_count
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	listItemsSQL = `
		SELECT order_id::text, coffee_id, name, description, price, size, quantity
		FROM order_items
		WHERE order_id = ANY($1::uuid[])
		ORDER BY order_id, position`
)

// OrderRepository implements repository.OrderRepository on PostgreSQL.
type OrderRepository struct {
	pool database.DBTX
}

// NewOrderRepository creates a PostgreSQL-backed order repository.
func NewOrderRepository(pool database.DBTX) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create inserts the order and its items in one transaction.
func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (err error) {
	ctx, end := database.TraceQuery(ctx, system, "CreateOrder", insertOrderSQL)
	defer func() { end(err) }()

	var addressJSON []byte
	if o.Address != nil {
		addressJSON, err = json.Marshal(o.Address)
		if err != nil {
			return fmt.Errorf("marshal address: %w", err)
		}
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, insertOrderSQL,
		o.ID,
		string(o.DeliveryType),
		addressJSON,
		o.Subtotal.String(),
		o.DeliveryFee.String(),
		o.Total.String(),
		string(o.Status),
		o.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.Conflict(fmt.Sprintf("order %s already exists", o.ID))
		}
		return fmt.Errorf("insert order: %w", err)
	}

	for i, item := range o.Items {
		if _, err = tx.Exec(ctx, insertItemSQL,
			o.ID,
			i,
			item.CoffeeID,
			item.Name,
			item.Description,
			item.Price,
			item.Size,
			item.Quantity,
		); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// money holds the text form of the three NUMERIC columns.
type money struct {
	subtotal, fee, total string
}

func (m money) apply(o *domain.Order) error {
	var err error
	if o.Subtotal, err = decimal.NewFromString(m.subtotal); err != nil {
		return fmt.Errorf("parse subtotal: %w", err)
	}
	if o.DeliveryFee, err = decimal.NewFromString(m.fee); err != nil {
		return fmt.Errorf("parse delivery fee: %w", err)
	}
	if o.Total, err = decimal.NewFromString(m.total); err != nil {
		return fmt.Errorf("parse total: %w", err)
	}
	return nil
}

func decodeAddress(raw []byte) (*domain.DeliveryAddress, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var addr domain.DeliveryAddress
	if err := json.Unmarshal(raw, &addr); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	return &addr, nil
}

// GetByID loads an order and its items in a single query.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (_ *domain.Order, err error) {
	ctx, end := database.TraceQuery(ctx, system, "GetOrder", getOrderSQL)
	defer func() { end(err) }()

	var (
		o            domain.Order
		m            money
		deliveryType string
		status       string
		addressJSON  []byte
		itemsJSON    []byte
	)

	err = r.pool.QueryRow(ctx, getOrderSQL, id).Scan(
		&o.ID,
		&deliveryType,
		&addressJSON,
		&m.subtotal,
		&m.fee,
		&m.total,
		&status,
		&o.CreatedAt,
		&itemsJSON,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("order", id)
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}

	o.DeliveryType = domain.DeliveryType(deliveryType)
	o.Status = domain.OrderStatus(status)
	if err = m.apply(&o); err != nil {
		return nil, err
	}
	if o.Address, err = decodeAddress(addressJSON); err != nil {
		return nil, err
	}

	o.Items = []domain.OrderItem{}
	if len(itemsJSON) > 0 && string(itemsJSON) != "[]" {
		if err = json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("unmarshal order items: %w", err)
		}
	}
	return &o, nil
}

// List returns one page of orders, newest first, with items batch-loaded.
func (r *OrderRepository) List(ctx context.Context, filter repository.OrderFilter) (_ []domain.Order, _ int, err error) {
	ctx, end := database.TraceQuery(ctx, system, "ListOrders", listOrdersSQL)
	defer func() { end(err) }()

	rows, err := r.pool.Query(ctx, listOrdersSQL, filter.Limit(), filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var totalCount int
	orders := make([]domain.Order, 0)
	index := make(map[string]int)

	for rows.Next() {
		var (
			o            domain.Order
			m            money
			deliveryType string
			status       string
			addressJSON  []byte
		)
		if err = rows.Scan(
			&o.ID,
			&deliveryType,
			&addressJSON,
			&m.subtotal,
			&m.fee,
			&m.total,
			&status,
			&o.CreatedAt,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order row: %w", err)
		}
		o.DeliveryType = domain.DeliveryType(deliveryType)
		o.Status = domain.OrderStatus(status)
		if err = m.apply(&o); err != nil {
			return nil, 0, err
		}
		if o.Address, err = decodeAddress(addressJSON); err != nil {
			return nil, 0, err
		}
		o.Items = []domain.OrderItem{}
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order rows: %w", err)
	}

	if len(orders) == 0 {
		return orders, totalCount, nil
	}

	ids := make([]string, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
	}

	itemRows, err := r.pool.Query(ctx, listItemsSQL, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("batch load order items: %w", err)
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var (
			orderID string
			item    domain.OrderItem
		)
		if err = itemRows.Scan(
			&orderID,
			&item.CoffeeID,
			&item.Name,
			&item.Description,
			&item.Price,
			&item.Size,
			&item.Quantity,
		); err != nil {
			return nil, 0, fmt.Errorf("scan order item: %w", err)
		}
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, item)
		}
	}
	if err = itemRows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate order items: %w", err)
	}

	return orders, totalCount, nil
}

// Ping runs a trivial query.
func (r *OrderRepository) Ping(ctx context.Context) error {
	var one int
	if err := r.pool.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("ping postgres: %w", err)
	}
	return nil
}
