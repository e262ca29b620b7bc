package postgres

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/cybershop/internal/domain/order"
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists the order and its items in one transaction and returns the
// assigned id. The item inserts are batched.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var id int64
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (customer_name, customer_email, customer_phone, delivery_address, total_amount, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		o.CustomerName, o.CustomerEmail, o.CustomerPhone, o.DeliveryAddress, o.TotalAmount, o.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, item := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, product_id, product_name, product_price, quantity)
			VALUES ($1, $2, $3, $4, $5)`,
			id, item.ProductID, item.ProductName, item.ProductPrice, item.Quantity,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return 0, fmt.Errorf("inserting order items for order %d: %w", id, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing order %d: %w", id, err)
	}

	return id, nil
}

// GetByID returns one order with its items, or order.ErrNotFound.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, customer_name, customer_email, customer_phone,
		       delivery_address, total_amount, status, payment_id, created_at
		FROM orders
		WHERE id = $1`, id)

	var o order.Order
	err := row.Scan(
		&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
		&o.DeliveryAddress, &o.TotalAmount, &o.Status, &o.PaymentID, &o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	rows, err := r.pool.Query(ctx, `
		SELECT product_id, product_name, product_price, quantity
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("listing items for order %d: %w", id, err)
	}

	o.Items, err = pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Item, error) {
		var item order.Item
		err := row.Scan(&item.ProductID, &item.ProductName, &item.ProductPrice, &item.Quantity)
		return item, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning items for order %d: %w", id, err)
	}

	return &o, nil
}

// List returns up to limit orders, newest first, without items.
func (r *OrderRepository) List(ctx context.Context, limit int) ([]order.Order, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, customer_name, customer_email, customer_phone,
		       delivery_address, total_amount, status, payment_id, created_at
		FROM orders
		ORDER BY created_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing orders: %w", err)
	}

	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (order.Order, error) {
		var o order.Order
		err := row.Scan(
			&o.ID, &o.CustomerName, &o.CustomerEmail, &o.CustomerPhone,
			&o.DeliveryAddress, &o.TotalAmount, &o.Status, &o.PaymentID, &o.CreatedAt,
		)
		return o, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning orders: %w", err)
	}
	return orders, nil
}

// SetPaymentID records the provider payment id on an existing order.
func (r *OrderRepository) SetPaymentID(ctx context.Context, id int64, paymentID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_id = $1 WHERE id = $2`, paymentID, id)
	if err != nil {
		return fmt.Errorf("setting payment id for order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}
