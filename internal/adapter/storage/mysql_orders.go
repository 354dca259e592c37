package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rl1809/storefront/internal/core/domain"
)

func (m *MySQLAdapter) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, item := range order.Items {
		result, err := tx.ExecContext(ctx, `
			UPDATE products SET stock_quantity = stock_quantity - ?
			WHERE id = ? AND stock_quantity >= ?`,
			item.Quantity, item.ProductID, item.Quantity,
		)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		rows, _ := result.RowsAffected()
		if rows == 0 {
			return domain.ErrInsufficientStock
		}
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (user_id, order_date, total_amount, status)
		VALUES (?, ?, ?, ?)`,
		order.UserID, order.OrderDate, order.TotalAmount, order.Status,
	)
	if err != nil {
		if isMySQLErr(err, mysqlErrNoReferencedRow) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("insert order: %w", err)
	}

	order.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("order insert id: %w", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		item.OrderID = order.ID

		result, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			VALUES (?, ?, ?, ?)`,
			item.OrderID, item.ProductID, item.Quantity, item.UnitPrice,
		)
		if err != nil {
			if isMySQLErr(err, mysqlErrNoReferencedRow) {
				return domain.ErrProductNotFound
			}
			return fmt.Errorf("insert order item: %w", err)
		}

		item.ID, err = result.LastInsertId()
		if err != nil {
			return fmt.Errorf("order item insert id: %w", err)
		}
	}

	return tx.Commit()
}

func (m *MySQLAdapter) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := m.db.QueryRowContext(ctx, `
		SELECT id, user_id, order_date, total_amount, status
		FROM orders WHERE id = ?`, id,
	).Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order: %w", err)
	}

	o.Items, err = m.loadOrderItems(ctx, m.db, o.ID)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (m *MySQLAdapter) ListOrdersByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	rows, err := m.db.QueryContext(ctx, `
		SELECT id, user_id, order_date, total_amount, status
		FROM orders WHERE user_id = ?
		ORDER BY order_date DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.OrderDate, &o.TotalAmount, &o.Status); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		orders[i].Items, err = m.loadOrderItems(ctx, m.db, orders[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return orders, nil
}

// UpdateOrderStatus moves an order through the pending -> completed/canceled
// transition. The current status is locked for the duration of the
// transaction; canceling puts the reserved stock back before committing.
func (m *MySQLAdapter) UpdateOrderStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.Order, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current domain.OrderStatus
	err = tx.QueryRowContext(ctx, `
		SELECT status FROM orders WHERE id = ? FOR UPDATE`, id,
	).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query order status: %w", err)
	}

	if !current.CanTransitionTo(status) {
		return nil, domain.ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = ? WHERE id = ?`, status, id,
	); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if status == domain.OrderStatusCanceled {
		items, err := m.loadOrderItems(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, `
				UPDATE products SET stock_quantity = stock_quantity + ?
				WHERE id = ?`,
				item.Quantity, item.ProductID,
			); err != nil {
				return nil, fmt.Errorf("restore stock: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update: %w", err)
	}
	return m.GetOrder(ctx, id)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (m *MySQLAdapter) loadOrderItems(ctx context.Context, q queryer, orderID int64) ([]domain.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = ? ORDER BY id`, orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
