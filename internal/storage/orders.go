package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// CreateOrder вставляет заказ вместе с позициями в одной транзакции и возвращает его ID.
func (s *Storage) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (int, error) {
	const op = "storage.CreateOrder"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO orders (reference, username, total, status, plan_id, trainer_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err = tx.QueryRowContext(ctx, query,
		order.Reference, order.Username, order.Total, order.Status,
		order.PlanID, order.TrainerID).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, item := range items {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, product_id, unit_price, quantity)
			 VALUES ($1, $2, $3, $4)`,
			newID, item.ProductID, item.UnitPrice, item.Quantity)
		if err != nil {
			return 0, fmt.Errorf("%s: %w", op, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateOrderStatusByReference обновляет статус заказа по внешней ссылке
// и возвращает количество изменённых строк.
func (s *Storage) UpdateOrderStatusByReference(ctx context.Context, reference, status string) (int, error) {
	const op = "storage.UpdateOrderStatusByReference"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE orders SET status = $1 WHERE reference = $2`
	result, err := s.DB.ExecContext(ctx, query, status, reference)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ReadOrderByReference возвращает заказ по внешней ссылке.
func (s *Storage) ReadOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	const op = "storage.ReadOrderByReference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, reference, username, total, status, plan_id, trainer_id, created_at
			  FROM orders WHERE reference = $1`
	row := s.DB.QueryRowContext(ctx, query, reference)

	var result models.Order
	if err := row.Scan(&result.ID, &result.Reference, &result.Username, &result.Total, &result.Status,
		&result.PlanID, &result.TrainerID, &result.CreatedAt); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListOrders возвращает заказы пользователя с пагинацией.
func (s *Storage) ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error) {
	const op = "storage.ListOrders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, reference, username, total, status, plan_id, trainer_id, created_at
			  FROM orders
			  WHERE username = $1
			  ORDER BY id DESC
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, username, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Order
	for rows.Next() {
		var item models.Order
		if err := rows.Scan(&item.ID, &item.Reference, &item.Username, &item.Total, &item.Status,
			&item.PlanID, &item.TrainerID, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
