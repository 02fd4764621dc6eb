package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// ListProducts возвращает активные товары каталога с пагинацией.
func (s *Storage) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	const op = "storage.ListProducts"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, brand, category, price, stock, image_url,
				  discount_percent, discount_start, discount_end, discount_reason, active
			  FROM products
			  WHERE active = true
			  ORDER BY id
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Product
	for rows.Next() {
		var item models.Product
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Brand, &item.Category,
			&item.Price, &item.Stock, &item.ImageURL, &item.DiscountPercent,
			&item.DiscountStart, &item.DiscountEnd, &item.DiscountReason, &item.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadProduct возвращает товар по его ID.
func (s *Storage) ReadProduct(ctx context.Context, id int) (*models.Product, error) {
	const op = "storage.ReadProduct"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, brand, category, price, stock, image_url,
				  discount_percent, discount_start, discount_end, discount_reason, active
			  FROM products WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Product
	if err := row.Scan(&result.ID, &result.Name, &result.Description, &result.Brand, &result.Category,
		&result.Price, &result.Stock, &result.ImageURL, &result.DiscountPercent,
		&result.DiscountStart, &result.DiscountEnd, &result.DiscountReason, &result.Active); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
