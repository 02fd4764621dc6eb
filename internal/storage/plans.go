package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// ListPlans возвращает активные планы абонементов.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, duration_months,
				  discount_percent, discount_start, discount_end, discount_reason, active
			  FROM plans
			  WHERE active = true
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		var item models.Plan
		if err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.DurationMonths,
			&item.DiscountPercent, &item.DiscountStart, &item.DiscountEnd,
			&item.DiscountReason, &item.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadPlan возвращает план по его ID.
func (s *Storage) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	const op = "storage.ReadPlan"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, price, duration_months,
				  discount_percent, discount_start, discount_end, discount_reason, active
			  FROM plans WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Plan
	if err := row.Scan(&result.ID, &result.Name, &result.Description, &result.Price, &result.DurationMonths,
		&result.DiscountPercent, &result.DiscountStart, &result.DiscountEnd,
		&result.DiscountReason, &result.Active); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
