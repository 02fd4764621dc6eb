package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// ListAvailableTrainers возвращает тренеров, доступных для найма.
func (s *Storage) ListAvailableTrainers(ctx context.Context) ([]*models.Trainer, error) {
	const op = "storage.ListAvailableTrainers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, title, specialization, experience_years, monthly_fee, available
			  FROM trainers
			  WHERE available = true
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Trainer
	for rows.Next() {
		var item models.Trainer
		if err := rows.Scan(&item.ID, &item.Username, &item.Title, &item.Specialization,
			&item.ExperienceYears, &item.MonthlyFee, &item.Available); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ReadTrainer возвращает тренера по его ID.
func (s *Storage) ReadTrainer(ctx context.Context, id int) (*models.Trainer, error) {
	const op = "storage.ReadTrainer"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, username, title, specialization, experience_years, monthly_fee, available
			  FROM trainers WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Trainer
	if err := row.Scan(&result.ID, &result.Username, &result.Title, &result.Specialization,
		&result.ExperienceYears, &result.MonthlyFee, &result.Available); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
