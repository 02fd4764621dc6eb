// Package membership содержит бизнес-логику абонементов:
// планы с действующими ценами и доступные тренеры.
package membership

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
	"github.com/magabrotheeeer/gym-storefront/internal/pricing"
)

// MembershipRepository определяет методы для работы с планами и тренерами в хранилище.
type MembershipRepository interface {
	// ListPlans возвращает активные планы.
	ListPlans(ctx context.Context) ([]*models.Plan, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// ListAvailableTrainers возвращает доступных тренеров.
	ListAvailableTrainers(ctx context.Context) ([]*models.Trainer, error)
	// ReadTrainer возвращает тренера по ID.
	ReadTrainer(ctx context.Context, id int) (*models.Trainer, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// PlanView объединяет план и рассчитанную для него цену.
type PlanView struct {
	Plan  models.Plan
	Price pricing.Line
}

// MembershipService реализует бизнес-логику абонементов, включая кеширование.
type MembershipService struct {
	repo  MembershipRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewMembershipService создает новый экземпляр MembershipService.
func NewMembershipService(repo MembershipRepository, cache Cache, log *slog.Logger) *MembershipService {
	return &MembershipService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// ListPlans возвращает активные планы с действующими ценами.
func (s *MembershipService) ListPlans(ctx context.Context) ([]PlanView, error) {
	plans, err := s.repo.ListPlans(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]PlanView, 0, len(plans))
	for _, plan := range plans {
		result = append(result, PlanView{
			Plan:  *plan,
			Price: pricing.ComposeSingle(plan.Priceable(), now),
		})
	}
	return result, nil
}

// ReadPlan возвращает план по ID с действующей ценой, используя кеш или репозиторий.
func (s *MembershipService) ReadPlan(ctx context.Context, id int) (*PlanView, error) {
	var plan *models.Plan
	cacheKey := fmt.Sprintf("plan:%d", id)
	found, err := s.cache.Get(cacheKey, &plan)
	if err != nil {
		return nil, err
	}
	if !found {
		plan, err = s.repo.ReadPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, plan, time.Hour); err != nil {
			s.log.Warn("failed to cache plan", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	return &PlanView{
		Plan:  *plan,
		Price: pricing.ComposeSingle(plan.Priceable(), s.now()),
	}, nil
}

// ListTrainers возвращает доступных тренеров.
func (s *MembershipService) ListTrainers(ctx context.Context) ([]*models.Trainer, error) {
	return s.repo.ListAvailableTrainers(ctx)
}
