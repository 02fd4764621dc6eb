// Package catalog содержит бизнес-логику каталога товаров:
// чтение из хранилища, кеширование и расчёт действующих цен.
package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
	"github.com/magabrotheeeer/gym-storefront/internal/pricing"
)

// ProductRepository определяет методы для работы с товарами в хранилище.
type ProductRepository interface {
	// ListProducts возвращает активные товары с пагинацией.
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	// ReadProduct возвращает товар по ID.
	ReadProduct(ctx context.Context, id int) (*models.Product, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// ProductView объединяет товар и рассчитанную для него цену.
// Кешируются только записи хранилища: цена пересчитывается на каждый запрос,
// иначе окончание окна скидки не отражалось бы до истечения TTL.
type ProductView struct {
	Product models.Product
	Price   pricing.Line
}

// CatalogService реализует бизнес-логику каталога, включая кеширование.
type CatalogService struct {
	repo  ProductRepository
	cache Cache
	log   *slog.Logger
	now   func() time.Time
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo ProductRepository, cache Cache, log *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:  repo,
		cache: cache,
		log:   log,
		now:   time.Now,
	}
}

// List возвращает активные товары с действующими ценами.
// Все позиции страницы оцениваются на один и тот же момент времени.
func (s *CatalogService) List(ctx context.Context, limit, offset int) ([]ProductView, error) {
	products, err := s.repo.ListProducts(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := make([]ProductView, 0, len(products))
	for _, product := range products {
		result = append(result, ProductView{
			Product: *product,
			Price:   pricing.ComposeSingle(product.Priceable(), now),
		})
	}
	return result, nil
}

// Read возвращает товар по ID с действующей ценой, используя кеш или репозиторий.
func (s *CatalogService) Read(ctx context.Context, id int) (*ProductView, error) {
	var product *models.Product
	cacheKey := fmt.Sprintf("product:%d", id)
	found, err := s.cache.Get(cacheKey, &product)
	if err != nil {
		return nil, err
	}
	if !found {
		product, err = s.repo.ReadProduct(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(cacheKey, product, time.Hour); err != nil {
			s.log.Warn("failed to cache product", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}

	return &ProductView{
		Product: *product,
		Price:   pricing.ComposeSingle(product.Priceable(), s.now()),
	}, nil
}
