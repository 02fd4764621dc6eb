package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Product), args.Error(1)
}
func (m *RepoMock) ReadProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestCatalogService_List(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }

	products := []*models.Product{
		{
			ID: 1, Name: "Proteína Whey",
			Price:           decimal.NewFromInt(80000),
			DiscountPercent: decimal.NewFromInt(20),
			DiscountStart:   datePtr(2024, time.January, 1),
			DiscountEnd:     datePtr(2024, time.January, 31),
			DiscountReason:  "Promo enero",
			Active:          true,
		},
		{
			ID: 2, Name: "Shaker",
			Price:  decimal.NewFromInt(25000),
			Active: true,
		},
	}
	repo.On("ListProducts", mock.Anything, 10, 0).Return(products, nil).Once()

	got, err := svc.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// скидка действует на момент запроса
	assert.True(t, got[0].Price.Discounted)
	assert.Equal(t, "64000", got[0].Price.UnitPrice.String())
	assert.Equal(t, "Promo enero", got[0].Price.DisplayReason)

	// товар без окна скидки продаётся по базовой цене
	assert.False(t, got[1].Price.Discounted)
	assert.Equal(t, "25000", got[1].Price.UnitPrice.String())

	repo.AssertExpectations(t)
}

func TestCatalogService_List_RepoError(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())

	repo.On("ListProducts", mock.Anything, 10, 0).
		Return(nil, errors.New("db down")).Once()

	_, err := svc.List(context.Background(), 10, 0)
	assert.Error(t, err)
}

func TestCatalogService_Read_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC) }

	product := &models.Product{
		ID: 7, Name: "Proteína Whey",
		Price:           decimal.NewFromInt(100000),
		DiscountPercent: decimal.NewFromInt(20),
		DiscountStart:   datePtr(2024, time.January, 1),
		DiscountEnd:     datePtr(2024, time.January, 31),
		Active:          true,
	}

	cache.On("Get", "product:7", mock.Anything).Return(false, nil).Once()
	repo.On("ReadProduct", mock.Anything, 7).Return(product, nil).Once()
	cache.On("Set", "product:7", product, time.Hour).Return(nil).Once()

	got, err := svc.Read(context.Background(), 7)
	require.NoError(t, err)

	// окно скидки уже закрыто: цена базовая
	assert.False(t, got.Price.Discounted)
	assert.Equal(t, "100000", got.Price.UnitPrice.String())

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCatalogService_Read_CacheHit(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := NewCatalogService(repo, cache, newNoopLogger())
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC) }

	product := &models.Product{
		ID: 7, Name: "Shaker",
		Price:  decimal.NewFromInt(25000),
		Active: true,
	}

	cache.On("Get", "product:7", mock.Anything).
		Run(func(args mock.Arguments) {
			ptr := args.Get(1).(**models.Product)
			*ptr = product
		}).
		Return(true, nil).Once()

	got, err := svc.Read(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "Shaker", got.Product.Name)
	assert.Equal(t, "25000", got.Price.UnitPrice.String())

	repo.AssertNotCalled(t, "ReadProduct", mock.Anything, mock.Anything)
}
