package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/gym-storefront/internal/migrations"
	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateProduct создает тестовый товар и возвращает его ID
func (f *TestDataFactory) CreateProduct(t *testing.T, name string, price decimal.Decimal,
	discountPercent decimal.Decimal, discountStart, discountEnd *time.Time) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO products
		(name, price, stock, discount_percent, discount_start, discount_end, active)
		VALUES ($1, $2, 10, $3, $4, $5, true) RETURNING id`,
		name, price, discountPercent, discountStart, discountEnd).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreatePlan создает тестовый план и возвращает его ID
func (f *TestDataFactory) CreatePlan(t *testing.T, name string, price decimal.Decimal, durationMonths int) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO plans
		(name, price, duration_months, active)
		VALUES ($1, $2, $3, true) RETURNING id`,
		name, price, durationMonths).Scan(&id)
	require.NoError(t, err)
	return id
}

// CreateTrainer создает тестового тренера и возвращает его ID
func (f *TestDataFactory) CreateTrainer(t *testing.T, username string, monthlyFee decimal.Decimal, available bool) int {
	var id int
	err := f.storage.DB.QueryRow(`INSERT INTO trainers
		(username, monthly_fee, available)
		VALUES ($1, $2, $3) RETURNING id`,
		username, monthlyFee, available).Scan(&id)
	require.NoError(t, err)
	return id
}

// NewTestOrder возвращает стандартный тестовый заказ
func NewTestOrder(username string, total decimal.Decimal) models.Order {
	return models.Order{
		Reference: uuid.New().String(),
		Username:  username,
		Total:     total,
		Status:    models.OrderStatusPending,
	}
}

// setupTestDatabase создает тестовую БД с контейнером PostgreSQL
// и применяет миграции схемы
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForAll(
				wait.ForListeningPort(nat.Port("5432/tcp")),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(3*time.Minute),
		),
	)
	require.NoError(t, err, "failed to start container")

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	// Пробуем подключиться несколько раз с ретраями
	var storage *Storage
	for range 10 {
		storage, err = New(connStr)
		if err == nil {
			err = storage.DB.Ping()
			if err == nil {
				break
			}
		}
		time.Sleep(1 * time.Second)
	}
	require.NoError(t, err, fmt.Sprintf("failed to create storage: %v", err))

	require.NoError(t, migrations.Run(storage.DB, "../../migrations"), "failed to run migrations")

	cleanup := func() {
		if storage != nil && storage.DB != nil {
			_ = storage.DB.Close()
		}
		if postgresContainer != nil {
			_ = postgresContainer.Terminate(ctx)
		}
	}

	return storage, cleanup
}
