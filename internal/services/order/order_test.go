package order

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

	"github.com/magabrotheeeer/gym-storefront/internal/checkout"
	"github.com/magabrotheeeer/gym-storefront/internal/models"
	"github.com/magabrotheeeer/gym-storefront/internal/paymentprovider"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ReadProduct(ctx context.Context, id int) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *RepoMock) ReadPlan(ctx context.Context, id int) (*models.Plan, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}
func (m *RepoMock) ReadTrainer(ctx context.Context, id int) (*models.Trainer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trainer), args.Error(1)
}
func (m *RepoMock) CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (int, error) {
	args := m.Called(ctx, order, items)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) UpdateOrderStatusByReference(ctx context.Context, reference, status string) (int, error) {
	args := m.Called(ctx, reference, status)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadOrderByReference(ctx context.Context, reference string) (*models.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *RepoMock) ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, username, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) CreatePreference(ctx context.Context, reqParams paymentprovider.CreatePreferenceRequest) (*paymentprovider.CreatePreferenceResponse, error) {
	args := m.Called(ctx, reqParams)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentprovider.CreatePreferenceResponse), args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(routingKey string, message any) error {
	return m.Called(routingKey, message).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func newTestService(repo *RepoMock, provider *ProviderMock, publisher *PublisherMock) *OrderService {
	svc := NewOrderService(repo, provider, publisher, "ARS", newNoopLogger())
	svc.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestOrderService_CheckoutCart(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	// товар со скидкой 20% в действующем окне и товар без скидки
	repo.On("ReadProduct", mock.Anything, 1).Return(&models.Product{
		ID: 1, Name: "Proteína Whey",
		Price:           decimal.NewFromInt(100000),
		Stock:           10,
		DiscountPercent: decimal.NewFromInt(20),
		DiscountStart:   datePtr(2024, time.January, 1),
		DiscountEnd:     datePtr(2024, time.January, 31),
		Active:          true,
	}, nil).Once()
	repo.On("ReadProduct", mock.Anything, 2).Return(&models.Product{
		ID: 2, Name: "Shaker",
		Price:  decimal.NewFromInt(25000),
		Stock:  5,
		Active: true,
	}, nil).Once()

	provider.On("CreatePreference", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreatePreferenceRequest) bool {
		return len(req.Items) == 2 &&
			req.Items[0].UnitPrice == "80000.00" && req.Items[0].Quantity == 2 &&
			req.Items[1].UnitPrice == "25000.00" && req.Items[1].Quantity == 1 &&
			req.Items[0].Currency == "ARS"
	})).Return(&paymentprovider.CreatePreferenceResponse{
		ID:        "pref-123",
		InitPoint: "https://pay.example.com/init/pref-123",
	}, nil).Once()

	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.Username == "member42" &&
			o.Status == models.OrderStatusPending &&
			o.Total.Equal(decimal.NewFromInt(185000))
	}), mock.MatchedBy(func(items []models.OrderItem) bool {
		return len(items) == 2 && items[0].UnitPrice.Equal(decimal.NewFromInt(80000))
	})).Return(17, nil).Once()

	cart := models.DummyCart{Items: []models.DummyCartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}}

	got, err := svc.CheckoutCart(context.Background(), "member42", cart)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/init/pref-123", got.InitPoint)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(185000)))
	assert.NotEmpty(t, got.Reference)

	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestOrderService_CheckoutCart_ProviderRejected(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	repo.On("ReadProduct", mock.Anything, 1).Return(&models.Product{
		ID: 1, Name: "Shaker",
		Price:  decimal.NewFromInt(25000),
		Stock:  5,
		Active: true,
	}, nil).Once()

	provider.On("CreatePreference", mock.Anything, mock.Anything).
		Return(nil, errors.New("unexpected status: 502 Bad Gateway")).Once()

	cart := models.DummyCart{Items: []models.DummyCartItem{{ProductID: 1, Quantity: 1}}}

	_, err := svc.CheckoutCart(context.Background(), "member42", cart)
	require.Error(t, err)

	var subErr *checkout.SubmissionError
	assert.ErrorAs(t, err, &subErr)

	// отклонённая попытка не оставляет записей
	repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything, mock.Anything)
	provider.AssertNumberOfCalls(t, "CreatePreference", 1)
}

func TestOrderService_CheckoutCart_ProductUnavailable(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	repo.On("ReadProduct", mock.Anything, 1).Return(&models.Product{
		ID: 1, Name: "Proteína Whey",
		Price:  decimal.NewFromInt(80000),
		Stock:  1,
		Active: true,
	}, nil).Once()

	cart := models.DummyCart{Items: []models.DummyCartItem{{ProductID: 1, Quantity: 3}}}

	_, err := svc.CheckoutCart(context.Background(), "member42", cart)
	assert.ErrorIs(t, err, ErrProductUnavailable)
	provider.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything)
}

func TestOrderService_SubscribePlan(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	planID, trainerID := 1, 5

	repo.On("ReadPlan", mock.Anything, 1).Return(&models.Plan{
		ID: 1, Name: "Plan Anual",
		Price:           decimal.NewFromInt(150000),
		DurationMonths:  12,
		DiscountPercent: decimal.NewFromInt(10),
		DiscountStart:   datePtr(2024, time.January, 1),
		DiscountEnd:     datePtr(2024, time.January, 31),
		Active:          true,
	}, nil).Once()
	repo.On("ReadTrainer", mock.Anything, 5).Return(&models.Trainer{
		ID: 5, Username: "coach_laura",
		MonthlyFee: decimal.NewFromInt(40000),
		Available:  true,
	}, nil).Once()

	// 135000 за план со скидкой + 40000 x 12 за тренера
	provider.On("CreatePreference", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreatePreferenceRequest) bool {
		return len(req.Items) == 1 &&
			req.Items[0].UnitPrice == "615000.00" &&
			req.Metadata["plan_id"] == "1" &&
			req.Metadata["trainer_id"] == "5"
	})).Return(&paymentprovider.CreatePreferenceResponse{
		ID:        "pref-sub",
		InitPoint: "https://pay.example.com/init/pref-sub",
	}, nil).Once()

	repo.On("CreateOrder", mock.Anything, mock.MatchedBy(func(o models.Order) bool {
		return o.PlanID != nil && *o.PlanID == 1 &&
			o.TrainerID != nil && *o.TrainerID == 5 &&
			o.Total.Equal(decimal.NewFromInt(615000))
	}), mock.Anything).Return(21, nil).Once()

	got, err := svc.SubscribePlan(context.Background(), "member42", &planID, &trainerID)
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/init/pref-sub", got.InitPoint)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(615000)))

	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestOrderService_SubscribePlan_OnlyTrainer(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	trainerID := 5
	repo.On("ReadTrainer", mock.Anything, 5).Return(&models.Trainer{
		ID: 5, Username: "coach_laura",
		MonthlyFee: decimal.NewFromInt(40000),
		Available:  true,
	}, nil).Once()

	// без плана оплачивается один месяц сопровождения
	provider.On("CreatePreference", mock.Anything, mock.MatchedBy(func(req paymentprovider.CreatePreferenceRequest) bool {
		return len(req.Items) == 1 && req.Items[0].UnitPrice == "40000.00"
	})).Return(&paymentprovider.CreatePreferenceResponse{
		ID:        "pref-tr",
		InitPoint: "https://pay.example.com/init/pref-tr",
	}, nil).Once()

	repo.On("CreateOrder", mock.Anything, mock.Anything, mock.Anything).Return(22, nil).Once()

	got, err := svc.SubscribePlan(context.Background(), "member42", nil, &trainerID)
	require.NoError(t, err)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(40000)))
}

func TestOrderService_SubscribePlan_EmptyPurchase(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	_, err := svc.SubscribePlan(context.Background(), "member42", nil, nil)
	assert.ErrorIs(t, err, ErrEmptyPurchase)
	provider.AssertNotCalled(t, "CreatePreference", mock.Anything, mock.Anything)
}

func TestOrderService_ProcessPaymentEvent(t *testing.T) {
	tests := []struct {
		name       string
		event      string
		setupMocks func(r *RepoMock, p *PublisherMock)
		wantErr    error
	}{
		{
			name:  "успешная оплата публикует задачу на чек",
			event: "payment.succeeded",
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("UpdateOrderStatusByReference", mock.Anything, "ref-1", models.OrderStatusPaid).
					Return(1, nil).Once()
				r.On("ReadOrderByReference", mock.Anything, "ref-1").Return(&models.Order{
					Reference: "ref-1",
					Username:  "member42",
					Total:     decimal.NewFromInt(185000),
					Status:    models.OrderStatusPaid,
				}, nil).Once()
				p.On("Publish", "paid", ReceiptTask{
					Username:  "member42",
					Reference: "ref-1",
					Total:     "185000.00",
				}).Return(nil).Once()
			},
		},
		{
			name:  "отмена платежа не публикует чек",
			event: "payment.canceled",
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("UpdateOrderStatusByReference", mock.Anything, "ref-1", models.OrderStatusCanceled).
					Return(1, nil).Once()
			},
		},
		{
			name:  "неизвестная ссылка заказа",
			event: "payment.succeeded",
			setupMocks: func(r *RepoMock, _ *PublisherMock) {
				r.On("UpdateOrderStatusByReference", mock.Anything, "ref-1", models.OrderStatusPaid).
					Return(0, nil).Once()
			},
			wantErr: ErrUnknownOrder,
		},
		{
			name:  "ошибка публикации не валит обработку",
			event: "payment.succeeded",
			setupMocks: func(r *RepoMock, p *PublisherMock) {
				r.On("UpdateOrderStatusByReference", mock.Anything, "ref-1", models.OrderStatusPaid).
					Return(1, nil).Once()
				r.On("ReadOrderByReference", mock.Anything, "ref-1").Return(&models.Order{
					Reference: "ref-1",
					Username:  "member42",
					Total:     decimal.NewFromInt(185000),
				}, nil).Once()
				p.On("Publish", "paid", mock.Anything).
					Return(errors.New("broker down")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			provider := new(ProviderMock)
			publisher := new(PublisherMock)
			svc := newTestService(repo, provider, publisher)
			tt.setupMocks(repo, publisher)

			err := svc.ProcessPaymentEvent(context.Background(), tt.event, "ref-1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
			publisher.AssertExpectations(t)
		})
	}
}

func TestOrderService_ProcessPaymentEvent_UnknownEvent(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	err := svc.ProcessPaymentEvent(context.Background(), "payment.refunded", "ref-1")
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateOrderStatusByReference", mock.Anything, mock.Anything, mock.Anything)
}

func TestOrderService_ListOrders(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	publisher := new(PublisherMock)
	svc := newTestService(repo, provider, publisher)

	orders := []*models.Order{{ID: 1, Reference: "ref-1", Username: "member42"}}
	repo.On("ListOrders", mock.Anything, "member42", 10, 0).Return(orders, nil).Once()

	got, err := svc.ListOrders(context.Background(), "member42", 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
}
