// Package order содержит бизнес-логику оформления заказов:
// расчёт корзины и подписок, отправку платёжного запроса провайдеру,
// сохранение заказа и обработку платёжных событий.
package order

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/gym-storefront/internal/checkout"
	"github.com/magabrotheeeer/gym-storefront/internal/metrics"
	"github.com/magabrotheeeer/gym-storefront/internal/models"
	"github.com/magabrotheeeer/gym-storefront/internal/pricing"
	"github.com/shopspring/decimal"
)

// Ошибки бизнес-логики оформления заказов.
var (
	// ErrEmptyPurchase возвращается при подписке без плана и тренера.
	ErrEmptyPurchase = errors.New("nothing to purchase: plan or trainer required")
	// ErrProductUnavailable возвращается для неактивного товара или нехватки остатка.
	ErrProductUnavailable = errors.New("product is unavailable")
	// ErrPlanUnavailable возвращается для неактивного плана.
	ErrPlanUnavailable = errors.New("plan is unavailable")
	// ErrTrainerUnavailable возвращается для недоступного тренера.
	ErrTrainerUnavailable = errors.New("trainer is unavailable")
	// ErrUnknownOrder возвращается, когда webhook ссылается на несуществующий заказ.
	ErrUnknownOrder = errors.New("unknown order reference")
)

// OrderRepository определяет методы для работы с заказами и справочниками в хранилище.
type OrderRepository interface {
	// ReadProduct возвращает товар по ID.
	ReadProduct(ctx context.Context, id int) (*models.Product, error)
	// ReadPlan возвращает план по ID.
	ReadPlan(ctx context.Context, id int) (*models.Plan, error)
	// ReadTrainer возвращает тренера по ID.
	ReadTrainer(ctx context.Context, id int) (*models.Trainer, error)
	// CreateOrder сохраняет заказ с позициями и возвращает его ID.
	CreateOrder(ctx context.Context, order models.Order, items []models.OrderItem) (int, error)
	// UpdateOrderStatusByReference обновляет статус заказа и возвращает число изменённых строк.
	UpdateOrderStatusByReference(ctx context.Context, reference, status string) (int, error)
	// ReadOrderByReference возвращает заказ по внешней ссылке.
	ReadOrderByReference(ctx context.Context, reference string) (*models.Order, error)
	// ListOrders возвращает заказы пользователя с пагинацией.
	ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error)
}

// ReceiptPublisher описывает публикацию задач на отправку чеков.
type ReceiptPublisher interface {
	Publish(routingKey string, message any) error
}

// ReceiptTask задача воркеру уведомлений на отправку чека об оплате.
type ReceiptTask struct {
	Username  string `json:"username"`
	Reference string `json:"reference"`
	Total     string `json:"total"`
}

// CheckoutResult итог успешного оформления: ссылка заказа, сумма
// и URL перенаправления на страницу оплаты провайдера.
type CheckoutResult struct {
	Reference string
	Total     decimal.Decimal
	InitPoint string
}

// OrderService реализует бизнес-логику оформления заказов.
type OrderService struct {
	repo      OrderRepository
	provider  checkout.Submitter
	publisher ReceiptPublisher
	currency  string
	log       *slog.Logger
	now       func() time.Time
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(repo OrderRepository, provider checkout.Submitter,
	publisher ReceiptPublisher, currency string, log *slog.Logger) *OrderService {
	return &OrderService{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		currency:  currency,
		log:       log,
		now:       time.Now,
	}
}

// CheckoutCart оформляет корзину товаров: считает действующие цены,
// отправляет платёжный запрос и сохраняет заказ.
//
// Заказ сохраняется только после успешного ответа провайдера:
// отклонённая попытка записей не оставляет.
func (s *OrderService) CheckoutCart(ctx context.Context, username string, cart models.DummyCart) (*CheckoutResult, error) {
	now := s.now()

	lines := make([]checkout.Line, 0, len(cart.Items))
	orderItems := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.repo.ReadProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.Active || product.Stock < item.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}

		line := pricing.ComposeSingle(product.Priceable(), now)
		lines = append(lines, checkout.Line{
			Title:     product.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  item.Quantity,
		})
		orderItems = append(orderItems, models.OrderItem{
			ProductID: product.ID,
			UnitPrice: line.UnitPrice,
			Quantity:  item.Quantity,
		})
	}

	req := checkout.BuildRequest(lines, nil)
	return s.submitAndStore(ctx, username, req, orderItems, nil, nil)
}

// SubscribePlan оформляет подписку на план и/или тренера.
//
// Без плана действует режим "только тренер": оплачивается один месяц
// сопровождения. Без плана и тренера возвращается ErrEmptyPurchase.
func (s *OrderService) SubscribePlan(ctx context.Context, username string, planID, trainerID *int) (*CheckoutResult, error) {
	if planID == nil && trainerID == nil {
		return nil, ErrEmptyPurchase
	}
	now := s.now()
	onlyTrainer := planID == nil

	var bundle pricing.Bundle
	var titleParts []string
	if planID != nil {
		plan, err := s.repo.ReadPlan(ctx, *planID)
		if err != nil {
			return nil, err
		}
		if !plan.Active {
			return nil, fmt.Errorf("%w: %s", ErrPlanUnavailable, plan.Name)
		}
		bundle.Plan = plan.Priceable()
		bundle.DurationMonths = plan.DurationMonths
		titleParts = append(titleParts, plan.Name)
	}
	if trainerID != nil {
		trainer, err := s.repo.ReadTrainer(ctx, *trainerID)
		if err != nil {
			return nil, err
		}
		if !trainer.Available {
			return nil, fmt.Errorf("%w: %s", ErrTrainerUnavailable, trainer.Username)
		}
		bundle.Trainer = &pricing.TrainerFee{Monthly: trainer.MonthlyFee}
		titleParts = append(titleParts, "Entrenador "+trainer.Username)
	}

	line := pricing.ComposeBundle(bundle, onlyTrainer, now)
	lines := []checkout.Line{{
		Title:     strings.Join(titleParts, " + "),
		UnitPrice: line.UnitPrice,
		Quantity:  1,
	}}

	req := checkout.BuildRequest(lines, &checkout.Hints{PlanID: planID, TrainerID: trainerID})
	return s.submitAndStore(ctx, username, req, nil, planID, trainerID)
}

func (s *OrderService) submitAndStore(ctx context.Context, username string, req checkout.Request,
	items []models.OrderItem, planID, trainerID *int) (*CheckoutResult, error) {
	metrics.CheckoutAttempts.Inc()

	initPoint, err := checkout.Submit(ctx, req, s.provider, s.currency)
	if err != nil {
		metrics.CheckoutFailures.Inc()
		return nil, err
	}

	order := models.Order{
		Reference: req.Reference,
		Username:  username,
		Total:     req.Total,
		Status:    models.OrderStatusPending,
		PlanID:    planID,
		TrainerID: trainerID,
	}
	id, err := s.repo.CreateOrder(ctx, order, items)
	if err != nil {
		return nil, err
	}

	s.log.Info("created new order",
		slog.Int("id", id),
		slog.String("reference", req.Reference),
		slog.String("total", req.Total.StringFixed(2)))

	return &CheckoutResult{
		Reference: req.Reference,
		Total:     req.Total,
		InitPoint: initPoint,
	}, nil
}

// ProcessPaymentEvent обрабатывает платёжное событие провайдера:
// обновляет статус заказа по ссылке и при оплате публикует задачу на чек.
func (s *OrderService) ProcessPaymentEvent(ctx context.Context, event, reference string) error {
	var status string
	switch event {
	case "payment.succeeded":
		status = models.OrderStatusPaid
	case "payment.canceled":
		status = models.OrderStatusCanceled
	default:
		return fmt.Errorf("unknown event type: %s", event)
	}

	count, err := s.repo.UpdateOrderStatusByReference(ctx, reference, status)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s", ErrUnknownOrder, reference)
	}

	if status != models.OrderStatusPaid {
		return nil
	}
	metrics.OrdersPaid.Inc()

	order, err := s.repo.ReadOrderByReference(ctx, reference)
	if err != nil {
		return err
	}
	task := ReceiptTask{
		Username:  order.Username,
		Reference: order.Reference,
		Total:     order.Total.StringFixed(2),
	}
	if err := s.publisher.Publish("paid", task); err != nil {
		s.log.Warn("failed to publish receipt task", slog.String("reference", reference), slog.Any("err", err))
	}
	return nil
}

// ListOrders возвращает заказы пользователя с пагинацией.
func (s *OrderService) ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error) {
	return s.repo.ListOrders(ctx, username, limit, offset)
}
