// Package models содержит доменные структуры магазина зала:
// товары, планы абонементов, тренеров и заказы,
// а также вспомогательные типы для приёма данных из JSON-запросов.
package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/gym-storefront/internal/pricing"
)

// Product представляет товар каталога. Поля окна скидки опциональны:
// частично заполненное окно означает неактивную скидку, не ошибку.
type Product struct {
	ID              int
	Name            string
	Description     string
	Brand           string
	Category        string
	Price           decimal.Decimal // Базовая цена без скидки
	Stock           int
	ImageURL        string
	DiscountPercent decimal.Decimal
	DiscountStart   *time.Time
	DiscountEnd     *time.Time
	DiscountReason  string
	Active          bool
}

// Plan представляет план абонемента зала.
type Plan struct {
	ID              int
	Name            string
	Description     string
	Price           decimal.Decimal // Цена за весь срок плана
	DurationMonths  int             // Срок плана в месяцах
	DiscountPercent decimal.Decimal
	DiscountStart   *time.Time
	DiscountEnd     *time.Time
	DiscountReason  string
	Active          bool
}

// Trainer представляет персонального тренера с помесячной ставкой.
type Trainer struct {
	ID              int
	Username        string
	Title           string
	Specialization  string
	ExperienceYears int
	MonthlyFee      decimal.Decimal
	Available       bool
}

// Статусы заказа. Заказ создаётся только после успешной отправки
// платёжного запроса, поэтому неудачная попытка оформления записей не оставляет.
const (
	OrderStatusPending  = "pending"
	OrderStatusPaid     = "paid"
	OrderStatusCanceled = "canceled"
)

// Order представляет заказ: корзину товаров или подписку на план.
type Order struct {
	ID        int
	Reference string // внешняя ссылка, по ней провайдер присылает webhook
	Username  string
	Total     decimal.Decimal
	Status    string
	PlanID    *int
	TrainerID *int
	CreatedAt time.Time
}

// OrderItem позиция заказа с зафиксированной на момент оформления ценой.
type OrderItem struct {
	OrderID   int
	ProductID int
	UnitPrice decimal.Decimal
	Quantity  int
}

// Priceable возвращает снимок товара для расчёта цены.
func (p Product) Priceable() pricing.Item {
	return pricing.Item{
		BasePrice:       p.Price,
		DiscountPercent: p.DiscountPercent,
		DiscountStart:   p.DiscountStart,
		DiscountEnd:     p.DiscountEnd,
		DiscountReason:  p.DiscountReason,
	}
}

// Priceable возвращает снимок плана для расчёта цены.
func (p Plan) Priceable() pricing.Item {
	return pricing.Item{
		BasePrice:       p.Price,
		DiscountPercent: p.DiscountPercent,
		DiscountStart:   p.DiscountStart,
		DiscountEnd:     p.DiscountEnd,
		DiscountReason:  p.DiscountReason,
	}
}

// DummyCartItem используется для приёма позиции корзины из JSON-запроса.
// Клиент передаёт только ID товара и количество: цены всегда считает сервер.
type DummyCartItem struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gte=1"`
}

// DummyCart используется для приёма корзины из JSON-запроса.
type DummyCart struct {
	Items []DummyCartItem `json:"items" validate:"required,min=1,dive"`
}
