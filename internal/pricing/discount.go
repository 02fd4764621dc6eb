// Package pricing содержит правила расчёта цен магазина: проверку окна скидки
// и сборку ценовых строк для товаров, планов и связок план+тренер.
//
// Все функции пакета чистые: текущий момент времени всегда передаётся извне,
// поэтому листинг, карточка товара и оформление заказа считают цену одинаково.
package pricing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidItem возвращается при некорректных входных данных позиции:
// отрицательная базовая цена или процент скидки вне диапазона [0, 100].
var ErrInvalidItem = errors.New("invalid priceable item")

var hundred = decimal.NewFromInt(100)

// Item описывает снимок позиции каталога (товар или план) на момент расчёта.
// Даты окна скидки опциональны: частично заполненное окно означает,
// что скидка не действует.
type Item struct {
	BasePrice       decimal.Decimal // Базовая цена без скидки
	DiscountPercent decimal.Decimal // Процент скидки, 0 — скидки нет
	DiscountStart   *time.Time      // Начало окна скидки (включительно)
	DiscountEnd     *time.Time      // Конец окна скидки (включительно)
	DiscountReason  string          // Причина скидки для отображения
}

// Window результат проверки окна скидки для позиции.
type Window struct {
	Active     bool            // Действует ли скидка в момент now
	FinalPrice decimal.Decimal // Итоговая цена: со скидкой или базовая
	Reason     string          // Причина скидки, пустая строка если скидки нет
}

// Validate проверяет позицию на границе загрузки данных.
// Evaluate остаётся тотальной функцией и сам ошибок не возвращает.
func (i Item) Validate() error {
	if i.BasePrice.IsNegative() {
		return ErrInvalidItem
	}
	if i.DiscountPercent.IsNegative() || i.DiscountPercent.GreaterThan(hundred) {
		return ErrInvalidItem
	}
	return nil
}

// Evaluate проверяет, действует ли скидка позиции в момент now, и считает итоговую цену.
//
// Скидка активна только если процент больше нуля, обе границы окна заданы
// и now попадает в [start, end] включительно. Во всех остальных случаях
// возвращается базовая цена без причины скидки.
func Evaluate(item Item, now time.Time) Window {
	inactive := Window{FinalPrice: item.BasePrice}

	if !item.DiscountPercent.IsPositive() {
		return inactive
	}
	if item.DiscountStart == nil || item.DiscountEnd == nil {
		return inactive
	}
	if now.Before(*item.DiscountStart) || now.After(*item.DiscountEnd) {
		return inactive
	}

	factor := decimal.NewFromInt(1).Sub(item.DiscountPercent.Div(hundred))
	final := item.BasePrice.Mul(factor).Round(2)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return Window{
		Active:     true,
		FinalPrice: final,
		Reason:     item.DiscountReason,
	}
}
