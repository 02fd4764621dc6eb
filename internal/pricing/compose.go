package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line готовая ценовая строка для отображения и оформления заказа.
// Для связок план+тренер заполняются компоненты PlanPrice и TrainerPrice,
// так как на экране они показываются отдельно до общей суммы.
type Line struct {
	UnitPrice     decimal.Decimal // Итоговая цена за единицу
	Discounted    bool            // Действовала ли скидка при расчёте
	DisplayReason string          // Причина скидки для отображения
	PlanPrice     decimal.Decimal // Компонент плана (только для связок)
	TrainerPrice  decimal.Decimal // Компонент тренера за весь срок (только для связок)
}

// TrainerFee ежемесячная ставка персонального тренера.
type TrainerFee struct {
	Monthly decimal.Decimal
}

// Bundle покупка плана с опциональным персональным тренером.
// Ставка тренера умножается на срок плана в месяцах.
type Bundle struct {
	Plan           Item
	Trainer        *TrainerFee
	DurationMonths int
}

// ComposeSingle собирает ценовую строку для одиночной позиции каталога.
func ComposeSingle(item Item, now time.Time) Line {
	w := Evaluate(item, now)
	return Line{
		UnitPrice:     w.FinalPrice,
		Discounted:    w.Active,
		DisplayReason: w.Reason,
	}
}

// ComposeBundle собирает ценовую строку для связки план+тренер.
//
// В режиме onlyTrainer план игнорируется, а срок всегда считается равным
// одному месяцу независимо от DurationMonths: тренер без плана оплачивается помесячно.
func ComposeBundle(b Bundle, onlyTrainer bool, now time.Time) Line {
	if onlyTrainer {
		fee := decimal.Zero
		if b.Trainer != nil {
			fee = b.Trainer.Monthly
		}
		return Line{
			UnitPrice:    fee,
			TrainerPrice: fee,
		}
	}

	w := Evaluate(b.Plan, now)

	trainerTotal := decimal.Zero
	if b.Trainer != nil {
		trainerTotal = b.Trainer.Monthly.Mul(decimal.NewFromInt(int64(b.DurationMonths)))
	}

	return Line{
		UnitPrice:     w.FinalPrice.Add(trainerTotal),
		Discounted:    w.Active,
		DisplayReason: w.Reason,
		PlanPrice:     w.FinalPrice,
		TrainerPrice:  trainerTotal,
	}
}
