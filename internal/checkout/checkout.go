// Package checkout собирает платёжный запрос из уже посчитанных ценовых строк
// и отправляет его платёжному провайдеру.
//
// Пакет не пересчитывает цены: строки приходят из pricing с итоговыми ценами,
// поэтому пользователь платит ровно ту сумму, которую видел на экране.
package checkout

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/gym-storefront/internal/paymentprovider"
)

// Line строка платёжного запроса: итоговая цена за единицу и количество.
type Line struct {
	Title     string
	UnitPrice decimal.Decimal
	Quantity  int
}

// Hints ссылки на план и тренера для платёжного провайдера.
type Hints struct {
	PlanID    *int
	TrainerID *int
}

// Request готовый платёжный запрос. Total считается из строк как есть,
// без повторной проверки скидок.
type Request struct {
	Reference string // внешняя ссылка заказа, по ней приходит webhook
	Lines     []Line
	Total     decimal.Decimal
	Hints     *Hints
}

// SubmissionError возвращается, когда платёжный провайдер отклонил запрос
// или недоступен. Попытка оформления одноразовая: повтор требует
// заново собранного запроса с актуальными ценами.
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("checkout submission failed: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// Submitter описывает интерфейс платёжного провайдера.
type Submitter interface {
	CreatePreference(ctx context.Context, reqParams paymentprovider.CreatePreferenceRequest) (*paymentprovider.CreatePreferenceResponse, error)
}

// BuildRequest собирает платёжный запрос из ценовых строк.
// Цены строк не пересчитываются и не проверяются повторно.
func BuildRequest(lines []Line, hints *Hints) Request {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	return Request{
		Reference: uuid.New().String(),
		Lines:     lines,
		Total:     total,
		Hints:     hints,
	}
}

// Submit отправляет запрос провайдеру и возвращает URL перенаправления на оплату.
//
// Выполняется ровно один сетевой вызов. Ошибка провайдера оборачивается
// в *SubmissionError и отдаётся вызывающему без повторов.
func Submit(ctx context.Context, req Request, provider Submitter, currency string) (string, error) {
	items := make([]paymentprovider.PreferenceItem, 0, len(req.Lines))
	for _, l := range req.Lines {
		items = append(items, paymentprovider.PreferenceItem{
			Title:     l.Title,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			Currency:  currency,
		})
	}

	prefReq := paymentprovider.CreatePreferenceRequest{
		Items:             items,
		ExternalReference: req.Reference,
	}
	if req.Hints != nil {
		prefReq.Metadata = make(map[string]string)
		if req.Hints.PlanID != nil {
			prefReq.Metadata["plan_id"] = strconv.Itoa(*req.Hints.PlanID)
		}
		if req.Hints.TrainerID != nil {
			prefReq.Metadata["trainer_id"] = strconv.Itoa(*req.Hints.TrainerID)
		}
	}

	resp, err := provider.CreatePreference(ctx, prefReq)
	if err != nil {
		return "", &SubmissionError{Err: err}
	}

	return resp.InitPoint, nil
}
