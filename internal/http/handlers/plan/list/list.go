// Package list реализует HTTP-обработчик списка планов абонементов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/services/membership"
)

// Service описывает интерфейс бизнес-логики абонементов.
type Service interface {
	ListPlans(ctx context.Context) ([]membership.PlanView, error)
}

// Handler управляет HTTP-запросами на получение списка планов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// PlanItem элемент списка планов с рассчитанной ценой.
type PlanItem struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	DurationMonths   int    `json:"duration_months"`
	OriginalPrice    string `json:"original_price"`
	FinalPrice       string `json:"final_price"`
	IsDiscountActive bool   `json:"is_discount_active"`
	DiscountReason   string `json:"discount_reason,omitempty"`
}

// ServeHTTP godoc
// @Summary Список планов
// @Description Возвращает активные планы абонементов с действующими ценами.
// @Tags Plans
// @Produce  json
// @Success 200 {object} map[string]any "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list plans"))
		return
	}

	items := make([]PlanItem, 0, len(res))
	for _, v := range res {
		items = append(items, PlanItem{
			ID:               v.Plan.ID,
			Name:             v.Plan.Name,
			Description:      v.Plan.Description,
			DurationMonths:   v.Plan.DurationMonths,
			OriginalPrice:    v.Plan.Price.StringFixed(2),
			FinalPrice:       v.Price.UnitPrice.StringFixed(2),
			IsDiscountActive: v.Price.Discounted,
			DiscountReason:   v.Price.DisplayReason,
		})
	}

	log.Info("list plans", "count", len(items))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(items),
		"plans":      items,
	}))
}
