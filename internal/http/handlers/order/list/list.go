// Package list реализует HTTP-обработчик списка заказов пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// Service описывает интерфейс бизнес-логики заказов.
type Service interface {
	ListOrders(ctx context.Context, username string, limit, offset int) ([]*models.Order, error)
}

// Handler управляет HTTP-запросами на получение списка заказов.
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

// OrderItem элемент списка заказов.
type OrderItem struct {
	ID        int       `json:"id"`
	Reference string    `json:"reference"`
	Total     string    `json:"total"`
	Status    string    `json:"status"`
	PlanID    *int      `json:"plan_id,omitempty"`
	TrainerID *int      `json:"trainer_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ServeHTTP godoc
// @Summary Список заказов
// @Description Возвращает заказы текущего пользователя с пагинацией.
// @Tags Orders
// @Produce  json
// @Param limit query int false "Максимум записей (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список заказов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /orders [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	offset, err := strconv.Atoi(r.URL.Query().Get("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.ListOrders(r.Context(), username, limit, offset)
	if err != nil {
		log.Error("failed to list orders", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list orders"))
		return
	}

	items := make([]OrderItem, 0, len(res))
	for _, o := range res {
		items = append(items, OrderItem{
			ID:        o.ID,
			Reference: o.Reference,
			Total:     o.Total.StringFixed(2),
			Status:    o.Status,
			PlanID:    o.PlanID,
			TrainerID: o.TrainerID,
			CreatedAt: o.CreatedAt,
		})
	}

	log.Info("list orders", "count", len(items))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(items),
		"orders":     items,
	}))
}
