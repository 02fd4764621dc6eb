// Package list реализует HTTP-обработчик списка доступных тренеров.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/models"
)

// Service описывает интерфейс бизнес-логики абонементов.
type Service interface {
	ListTrainers(ctx context.Context) ([]*models.Trainer, error)
}

// Handler управляет HTTP-запросами на получение списка тренеров.
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

// TrainerItem элемент списка тренеров.
type TrainerItem struct {
	ID              int    `json:"id"`
	Username        string `json:"username"`
	Title           string `json:"title,omitempty"`
	Specialization  string `json:"specialization,omitempty"`
	ExperienceYears int    `json:"experience_years"`
	MonthlyFee      string `json:"monthly_fee"`
}

// ServeHTTP godoc
// @Summary Список тренеров
// @Description Возвращает доступных персональных тренеров с помесячной ставкой.
// @Tags Trainers
// @Produce  json
// @Success 200 {object} map[string]any "Список тренеров"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /trainers [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trainer.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	res, err := h.service.ListTrainers(r.Context())
	if err != nil {
		log.Error("failed to list trainers", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list trainers"))
		return
	}

	items := make([]TrainerItem, 0, len(res))
	for _, trainer := range res {
		items = append(items, TrainerItem{
			ID:              trainer.ID,
			Username:        trainer.Username,
			Title:           trainer.Title,
			Specialization:  trainer.Specialization,
			ExperienceYears: trainer.ExperienceYears,
			MonthlyFee:      trainer.MonthlyFee.StringFixed(2),
		})
	}

	log.Info("list trainers", "count", len(items))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(items),
		"trainers":   items,
	}))
}
