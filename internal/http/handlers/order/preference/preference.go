// Package preference реализует HTTP-обработчик оформления подписки
// на план и/или персонального тренера.
//
// План и тренер передаются query-параметрами planId и trainerId. Без плана
// действует режим "только тренер": оплачивается один месяц сопровождения.
package preference

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-storefront/internal/checkout"
	"github.com/magabrotheeeer/gym-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/services/order"
)

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	SubscribePlan(ctx context.Context, username string, planID, trainerID *int) (*order.CheckoutResult, error)
}

// Handler управляет HTTP-запросами на оформление подписки.
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

func optionalID(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(value)
	if err != nil || id <= 0 {
		return nil, errors.New("invalid id: " + value)
	}
	return &id, nil
}

// ServeHTTP godoc
// @Summary Оформить подписку
// @Description Отправляет платёжный запрос на план и/или тренера и возвращает URL оплаты.
// @Tags Orders
// @Produce  json
// @Param planId query int false "ID плана"
// @Param trainerId query int false "ID тренера"
// @Success 200 {object} map[string]any "Ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректные параметры"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "План или тренер недоступен"
// @Failure 502 {object} response.ErrorResponse "Платёжный провайдер отклонил запрос"
// @Router /payment/create_preference [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.preference"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	planID, err := optionalID(r.URL.Query().Get("planId"))
	if err != nil {
		log.Error("invalid plan id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid planId"))
		return
	}
	trainerID, err := optionalID(r.URL.Query().Get("trainerId"))
	if err != nil {
		log.Error("invalid trainer id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid trainerId"))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.SubscribePlan(r.Context(), username, planID, trainerID)
	if err != nil {
		var subErr *checkout.SubmissionError
		switch {
		case errors.Is(err, order.ErrEmptyPurchase):
			log.Error("nothing to purchase")
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("planId or trainerId required"))
		case errors.Is(err, order.ErrPlanUnavailable), errors.Is(err, order.ErrTrainerUnavailable):
			log.Error("plan or trainer unavailable", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("plan or trainer unavailable"))
		case errors.As(err, &subErr):
			log.Error("payment provider rejected the request", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider rejected the request"))
		default:
			log.Error("failed to create preference", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not create preference"))
		}
		return
	}

	log.Info("subscription checkout succeeded", slog.String("reference", res.Reference))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reference":  res.Reference,
		"total":      res.Total.StringFixed(2),
		"init_point": res.InitPoint,
	}))
}
