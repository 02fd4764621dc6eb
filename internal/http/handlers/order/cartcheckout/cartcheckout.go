// Package cartcheckout реализует HTTP-обработчик оформления корзины товаров.
//
// Handler принимает JSON-корзину с ID товаров и количеством, валидирует её,
// извлекает имя пользователя из контекста и вызывает бизнес-логику оформления.
// Цены клиент не передаёт: их всегда считает сервер.
package cartcheckout

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/gym-storefront/internal/checkout"
	"github.com/magabrotheeeer/gym-storefront/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/models"
	"github.com/magabrotheeeer/gym-storefront/internal/services/order"
)

// Service описывает интерфейс бизнес-логики оформления корзины.
type Service interface {
	CheckoutCart(ctx context.Context, username string, cart models.DummyCart) (*order.CheckoutResult, error)
}

// Handler управляет HTTP-запросами на оформление корзины.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить корзину
// @Description Считает действующие цены корзины, отправляет платёжный запрос и возвращает URL оплаты.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.DummyCart true "Корзина: ID товаров и количество"
// @Success 200 {object} map[string]any "Ссылка на оплату"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Товар недоступен"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 502 {object} response.ErrorResponse "Платёжный провайдер отклонил запрос"
// @Router /checkout/cart [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.cartcheckout"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyCart
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	username, ok := r.Context().Value(middlewarectx.User).(string)
	if !ok || username == "" {
		log.Error("username not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	res, err := h.service.CheckoutCart(r.Context(), username, req)
	if err != nil {
		var subErr *checkout.SubmissionError
		switch {
		case errors.Is(err, order.ErrProductUnavailable):
			log.Error("product unavailable", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("product unavailable"))
		case errors.As(err, &subErr):
			log.Error("payment provider rejected the request", sl.Err(err))
			w.WriteHeader(http.StatusBadGateway)
			render.JSON(w, r, response.Error("payment provider rejected the request"))
		default:
			log.Error("failed to checkout cart", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not checkout cart"))
		}
		return
	}

	log.Info("cart checkout succeeded", slog.String("reference", res.Reference))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"reference":  res.Reference,
		"total":      res.Total.StringFixed(2),
		"init_point": res.InitPoint,
	}))
}
