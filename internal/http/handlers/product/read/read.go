// Package read реализует HTTP-обработчик чтения товара по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-storefront/internal/http/handlers/product/list"
	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/services/catalog"
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	Read(ctx context.Context, id int) (*catalog.ProductView, error)
}

// Handler управляет HTTP-запросами на чтение товара.
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

// ServeHTTP godoc
// @Summary Получить товар
// @Description Возвращает товар по ID с действующей ценой.
// @Tags Products
// @Produce  json
// @Param id path int true "ID товара"
// @Success 200 {object} map[string]any "Товар"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Товар не найден"
// @Router /products/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		log.Error("invalid product id", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid product id"))
		return
	}

	res, err := h.service.Read(r.Context(), id)
	if err != nil {
		log.Error("failed to read product", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("product not found"))
		return
	}

	log.Info("read product", slog.Int("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"product": list.ToItem(*res),
	}))
}
