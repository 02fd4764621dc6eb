// Package list реализует HTTP-обработчик списка товаров каталога.
//
// Handler возвращает активные товары с действующими ценами: базовая цена,
// итоговая цена с учётом окна скидки и признак активной скидки.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gym-storefront/internal/http/response"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/sl"
	"github.com/magabrotheeeer/gym-storefront/internal/services/catalog"
)

// Service описывает интерфейс бизнес-логики каталога.
type Service interface {
	List(ctx context.Context, limit, offset int) ([]catalog.ProductView, error)
}

// Handler управляет HTTP-запросами на получение списка товаров.
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

// ProductItem элемент списка товаров с рассчитанной ценой.
type ProductItem struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description,omitempty"`
	Brand            string `json:"brand,omitempty"`
	Category         string `json:"category,omitempty"`
	Stock            int    `json:"stock"`
	ImageURL         string `json:"image_url,omitempty"`
	OriginalPrice    string `json:"original_price"`
	FinalPrice       string `json:"final_price"`
	IsDiscountActive bool   `json:"is_discount_active"`
	DiscountReason   string `json:"discount_reason,omitempty"`
}

// ToItem переводит ProductView в элемент ответа.
func ToItem(v catalog.ProductView) ProductItem {
	return ProductItem{
		ID:               v.Product.ID,
		Name:             v.Product.Name,
		Description:      v.Product.Description,
		Brand:            v.Product.Brand,
		Category:         v.Product.Category,
		Stock:            v.Product.Stock,
		ImageURL:         v.Product.ImageURL,
		OriginalPrice:    v.Product.Price.StringFixed(2),
		FinalPrice:       v.Price.UnitPrice.StringFixed(2),
		IsDiscountActive: v.Price.Discounted,
		DiscountReason:   v.Price.DisplayReason,
	}
}

// ServeHTTP godoc
// @Summary Список товаров
// @Description Возвращает активные товары каталога с действующими ценами.
// @Tags Products
// @Produce  json
// @Param limit query int false "Максимум записей (по умолчанию 10)"
// @Param offset query int false "Смещение (по умолчанию 0)"
// @Success 200 {object} map[string]any "Список товаров"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /products [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.product.list"

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

	res, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list products", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list products"))
		return
	}

	items := make([]ProductItem, 0, len(res))
	for _, v := range res {
		items = append(items, ToItem(v))
	}

	log.Info("list products", "count", len(items))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"list_count": len(items),
		"products":   items,
	}))
}
