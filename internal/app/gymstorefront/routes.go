// Package gymstorefront предоставляет маршруты для основного приложения.
package gymstorefront

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	ordercheckout "github.com/magabrotheeeer/gym-storefront/internal/http/handlers/order/cartcheckout"
	orderlist "github.com/magabrotheeeer/gym-storefront/internal/http/handlers/order/list"
	"github.com/magabrotheeeer/gym-storefront/internal/http/handlers/order/preference"
	"github.com/magabrotheeeer/gym-storefront/internal/http/handlers/order/webhook"
	planlist "github.com/magabrotheeeer/gym-storefront/internal/http/handlers/plan/list"
	productlist "github.com/magabrotheeeer/gym-storefront/internal/http/handlers/product/list"
	productread "github.com/magabrotheeeer/gym-storefront/internal/http/handlers/product/read"
	trainerlist "github.com/magabrotheeeer/gym-storefront/internal/http/handlers/trainer/list"
	"github.com/magabrotheeeer/gym-storefront/internal/http/middlewarectx"
	catalogservice "github.com/magabrotheeeer/gym-storefront/internal/services/catalog"
	membershipservice "github.com/magabrotheeeer/gym-storefront/internal/services/membership"
	orderservice "github.com/magabrotheeeer/gym-storefront/internal/services/order"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, parser middlewarectx.TokenParser,
	catalogService *catalogservice.CatalogService, membershipService *membershipservice.MembershipService,
	orderService *orderservice.OrderService, webhookSecret string) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки каталога
		r.Get("/products", productlist.New(logger, catalogService).ServeHTTP)
		r.Get("/products/{id}", productread.New(logger, catalogService).ServeHTTP)
		r.Get("/plans", planlist.New(logger, membershipService).ServeHTTP)
		r.Get("/trainers", trainerlist.New(logger, membershipService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(parser, logger))
			r.Use(middlewarectx.RateLimitMiddleware(1, 3))
			r.Post("/checkout/cart", ordercheckout.New(logger, orderService).ServeHTTP)
			r.Post("/payment/create_preference", preference.New(logger, orderService).ServeHTTP)
			r.Get("/orders", orderlist.New(logger, orderService).ServeHTTP)
		})

		// Webhook endpoint (без аутентификации)
		r.Post("/payments/webhook", webhook.New(logger, orderService, webhookSecret).ServeHTTP)
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
