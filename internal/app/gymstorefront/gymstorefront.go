package gymstorefront

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-storefront/internal/cache"
	"github.com/magabrotheeeer/gym-storefront/internal/config"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/jwt"
	"github.com/magabrotheeeer/gym-storefront/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/gym-storefront/internal/metrics"
	"github.com/magabrotheeeer/gym-storefront/internal/migrations"
	"github.com/magabrotheeeer/gym-storefront/internal/paymentprovider"
	catalogservice "github.com/magabrotheeeer/gym-storefront/internal/services/catalog"
	membershipservice "github.com/magabrotheeeer/gym-storefront/internal/services/membership"
	orderservice "github.com/magabrotheeeer/gym-storefront/internal/services/order"
	"github.com/magabrotheeeer/gym-storefront/internal/storage"
)

// App собирает зависимости магазина и управляет жизненным циклом HTTP-сервера.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *storage.Storage
	rabbitmq *amqp.Connection
}

// New инициализирует хранилище, кеш, брокер, платёжного клиента и HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	rabbitConn, err := rabbitmq.Connect(cfg.RabbitMQ.URL, cfg.RabbitMQ.ConnectRetries, cfg.RabbitMQ.ConnectDelay)
	if err != nil {
		return nil, err
	}
	rabbitCh, err := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetReceiptQueues())
	if err != nil {
		return nil, err
	}
	receiptPublisher := rabbitmq.NewPublisher(rabbitCh, rabbitmq.Exchange)

	providerClient := paymentprovider.NewClient(cfg.PaymentProvider.AccessToken, cfg.PaymentProvider.APIURL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTToken.JWTSecretKey, cfg.JWTToken.TokenTTL)

	catalogService := catalogservice.NewCatalogService(db, cacheRedis, logger)
	membershipService := membershipservice.NewMembershipService(db, cacheRedis, logger)
	orderService := orderservice.NewOrderService(db, providerClient, receiptPublisher,
		cfg.PaymentProvider.Currency, logger)

	metrics.Register()

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, catalogService, membershipService, orderService,
		cfg.PaymentProvider.WebhookSecret)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		rabbitmq: rabbitConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		_ = a.rabbitmq.Close()
		_ = a.db.DB.Close()
		return err
	}
}
