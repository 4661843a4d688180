// Package blooddonation собирает основное HTTP‑приложение сервиса донорства:
// хранилище, кэш, брокер событий, платёжный шлюз, сервисы и маршруты.
package blooddonation

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/blood-donation-backend/internal/cache"
	"github.com/magabrotheeeer/blood-donation-backend/internal/config"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/jwt"
	"github.com/magabrotheeeer/blood-donation-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/blood-donation-backend/internal/metrics"
	"github.com/magabrotheeeer/blood-donation-backend/internal/migrations"
	"github.com/magabrotheeeer/blood-donation-backend/internal/paymentgateway"
	authservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/auth"
	dashboardservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/dashboard"
	donorservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/donor"
	matchingservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/matching"
	paymentservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/payment"
	requestservice "github.com/magabrotheeeer/blood-donation-backend/internal/services/request"
	"github.com/magabrotheeeer/blood-donation-backend/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние соединения приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	conn   *amqp.Connection
	ch     *amqp.Channel
}

// New создает приложение: подключает зависимости, применяет миграции
// и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
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

	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetDonationQueues())
	if err != nil {
		conn.Close()
		return nil, err
	}
	publisher := rabbitmq.NewPublisher(ch)

	jwtMaker := jwt.NewMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	gatewayClient := paymentgateway.NewClient(cfg.StoreID, cfg.StorePass, cfg.GatewayURL)
	m := metrics.New()

	authService := authservice.NewAuthService(db, jwtMaker)
	donorService := donorservice.NewDonorService(db, cacheRedis, logger)
	requestService := requestservice.NewRequestService(db, cacheRedis, logger)
	matchingService := matchingservice.NewMatchingService(db, cacheRedis, publisher, m, logger)
	dashboardService := dashboardservice.NewDashboardService(db, m, logger)
	paymentService := paymentservice.NewPaymentService(db, gatewayClient,
		cfg.FrontendURL, cfg.BackendURL, m, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, authService, donorService, requestService,
		matchingService, dashboardService, paymentService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		conn:   conn,
		ch:     ch,
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
		if cerr := a.ch.Close(); cerr != nil {
			a.logger.Error("failed to close channel", slog.Any("err", cerr))
		}
		if cerr := a.conn.Close(); cerr != nil {
			a.logger.Error("failed to close connection", slog.Any("err", cerr))
		}
		a.db.DB.Close()
		return err
	}
}
