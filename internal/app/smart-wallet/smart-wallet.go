// Package smartwallet собирает основное приложение: хранилище, кеш,
// клиент сервиса уведомлений, публикацию событий и HTTP-сервер.
package smartwallet

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/smart-wallet/internal/cache"
	"github.com/magabrotheeeer/smart-wallet/internal/config"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/jwt"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/migrations"
	"github.com/magabrotheeeer/smart-wallet/internal/notification"
	authservice "github.com/magabrotheeeer/smart-wallet/internal/services/auth"
	subscriptionservice "github.com/magabrotheeeer/smart-wallet/internal/services/subscription"
	userservice "github.com/magabrotheeeer/smart-wallet/internal/services/user"
	walletservice "github.com/magabrotheeeer/smart-wallet/internal/services/wallet"
	"github.com/magabrotheeeer/smart-wallet/internal/storage/repository"
)

// App основное приложение smart-wallet.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	rabbit *amqp.Connection
}

// New собирает приложение из конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	notificationClient := notification.NewClient(cfg.NotificationAddress, cfg.NotificationTimeout)

	// событийная шина best-effort: без брокера приложение всё равно работает
	var rabbitConn *amqp.Connection
	var publisher userservice.EventPublisher
	rabbitConn, err = rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		logger.Warn("rabbitmq unavailable, account events disabled", sl.Err(err))
	} else {
		ch, chErr := rabbitmq.SetupChannel(rabbitConn, rabbitmq.GetAccountEventQueues())
		if chErr != nil {
			logger.Warn("rabbitmq channel setup failed, account events disabled", sl.Err(chErr))
		} else {
			publisher = rabbitmq.NewPublisher(ch)
		}
	}

	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	wallets := walletservice.New(db, logger)
	subscriptions := subscriptionservice.New(db, wallets, db, publisher, logger)
	users := userservice.New(db, subscriptions, wallets, notificationClient, cacheRedis, db, publisher, logger)
	auth := authservice.New(users, maker, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, db, maker, users, auth, subscriptions, wallets)

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
		rabbit: rabbitConn,
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
		if a.rabbit != nil {
			_ = a.rabbit.Close()
		}
		_ = a.db.DB.Close()
		return err
	}
}
