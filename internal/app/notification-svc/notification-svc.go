// Package notificationsvc собирает сервис настроек уведомлений:
// хранилище и HTTP-сервер с конечными точками настроек.
package notificationsvc

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/smart-wallet/internal/config"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/health"
	prefget "github.com/magabrotheeeer/smart-wallet/internal/http/handlers/preference/get"
	prefsave "github.com/magabrotheeeer/smart-wallet/internal/http/handlers/preference/save"
	"github.com/magabrotheeeer/smart-wallet/internal/migrations"
	preferenceservice "github.com/magabrotheeeer/smart-wallet/internal/services/preference"
	"github.com/magabrotheeeer/smart-wallet/internal/storage/repository"
)

// App сервис настроек уведомлений.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
}

// New собирает приложение из конфигурации.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	preferences := preferenceservice.New(db, logger)

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
	)
	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/preferences", prefsave.New(logger, preferences).ServeHTTP)
		r.Get("/preferences", prefget.New(logger, preferences).ServeHTTP)
	})
	router.Get("/health", health.New(logger, db).ServeHTTP)
	router.Handle("/metrics", promhttp.Handler())

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
		_ = a.db.DB.Close()
		return err
	}
}
