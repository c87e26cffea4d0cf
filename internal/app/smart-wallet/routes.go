// Package smartwallet предоставляет маршруты для основного приложения.
package smartwallet

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/health"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/subscription/upgrade"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/user/edit"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/user/list"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/user/switchrole"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/user/switchstatus"
	"github.com/magabrotheeeer/smart-wallet/internal/http/handlers/wallet/read"
	"github.com/magabrotheeeer/smart-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/jwt"
	authservice "github.com/magabrotheeeer/smart-wallet/internal/services/auth"
	subscriptionservice "github.com/magabrotheeeer/smart-wallet/internal/services/subscription"
	userservice "github.com/magabrotheeeer/smart-wallet/internal/services/user"
	walletservice "github.com/magabrotheeeer/smart-wallet/internal/services/wallet"
	"github.com/magabrotheeeer/smart-wallet/internal/storage/repository"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, storage *repository.Storage, maker jwt.Maker,
	users *userservice.Service, auth *authservice.Service,
	subscriptions *subscriptionservice.Service, wallets *walletservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, users).ServeHTTP)
		r.Post("/login", login.New(logger, auth).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(maker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Put("/users/{id}", edit.New(logger, users).ServeHTTP)
			r.Post("/subscriptions/upgrade", upgrade.New(logger, users, subscriptions).ServeHTTP)
			r.Get("/wallets/{id}", read.New(logger, wallets).ServeHTTP)

			// Администрирование учётных записей
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/users", list.New(logger, users).ServeHTTP)
				r.Patch("/users/{id}/status", switchstatus.New(logger, users).ServeHTTP)
				r.Patch("/users/{id}/role", switchrole.New(logger, users).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger, storage).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
