// Package upgrade реализует HTTP-обработчик смены тарифного плана подписки.
package upgrade

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/smart-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/smart-wallet/internal/http/response"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// UserService загружает пользователя, выполняющего запрос.
type UserService interface {
	GetByUID(ctx context.Context, userUID string) (*models.User, error)
}

// SubscriptionService определяет метод смены тарифного плана.
type SubscriptionService interface {
	Upgrade(ctx context.Context, user *models.User, targetType string, req models.DummyUpgradeRequest) (*models.Transaction, error)
}

// Handler обрабатывает HTTP-запросы смены тарифного плана.
type Handler struct {
	log           *slog.Logger
	users         UserService
	subscriptions SubscriptionService
	validate      *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users UserService, subscriptions SubscriptionService) *Handler {
	return &Handler{
		log:           log,
		users:         users,
		subscriptions: subscriptions,
		validate:      validator.New(),
	}
}

// transactionView описывает результат попытки списания в ответе.
type transactionView struct {
	UUID          string `json:"uuid"`
	WalletUID     string `json:"wallet_uid"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// ServeHTTP godoc
// @Summary Смена тарифного плана подписки
// @Description Списывает цену плана с кошелька пользователя и активирует новую подписку
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyUpgradeRequest true "Целевой план и кошелёк"
// @Success 200 {object} response.OKResponse "Результат попытки списания"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 402 {object} response.ErrorResponse "Недостаточно средств"
// @Failure 403 {object} response.ErrorResponse "Кошелёк принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Кошелёк не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Router /subscriptions/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upgrade"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	var req models.DummyUpgradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.users.GetByUID(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to load user"))
		return
	}

	txn, err := h.subscriptions.Upgrade(r.Context(), user, req.SubscriptionType, req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrWalletNotFound):
			log.Error("wallet not found", slog.String("wallet_uid", req.WalletUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("wallet not found"))
		case errors.Is(err, models.ErrWalletOwnershipMismatch):
			log.Error("wallet belongs to another user", slog.String("wallet_uid", req.WalletUID))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Error("wallet belongs to another user"))
		default:
			log.Error("upgrade failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to upgrade subscription"))
		}
		return
	}

	view := transactionView{
		UUID:          txn.UUID,
		WalletUID:     txn.WalletUID,
		Amount:        txn.Amount.StringFixed(2),
		Status:        txn.Status,
		Description:   txn.Description,
		FailureReason: txn.FailureReason,
	}

	if txn.Status == models.TransactionStatusFailed {
		log.Info("upgrade rejected, insufficient funds",
			slog.String("user_uid", userUID),
			slog.String("wallet_uid", req.WalletUID))
		render.Status(r, http.StatusPaymentRequired)
		render.JSON(w, r, response.OKWithData(view))
		return
	}

	log.Info("subscription upgraded",
		slog.String("user_uid", userUID),
		slog.String("type", req.SubscriptionType),
		slog.String("period", req.SubscriptionPeriod))
	render.JSON(w, r, response.OKWithData(view))
}
