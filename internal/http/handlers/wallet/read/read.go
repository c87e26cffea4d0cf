// Package read реализует HTTP-обработчик просмотра кошелька и истории операций.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/smart-wallet/internal/http/middlewarectx"
	"github.com/magabrotheeeer/smart-wallet/internal/http/response"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// WalletService определяет методы чтения кошелька и его операций.
type WalletService interface {
	GetByUID(ctx context.Context, walletUID string) (*models.Wallet, error)
	History(ctx context.Context, walletUID string) ([]*models.Transaction, error)
}

// Handler обрабатывает HTTP-запросы просмотра кошелька.
type Handler struct {
	log     *slog.Logger
	wallets WalletService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, wallets WalletService) *Handler {
	return &Handler{log: log, wallets: wallets}
}

type transactionView struct {
	UUID          string `json:"uuid"`
	Amount        string `json:"amount"`
	Type          string `json:"type"`
	Status        string `json:"status"`
	Description   string `json:"description,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

type walletView struct {
	UUID         string            `json:"uuid"`
	Balance      string            `json:"balance"`
	Currency     string            `json:"currency"`
	Status       string            `json:"status"`
	Transactions []transactionView `json:"transactions"`
}

// ServeHTTP godoc
// @Summary Просмотр кошелька
// @Description Возвращает баланс кошелька и историю операций; чужой кошелёк доступен только администратору
// @Tags Wallets
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID кошелька"
// @Success 200 {object} response.OKResponse "Кошелёк с историей операций"
// @Failure 403 {object} response.ErrorResponse "Кошелёк принадлежит другому пользователю"
// @Failure 404 {object} response.ErrorResponse "Кошелёк не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /wallets/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.wallet.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	walletUID := chi.URLParam(r, "id")
	if walletUID == "" {
		log.Error("missing wallet id in path")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing wallet id"))
		return
	}

	wallet, err := h.wallets.GetByUID(r.Context(), walletUID)
	if err != nil {
		if errors.Is(err, models.ErrWalletNotFound) {
			log.Error("wallet not found", slog.String("wallet_uid", walletUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("wallet not found"))
			return
		}
		log.Error("failed to get wallet", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get wallet"))
		return
	}

	userUID, _ := r.Context().Value(middlewarectx.UserUID).(string)
	role, _ := r.Context().Value(middlewarectx.Role).(string)
	if wallet.OwnerUID != userUID && role != models.RoleAdmin {
		log.Error("wallet belongs to another user",
			slog.String("wallet_uid", walletUID),
			slog.String("user_uid", userUID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Error("wallet belongs to another user"))
		return
	}

	txns, err := h.wallets.History(r.Context(), walletUID)
	if err != nil {
		log.Error("failed to get wallet history", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get wallet history"))
		return
	}

	view := walletView{
		UUID:         wallet.UUID,
		Balance:      wallet.Balance.StringFixed(2),
		Currency:     wallet.Currency,
		Status:       wallet.Status,
		Transactions: make([]transactionView, 0, len(txns)),
	}
	for _, t := range txns {
		view.Transactions = append(view.Transactions, transactionView{
			UUID:          t.UUID,
			Amount:        t.Amount.StringFixed(2),
			Type:          t.Type,
			Status:        t.Status,
			Description:   t.Description,
			FailureReason: t.FailureReason,
		})
	}

	log.Info("wallet read", slog.String("wallet_uid", walletUID))
	render.JSON(w, r, response.OKWithData(view))
}
