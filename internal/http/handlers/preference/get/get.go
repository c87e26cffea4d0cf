// Package get реализует HTTP-обработчик чтения настройки уведомлений.
package get

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/smart-wallet/internal/http/response"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// PreferenceService определяет метод чтения настройки.
type PreferenceService interface {
	Get(ctx context.Context, userUID string) (*models.NotificationPreference, error)
}

// Handler обрабатывает HTTP-запросы чтения настройки уведомлений.
type Handler struct {
	log         *slog.Logger
	preferences PreferenceService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, preferences PreferenceService) *Handler {
	return &Handler{log: log, preferences: preferences}
}

// ServeHTTP godoc
// @Summary Чтение настройки уведомлений
// @Description Возвращает настройку уведомлений пользователя по user_uid
// @Tags Preferences
// @Produce  json
// @Param user_uid query string true "UID пользователя"
// @Success 200 {object} response.OKResponse "Настройка уведомлений"
// @Failure 400 {object} response.ErrorResponse "Отсутствует user_uid"
// @Failure 404 {object} response.ErrorResponse "Настройка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /preferences [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.preference.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := r.URL.Query().Get("user_uid")
	if userUID == "" {
		log.Error("missing user_uid query parameter")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user_uid"))
		return
	}

	pref, err := h.preferences.Get(r.Context(), userUID)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			log.Error("preference not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("preference not found"))
			return
		}
		log.Error("failed to get preference", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get preference"))
		return
	}

	log.Info("preference read", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(pref))
}
