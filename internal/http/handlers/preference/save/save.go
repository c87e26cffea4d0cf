// Package save реализует HTTP-обработчик сохранения настройки уведомлений.
package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/smart-wallet/internal/http/response"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Request — входные данные настройки уведомлений.
type Request struct {
	UserUID     string  `json:"user_uid" validate:"required,uuid"`
	Type        string  `json:"type" validate:"omitempty,oneof=EMAIL"`
	Enabled     bool    `json:"enabled"`
	ContactInfo *string `json:"contact_info"`
}

// PreferenceService определяет метод сохранения настройки.
type PreferenceService interface {
	Save(ctx context.Context, pref models.NotificationPreference) error
}

// Handler обрабатывает HTTP-запросы сохранения настройки уведомлений.
type Handler struct {
	log         *slog.Logger
	preferences PreferenceService
	validate    *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, preferences PreferenceService) *Handler {
	return &Handler{
		log:         log,
		preferences: preferences,
		validate:    validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сохранение настройки уведомлений
// @Description Перезаписывает настройку уведомлений пользователя
// @Tags Preferences
// @Accept  json
// @Produce  json
// @Param request body Request true "Настройка уведомлений"
// @Success 200 {object} response.OKResponse "Настройка сохранена"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /preferences [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.preference.save"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
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

	pref := models.NotificationPreference{
		UserUID:     req.UserUID,
		Type:        req.Type,
		Enabled:     req.Enabled,
		ContactInfo: req.ContactInfo,
	}
	if err := h.preferences.Save(r.Context(), pref); err != nil {
		log.Error("failed to save preference", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to save preference"))
		return
	}

	log.Info("preference saved", slog.String("user_uid", req.UserUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "preference saved",
	}))
}
