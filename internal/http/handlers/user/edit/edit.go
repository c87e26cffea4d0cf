// Package edit реализует HTTP-обработчик редактирования профиля пользователя.
package edit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/smart-wallet/internal/http/response"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// UserService определяет метод редактирования профиля.
type UserService interface {
	EditUserDetails(ctx context.Context, userUID string, req models.DummyEditUserRequest) error
}

// Handler обрабатывает HTTP-запросы редактирования профиля.
type Handler struct {
	log      *slog.Logger
	users    UserService
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users UserService) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Редактирование профиля пользователя
// @Description Перезаписывает профильные поля целиком и выводит настройку уведомлений из email
// @Tags Users
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param id path string true "UID пользователя"
// @Param request body models.DummyEditUserRequest true "Новые данные профиля"
// @Success 200 {object} response.OKResponse "Профиль обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации данных"
// @Failure 503 {object} response.ErrorResponse "Сервис уведомлений недоступен"
// @Router /users/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.edit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "id")
	if userUID == "" {
		log.Error("missing user id in path")
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing user id"))
		return
	}

	var req models.DummyEditUserRequest
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

	if err := h.users.EditUserDetails(r.Context(), userUID, req); err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			log.Error("user not found", slog.String("user_uid", userUID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
		case errors.Is(err, models.ErrNotificationService):
			log.Error("notification service unavailable", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("notification service unavailable"))
		default:
			log.Error("failed to edit user details", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to edit user details"))
		}
		return
	}

	log.Info("user details updated", slog.String("user_uid", userUID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "user details updated",
	}))
}
