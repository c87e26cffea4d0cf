// Package list реализует HTTP-обработчик получения списка всех пользователей.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/smart-wallet/internal/http/response"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// UserService определяет метод получения списка пользователей.
type UserService interface {
	ListAll(ctx context.Context) ([]*models.User, error)
}

// Handler обрабатывает HTTP-запросы списка пользователей.
type Handler struct {
	log   *slog.Logger
	users UserService
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, users UserService) *Handler {
	return &Handler{log: log, users: users}
}

// userView скрывает хэш пароля из ответа.
type userView struct {
	UUID      string `json:"uuid"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ServeHTTP godoc
// @Summary Список всех пользователей
// @Description Возвращает всех пользователей системы (только для администраторов)
// @Tags Users
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.OKResponse "Список пользователей"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	users, err := h.users.ListAll(r.Context())
	if err != nil {
		log.Error("failed to list users", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to list users"))
		return
	}

	views := make([]userView, 0, len(users))
	for _, u := range users {
		views = append(views, userView{
			UUID:      u.UUID,
			Username:  u.Username,
			Role:      u.Role,
			IsActive:  u.IsActive,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Country:   u.Country,
		})
	}

	log.Info("listed users", slog.Int("count", len(views)))
	render.JSON(w, r, response.OKWithData(views))
}
