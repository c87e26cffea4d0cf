// Package auth реализует аутентификацию по имени пользователя и паролю
// с выдачей JWT токена.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/smart-wallet/internal/lib/jwt"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/password"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// UserProvider загружает данные пользователя для проверки учётных данных.
type UserProvider interface {
	LoadForAuthentication(ctx context.Context, username string) (*models.AuthMetadata, error)
}

// Service реализует сценарий входа в систему.
type Service struct {
	users UserProvider
	maker jwt.Maker
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserProvider, maker jwt.Maker, log *slog.Logger) *Service {
	return &Service{users: users, maker: maker, log: log}
}

// Login проверяет учётные данные и возвращает подписанный JWT токен.
//
// Неизвестное имя пользователя, неверный пароль и отключённая учётная
// запись неразличимы снаружи: все три случая дают ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, username, pass string) (string, error) {
	const op = "auth.Login"

	meta, err := s.users.LoadForAuthentication(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !meta.IsActive {
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err := password.CompareHash(meta.PasswordHash, pass); err != nil {
		return "", fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := s.maker.GenerateToken(meta.Username, meta.Role, meta.UserUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("username", username))
	return token, nil
}
