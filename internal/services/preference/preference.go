// Package preference содержит бизнес-логику сервиса настроек уведомлений.
package preference

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Repository определяет методы хранения настроек уведомлений.
type Repository interface {
	UpsertNotificationPreference(ctx context.Context, pref models.NotificationPreference) error
	GetNotificationPreference(ctx context.Context, userUID string) (*models.NotificationPreference, error)
}

// Service реализует бизнес-логику настроек уведомлений.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Save сохраняет настройку уведомлений пользователя, перезаписывая
// существующую. Включённая настройка требует непустого контакта.
func (s *Service) Save(ctx context.Context, pref models.NotificationPreference) error {
	const op = "preference.Save"

	if pref.Type == "" {
		pref.Type = models.NotificationTypeEmail
	}
	if pref.Enabled && (pref.ContactInfo == nil || strings.TrimSpace(*pref.ContactInfo) == "") {
		return fmt.Errorf("%s: enabled preference requires contact info", op)
	}
	if !pref.Enabled {
		pref.ContactInfo = nil
	}

	if err := s.repo.UpsertNotificationPreference(ctx, pref); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("saved notification preference",
		slog.String("user_uid", pref.UserUID),
		slog.Bool("enabled", pref.Enabled))
	return nil
}

// Get возвращает настройку уведомлений пользователя.
func (s *Service) Get(ctx context.Context, userUID string) (*models.NotificationPreference, error) {
	const op = "preference.Get"

	pref, err := s.repo.GetNotificationPreference(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return pref, nil
}
