package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// UpsertNotificationPreference сохраняет настройку уведомлений пользователя,
// перезаписывая существующую запись. Настройка у пользователя всегда одна.
func (s *Storage) UpsertNotificationPreference(ctx context.Context, pref models.NotificationPreference) error {
	const op = "storage.UpsertNotificationPreference"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO notification_preferences (user_uid, type, enabled, contact_info, created_on, updated_on)
			  VALUES ($1, $2, $3, $4, now(), now())
			  ON CONFLICT (user_uid) DO UPDATE
			  SET type = EXCLUDED.type,
			      enabled = EXCLUDED.enabled,
			      contact_info = EXCLUDED.contact_info,
			      updated_on = now()`
	if _, err := s.q(ctx).ExecContext(ctx, query,
		pref.UserUID, pref.Type, pref.Enabled, pref.ContactInfo); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetNotificationPreference возвращает настройку уведомлений пользователя.
func (s *Storage) GetNotificationPreference(ctx context.Context, userUID string) (*models.NotificationPreference, error) {
	const op = "storage.GetNotificationPreference"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT user_uid, type, enabled, contact_info, created_on, updated_on
			  FROM notification_preferences
			  WHERE user_uid = $1`
	pref := &models.NotificationPreference{}
	var contactInfo sql.NullString
	row := s.q(ctx).QueryRowContext(ctx, query, userUID)
	if err := row.Scan(&pref.UserUID, &pref.Type, &pref.Enabled, &contactInfo,
		&pref.CreatedOn, &pref.UpdatedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if contactInfo.Valid {
		pref.ContactInfo = &contactInfo.String
	}
	return pref, nil
}
