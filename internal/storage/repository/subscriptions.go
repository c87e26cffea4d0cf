package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// CreateSubscription сохраняет новую подписку и возвращает её UID.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO subscriptions (owner_uid, type, period, status, price,
			      renewal_date, created_on)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.q(ctx).QueryRowContext(ctx, query,
		sub.OwnerUID, sub.Type, sub.Period, sub.Status, sub.Price,
		sub.RenewalDate, sub.CreatedOn).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetActiveSubscriptionByOwner возвращает единственную активную подписку пользователя.
func (s *Storage) GetActiveSubscriptionByOwner(ctx context.Context, ownerUID string) (*models.Subscription, error) {
	const op = "storage.GetActiveSubscriptionByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, owner_uid, type, period, status, price, renewal_date,
			      created_on, completed_on
			  FROM subscriptions
			  WHERE owner_uid = $1 AND status = $2`
	sub := &models.Subscription{}
	var completedOn sql.NullTime
	row := s.q(ctx).QueryRowContext(ctx, query, ownerUID, models.SubscriptionStatusActive)
	if err := row.Scan(&sub.UUID, &sub.OwnerUID, &sub.Type, &sub.Period, &sub.Status,
		&sub.Price, &sub.RenewalDate, &sub.CreatedOn, &completedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrSubscriptionNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if completedOn.Valid {
		sub.CompletedOn = &completedOn.Time
	}
	return sub, nil
}

// DeactivateSubscription переводит подписку в статус INACTIVE.
// Подписки никогда не удаляются.
func (s *Storage) DeactivateSubscription(ctx context.Context, subscriptionUID string) error {
	const op = "storage.DeactivateSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET status = $1,
			      completed_on = now()
			  WHERE uid = $2`
	res, err := s.q(ctx).ExecContext(ctx, query, models.SubscriptionStatusInactive, subscriptionUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireOneRow(res, op, models.ErrSubscriptionNotFound)
}

// ListSubscriptionsByOwner возвращает все подписки пользователя, включая деактивированные.
func (s *Storage) ListSubscriptionsByOwner(ctx context.Context, ownerUID string) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, owner_uid, type, period, status, price, renewal_date,
			      created_on, completed_on
			  FROM subscriptions
			  WHERE owner_uid = $1
			  ORDER BY created_on`
	rows, err := s.q(ctx).QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var sub models.Subscription
		var completedOn sql.NullTime
		if err = rows.Scan(&sub.UUID, &sub.OwnerUID, &sub.Type, &sub.Period, &sub.Status,
			&sub.Price, &sub.RenewalDate, &sub.CreatedOn, &completedOn); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if completedOn.Valid {
			sub.CompletedOn = &completedOn.Time
		}
		result = append(result, &sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
