// Package subscription содержит бизнес-логику управления подписками:
// создание подписки по умолчанию при регистрации и повышение тарифного плана
// со списанием средств с кошелька.
package subscription

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Repository определяет методы для работы с подписками и транзакциями в хранилище.
type Repository interface {
	// CreateSubscription добавляет новую подписку и возвращает её UID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (string, error)
	// GetActiveSubscriptionByOwner возвращает активную подписку пользователя.
	GetActiveSubscriptionByOwner(ctx context.Context, ownerUID string) (*models.Subscription, error)
	// DeactivateSubscription переводит подписку в статус INACTIVE.
	DeactivateSubscription(ctx context.Context, subscriptionUID string) error
	// ListSubscriptionsByOwner возвращает все подписки пользователя.
	ListSubscriptionsByOwner(ctx context.Context, ownerUID string) ([]*models.Subscription, error)
	// CreateTransaction сохраняет запись об исходе попытки списания.
	CreateTransaction(ctx context.Context, txn models.Transaction) (string, error)
}

// WalletService описывает операции над кошельками, нужные для повышения плана.
type WalletService interface {
	// GetByUID возвращает кошелёк по UID.
	GetByUID(ctx context.Context, walletUID string) (*models.Wallet, error)
	// Debit списывает средства, отклоняя уход баланса в минус.
	Debit(ctx context.Context, walletUID string, amount decimal.Decimal) error
}

// TxRunner выполняет функцию внутри одной транзакции базы данных.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события для сервиса уведомлений. Отправка —
// best-effort: сбой публикации логируется и не влияет на результат операции.
type EventPublisher interface {
	Publish(event models.NotificationEvent) error
}

// Service реализует бизнес-логику управления подписками.
type Service struct {
	repo    Repository
	wallets WalletService
	tx      TxRunner
	events  EventPublisher
	log     *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, wallets WalletService, tx TxRunner, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		wallets: wallets,
		tx:      tx,
		events:  events,
		log:     log,
	}
}

// CreateDefault создаёт бесплатную подписку по умолчанию для нового пользователя.
func (s *Service) CreateDefault(ctx context.Context, user *models.User) (*models.Subscription, error) {
	const op = "subscription.CreateDefault"

	now := time.Now().UTC()
	sub := models.Subscription{
		OwnerUID:    user.UUID,
		Type:        models.SubscriptionTypeDefault,
		Period:      models.SubscriptionPeriodMonthly,
		Status:      models.SubscriptionStatusActive,
		Price:       decimal.Zero,
		RenewalDate: now.AddDate(0, 1, 0),
		CreatedOn:   now,
	}
	uid, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sub.UUID = uid

	s.log.Info("created default subscription",
		slog.String("subscription_uid", uid),
		slog.String("owner_uid", user.UUID))
	return &sub, nil
}

// Upgrade повышает тарифный план пользователя, списывая цену плана с кошелька.
//
// Кошелёк из запроса обязан принадлежать пользователю. Попытка списания
// фиксируется транзакцией ровно один раз независимо от исхода: при нехватке
// средств возвращается запись со статусом FAILED, состояние подписки не
// меняется. При успешном списании текущая активная подписка деактивируется,
// создаётся новая активная подписка целевого плана. Списание, смена подписки
// и запись транзакции выполняются в одной транзакции базы данных.
func (s *Service) Upgrade(ctx context.Context, user *models.User, targetType string, req models.DummyUpgradeRequest) (*models.Transaction, error) {
	const op = "subscription.Upgrade"

	wallet, err := s.wallets.GetByUID(ctx, req.WalletUID)
	if err != nil {
		return nil, err
	}
	if wallet.OwnerUID != user.UUID {
		return nil, fmt.Errorf("%s: %w", op, models.ErrWalletOwnershipMismatch)
	}

	price, err := PlanPrice(targetType, req.SubscriptionPeriod)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	description := fmt.Sprintf("Purchase of %s %s subscription", targetType, req.SubscriptionPeriod)
	var result *models.Transaction

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		debitErr := s.wallets.Debit(ctx, wallet.UUID, price)
		if debitErr != nil {
			if !errors.Is(debitErr, models.ErrInsufficientFunds) {
				return debitErr
			}
			// неуспешное списание тоже оставляет запись для аудита
			failed, recErr := s.recordTransaction(ctx, wallet.UUID, price, models.TransactionStatusFailed,
				description, models.ErrInsufficientFunds.Error())
			if recErr != nil {
				return recErr
			}
			result = failed
			return nil
		}

		current, err := s.repo.GetActiveSubscriptionByOwner(ctx, user.UUID)
		if err != nil {
			return err
		}
		if err := s.repo.DeactivateSubscription(ctx, current.UUID); err != nil {
			return err
		}

		now := time.Now().UTC()
		upgraded := models.Subscription{
			OwnerUID:    user.UUID,
			Type:        targetType,
			Period:      req.SubscriptionPeriod,
			Status:      models.SubscriptionStatusActive,
			Price:       price,
			RenewalDate: renewalDate(now, req.SubscriptionPeriod),
			CreatedOn:   now,
		}
		if _, err := s.repo.CreateSubscription(ctx, upgraded); err != nil {
			return err
		}

		succeeded, err := s.recordTransaction(ctx, wallet.UUID, price, models.TransactionStatusSucceeded,
			description, "")
		if err != nil {
			return err
		}
		result = succeeded
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("subscription upgrade attempt finished",
		slog.String("owner_uid", user.UUID),
		slog.String("target_type", targetType),
		slog.String("transaction_status", result.Status))

	if result.Status == models.TransactionStatusSucceeded && s.events != nil {
		event := models.NotificationEvent{
			UserUID:  user.UUID,
			Username: user.Username,
			Email:    user.Email,
			Kind:     "subscription.upgraded",
			Details:  fmt.Sprintf("%s/%s", targetType, req.SubscriptionPeriod),
		}
		if pubErr := s.events.Publish(event); pubErr != nil {
			s.log.Warn("failed to publish upgrade event", sl.Err(pubErr))
		}
	}

	return result, nil
}

// GetActive возвращает активную подписку пользователя.
func (s *Service) GetActive(ctx context.Context, ownerUID string) (*models.Subscription, error) {
	return s.repo.GetActiveSubscriptionByOwner(ctx, ownerUID)
}

// ListByOwner возвращает все подписки пользователя, включая деактивированные.
func (s *Service) ListByOwner(ctx context.Context, ownerUID string) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptionsByOwner(ctx, ownerUID)
}

func (s *Service) recordTransaction(ctx context.Context, walletUID string, amount decimal.Decimal,
	status, description, failureReason string) (*models.Transaction, error) {
	txn := models.Transaction{
		WalletUID:     walletUID,
		Amount:        amount,
		Type:          models.TransactionTypeWithdrawal,
		Status:        status,
		Description:   description,
		FailureReason: failureReason,
		CreatedOn:     time.Now().UTC(),
	}
	uid, err := s.repo.CreateTransaction(ctx, txn)
	if err != nil {
		return nil, err
	}
	txn.UUID = uid
	return &txn, nil
}

func renewalDate(from time.Time, period string) time.Time {
	if period == models.SubscriptionPeriodYearly {
		return from.AddDate(1, 0, 0)
	}
	return from.AddDate(0, 1, 0)
}
