// Package wallet содержит бизнес-логику работы с кошельками пользователей:
// создание первого кошелька при регистрации, списания и пополнения.
package wallet

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Начальный баланс демонстрационного кошелька.
var initialBalance = decimal.RequireFromString("20.00")

const defaultCurrency = "EUR"

// Repository определяет методы для работы с кошельками в хранилище.
type Repository interface {
	// CreateWallet добавляет новый кошелёк и возвращает его UID.
	CreateWallet(ctx context.Context, wallet models.Wallet) (string, error)
	// GetWalletByUID возвращает кошелёк по UID.
	GetWalletByUID(ctx context.Context, walletUID string) (*models.Wallet, error)
	// DebitWallet уменьшает баланс кошелька, отклоняя уход в минус.
	DebitWallet(ctx context.Context, walletUID string, amount decimal.Decimal) error
	// CreditWallet увеличивает баланс кошелька.
	CreditWallet(ctx context.Context, walletUID string, amount decimal.Decimal) error
	// ListTransactionsByWallet возвращает историю операций кошелька.
	ListTransactionsByWallet(ctx context.Context, walletUID string) ([]*models.Transaction, error)
}

// Service реализует бизнес-логику работы с кошельками.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// InitializeFirst создаёт первый кошелёк пользователя со стартовым балансом.
func (s *Service) InitializeFirst(ctx context.Context, user *models.User) (*models.Wallet, error) {
	const op = "wallet.InitializeFirst"

	now := time.Now().UTC()
	w := models.Wallet{
		OwnerUID:  user.UUID,
		Balance:   initialBalance,
		Currency:  defaultCurrency,
		Status:    models.WalletStatusActive,
		CreatedOn: now,
		UpdatedOn: now,
	}
	uid, err := s.repo.CreateWallet(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	w.UUID = uid

	s.log.Info("initialized first wallet",
		slog.String("wallet_uid", uid),
		slog.String("owner_uid", user.UUID))
	return &w, nil
}

// GetByUID возвращает кошелёк по UID.
func (s *Service) GetByUID(ctx context.Context, walletUID string) (*models.Wallet, error) {
	return s.repo.GetWalletByUID(ctx, walletUID)
}

// Debit списывает amount с кошелька. Сумма должна быть положительной;
// списание, уводящее баланс в минус, отклоняется с ErrInsufficientFunds.
func (s *Service) Debit(ctx context.Context, walletUID string, amount decimal.Decimal) error {
	const op = "wallet.Debit"

	if !amount.IsPositive() {
		return fmt.Errorf("%s: amount must be positive, got %s", op, amount)
	}
	if err := s.repo.DebitWallet(ctx, walletUID, amount); err != nil {
		return err
	}

	s.log.Info("debited wallet",
		slog.String("wallet_uid", walletUID),
		slog.String("amount", amount.String()))
	return nil
}

// Credit пополняет кошелёк на amount.
func (s *Service) Credit(ctx context.Context, walletUID string, amount decimal.Decimal) error {
	const op = "wallet.Credit"

	if !amount.IsPositive() {
		return fmt.Errorf("%s: amount must be positive, got %s", op, amount)
	}
	if err := s.repo.CreditWallet(ctx, walletUID, amount); err != nil {
		return err
	}

	s.log.Info("credited wallet",
		slog.String("wallet_uid", walletUID),
		slog.String("amount", amount.String()))
	return nil
}

// History возвращает историю операций кошелька.
func (s *Service) History(ctx context.Context, walletUID string) ([]*models.Transaction, error) {
	return s.repo.ListTransactionsByWallet(ctx, walletUID)
}
