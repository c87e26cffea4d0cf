package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// CreateWallet сохраняет новый кошелёк и возвращает его UID.
func (s *Storage) CreateWallet(ctx context.Context, wallet models.Wallet) (string, error) {
	const op = "storage.CreateWallet"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO wallets (owner_uid, balance, currency, status, created_on, updated_on)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING uid;`
	if err := s.q(ctx).QueryRowContext(ctx, query,
		wallet.OwnerUID, wallet.Balance, wallet.Currency, wallet.Status,
		wallet.CreatedOn, wallet.UpdatedOn).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetWalletByUID возвращает кошелёк по его UID.
func (s *Storage) GetWalletByUID(ctx context.Context, walletUID string) (*models.Wallet, error) {
	const op = "storage.GetWalletByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, owner_uid, balance, currency, status, created_on, updated_on
			  FROM wallets
			  WHERE uid = $1`
	w := &models.Wallet{}
	row := s.q(ctx).QueryRowContext(ctx, query, walletUID)
	if err := row.Scan(&w.UUID, &w.OwnerUID, &w.Balance, &w.Currency, &w.Status,
		&w.CreatedOn, &w.UpdatedOn); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, models.ErrWalletNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return w, nil
}

// DebitWallet уменьшает баланс кошелька на amount.
// Условие balance >= amount в самом запросе сериализует конкурентные списания
// на уровне строки и не допускает отрицательного баланса.
func (s *Storage) DebitWallet(ctx context.Context, walletUID string, amount decimal.Decimal) error {
	const op = "storage.DebitWallet"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE wallets
			  SET balance = balance - $1,
			      updated_on = now()
			  WHERE uid = $2 AND balance >= $1`
	res, err := s.q(ctx).ExecContext(ctx, query, amount, walletUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		// различаем отсутствующий кошелёк и нехватку средств
		if _, err := s.GetWalletByUID(ctx, walletUID); err != nil {
			return err
		}
		return fmt.Errorf("%s: %w", op, models.ErrInsufficientFunds)
	}
	return nil
}

// CreditWallet увеличивает баланс кошелька на amount.
func (s *Storage) CreditWallet(ctx context.Context, walletUID string, amount decimal.Decimal) error {
	const op = "storage.CreditWallet"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE wallets
			  SET balance = balance + $1,
			      updated_on = now()
			  WHERE uid = $2`
	res, err := s.q(ctx).ExecContext(ctx, query, amount, walletUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.requireOneRow(res, op, models.ErrWalletNotFound)
}

// ListWalletsByOwner возвращает кошельки пользователя.
func (s *Storage) ListWalletsByOwner(ctx context.Context, ownerUID string) ([]*models.Wallet, error) {
	const op = "storage.ListWalletsByOwner"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, owner_uid, balance, currency, status, created_on, updated_on
			  FROM wallets
			  WHERE owner_uid = $1
			  ORDER BY created_on`
	rows, err := s.q(ctx).QueryContext(ctx, query, ownerUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Wallet
	for rows.Next() {
		var w models.Wallet
		if err = rows.Scan(&w.UUID, &w.OwnerUID, &w.Balance, &w.Currency, &w.Status,
			&w.CreatedOn, &w.UpdatedOn); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
