package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// CreateTransaction сохраняет запись о попытке операции над кошельком
// и возвращает её UID. Записи неизменяемы и никогда не обновляются.
func (s *Storage) CreateTransaction(ctx context.Context, txn models.Transaction) (string, error) {
	const op = "storage.CreateTransaction"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO transactions (wallet_uid, amount, type, status, description,
			      failure_reason, created_on)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING uid;`
	if err := s.q(ctx).QueryRowContext(ctx, query,
		txn.WalletUID, txn.Amount, txn.Type, txn.Status, txn.Description,
		txn.FailureReason, txn.CreatedOn).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// ListTransactionsByWallet возвращает историю операций кошелька,
// самые свежие записи первыми.
func (s *Storage) ListTransactionsByWallet(ctx context.Context, walletUID string) ([]*models.Transaction, error) {
	const op = "storage.ListTransactionsByWallet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, wallet_uid, amount, type, status, description,
			      failure_reason, created_on
			  FROM transactions
			  WHERE wallet_uid = $1
			  ORDER BY created_on DESC`
	rows, err := s.q(ctx).QueryContext(ctx, query, walletUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Transaction
	for rows.Next() {
		var txn models.Transaction
		if err = rows.Scan(&txn.UUID, &txn.WalletUID, &txn.Amount, &txn.Type, &txn.Status,
			&txn.Description, &txn.FailureReason, &txn.CreatedOn); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
