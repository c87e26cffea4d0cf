// Package models содержит доменную модель транзакции —
// неизменяемой записи об исходе одной попытки списания или пополнения.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы транзакции.
const (
	TransactionStatusSucceeded = "SUCCEEDED"
	TransactionStatusFailed    = "FAILED"
)

// Типы транзакции.
const (
	TransactionTypeWithdrawal = "WITHDRAWAL"
	TransactionTypeDeposit    = "DEPOSIT"
)

// Transaction фиксирует результат одной попытки операции над кошельком.
// Запись создаётся ровно один раз на попытку, независимо от исхода:
// неуспешное списание тоже оставляет запись со статусом FAILED.
type Transaction struct {
	UUID          string          // Уникальный идентификатор транзакции
	WalletUID     string          // Кошелёк, над которым выполнялась операция
	Amount        decimal.Decimal // Сумма операции
	Type          string          // WITHDRAWAL или DEPOSIT
	Status        string          // SUCCEEDED или FAILED
	Description   string          // Назначение операции
	FailureReason string          // Причина отказа, пустая строка при успехе
	CreatedOn     time.Time       // Время попытки
}
