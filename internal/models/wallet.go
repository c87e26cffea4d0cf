// Package models содержит доменную модель кошелька пользователя.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Статусы кошелька.
const (
	WalletStatusActive   = "ACTIVE"
	WalletStatusInactive = "INACTIVE"
)

// Wallet представляет кошелёк пользователя с балансом.
// Баланс хранится как точное десятичное число и никогда не уходит в минус:
// списание, которое сделало бы баланс отрицательным, отклоняется.
type Wallet struct {
	UUID      string          // Уникальный идентификатор кошелька
	OwnerUID  string          // Идентификатор пользователя-владельца
	Balance   decimal.Decimal // Текущий баланс
	Currency  string          // Валюта, например EUR
	Status    string          // Статус: ACTIVE, INACTIVE
	CreatedOn time.Time       // Дата создания
	UpdatedOn time.Time       // Дата последнего изменения баланса
}
