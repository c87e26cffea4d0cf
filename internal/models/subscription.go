// Package models содержит доменные структуры подписки,
// а также вспомогательные типы для работы с данными из внешних источников (например, JSON-запросы).
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы подписки.
const (
	SubscriptionTypeDefault  = "DEFAULT"
	SubscriptionTypePremium  = "PREMIUM"
	SubscriptionTypeUltimate = "ULTIMATE"
)

// Периоды подписки.
const (
	SubscriptionPeriodMonthly = "MONTHLY"
	SubscriptionPeriodYearly  = "YEARLY"
)

// Статусы подписки. Подписка никогда не удаляется, только деактивируется.
const (
	SubscriptionStatusActive   = "ACTIVE"
	SubscriptionStatusInactive = "INACTIVE"
)

// Subscription представляет собой подписку пользователя.
// У пользователя в любой момент времени есть ровно одна активная подписка.
type Subscription struct {
	UUID        string          // Уникальный идентификатор подписки
	OwnerUID    string          // Идентификатор пользователя-владельца
	Type        string          // Тип подписки: DEFAULT, PREMIUM, ULTIMATE
	Period      string          // Период: MONTHLY, YEARLY
	Status      string          // Статус: ACTIVE, INACTIVE
	Price       decimal.Decimal // Цена за период
	RenewalDate time.Time       // Дата следующего продления
	CreatedOn   time.Time       // Дата создания
	CompletedOn *time.Time      // Дата деактивации, nil для активной подписки
}

// DummyUpgradeRequest используется для приёма данных запроса на повышение подписки.
type DummyUpgradeRequest struct {
	SubscriptionType   string `json:"subscription_type" validate:"required,oneof=PREMIUM ULTIMATE"` // Целевой тип
	SubscriptionPeriod string `json:"subscription_period" validate:"required,oneof=MONTHLY YEARLY"` // Период
	WalletUID          string `json:"wallet_uid" validate:"required,uuid"`                          // Кошелёк для списания
}
