// Package models определяет доменные ошибки бизнес-логики.
// Сервисы оборачивают их через fmt.Errorf("%s: %w", op, err),
// обработчики сопоставляют через errors.Is и выбирают HTTP-статус.
package models

import "errors"

var (
	// ErrUsernameAlreadyExists возвращается при регистрации с занятым именем пользователя.
	ErrUsernameAlreadyExists = errors.New("username already exists")
	// ErrUserNotFound возвращается, когда пользователь не найден в хранилище.
	ErrUserNotFound = errors.New("user not found")
	// ErrWalletNotFound возвращается, когда кошелёк не найден в хранилище.
	ErrWalletNotFound = errors.New("wallet not found")
	// ErrSubscriptionNotFound возвращается, когда активная подписка не найдена.
	ErrSubscriptionNotFound = errors.New("subscription not found")
	// ErrInsufficientFunds возвращается, когда списание увело бы баланс в минус.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrWalletOwnershipMismatch возвращается, когда кошелёк не принадлежит пользователю.
	ErrWalletOwnershipMismatch = errors.New("wallet does not belong to user")
	// ErrNotificationService возвращается, когда вызов сервиса уведомлений не удался.
	ErrNotificationService = errors.New("notification service unavailable")
	// ErrInvalidCredentials возвращается при неверном пароле или неактивной учётной записи.
	ErrInvalidCredentials = errors.New("invalid credentials")
)
