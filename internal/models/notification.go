// Package models содержит модель настройки уведомлений пользователя.
// Настройка выводится целиком из данных регистрации и редактирования профиля.
package models

import "time"

// NotificationTypeEmail — единственный поддерживаемый канал уведомлений.
const NotificationTypeEmail = "EMAIL"

// NotificationPreference определяет, нужно ли отправлять пользователю
// уведомления и по какому контакту.
type NotificationPreference struct {
	UserUID     string    `json:"user_uid"`     // Идентификатор пользователя
	Type        string    `json:"type"`         // Канал уведомлений, например EMAIL
	Enabled     bool      `json:"enabled"`      // Включены ли уведомления
	ContactInfo *string   `json:"contact_info"` // Контакт, nil если уведомления выключены
	CreatedOn   time.Time `json:"created_on"`   // Дата создания
	UpdatedOn   time.Time `json:"updated_on"`   // Дата последнего изменения
}

// NotificationEvent — сообщение, публикуемое основным приложением в очередь
// после успешной регистрации или смены подписки.
type NotificationEvent struct {
	UserUID  string `json:"user_uid"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Kind     string `json:"kind"` // user.registered или subscription.upgraded
	Details  string `json:"details,omitempty"`
}
