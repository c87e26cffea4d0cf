// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и даты создания и обновления.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователя.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID           string    // Уникальный идентификатор пользователя
	Username       string    // Имя пользователя (уникальное)
	PasswordHash   string    // Хэш пароля пользователя
	Role           string    // Роль пользователя, admin или user
	IsActive       bool      // Признак активности учётной записи
	FirstName      string    // Имя
	LastName       string    // Фамилия
	Email          string    // Электронная почта (может быть пустой)
	ProfilePicture string    // Ссылка на аватар
	Country        string    // Страна пользователя
	CreatedOn      time.Time // Дата создания учётной записи
	UpdatedOn      time.Time // Дата последнего изменения
}

// AuthMetadata содержит минимальный набор данных пользователя,
// необходимый механизму аутентификации для построения сессии.
type AuthMetadata struct {
	UserUID      string
	Username     string
	PasswordHash string
	Role         string
	IsActive     bool
}

// DummyRegisterRequest используется для приёма данных регистрации из JSON-запроса.
type DummyRegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"` // Имя пользователя
	Password string `json:"password" validate:"required,min=6"`        // Пароль в открытом виде
	Country  string `json:"country" validate:"required"`               // Страна
}

// DummyEditUserRequest используется для приёма данных редактирования профиля.
// Все поля перезаписываются целиком: пустая строка очищает значение.
type DummyEditUserRequest struct {
	FirstName      string `json:"first_name" validate:"max=50"`
	LastName       string `json:"last_name" validate:"max=50"`
	Email          string `json:"email" validate:"omitempty,email"`
	ProfilePicture string `json:"profile_picture" validate:"omitempty,url"`
}
