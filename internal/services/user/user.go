// Package user содержит бизнес-логику управления учётными записями:
// регистрацию с провижинингом подписки, кошелька и настройки уведомлений,
// редактирование профиля, переключение роли и статуса, а также кеширование
// списка пользователей.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/smart-wallet/internal/lib/password"
	"github.com/magabrotheeeer/smart-wallet/internal/lib/sl"
	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

// Ключ кеша списка всех пользователей. Любая мутация сбрасывает ключ целиком.
const cacheKeyAllUsers = "users:all"

const cacheTTL = time.Hour

// Repository определяет методы для работы с пользователями в хранилище.
type Repository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByUsername возвращает пользователя по имени или ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByUID возвращает пользователя по UID или ErrUserNotFound.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUserDetails перезаписывает профильные поля целиком.
	UpdateUserDetails(ctx context.Context, userUID, firstName, lastName, email, profilePicture string) error
	// UpdateUserActive устанавливает признак активности.
	UpdateUserActive(ctx context.Context, userUID string, isActive bool) error
	// UpdateUserRole устанавливает роль пользователя.
	UpdateUserRole(ctx context.Context, userUID, role string) error
	// ListAllUsers возвращает всех пользователей.
	ListAllUsers(ctx context.Context) ([]*models.User, error)
}

// SubscriptionService создаёт подписку по умолчанию для нового пользователя.
type SubscriptionService interface {
	CreateDefault(ctx context.Context, user *models.User) (*models.Subscription, error)
}

// WalletService создаёт первый кошелёк нового пользователя.
type WalletService interface {
	InitializeFirst(ctx context.Context, user *models.User) (*models.Wallet, error)
}

// NotificationGateway — внешний сервис настроек уведомлений. Сбой вызова
// внутри регистрации или редактирования профиля откатывает всю операцию.
type NotificationGateway interface {
	UpsertPreference(ctx context.Context, userUID string, enabled bool, contactInfo *string) error
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// TxRunner выполняет функцию внутри одной транзакции базы данных.
type TxRunner interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher публикует события для сервиса уведомлений. Отправка —
// best-effort и выполняется после фиксации транзакции.
type EventPublisher interface {
	Publish(event models.NotificationEvent) error
}

// Service реализует бизнес-логику управления учётными записями.
type Service struct {
	repo          Repository
	subscriptions SubscriptionService
	wallets       WalletService
	notifications NotificationGateway
	cache         Cache
	tx            TxRunner
	events        EventPublisher
	log           *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, subscriptions SubscriptionService, wallets WalletService,
	notifications NotificationGateway, cache Cache, tx TxRunner, events EventPublisher,
	log *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		subscriptions: subscriptions,
		wallets:       wallets,
		notifications: notifications,
		cache:         cache,
		tx:            tx,
		events:        events,
		log:           log,
	}
}

// Register регистрирует нового пользователя.
//
// Занятое имя пользователя отклоняется до любых записей. Пользователь,
// подписка по умолчанию, первый кошелёк и настройка уведомлений создаются
// в одной транзакции: либо появляются все четыре сущности, либо ни одной.
func (s *Service) Register(ctx context.Context, req models.DummyRegisterRequest) (*models.User, error) {
	const op = "user.Register"

	_, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUsernameAlreadyExists)
	}
	if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     req.Username,
		PasswordHash: hashed,
		Role:         models.RoleUser,
		IsActive:     true,
		Country:      req.Country,
		CreatedOn:    now,
		UpdatedOn:    now,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		uid, err := s.repo.CreateUser(ctx, *user)
		if err != nil {
			return err
		}
		user.UUID = uid

		if _, err := s.subscriptions.CreateDefault(ctx, user); err != nil {
			return err
		}
		if _, err := s.wallets.InitializeFirst(ctx, user); err != nil {
			return err
		}
		// новая настройка уведомлений всегда создаётся выключенной
		return s.notifications.UpsertPreference(ctx, uid, false, nil)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateUsersCache()

	s.log.Info("registered new user account",
		slog.String("username", user.Username),
		slog.String("user_uid", user.UUID))

	if s.events != nil {
		event := models.NotificationEvent{
			UserUID:  user.UUID,
			Username: user.Username,
			Email:    user.Email,
			Kind:     "user.registered",
		}
		if pubErr := s.events.Publish(event); pubErr != nil {
			s.log.Warn("failed to publish registration event", sl.Err(pubErr))
		}
	}

	return user, nil
}

// EditUserDetails перезаписывает профильные поля пользователя целиком:
// пустая строка очищает значение, частичного обновления нет.
//
// Настройка уведомлений выводится из нового значения email: непустой email
// включает уведомления с этим контактом, пустой — выключает их.
func (s *Service) EditUserDetails(ctx context.Context, userUID string, req models.DummyEditUserRequest) error {
	const op = "user.EditUserDetails"

	if _, err := s.repo.GetUserByUID(ctx, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.UpdateUserDetails(ctx, userUID,
			req.FirstName, req.LastName, req.Email, req.ProfilePicture); err != nil {
			return err
		}
		if strings.TrimSpace(req.Email) != "" {
			email := req.Email
			return s.notifications.UpsertPreference(ctx, userUID, true, &email)
		}
		return s.notifications.UpsertPreference(ctx, userUID, false, nil)
	})
	if err != nil {
		return err
	}

	s.invalidateUsersCache()
	s.log.Info("edited user details", slog.String("user_uid", userUID))
	return nil
}

// SwitchStatus переключает признак активности учётной записи.
func (s *Service) SwitchStatus(ctx context.Context, userUID string) error {
	const op = "user.SwitchStatus"

	user, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.UpdateUserActive(ctx, userUID, !user.IsActive); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateUsersCache()
	s.log.Info("switched user status",
		slog.String("user_uid", userUID),
		slog.Bool("is_active", !user.IsActive))
	return nil
}

// SwitchRole переключает роль пользователя между user и admin.
func (s *Service) SwitchRole(ctx context.Context, userUID string) error {
	const op = "user.SwitchRole"

	user, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	newRole := models.RoleAdmin
	if user.Role == models.RoleAdmin {
		newRole = models.RoleUser
	}
	if err := s.repo.UpdateUserRole(ctx, userUID, newRole); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.invalidateUsersCache()
	s.log.Info("switched user role",
		slog.String("user_uid", userUID),
		slog.String("role", newRole))
	return nil
}

// ListAll возвращает всех пользователей, используя кеш или хранилище.
func (s *Service) ListAll(ctx context.Context) ([]*models.User, error) {
	const op = "user.ListAll"

	var cached []*models.User
	found, err := s.cache.Get(cacheKeyAllUsers, &cached)
	if err != nil {
		s.log.Warn("failed to read users cache", sl.Err(err))
	}
	if found {
		return cached, nil
	}

	users, err := s.repo.ListAllUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(cacheKeyAllUsers, users, cacheTTL); err != nil {
		s.log.Warn("failed to cache users list", sl.Err(err))
	}
	return users, nil
}

// GetByUID возвращает пользователя по UID.
func (s *Service) GetByUID(ctx context.Context, userUID string) (*models.User, error) {
	return s.repo.GetUserByUID(ctx, userUID)
}

// LoadForAuthentication возвращает данные пользователя для механизма
// аутентификации. Результат никогда не кешируется.
func (s *Service) LoadForAuthentication(ctx context.Context, username string) (*models.AuthMetadata, error) {
	const op = "user.LoadForAuthentication"

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &models.AuthMetadata{
		UserUID:      user.UUID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
		IsActive:     user.IsActive,
	}, nil
}

// invalidateUsersCache сбрасывает кеш списка пользователей синхронно
// с завершением мутирующей операции.
func (s *Service) invalidateUsersCache() {
	if err := s.cache.Invalidate(cacheKeyAllUsers); err != nil {
		s.log.Warn("failed to invalidate users cache", sl.Err(err))
	}
}
