package user

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RepoMock) UpdateUserDetails(ctx context.Context, userUID, firstName, lastName, email, profilePicture string) error {
	args := m.Called(ctx, userUID, firstName, lastName, email, profilePicture)
	return args.Error(0)
}

func (m *RepoMock) UpdateUserActive(ctx context.Context, userUID string, isActive bool) error {
	args := m.Called(ctx, userUID, isActive)
	return args.Error(0)
}

func (m *RepoMock) UpdateUserRole(ctx context.Context, userUID, role string) error {
	args := m.Called(ctx, userUID, role)
	return args.Error(0)
}

func (m *RepoMock) ListAllUsers(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type SubscriptionServiceMock struct{ mock.Mock }

func (m *SubscriptionServiceMock) CreateDefault(ctx context.Context, user *models.User) (*models.Subscription, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

type WalletServiceMock struct{ mock.Mock }

func (m *WalletServiceMock) InitializeFirst(ctx context.Context, user *models.User) (*models.Wallet, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) UpsertPreference(ctx context.Context, userUID string, enabled bool, contactInfo *string) error {
	args := m.Called(ctx, userUID, enabled, contactInfo)
	return args.Error(0)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// TxRunnerMock выполняет функцию напрямую, без реальной транзакции.
type TxRunnerMock struct{ mock.Mock }

func (m *TxRunnerMock) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Called(ctx)
	return fn(ctx)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(event models.NotificationEvent) error {
	args := m.Called(event)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type serviceMocks struct {
	repo      *RepoMock
	subs      *SubscriptionServiceMock
	wallets   *WalletServiceMock
	gateway   *GatewayMock
	cache     *CacheMock
	tx        *TxRunnerMock
	publisher *PublisherMock
}

func newService() (*Service, serviceMocks) {
	m := serviceMocks{
		repo:      new(RepoMock),
		subs:      new(SubscriptionServiceMock),
		wallets:   new(WalletServiceMock),
		gateway:   new(GatewayMock),
		cache:     new(CacheMock),
		tx:        new(TxRunnerMock),
		publisher: new(PublisherMock),
	}
	svc := New(m.repo, m.subs, m.wallets, m.gateway, m.cache, m.tx, m.publisher, discardLogger())
	return svc, m
}

func TestRegister_Success(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()
	req := models.DummyRegisterRequest{Username: "alice", Password: "secret123", Country: "Bulgaria"}

	m.repo.On("GetUserByUsername", ctx, "alice").Return(nil, models.ErrUserNotFound)
	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.repo.On("CreateUser", ctx, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "alice" &&
			u.Role == models.RoleUser &&
			u.IsActive &&
			u.Country == "Bulgaria" &&
			u.PasswordHash != "" &&
			u.PasswordHash != "secret123"
	})).Return("user-uid-1", nil)
	m.subs.On("CreateDefault", ctx, mock.AnythingOfType("*models.User")).
		Return(&models.Subscription{UUID: "sub-uid-1"}, nil)
	m.wallets.On("InitializeFirst", ctx, mock.AnythingOfType("*models.User")).
		Return(&models.Wallet{UUID: "wallet-uid-1"}, nil)
	m.gateway.On("UpsertPreference", ctx, "user-uid-1", false, (*string)(nil)).Return(nil)
	m.cache.On("Invalidate", "users:all").Return(nil)
	m.publisher.On("Publish", mock.MatchedBy(func(e models.NotificationEvent) bool {
		return e.Kind == "user.registered" && e.UserUID == "user-uid-1" && e.Username == "alice"
	})).Return(nil)

	user, err := svc.Register(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, "user-uid-1", user.UUID)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	m.repo.AssertExpectations(t)
	m.subs.AssertExpectations(t)
	m.wallets.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
	m.publisher.AssertExpectations(t)
}

func TestRegister_UsernameTaken(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	m.repo.On("GetUserByUsername", ctx, "alice").
		Return(&models.User{UUID: "existing", Username: "alice"}, nil)

	_, err := svc.Register(ctx, models.DummyRegisterRequest{Username: "alice", Password: "secret123", Country: "Bulgaria"})

	require.ErrorIs(t, err, models.ErrUsernameAlreadyExists)
	m.repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	m.subs.AssertNotCalled(t, "CreateDefault", mock.Anything, mock.Anything)
	m.wallets.AssertNotCalled(t, "InitializeFirst", mock.Anything, mock.Anything)
}

func TestRegister_NotificationGatewayFailureRollsBack(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	m.repo.On("GetUserByUsername", ctx, "alice").Return(nil, models.ErrUserNotFound)
	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.repo.On("CreateUser", ctx, mock.AnythingOfType("models.User")).Return("user-uid-1", nil)
	m.subs.On("CreateDefault", ctx, mock.AnythingOfType("*models.User")).
		Return(&models.Subscription{}, nil)
	m.wallets.On("InitializeFirst", ctx, mock.AnythingOfType("*models.User")).
		Return(&models.Wallet{}, nil)
	m.gateway.On("UpsertPreference", ctx, "user-uid-1", false, (*string)(nil)).
		Return(models.ErrNotificationService)

	_, err := svc.Register(ctx, models.DummyRegisterRequest{Username: "alice", Password: "secret123", Country: "Bulgaria"})

	require.ErrorIs(t, err, models.ErrNotificationService)
	m.publisher.AssertNotCalled(t, "Publish", mock.Anything)
	m.cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestEditUserDetails_WithEmailEnablesNotifications(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()
	req := models.DummyEditUserRequest{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
	}

	m.repo.On("GetUserByUID", ctx, "user-uid-1").
		Return(&models.User{UUID: "user-uid-1"}, nil)
	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.repo.On("UpdateUserDetails", ctx, "user-uid-1", "Alice", "Smith", "alice@example.com", "").Return(nil)
	m.gateway.On("UpsertPreference", ctx, "user-uid-1", true, mock.MatchedBy(func(c *string) bool {
		return c != nil && *c == "alice@example.com"
	})).Return(nil)
	m.cache.On("Invalidate", "users:all").Return(nil)

	err := svc.EditUserDetails(ctx, "user-uid-1", req)

	require.NoError(t, err)
	m.repo.AssertExpectations(t)
	m.gateway.AssertExpectations(t)
}

func TestEditUserDetails_BlankEmailDisablesNotifications(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	m.repo.On("GetUserByUID", ctx, "user-uid-1").
		Return(&models.User{UUID: "user-uid-1"}, nil)
	m.tx.On("WithinTransaction", ctx).Return(nil)
	m.repo.On("UpdateUserDetails", ctx, "user-uid-1", "Alice", "", "", "").Return(nil)
	m.gateway.On("UpsertPreference", ctx, "user-uid-1", false, (*string)(nil)).Return(nil)
	m.cache.On("Invalidate", "users:all").Return(nil)

	err := svc.EditUserDetails(ctx, "user-uid-1", models.DummyEditUserRequest{FirstName: "Alice"})

	require.NoError(t, err)
	m.gateway.AssertExpectations(t)
}

func TestEditUserDetails_UserNotFound(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	m.repo.On("GetUserByUID", ctx, "missing").Return(nil, models.ErrUserNotFound)

	err := svc.EditUserDetails(ctx, "missing", models.DummyEditUserRequest{})

	require.ErrorIs(t, err, models.ErrUserNotFound)
	m.repo.AssertNotCalled(t, "UpdateUserDetails",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSwitchStatus_Toggles(t *testing.T) {
	cases := []struct {
		name    string
		current bool
		want    bool
	}{
		{name: "deactivates active user", current: true, want: false},
		{name: "activates inactive user", current: false, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newService()
			ctx := context.Background()

			m.repo.On("GetUserByUID", ctx, "user-uid-1").
				Return(&models.User{UUID: "user-uid-1", IsActive: tc.current}, nil)
			m.repo.On("UpdateUserActive", ctx, "user-uid-1", tc.want).Return(nil)
			m.cache.On("Invalidate", "users:all").Return(nil)

			err := svc.SwitchStatus(ctx, "user-uid-1")

			require.NoError(t, err)
			m.repo.AssertExpectations(t)
		})
	}
}

func TestSwitchRole_Toggles(t *testing.T) {
	cases := []struct {
		name    string
		current string
		want    string
	}{
		{name: "promotes user to admin", current: models.RoleUser, want: models.RoleAdmin},
		{name: "demotes admin to user", current: models.RoleAdmin, want: models.RoleUser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newService()
			ctx := context.Background()

			m.repo.On("GetUserByUID", ctx, "user-uid-1").
				Return(&models.User{UUID: "user-uid-1", Role: tc.current}, nil)
			m.repo.On("UpdateUserRole", ctx, "user-uid-1", tc.want).Return(nil)
			m.cache.On("Invalidate", "users:all").Return(nil)

			err := svc.SwitchRole(ctx, "user-uid-1")

			require.NoError(t, err)
			m.repo.AssertExpectations(t)
		})
	}
}

func TestListAll_CacheMissThenStore(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()
	users := []*models.User{{UUID: "u1"}, {UUID: "u2"}}

	m.cache.On("Get", "users:all", mock.Anything).Return(false, nil)
	m.repo.On("ListAllUsers", ctx).Return(users, nil)
	m.cache.On("Set", "users:all", users, time.Hour).Return(nil)

	got, err := svc.ListAll(ctx)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	m.repo.AssertExpectations(t)
	m.cache.AssertExpectations(t)
}

func TestListAll_CacheHitSkipsStorage(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	m.cache.On("Get", "users:all", mock.Anything).Return(true, nil)

	_, err := svc.ListAll(ctx)

	require.NoError(t, err)
	m.repo.AssertNotCalled(t, "ListAllUsers", mock.Anything)
}

func TestLoadForAuthentication(t *testing.T) {
	svc, m := newService()
	ctx := context.Background()

	m.repo.On("GetUserByUsername", ctx, "alice").Return(&models.User{
		UUID:         "user-uid-1",
		Username:     "alice",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}, nil)

	meta, err := svc.LoadForAuthentication(ctx, "alice")

	require.NoError(t, err)
	assert.Equal(t, "user-uid-1", meta.UserUID)
	assert.Equal(t, models.RoleAdmin, meta.Role)
	assert.True(t, meta.IsActive)
}
