package subscription

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/smart-wallet/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (string, error) {
	args := m.Called(ctx, sub)
	return args.String(0), args.Error(1)
}
func (m *RepoMock) GetActiveSubscriptionByOwner(ctx context.Context, ownerUID string) (*models.Subscription, error) {
	args := m.Called(ctx, ownerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) DeactivateSubscription(ctx context.Context, subscriptionUID string) error {
	return m.Called(ctx, subscriptionUID).Error(0)
}
func (m *RepoMock) ListSubscriptionsByOwner(ctx context.Context, ownerUID string) ([]*models.Subscription, error) {
	args := m.Called(ctx, ownerUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) CreateTransaction(ctx context.Context, txn models.Transaction) (string, error) {
	args := m.Called(ctx, txn)
	return args.String(0), args.Error(1)
}

type WalletServiceMock struct{ mock.Mock }

func (m *WalletServiceMock) GetByUID(ctx context.Context, walletUID string) (*models.Wallet, error) {
	args := m.Called(ctx, walletUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}
func (m *WalletServiceMock) Debit(ctx context.Context, walletUID string, amount decimal.Decimal) error {
	return m.Called(ctx, walletUID, amount).Error(0)
}

// TxRunnerMock выполняет функцию без реальной транзакции.
type TxRunnerMock struct{}

func (TxRunnerMock) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) Publish(event models.NotificationEvent) error {
	return m.Called(event).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestService_CreateDefault(t *testing.T) {
	repo := new(RepoMock)
	svc := New(repo, new(WalletServiceMock), TxRunnerMock{}, nil, newNoopLogger())

	user := &models.User{UUID: "user-1", Username: "DimitarPeev"}

	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
		return s.OwnerUID == "user-1" &&
			s.Type == models.SubscriptionTypeDefault &&
			s.Period == models.SubscriptionPeriodMonthly &&
			s.Status == models.SubscriptionStatusActive &&
			s.Price.IsZero()
	})).Return("sub-1", nil).Once()

	sub, err := svc.CreateDefault(context.Background(), user)

	require.NoError(t, err)
	assert.Equal(t, "sub-1", sub.UUID)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	repo.AssertExpectations(t)
}

func TestService_Upgrade_HappyPath(t *testing.T) {
	repo := new(RepoMock)
	wallets := new(WalletServiceMock)
	events := new(PublisherMock)
	svc := New(repo, wallets, TxRunnerMock{}, events, newNoopLogger())

	user := &models.User{UUID: "user-1", Username: "Dimitar2", Email: "peev@abv.bg"}
	price := decimal.RequireFromString("19.99")

	wallets.On("GetByUID", mock.Anything, "wallet-1").
		Return(&models.Wallet{UUID: "wallet-1", OwnerUID: "user-1"}, nil).Once()
	wallets.On("Debit", mock.Anything, "wallet-1", price).Return(nil).Once()
	repo.On("GetActiveSubscriptionByOwner", mock.Anything, "user-1").
		Return(&models.Subscription{UUID: "sub-default", Status: models.SubscriptionStatusActive}, nil).Once()
	repo.On("DeactivateSubscription", mock.Anything, "sub-default").Return(nil).Once()
	repo.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
		return s.Type == models.SubscriptionTypePremium &&
			s.Period == models.SubscriptionPeriodMonthly &&
			s.Status == models.SubscriptionStatusActive &&
			s.Price.Equal(price)
	})).Return("sub-premium", nil).Once()
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn models.Transaction) bool {
		return txn.WalletUID == "wallet-1" &&
			txn.Status == models.TransactionStatusSucceeded &&
			txn.Type == models.TransactionTypeWithdrawal &&
			txn.Amount.Equal(price)
	})).Return("txn-1", nil).Once()
	events.On("Publish", mock.MatchedBy(func(e models.NotificationEvent) bool {
		return e.Kind == "subscription.upgraded" && e.UserUID == "user-1"
	})).Return(nil).Once()

	txn, err := svc.Upgrade(context.Background(), user, models.SubscriptionTypePremium, models.DummyUpgradeRequest{
		SubscriptionType:   models.SubscriptionTypePremium,
		SubscriptionPeriod: models.SubscriptionPeriodMonthly,
		WalletUID:          "wallet-1",
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusSucceeded, txn.Status)
	assert.Empty(t, txn.FailureReason)
	repo.AssertExpectations(t)
	wallets.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestService_Upgrade_InsufficientFunds(t *testing.T) {
	repo := new(RepoMock)
	wallets := new(WalletServiceMock)
	svc := New(repo, wallets, TxRunnerMock{}, nil, newNoopLogger())

	user := &models.User{UUID: "user-1", Username: "Dimitar2"}
	price := decimal.RequireFromString("499.99")

	wallets.On("GetByUID", mock.Anything, "wallet-1").
		Return(&models.Wallet{UUID: "wallet-1", OwnerUID: "user-1"}, nil).Once()
	wallets.On("Debit", mock.Anything, "wallet-1", price).
		Return(models.ErrInsufficientFunds).Once()
	repo.On("CreateTransaction", mock.Anything, mock.MatchedBy(func(txn models.Transaction) bool {
		return txn.Status == models.TransactionStatusFailed &&
			txn.FailureReason == models.ErrInsufficientFunds.Error()
	})).Return("txn-failed", nil).Once()

	txn, err := svc.Upgrade(context.Background(), user, models.SubscriptionTypeUltimate, models.DummyUpgradeRequest{
		SubscriptionType:   models.SubscriptionTypeUltimate,
		SubscriptionPeriod: models.SubscriptionPeriodYearly,
		WalletUID:          "wallet-1",
	})

	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusFailed, txn.Status)
	// состояние подписки не трогаем
	repo.AssertNotCalled(t, "DeactivateSubscription")
	repo.AssertNotCalled(t, "CreateSubscription")
	repo.AssertExpectations(t)
	wallets.AssertExpectations(t)
}

func TestService_Upgrade_ForeignWallet(t *testing.T) {
	repo := new(RepoMock)
	wallets := new(WalletServiceMock)
	svc := New(repo, wallets, TxRunnerMock{}, nil, newNoopLogger())

	user := &models.User{UUID: "user-1"}

	wallets.On("GetByUID", mock.Anything, "wallet-2").
		Return(&models.Wallet{UUID: "wallet-2", OwnerUID: "someone-else"}, nil).Once()

	txn, err := svc.Upgrade(context.Background(), user, models.SubscriptionTypePremium, models.DummyUpgradeRequest{
		SubscriptionType:   models.SubscriptionTypePremium,
		SubscriptionPeriod: models.SubscriptionPeriodMonthly,
		WalletUID:          "wallet-2",
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrWalletOwnershipMismatch)
	assert.Nil(t, txn)
	repo.AssertNotCalled(t, "CreateTransaction")
	wallets.AssertNotCalled(t, "Debit")
}

func TestService_Upgrade_MissingWallet(t *testing.T) {
	repo := new(RepoMock)
	wallets := new(WalletServiceMock)
	svc := New(repo, wallets, TxRunnerMock{}, nil, newNoopLogger())

	wallets.On("GetByUID", mock.Anything, "wallet-9").
		Return(nil, models.ErrWalletNotFound).Once()

	txn, err := svc.Upgrade(context.Background(), &models.User{UUID: "user-1"}, models.SubscriptionTypePremium,
		models.DummyUpgradeRequest{
			SubscriptionType:   models.SubscriptionTypePremium,
			SubscriptionPeriod: models.SubscriptionPeriodMonthly,
			WalletUID:          "wallet-9",
		})

	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrWalletNotFound)
	assert.Nil(t, txn)
}

func TestService_Upgrade_FailureAfterDebitRollsBack(t *testing.T) {
	repo := new(RepoMock)
	wallets := new(WalletServiceMock)
	svc := New(repo, wallets, TxRunnerMock{}, nil, newNoopLogger())

	user := &models.User{UUID: "user-1"}
	price := decimal.RequireFromString("19.99")
	storageErr := errors.New("storage down")

	wallets.On("GetByUID", mock.Anything, "wallet-1").
		Return(&models.Wallet{UUID: "wallet-1", OwnerUID: "user-1"}, nil).Once()
	wallets.On("Debit", mock.Anything, "wallet-1", price).Return(nil).Once()
	repo.On("GetActiveSubscriptionByOwner", mock.Anything, "user-1").
		Return(nil, storageErr).Once()

	txn, err := svc.Upgrade(context.Background(), user, models.SubscriptionTypePremium, models.DummyUpgradeRequest{
		SubscriptionType:   models.SubscriptionTypePremium,
		SubscriptionPeriod: models.SubscriptionPeriodMonthly,
		WalletUID:          "wallet-1",
	})

	// ошибка из WithinTransaction откатывает и списание
	require.Error(t, err)
	assert.ErrorIs(t, err, storageErr)
	assert.Nil(t, txn)
}

func TestPlanPrice(t *testing.T) {
	tests := []struct {
		name    string
		subType string
		period  string
		want    string
		wantErr bool
	}{
		{"premium monthly", models.SubscriptionTypePremium, models.SubscriptionPeriodMonthly, "19.99", false},
		{"premium yearly", models.SubscriptionTypePremium, models.SubscriptionPeriodYearly, "199.99", false},
		{"ultimate monthly", models.SubscriptionTypeUltimate, models.SubscriptionPeriodMonthly, "49.99", false},
		{"default is free", models.SubscriptionTypeDefault, models.SubscriptionPeriodMonthly, "0", false},
		{"unknown plan", "PLATINUM", models.SubscriptionPeriodMonthly, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, err := PlanPrice(tt.subType, tt.period)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, price.Equal(decimal.RequireFromString(tt.want)))
		})
	}
}
