package services

import (
	"testing"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/realtime"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawMoney(s string) models.Money {
	return models.Money{Decimal: decimal.RequireFromString(s)}
}

func TestUpdateUserWalletRoundTrip(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "10.10")

	deltas := []string{"0.10", "12.34", "99999.99", "0.01"}
	for _, d := range deltas {
		delta := decimal.RequireFromString(d)
		_, err := svc.UpdateUserWallet(f.ctx, u.ID, delta)
		require.NoError(t, err)
		balance, err := svc.UpdateUserWallet(f.ctx, u.ID, delta.Neg())
		require.NoError(t, err)
		assert.Equal(t, "10.10", balance.String(), "delta %s", d)
	}
	assert.Equal(t, 2*len(deltas), f.notifier.userMessages(u.ID, realtime.MessageWalletUpdated))
}

func TestUpdateUserWalletNeverNegative(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "5.00")

	_, err := svc.UpdateUserWallet(f.ctx, u.ID, decimal.RequireFromString("-5.01"))
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "5.00", f.balance(t, u.ID))

	_, err = svc.UpdateUserWallet(f.ctx, 999, decimal.NewFromInt(1))
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAddMoneyRecordsDeposit(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "0.00")

	op, err := svc.AddMoney(f.ctx, u.ID, models.MustMoney("25.50"), "")
	require.NoError(t, err)
	assert.False(t, op.Replayed)
	assert.Equal(t, "25.50", op.Balance.String())
	assert.Equal(t, "25.50", f.balance(t, u.ID))

	txs := f.transactions(t, u.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxDeposit, txs[0].Type)
	assert.Equal(t, models.TxCompleted, txs[0].Status)
	assert.Equal(t, "25.50", txs[0].Amount.String())
	assert.Nil(t, txs[0].Reference)

	notes := f.notifications(t, u.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationWallet, notes[0].Type)
	assert.Equal(t, 1, f.notifier.userMessages(u.ID, realtime.MessageNotification))
	assert.Equal(t, []string{events.SubjectWalletDeposit}, f.events.Subjects())
}

func TestAddMoneyValidation(t *testing.T) {
	tests := []struct {
		name   string
		amount models.Money
	}{
		{"zero", rawMoney("0")},
		{"negative", rawMoney("-5")},
		{"three decimals", rawMoney("1.234")},
		{"above maximum", rawMoney("100000.01")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := NewWalletService(f.store, f.effects)
			u := f.user(t, "alice", "1.00")

			_, err := svc.AddMoney(f.ctx, u.ID, tt.amount, "")
			require.ErrorIs(t, err, ErrValidationFailed)

			var verrs ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Contains(t, verrs, "amount")
			assert.Equal(t, "1.00", f.balance(t, u.ID))
			assert.Empty(t, f.transactions(t, u.ID))
		})
	}
}

func TestAddMoneyAcceptsMaximum(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "0.00")

	op, err := svc.AddMoney(f.ctx, u.ID, rawMoney("100000"), "")
	require.NoError(t, err)
	assert.Equal(t, "100000.00", op.Balance.String())
}

func TestAddMoneyIsIdempotentPerKey(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "0.00")

	first, err := svc.AddMoney(f.ctx, u.ID, models.MustMoney("40.00"), "dep-1")
	require.NoError(t, err)
	second, err := svc.AddMoney(f.ctx, u.ID, models.MustMoney("40.00"), "dep-1")
	require.NoError(t, err)

	assert.False(t, first.Replayed)
	assert.True(t, second.Replayed)
	assert.Equal(t, first.Transaction.ID, second.Transaction.ID)
	assert.Equal(t, "40.00", second.Balance.String())
	assert.Equal(t, "40.00", f.balance(t, u.ID))
	assert.Len(t, f.transactions(t, u.ID), 1)
	assert.Len(t, f.events.Subjects(), 1)

	// другой пользователь может использовать тот же ключ
	other := f.user(t, "bob", "0.00")
	_, err = svc.AddMoney(f.ctx, other.ID, models.MustMoney("1.00"), "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "1.00", f.balance(t, other.ID))
}

func TestIdempotencyKeyCannotSwitchOperation(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "0.00")

	_, err := svc.AddMoney(f.ctx, u.ID, models.MustMoney("10.00"), "key")
	require.NoError(t, err)
	_, err = svc.Withdraw(f.ctx, u.ID, models.MustMoney("10.00"), "key")
	require.ErrorIs(t, err, ErrIdempotencyKeyReused)
	assert.Equal(t, "10.00", f.balance(t, u.ID))
}

func TestWithdraw(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "30.00")

	op, err := svc.Withdraw(f.ctx, u.ID, models.MustMoney("30.00"), "")
	require.NoError(t, err)
	assert.Equal(t, "0.00", op.Balance.String())
	assert.Equal(t, "-30.00", op.Transaction.Amount.String())
	assert.Equal(t, models.TxWithdrawal, op.Transaction.Type)
	assert.Equal(t, []string{events.SubjectWalletWithdrawal}, f.events.Subjects())
}

func TestWithdrawInsufficientFundsChangesNothing(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "30.00")

	_, err := svc.Withdraw(f.ctx, u.ID, models.MustMoney("30.01"), "w-1")
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, "30.00", f.balance(t, u.ID))
	assert.Empty(t, f.transactions(t, u.ID))
	assert.Empty(t, f.notifications(t, u.ID))
	assert.Empty(t, f.events.Subjects())

	// ключ не занят неудачной попыткой
	_, err = svc.Withdraw(f.ctx, u.ID, models.MustMoney("30.00"), "w-1")
	require.NoError(t, err)
}

func TestCreateTransactionOnlyCompletedMovesBalance(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "10.00")

	pending, err := svc.CreateTransaction(f.ctx, CreateTransactionInput{
		UserID: u.ID, Type: models.TxDeposit, Amount: models.MustMoney("5.00"), Status: models.TxPending,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TxPending, pending.Status)
	assert.Equal(t, "10.00", f.balance(t, u.ID))

	_, err = svc.CreateTransaction(f.ctx, CreateTransactionInput{
		UserID: u.ID, Type: models.TxWithdrawal, Amount: models.MustMoney("-4.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "6.00", f.balance(t, u.ID))

	_, err = svc.CreateTransaction(f.ctx, CreateTransactionInput{
		UserID: u.ID, Type: models.TxWithdrawal, Amount: models.MustMoney("-7.00"),
	})
	require.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Len(t, f.transactions(t, u.ID), 2)

	_, err = svc.CreateTransaction(f.ctx, CreateTransactionInput{UserID: u.ID, Type: "bonus", Amount: models.MustMoney("1")})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestListUserTransactionsNewestFirst(t *testing.T) {
	f := newFixture(t)
	svc := NewWalletService(f.store, f.effects)
	u := f.user(t, "alice", "0.00")

	_, err := svc.AddMoney(f.ctx, u.ID, models.MustMoney("1.00"), "")
	require.NoError(t, err)
	_, err = svc.AddMoney(f.ctx, u.ID, models.MustMoney("2.00"), "")
	require.NoError(t, err)

	txs, err := svc.ListUserTransactions(f.ctx, u.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "2.00", txs[0].Amount.String())

	_, err = svc.ListUserTransactions(f.ctx, 404, 0, 0)
	require.ErrorIs(t, err, ErrUserNotFound)
}
