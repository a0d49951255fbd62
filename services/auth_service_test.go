package services

import (
	"testing"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) AuthService {
	return NewAuthService(f.store, ReferralSettings{Bonus: decimal.RequireFromString("10.00"), BonusCoins: 50}, f.effects)
}

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	user, err := svc.Register(f.ctx, RegisterInput{
		Username: "alice",
		Email:    " Alice@Arena.Test ",
		Password: "secret1",
		FullName: "Alice Liddell",
	})
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.Equal(t, "alice@arena.test", user.Email)
	assert.Len(t, user.ReferralCode, 8)
	assert.Equal(t, "0.00", user.WalletBalance.String())
	assert.Nil(t, user.ReferredBy)
	assert.Equal(t, []string{events.SubjectUserRegistered}, f.events.Subjects())

	byName, err := svc.Login(f.ctx, LoginInput{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
	assert.Empty(t, byName.PasswordHash)

	byEmail, err := svc.Login(f.ctx, LoginInput{Email: "ALICE@arena.test", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	for _, in := range []LoginInput{
		{Username: "alice", Password: "wrong"},
		{Username: "nobody", Password: "secret1"},
		{Password: "secret1"},
	} {
		_, err := svc.Login(f.ctx, in)
		require.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestRegisterValidationAndConflicts(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Register(f.ctx, RegisterInput{Username: "al", Email: "bad", Password: "123"})
	require.ErrorIs(t, err, ErrValidationFailed)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 3)

	_, err = svc.Register(f.ctx, RegisterInput{Username: "alice", Email: "alice@arena.test", Password: "secret1"})
	require.NoError(t, err)

	_, err = svc.Register(f.ctx, RegisterInput{Username: "alice", Email: "other@arena.test", Password: "secret1"})
	require.ErrorIs(t, err, ErrUsernameTaken)
	_, err = svc.Register(f.ctx, RegisterInput{Username: "other", Email: "alice@arena.test", Password: "secret1"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterWithReferralCode(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	referrer, err := svc.Register(f.ctx, RegisterInput{Username: "alice", Email: "alice@arena.test", Password: "secret1"})
	require.NoError(t, err)

	invited, err := svc.Register(f.ctx, RegisterInput{
		Username:     "bob",
		Email:        "bob@arena.test",
		Password:     "secret1",
		ReferralCode: " " + referrer.ReferralCode + " ",
	})
	require.NoError(t, err)
	require.NotNil(t, invited.ReferredBy)
	assert.Equal(t, referrer.ID, *invited.ReferredBy)
	assert.Equal(t, 50, invited.BonusCoins)

	assert.Equal(t, "10.00", f.balance(t, referrer.ID))
	txs := f.transactions(t, referrer.ID)
	require.Len(t, txs, 1)
	assert.Equal(t, models.TxReferralBonus, txs[0].Type)
	assert.Equal(t, models.TxCompleted, txs[0].Status)
	assert.Equal(t, "10.00", txs[0].Amount.String())

	notes := f.notifications(t, referrer.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, models.NotificationReferral, notes[0].Type)

	referrals, err := NewUserService(f.store, nil, f.effects).ListReferrals(f.ctx, referrer.ID)
	require.NoError(t, err)
	require.Len(t, referrals, 1)
	assert.Equal(t, invited.ID, referrals[0].ID)
}

func TestRegisterWithUnknownReferralCode(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Register(f.ctx, RegisterInput{
		Username: "bob", Email: "bob@arena.test", Password: "secret1", ReferralCode: "UNKNOWN1",
	})
	require.ErrorIs(t, err, ErrInvalidReferralCode)

	n, err := f.store.Users().Count(f.ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
