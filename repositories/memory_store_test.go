package repositories

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Dosada05/arena/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUser(t *testing.T, s Store, username string, balance string) *models.User {
	t.Helper()
	u := &models.User{
		Username:      username,
		Email:         username + "@arena.test",
		PasswordHash:  "hash",
		ReferralCode:  "REF" + username,
		WalletBalance: models.MustMoney(balance),
	}
	require.NoError(t, s.Users().Create(context.Background(), u))
	return u
}

func seedTournament(t *testing.T, s Store, maxParticipants int) *models.Tournament {
	t.Helper()
	ctx := context.Background()
	game := &models.Game{Name: "Valorant", Slug: "valorant", IsActive: true}
	if err := s.Games().Create(ctx, game); err != nil {
		require.ErrorIs(t, err, ErrGameSlugConflict)
		games, err := s.Games().List(ctx, false)
		require.NoError(t, err)
		game = games[0]
	}
	tr := &models.Tournament{
		Title:           "Weekly Cup",
		GameID:          game.ID,
		EntryFee:        models.MustMoney("100.00"),
		PrizePool:       models.MustMoney("500.00"),
		MaxParticipants: maxParticipants,
		Status:          models.StatusUpcoming,
		StartTime:       time.Now().Add(time.Hour),
	}
	require.NoError(t, s.Tournaments().Create(ctx, tr))
	return tr
}

func TestMemoryStoreWithTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "alice", "100.00")

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx Store) error {
		if _, err := tx.Users().UpdateWallet(ctx, u.ID, decimal.NewFromInt(50)); err != nil {
			return err
		}
		require.NoError(t, tx.Transactions().Create(ctx, &models.Transaction{
			UserID: u.ID, Type: models.TxDeposit, Amount: models.MustMoney("50"), Status: models.TxCompleted,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", got.WalletBalance.String())

	txs, err := s.Transactions().List(ctx, models.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestMemoryStoreWithTxCommits(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "bob", "10.00")

	err := s.WithTx(ctx, func(tx Store) error {
		_, err := tx.Users().UpdateWallet(ctx, u.ID, decimal.RequireFromString("-2.50"))
		return err
	})
	require.NoError(t, err)

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "7.50", got.WalletBalance.String())
}

func TestMemoryUpdateWalletNeverNegative(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "carol", "5.00")

	_, err := s.Users().UpdateWallet(ctx, u.ID, decimal.NewFromInt(-6))
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	balance, err := s.Users().UpdateWallet(ctx, u.ID, decimal.NewFromInt(-5))
	require.NoError(t, err)
	assert.Equal(t, "0.00", balance.String())

	_, err = s.Users().UpdateWallet(ctx, 999, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryIncrementParticipantsRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	tr := seedTournament(t, s, 2)

	require.NoError(t, s.Tournaments().IncrementParticipants(ctx, tr.ID))
	require.NoError(t, s.Tournaments().IncrementParticipants(ctx, tr.ID))
	assert.ErrorIs(t, s.Tournaments().IncrementParticipants(ctx, tr.ID), ErrTournamentFull)
	assert.ErrorIs(t, s.Tournaments().IncrementParticipants(ctx, 404), ErrTournamentNotFound)

	got, err := s.Tournaments().GetByID(ctx, tr.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentParticipants)
}

func TestMemoryIncrementMembersRespectsCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	captain := seedUser(t, s, "captain", "0")
	team := &models.Team{Name: "Squad", CaptainID: captain.ID, MaxMembers: 6, CurrentMembers: 6, JoinCode: "ABCDEFGH"}
	require.NoError(t, s.Teams().Create(ctx, team))

	assert.ErrorIs(t, s.Teams().IncrementMembers(ctx, team.ID), ErrTeamFull)

	got, err := s.Teams().GetByID(ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.CurrentMembers)
}

func TestMemoryUniqueConstraints(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "dave", "0")
	tr := seedTournament(t, s, 10)

	dup := &models.User{Username: "DAVE", Email: "x@arena.test", ReferralCode: "OTHER"}
	assert.ErrorIs(t, s.Users().Create(ctx, dup), ErrUserUsernameConflict)

	require.NoError(t, s.Participants().Create(ctx, &models.TournamentParticipant{TournamentID: tr.ID, UserID: u.ID}))
	err := s.Participants().Create(ctx, &models.TournamentParticipant{TournamentID: tr.ID, UserID: u.ID})
	assert.ErrorIs(t, err, ErrAlreadyJoined)

	ref := "key-1"
	require.NoError(t, s.Transactions().Create(ctx, &models.Transaction{
		UserID: u.ID, Type: models.TxDeposit, Amount: models.MustMoney("1"), Status: models.TxCompleted, Reference: &ref,
	}))
	err = s.Transactions().Create(ctx, &models.Transaction{
		UserID: u.ID, Type: models.TxDeposit, Amount: models.MustMoney("1"), Status: models.TxCompleted, Reference: &ref,
	})
	assert.ErrorIs(t, err, ErrDuplicateReference)
}

func TestMemoryLookupsIgnoreCase(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "alice", "0")

	tests := []struct {
		name   string
		lookup func() (*models.User, error)
	}{
		{"username upper", func() (*models.User, error) { return s.Users().GetByUsername(ctx, "ALICE") }},
		{"username mixed", func() (*models.User, error) { return s.Users().GetByUsername(ctx, "Alice") }},
		{"email mixed", func() (*models.User, error) { return s.Users().GetByEmail(ctx, strings.ToUpper(u.Email)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.lookup()
			require.NoError(t, err)
			assert.Equal(t, u.ID, got.ID)
		})
	}

	team := &models.Team{Name: "wolves", CaptainID: u.ID, MaxMembers: 6, JoinCode: "WOLF1"}
	require.NoError(t, s.Teams().Create(ctx, team))
	dup := &models.Team{Name: "Wolves", CaptainID: u.ID, MaxMembers: 6, JoinCode: "WOLF2"}
	assert.ErrorIs(t, s.Teams().Create(ctx, dup), ErrTeamNameConflict)
}

func TestMemoryLeaderboardOrdering(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	a := seedUser(t, s, "a", "10.00")
	b := seedUser(t, s, "b", "30.00")
	c := seedUser(t, s, "c", "20.00")
	require.NoError(t, s.Users().AddBonusCoins(ctx, c.ID, 10))
	admin := &models.User{Username: "root", Email: "root@arena.test", ReferralCode: "ROOT", IsAdmin: true, WalletBalance: models.MustMoney("1000")}
	require.NoError(t, s.Users().Create(ctx, admin))

	entries, err := s.Users().Leaderboard(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// b and c tie on score 30, lower id wins.
	assert.Equal(t, []int{b.ID, c.ID, a.ID}, []int{entries[0].UserID, entries[1].UserID, entries[2].UserID})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, "30.00", entries[1].Score.String())

	limited, err := s.Users().Leaderboard(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestMemoryDeleteTournamentCascades(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "erin", "0")
	tr := seedTournament(t, s, 10)

	require.NoError(t, s.Participants().Create(ctx, &models.TournamentParticipant{TournamentID: tr.ID, UserID: u.ID}))
	require.NoError(t, s.Transactions().Create(ctx, &models.Transaction{
		UserID: u.ID, Type: models.TxTournamentEntry, Amount: models.MustMoney("-100"), Status: models.TxCompleted, TournamentID: &tr.ID,
	}))

	require.NoError(t, s.Tournaments().Delete(ctx, tr.ID))

	participants, err := s.Participants().ListByTournament(ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, participants)

	txs, err := s.Transactions().List(ctx, models.TransactionFilter{UserID: &u.ID})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Nil(t, txs[0].TournamentID)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	u := seedUser(t, s, "frank", "1.00")

	got, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mutated"

	again, err := s.Users().GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "frank", again.Username)
}
