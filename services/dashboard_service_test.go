package services

import (
	"testing"

	"github.com/Dosada05/arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	wallet := NewWalletService(f.store, f.effects)
	tournaments := newTournamentService(f)

	alice := f.user(t, "alice", "0.00")
	bob := f.user(t, "bob", "0.00")
	_, err := wallet.AddMoney(f.ctx, alice.ID, models.MustMoney("100.00"), "")
	require.NoError(t, err)
	_, err = wallet.AddMoney(f.ctx, bob.ID, models.MustMoney("50.00"), "")
	require.NoError(t, err)
	_, err = wallet.Withdraw(f.ctx, bob.ID, models.MustMoney("20.00"), "")
	require.NoError(t, err)

	tr := f.tournament(t, "25.00", "40.00", 8)
	f.tournament(t, "0.00", "0.00", 8)
	for _, u := range []*models.User{alice, bob} {
		_, err := tournaments.Join(f.ctx, JoinTournamentInput{TournamentID: tr.ID, UserID: u.ID})
		require.NoError(t, err)
	}
	_, err = tournaments.SubmitResults(f.ctx, tr.ID, []ResultInput{
		{UserID: alice.ID, Position: 1, PrizeWon: models.MustMoney("40.00")},
		{UserID: bob.ID, Position: 2},
	})
	require.NoError(t, err)
	_, err = NewTeamService(f.store, f.effects).Create(f.ctx, alice.ID, CreateTeamInput{Name: "Falcons"})
	require.NoError(t, err)

	stats, err := NewDashboardService(f.store).GetStats(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.UsersTotal)
	assert.Equal(t, 1, stats.TeamsTotal)
	assert.Equal(t, 2, stats.TournamentsTotal)
	assert.Equal(t, 2, stats.TournamentsUpcoming)
	assert.Equal(t, 2, stats.ParticipantsTotal)
	assert.Equal(t, "150.00", stats.DepositsTotal.String())
	assert.Equal(t, "20.00", stats.WithdrawalsTotal.String())
	assert.Equal(t, "50.00", stats.EntryFeesTotal.String())
	assert.Equal(t, "40.00", stats.PrizesPaidTotal.String())
	assert.Equal(t, "0.00", stats.ReferralBonusTotal.String())
}
