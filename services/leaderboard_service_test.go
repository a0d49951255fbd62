package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dosada05/arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapLeaderboardCache struct {
	entries     map[int][]*models.LeaderboardEntry
	invalidated int
}

func (c *mapLeaderboardCache) Get(_ context.Context, limit int) ([]*models.LeaderboardEntry, bool, error) {
	e, ok := c.entries[limit]
	return e, ok, nil
}

func (c *mapLeaderboardCache) Set(_ context.Context, limit int, entries []*models.LeaderboardEntry) error {
	c.entries[limit] = entries
	return nil
}

func (c *mapLeaderboardCache) Invalidate(context.Context) error {
	c.entries = map[int][]*models.LeaderboardEntry{}
	c.invalidated++
	return nil
}

func TestLeaderboardOrderingAndLimit(t *testing.T) {
	f := newFixture(t)
	svc := NewLeaderboardService(f.store, nil, 3, f.effects)

	low := f.user(t, "low", "1.00")
	tieA := f.user(t, "tie_a", "20.00")
	tieB := f.user(t, "tie_b", "15.00")
	require.NoError(t, f.store.Users().AddBonusCoins(f.ctx, tieB.ID, 5))
	top := f.user(t, "top", "100.00")
	admin := f.user(t, "admin", "1000.00")
	admin.IsAdmin = true
	require.NoError(t, f.store.Users().Update(f.ctx, admin))

	entries, err := svc.Get(f.ctx, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []int{top.ID, tieA.ID, tieB.ID}, []int{entries[0].UserID, entries[1].UserID, entries[2].UserID})
	assert.Equal(t, []int{1, 2, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
	assert.Equal(t, "20.00", entries[2].Score.String())

	entries, err = svc.Get(f.ctx, 100)
	require.NoError(t, err)
	assert.Len(t, entries, 3)

	entries, err = svc.Get(f.ctx, 2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.NotContains(t, []int{entries[0].UserID, entries[1].UserID}, low.ID)
}

func TestLeaderboardCacheInvalidatedByWallet(t *testing.T) {
	f := newFixture(t)
	lb := &mapLeaderboardCache{entries: map[int][]*models.LeaderboardEntry{}}
	f.effects.Leaderboard = lb
	svc := NewLeaderboardService(f.store, nil, 10, f.effects)
	wallet := NewWalletService(f.store, f.effects)

	for i := 0; i < 3; i++ {
		f.user(t, fmt.Sprintf("player%d", i), "5.00")
	}
	first, err := svc.Get(f.ctx, 10)
	require.NoError(t, err)
	require.Len(t, lb.entries[10], 3)

	last := first[2]
	_, err = wallet.AddMoney(f.ctx, last.UserID, models.MustMoney("50.00"), "")
	require.NoError(t, err)
	assert.Equal(t, 1, lb.invalidated)

	second, err := svc.Get(f.ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, last.UserID, second[0].UserID)
	assert.Equal(t, 1, second[0].Rank)
}

func TestLeaderboardCacheInvalidatedByRegistration(t *testing.T) {
	tests := []struct {
		name     string
		referral bool
	}{
		{name: "plain signup", referral: false},
		{name: "referred signup", referral: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			lb := &mapLeaderboardCache{entries: map[int][]*models.LeaderboardEntry{}}
			f.effects.Leaderboard = lb
			svc := NewLeaderboardService(f.store, nil, 10, f.effects)
			auth := newAuthService(f)

			first, err := auth.Register(f.ctx, RegisterInput{Username: "first", Email: "first@arena.test", Password: "secret1"})
			require.NoError(t, err)
			cached, err := svc.Get(f.ctx, 10)
			require.NoError(t, err)
			require.Len(t, cached, 1)
			before := lb.invalidated

			in := RegisterInput{Username: "second", Email: "second@arena.test", Password: "secret1"}
			if tt.referral {
				in.ReferralCode = first.ReferralCode
			}
			_, err = auth.Register(f.ctx, in)
			require.NoError(t, err)
			assert.Equal(t, before+1, lb.invalidated)

			entries, err := svc.Get(f.ctx, 10)
			require.NoError(t, err)
			assert.Len(t, entries, 2)
		})
	}
}
