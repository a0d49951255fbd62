package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDemoDataIsRepeatable(t *testing.T) {
	f := newFixture(t)
	auth := NewAuthService(f.store, ReferralSettings{Bonus: decimal.Zero}, f.effects)
	users := NewUserService(f.store, nil, f.effects)
	games := NewGameService(f.store)
	admin := DemoAdmin{Username: "admin", Email: "admin@arena.local", Password: "admin123"}

	for i := 0; i < 2; i++ {
		require.NoError(t, SeedDemoData(f.ctx, admin, auth, users, games, nil))
	}

	list, err := games.List(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, len(demoGames))

	u, err := auth.Login(f.ctx, LoginInput{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.True(t, u.IsAdmin)
}
