package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameLifecycle(t *testing.T) {
	f := newFixture(t)
	svc := NewGameService(f.store)

	game, err := svc.Create(f.ctx, GameInput{Name: "Counter-Strike 2"})
	require.NoError(t, err)
	assert.Equal(t, "counter-strike-2", game.Slug)
	assert.True(t, game.IsActive)

	_, err = svc.Create(f.ctx, GameInput{Name: "counter strike 2"})
	require.ErrorIs(t, err, ErrGameNameTaken)

	_, err = svc.Create(f.ctx, GameInput{Name: "   "})
	require.ErrorIs(t, err, ErrValidationFailed)

	inactive := false
	name := "Dota 2"
	updated, err := svc.Update(f.ctx, game.ID, UpdateGameInput{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "dota-2", updated.Slug)

	active, err := svc.List(f.ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
	all, err := svc.List(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestDeleteGameInUse(t *testing.T) {
	f := newFixture(t)
	svc := NewGameService(f.store)
	tr := f.tournament(t, "0.00", "0.00", 4)

	require.ErrorIs(t, svc.Delete(f.ctx, tr.GameID), ErrGameInUse)
	require.NoError(t, newTournamentService(f).Delete(f.ctx, tr.ID))
	require.NoError(t, svc.Delete(f.ctx, tr.GameID))
	_, err := svc.GetByID(f.ctx, tr.GameID)
	require.ErrorIs(t, err, ErrGameNotFound)
}
