package services

import (
	"fmt"
	"testing"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeamAddsCaptain(t *testing.T) {
	f := newFixture(t)
	svc := NewTeamService(f.store, f.effects)
	captain := f.user(t, "captain", "0.00")

	team, err := svc.Create(f.ctx, captain.ID, CreateTeamInput{Name: " Falcons "})
	require.NoError(t, err)
	assert.Equal(t, "Falcons", team.Name)
	assert.Equal(t, 6, team.MaxMembers)
	assert.Equal(t, 1, team.CurrentMembers)
	assert.Len(t, team.JoinCode, 8)

	members, err := svc.ListMembers(f.ctx, team.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, captain.ID, members[0].UserID)
	assert.Equal(t, models.RoleCaptain, members[0].Role)

	_, err = svc.Create(f.ctx, captain.ID, CreateTeamInput{Name: "falcons"})
	require.ErrorIs(t, err, ErrTeamNameTaken)

	_, err = svc.Create(f.ctx, 999, CreateTeamInput{Name: "Ghosts"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Create(f.ctx, captain.ID, CreateTeamInput{Name: "x"})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestJoinByCodeStopsAtCapacity(t *testing.T) {
	f := newFixture(t)
	svc := NewTeamService(f.store, f.effects)
	captain := f.user(t, "captain", "0.00")
	team, err := svc.Create(f.ctx, captain.ID, CreateTeamInput{Name: "Falcons"})
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		u := f.user(t, fmt.Sprintf("member%d", i), "0.00")
		_, err := svc.JoinByCode(f.ctx, team.JoinCode, u.ID)
		require.NoError(t, err)
	}

	late := f.user(t, "late", "0.00")
	_, err = svc.JoinByCode(f.ctx, team.JoinCode, late.ID)
	require.ErrorIs(t, err, ErrTeamFull)

	got, err := svc.GetByID(f.ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.CurrentMembers)
	members, err := svc.ListMembers(f.ctx, team.ID)
	require.NoError(t, err)
	assert.Len(t, members, 6)

	teams, err := svc.ListUserTeams(f.ctx, late.ID)
	require.NoError(t, err)
	assert.Empty(t, teams)

	assert.Len(t, f.notifications(t, captain.ID), 5)
	assert.Len(t, f.events.Subjects(), 5)
	assert.Equal(t, events.SubjectTeamJoined, f.events.Subjects()[0])
}

func TestJoinTeamErrors(t *testing.T) {
	f := newFixture(t)
	svc := NewTeamService(f.store, f.effects)
	captain := f.user(t, "captain", "0.00")
	team, err := svc.Create(f.ctx, captain.ID, CreateTeamInput{Name: "Falcons"})
	require.NoError(t, err)

	_, err = svc.Join(f.ctx, team.ID, captain.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)

	_, err = svc.JoinByCode(f.ctx, "NOPE1234", captain.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)

	_, err = svc.JoinByCode(f.ctx, "  ", captain.ID)
	require.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.Join(f.ctx, team.ID, 999)
	require.ErrorIs(t, err, ErrUserNotFound)

	u := f.user(t, "bob", "0.00")
	member, err := svc.JoinByCode(f.ctx, " "+team.JoinCode+" ", u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, member.Role)

	got, err := svc.GetByID(f.ctx, team.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentMembers)
}

func TestUpdateTeam(t *testing.T) {
	f := newFixture(t)
	svc := NewTeamService(f.store, f.effects)
	captain := f.user(t, "captain", "0.00")
	team, err := svc.Create(f.ctx, captain.ID, CreateTeamInput{Name: "Falcons", MaxMembers: 2})
	require.NoError(t, err)
	u := f.user(t, "bob", "0.00")
	_, err = svc.Join(f.ctx, team.ID, u.ID)
	require.NoError(t, err)

	one := 1
	_, err = svc.Update(f.ctx, team.ID, UpdateTeamInput{MaxMembers: &one})
	require.ErrorIs(t, err, ErrValidationFailed)

	wins, played, name := 3, 5, "Night Falcons"
	updated, err := svc.Update(f.ctx, team.ID, UpdateTeamInput{Name: &name, Wins: &wins, MatchesPlayed: &played})
	require.NoError(t, err)
	assert.Equal(t, "Night Falcons", updated.Name)
	assert.Equal(t, 3, updated.Wins)
	assert.Equal(t, 2, updated.CurrentMembers)

	require.NoError(t, svc.Delete(f.ctx, team.ID))
	_, err = svc.GetByID(f.ctx, team.ID)
	require.ErrorIs(t, err, ErrTeamNotFound)
}
