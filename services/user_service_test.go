package services

import (
	"strings"
	"testing"

	"github.com/Dosada05/arena/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateUserRespectsAdminFields(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store, nil, f.effects)
	u := f.user(t, "alice", "0.00")

	yes := true
	_, err := svc.Update(f.ctx, u.ID, UpdateUserInput{IsAdmin: &yes}, false)
	require.ErrorIs(t, err, ErrForbidden)

	name, email := "Alice L.", "new@arena.test"
	updated, err := svc.Update(f.ctx, u.ID, UpdateUserInput{FullName: &name, Email: &email}, false)
	require.NoError(t, err)
	assert.Equal(t, "Alice L.", updated.FullName)
	assert.Equal(t, "new@arena.test", updated.Email)
	assert.Empty(t, updated.PasswordHash)

	coins := 120
	updated, err = svc.Update(f.ctx, u.ID, UpdateUserInput{IsAdmin: &yes, BonusCoins: &coins}, true)
	require.NoError(t, err)
	assert.True(t, updated.IsAdmin)
	assert.Equal(t, 120, updated.BonusCoins)

	short := "123"
	_, err = svc.Update(f.ctx, u.ID, UpdateUserInput{Password: &short}, false)
	require.ErrorIs(t, err, ErrValidationFailed)

	other := f.user(t, "bob", "0.00")
	taken := "alice"
	_, err = svc.Update(f.ctx, other.ID, UpdateUserInput{Username: &taken}, false)
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestUpdateUserPasswordAllowsLogin(t *testing.T) {
	f := newFixture(t)
	auth := newAuthService(f)
	u, err := auth.Register(f.ctx, RegisterInput{Username: "alice", Email: "alice@arena.test", Password: "secret1"})
	require.NoError(t, err)

	pw := "another-secret"
	_, err = NewUserService(f.store, nil, f.effects).Update(f.ctx, u.ID, UpdateUserInput{Password: &pw}, false)
	require.NoError(t, err)

	_, err = auth.Login(f.ctx, LoginInput{Username: "alice", Password: "secret1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(f.ctx, LoginInput{Username: "alice", Password: pw})
	require.NoError(t, err)
}

func TestUploadAvatar(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice", "0.00")

	_, err := NewUserService(f.store, nil, f.effects).UploadAvatar(f.ctx, u.ID, "image/png", strings.NewReader("png"))
	require.ErrorIs(t, err, ErrUploadsDisabled)

	uploader := storage.NewMemoryUploader("https://cdn.arena.test")
	svc := NewUserService(f.store, uploader, f.effects)

	updated, err := svc.UploadAvatar(f.ctx, u.ID, "image/webp", strings.NewReader("webp"))
	require.NoError(t, err)
	require.NotNil(t, updated.AvatarURL)
	assert.True(t, strings.HasSuffix(*updated.AvatarURL, ".webp"))

	got, err := svc.GetByID(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.AvatarURL, got.AvatarURL)

	_, err = svc.UploadAvatar(f.ctx, 999, "image/png", strings.NewReader("png"))
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Len(t, uploader.Objects, 1)
}

func TestUserTournamentsAndTeams(t *testing.T) {
	f := newFixture(t)
	svc := NewUserService(f.store, nil, f.effects)
	u := f.user(t, "alice", "50.00")
	tr := f.tournament(t, "10.00", "0.00", 4)

	_, err := newTournamentService(f).Join(f.ctx, JoinTournamentInput{TournamentID: tr.ID, UserID: u.ID})
	require.NoError(t, err)
	_, err = NewTeamService(f.store, f.effects).Create(f.ctx, u.ID, CreateTeamInput{Name: "Falcons"})
	require.NoError(t, err)

	tournaments, err := svc.ListTournaments(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, tournaments, 1)
	assert.Equal(t, tr.ID, tournaments[0].ID)

	teams, err := svc.ListTeams(f.ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Falcons", teams[0].Name)

	_, err = svc.ListTournaments(f.ctx, 999)
	require.ErrorIs(t, err, ErrUserNotFound)
}
