package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/Dosada05/arena/events"
	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/repositories"
	"github.com/stretchr/testify/require"
)

type pushed struct {
	target  int
	msgType string
	payload interface{}
}

type recordingNotifier struct {
	mu          sync.Mutex
	users       []pushed
	tournaments []pushed
}

func (n *recordingNotifier) PushToUser(userID int, msgType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, pushed{userID, msgType, payload})
}

func (n *recordingNotifier) PushToTournament(tournamentID int, msgType string, payload interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tournaments = append(n.tournaments, pushed{tournamentID, msgType, payload})
}

func (n *recordingNotifier) userMessages(userID int, msgType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	count := 0
	for _, p := range n.users {
		if p.target == userID && p.msgType == msgType {
			count++
		}
	}
	return count
}

type fixture struct {
	ctx      context.Context
	store    *repositories.MemoryStore
	events   *events.Recorder
	notifier *recordingNotifier
	effects  SideEffects
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		ctx:      context.Background(),
		store:    repositories.NewMemoryStore(),
		events:   &events.Recorder{},
		notifier: &recordingNotifier{},
	}
	f.effects = SideEffects{Notifier: f.notifier, Publisher: f.events}
	return f
}

func (f *fixture) user(t *testing.T, username, balance string) *models.User {
	t.Helper()
	u := &models.User{
		Username:      username,
		Email:         username + "@arena.test",
		PasswordHash:  "unused",
		ReferralCode:  "REF" + username,
		WalletBalance: models.MustMoney(balance),
	}
	require.NoError(t, f.store.Users().Create(f.ctx, u))
	return u
}

func (f *fixture) game(t *testing.T) *models.Game {
	t.Helper()
	games, err := f.store.Games().List(f.ctx, false)
	require.NoError(t, err)
	if len(games) > 0 {
		return games[0]
	}
	g := &models.Game{Name: "Valorant", Slug: "valorant", IsActive: true}
	require.NoError(t, f.store.Games().Create(f.ctx, g))
	return g
}

func (f *fixture) tournament(t *testing.T, fee, pool string, maxParticipants int) *models.Tournament {
	t.Helper()
	tr := &models.Tournament{
		Title:           "Weekly Cup",
		GameID:          f.game(t).ID,
		EntryFee:        models.MustMoney(fee),
		PrizePool:       models.MustMoney(pool),
		MaxParticipants: maxParticipants,
		Status:          models.StatusUpcoming,
		StartTime:       time.Now().Add(time.Hour),
	}
	require.NoError(t, f.store.Tournaments().Create(f.ctx, tr))
	return tr
}

func (f *fixture) balance(t *testing.T, userID int) string {
	t.Helper()
	u, err := f.store.Users().GetByID(f.ctx, userID)
	require.NoError(t, err)
	return u.WalletBalance.String()
}

func (f *fixture) transactions(t *testing.T, userID int) []*models.Transaction {
	t.Helper()
	items, err := f.store.Transactions().List(f.ctx, models.TransactionFilter{UserID: &userID})
	require.NoError(t, err)
	return items
}

func (f *fixture) notifications(t *testing.T, userID int) []*models.Notification {
	t.Helper()
	items, err := f.store.Notifications().ListByUser(f.ctx, userID, false)
	require.NoError(t, err)
	return items
}
