package services

import (
	"testing"

	"github.com/Dosada05/arena/models"
	"github.com/Dosada05/arena/realtime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendNotification(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.store, f.effects)
	alice := f.user(t, "alice", "0.00")
	bob := f.user(t, "bob", "0.00")

	created, err := svc.Send(f.ctx, SendNotificationInput{Title: "Maintenance", Message: "Back at 10:00"})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	for _, id := range []int{alice.ID, bob.ID} {
		notes := f.notifications(t, id)
		require.Len(t, notes, 1)
		assert.Equal(t, models.NotificationSystem, notes[0].Type)
		assert.Equal(t, 1, f.notifier.userMessages(id, realtime.MessageNotification))
	}

	created, err = svc.Send(f.ctx, SendNotificationInput{UserID: &bob.ID, Type: models.NotificationWallet, Title: "Hi", Message: "Only bob"})
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Len(t, f.notifications(t, alice.ID), 1)
	assert.Len(t, f.notifications(t, bob.ID), 2)

	missing := 999
	_, err = svc.Send(f.ctx, SendNotificationInput{UserID: &missing, Title: "Hi", Message: "x"})
	require.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.Send(f.ctx, SendNotificationInput{Type: "promo", Title: "", Message: ""})
	require.ErrorIs(t, err, ErrValidationFailed)
}

func TestMarkNotificationsRead(t *testing.T) {
	f := newFixture(t)
	svc := NewNotificationService(f.store, f.effects)
	u := f.user(t, "alice", "0.00")

	for i := 0; i < 3; i++ {
		_, err := svc.Send(f.ctx, SendNotificationInput{UserID: &u.ID, Title: "Hi", Message: "msg"})
		require.NoError(t, err)
	}
	notes, err := svc.ListForUser(f.ctx, u.ID, true)
	require.NoError(t, err)
	require.Len(t, notes, 3)

	read, err := svc.MarkRead(f.ctx, notes[0].ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	_, err = svc.MarkRead(f.ctx, 999)
	require.ErrorIs(t, err, ErrNotificationNotFound)

	n, err := svc.MarkAllRead(f.ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	unread, err := svc.ListForUser(f.ctx, u.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)

	_, err = svc.ListForUser(f.ctx, 999, false)
	require.ErrorIs(t, err, ErrUserNotFound)
}
