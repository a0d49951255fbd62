package realtime

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubBroadcastToRoom(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	alice := NewClient(hub, nil, UserRoom(1))
	bob := NewClient(hub, nil, UserRoom(2))
	require.True(t, hub.RegisterClient(alice))
	require.True(t, hub.RegisterClient(bob))
	require.Eventually(t, func() bool { return hub.RoomSize(UserRoom(1)) == 1 }, time.Second, 5*time.Millisecond)

	hub.PushToUser(1, MessageNotification, map[string]string{"title": "hi"})

	select {
	case raw := <-alice.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, MessageNotification, msg.Type)
		assert.Equal(t, "user_1", msg.RoomID)
	case <-time.After(time.Second):
		t.Fatal("alice did not receive the message")
	}
	assert.Empty(t, bob.Send)
}

func TestHubUnregisterClosesClient(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(nil)
	go hub.Run(ctx)

	c := NewClient(hub, nil, TournamentRoom(5))
	require.True(t, hub.RegisterClient(c))
	hub.UnregisterClient(c)
	require.Eventually(t, func() bool { return hub.RoomSize(TournamentRoom(5)) == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-c.Send
	assert.False(t, open)

	// Broadcasting to an empty room is a no-op.
	hub.PushToTournament(5, MessageTournamentUpdate, nil)
}

func TestHubCallsReturnAfterRunStops(t *testing.T) {
	tests := []struct {
		name string
		call func(h *Hub, c *Client) bool
		want bool
	}{
		{
			name: "register",
			call: func(h *Hub, c *Client) bool { return h.RegisterClient(c) },
			want: false,
		},
		{
			name: "unregister",
			call: func(h *Hub, c *Client) bool { h.UnregisterClient(c); return true },
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			hub := NewHub(nil)
			stopped := make(chan struct{})
			go func() {
				hub.Run(ctx)
				close(stopped)
			}()
			cancel()
			<-stopped

			c := NewClient(hub, nil, UserRoom(7))
			result := make(chan bool, 1)
			go func() { result <- tt.call(hub, c) }()

			select {
			case got := <-result:
				assert.Equal(t, tt.want, got)
			case <-time.After(time.Second):
				t.Fatal("hub call blocked after Run returned")
			}
			assert.Zero(t, hub.RoomSize(UserRoom(7)))
		})
	}
}

func TestHubShutdownClosesRegisteredClients(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	hub := NewHub(nil)
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	c := NewClient(hub, nil, UserRoom(3))
	require.True(t, hub.RegisterClient(c))
	cancel()
	<-stopped

	_, open := <-c.Send
	assert.False(t, open)

	done := make(chan struct{})
	go func() {
		// ReadPump path after shutdown.
		hub.UnregisterClient(c)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("unregister blocked after shutdown")
	}
}
