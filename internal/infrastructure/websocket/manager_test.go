package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/domain/entity"
	"skillswap/internal/infrastructure/events"
)

type fakeActions struct {
	marked []string
	all    int
}

func (f *fakeActions) MarkRead(ctx context.Context, userID, id string) (int, error) {
	f.marked = append(f.marked, id)
	return 1, nil
}

func (f *fakeActions) MarkAllRead(ctx context.Context, userID string) (int, error) {
	f.all++
	return 0, nil
}

func (f *fakeActions) Remove(ctx context.Context, userID, id string) (int, error) {
	return 2, nil
}

func startManager(t *testing.T) (*Manager, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	m := NewManager()
	m.Start(ctx)
	return m, cancel
}

func receive(t *testing.T, c *Client) WSMessage {
	t.Helper()
	select {
	case frame := <-c.Send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(frame, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no frame received")
		return WSMessage{}
	}
}

func TestManager_SendToUserReachesEverySession(t *testing.T) {
	m, cancel := startManager(t)
	defer cancel()

	first := NewClient("2", nil)
	second := NewClient("2", nil)
	other := NewClient("3", nil)
	require.True(t, m.Add(first))
	require.True(t, m.Add(second))
	require.True(t, m.Add(other))

	assert.Eventually(t, func() bool { return m.SessionCount("2") == 2 }, time.Second, 10*time.Millisecond)

	m.SendToUser("2", []byte(`{"type":"x"}`))
	assert.Len(t, first.Send, 1)
	assert.Len(t, second.Send, 1)
	assert.Len(t, other.Send, 0)

	m.Drop(first)
	assert.Eventually(t, func() bool { return m.SessionCount("2") == 1 }, time.Second, 10*time.Millisecond)
}

func TestManager_HandleClientMessage(t *testing.T) {
	m, cancel := startManager(t)
	defer cancel()

	client := NewClient("2", nil)
	require.True(t, m.Add(client))
	assert.Eventually(t, func() bool { return m.SessionCount("2") == 1 }, time.Second, 10*time.Millisecond)

	actions := &fakeActions{}
	ctx := context.Background()

	m.HandleClientMessage(ctx, client, []byte(`{"type":"ping"}`), actions)
	assert.Equal(t, MessageTypePong, receive(t, client).Type)

	m.HandleClientMessage(ctx, client, []byte(`{"type":"mark_read","data":{"notificationId":"swap_request_1"}}`), actions)
	assert.Equal(t, MessageTypeUnreadCount, receive(t, client).Type)
	assert.Equal(t, []string{"swap_request_1"}, actions.marked)

	m.HandleClientMessage(ctx, client, []byte(`{"type":"mark_read","data":{}}`), actions)
	assert.Equal(t, MessageTypeError, receive(t, client).Type)

	m.HandleClientMessage(ctx, client, []byte(`{"type":"mark_all_read"}`), actions)
	assert.Equal(t, MessageTypeUnreadCount, receive(t, client).Type)
	assert.Equal(t, 1, actions.all)

	m.HandleClientMessage(ctx, client, []byte(`not json`), actions)
	assert.Equal(t, MessageTypeError, receive(t, client).Type)
}

func TestManager_BridgeForwardsBusEvents(t *testing.T) {
	m, cancel := startManager(t)
	defer cancel()

	bus := events.NewBus()
	defer bus.Close()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	require.NoError(t, m.Bridge(ctx, bus, events.TopicNotification, events.TopicSwapAcceptedLanding))

	client := NewClient("2", nil)
	require.True(t, m.Add(client))
	assert.Eventually(t, func() bool { return m.SessionCount("2") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, bus.PublishSwapAccepted("2", entity.SwapRequest{ID: "s1"}))
	msg := receive(t, client)
	assert.Equal(t, MessageTypeSwapAcceptedLanding, msg.Type)
}

func TestManager_AddRegistersBeforeReturning(t *testing.T) {
	m, cancel := startManager(t)
	defer cancel()

	client := NewClient("2", nil)
	require.True(t, m.Add(client))
	assert.Equal(t, 1, m.SessionCount("2"))

	m.SendToUser("2", []byte(`{"type":"notification"}`))
	assert.Len(t, client.Send, 1, "a frame published right after Add reaches the session")
}

func TestManager_StopRejectsNewSessions(t *testing.T) {
	m, cancel := startManager(t)
	client := NewClient("2", nil)
	require.True(t, m.Add(client))
	cancel()

	_, open := <-client.Send
	assert.False(t, open)
	assert.False(t, m.Add(NewClient("3", nil)))
}
