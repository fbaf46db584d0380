package realtime

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/questcoder/questcoder-backend/internal/logger"
)

func mustTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}

func recvMessage(t *testing.T, ch <-chan SSEMessage, timeout time.Duration) SSEMessage {
	t.Helper()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(timeout):
		t.Fatalf("timed out waiting for SSE message")
	}
	return SSEMessage{}
}

func TestHubPreservesPerUserEventOrder(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	userID := uuid.New()
	channel := UserChannel(userID)

	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventXPGained, Data: map[string]any{"xp": 10}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventLevelUp, Data: map[string]any{"level": 2}})
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventStreakUpdate, Data: map[string]any{"current": 3}})

	want := []SSEEvent{SSEEventXPGained, SSEEventLevelUp, SSEEventStreakUpdate}
	for i, ev := range want {
		got := recvMessage(t, client.Outbound, time.Second)
		if got.Event != ev {
			t.Fatalf("event %d: want=%s got=%s", i, ev, got.Event)
		}
	}
}

func TestHubChannelIsolation(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	a := hub.NewSSEClient(uuid.New())
	b := hub.NewSSEClient(uuid.New())
	hub.AddChannel(a, UserChannel(a.UserID))
	hub.AddChannel(b, UserChannel(b.UserID))

	hub.Broadcast(SSEMessage{Channel: UserChannel(a.UserID), Event: SSEEventXPGained})

	recvMessage(t, a.Outbound, time.Second)
	select {
	case msg := <-b.Outbound:
		t.Fatalf("client b received %s addressed to a's channel", msg.Event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubDropsWhenBufferFullWithoutBlocking(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	channel := LeaderboardChannel("global")
	hub.AddChannel(client, channel)

	doneCh := make(chan struct{})
	go func() {
		for i := 0; i < cap(client.Outbound)+10; i++ {
			hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventLeaderboard, Data: i})
		}
		close(doneCh)
	}()
	select {
	case <-doneCh:
	case <-time.After(2 * time.Second):
		t.Fatalf("broadcast blocked on a slow client")
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	channel := PatternChannel(uuid.New())
	hub.AddChannel(client, channel)
	hub.RemoveChannel(client, channel)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPatternDone})
	select {
	case msg := <-client.Outbound:
		t.Fatalf("received %s after unsubscribe", msg.Event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHubCloseClientClosesOutbound(t *testing.T) {
	hub := NewSSEHub(mustTestLogger(t))
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, UserChannel(client.UserID))
	hub.CloseClient(client)

	select {
	case _, ok := <-client.Outbound:
		if ok {
			t.Fatalf("outbound should be closed after CloseClient")
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatalf("timed out waiting for outbound close")
	}
}
