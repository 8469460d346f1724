package notify

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/liarsdice-go/internal/model"
	"github.com/mcoot/liarsdice-go/internal/testutil"
)

func typeOnly(n model.Notification) ([]byte, error) {
	return json.Marshal(map[string]string{"type": string(n.Type), "game_id": string(n.GameID)})
}

func TestPublisherRoutesToRecipients(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	pub := NewPublisher(manager, typeOnly, testutil.NopLogger())

	hubA := manager.GetOrCreateHub("a")
	hubB := manager.GetOrCreateHub("b")
	a := NewClient(hubA, "a", transportSSE)
	b := NewClient(hubB, "b", transportSSE)
	hubA.Register(a)
	hubB.Register(b)

	pub.Publish(context.Background(), model.Notification{
		Type:       model.NotificationBidMade,
		GameID:     "g1",
		Recipients: []model.PlayerID{"b"},
	})
	pub.Publish(context.Background(), model.Notification{Type: model.NotificationLeaderboardUpdate})

	msg := receive(t, b)
	assert.Equal(t, "bid_made", msg.Event)
	assert.JSONEq(t, `{"type":"bid_made","game_id":"g1"}`, string(msg.Data))

	assert.Equal(t, "leaderboard_update", receive(t, a).Event)
	assert.Equal(t, "leaderboard_update", receive(t, b).Event)
}

func TestPublisherDropsUnencodable(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	pub := NewPublisher(manager, func(model.Notification) ([]byte, error) {
		return nil, errors.New("boom")
	}, testutil.NopLogger())

	hub := manager.GetOrCreateHub("a")
	client := NewClient(hub, "a", transportSSE)
	hub.Register(client)

	pub.Publish(context.Background(), model.Notification{Type: model.NotificationBidMade, Recipients: []model.PlayerID{"a"}})

	select {
	case <-client.send:
		t.Fatal("unexpected message")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestServeSSEStreamsEvents(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	pub := NewPublisher(manager, typeOnly, testutil.NopLogger())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(w, r, manager.GetOrCreateHub("p1"), "p1")
	}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	readEvent := func() (string, string) {
		var event, data string
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			line = strings.TrimRight(line, "\n")
			switch {
			case line == "":
				return event, data
			case strings.HasPrefix(line, "event: "):
				event = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: "):
				data = strings.TrimPrefix(line, "data: ")
			}
		}
	}

	event, _ := readEvent()
	require.Equal(t, "connected", event)

	pub.Publish(context.Background(), model.Notification{
		Type:       model.NotificationLiarCalled,
		GameID:     "g9",
		Recipients: []model.PlayerID{"p1"},
	})

	event, data := readEvent()
	assert.Equal(t, "liar_called", event)
	assert.JSONEq(t, `{"type":"liar_called","game_id":"g9"}`, data)
}

func TestServeWebSocketPushesFrames(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	defer manager.Close()
	pub := NewPublisher(manager, typeOnly, testutil.NopLogger())
	upgrader := &websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = ServeWebSocket(w, r, upgrader, manager.GetOrCreateHub("p1"), "p1")
	}))
	defer srv.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		hub := manager.GetHub("p1")
		return hub != nil && hub.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)

	pub.Publish(context.Background(), model.Notification{
		Type:       model.NotificationMatchFound,
		GameID:     "g2",
		Recipients: []model.PlayerID{"p1"},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, frame, err := conn.ReadMessage()
	require.NoError(t, err)

	var got struct {
		Event string            `json:"event"`
		Data  map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(frame, &got))
	assert.Equal(t, "match_found", got.Event)
	assert.Equal(t, "g2", got.Data["game_id"])
}
