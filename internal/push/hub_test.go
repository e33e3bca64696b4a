package push

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goran-ethernal/ChainExporter/internal/common"
	"github.com/goran-ethernal/ChainExporter/internal/logger"
	"github.com/goran-ethernal/ChainExporter/pkg/config"
	"github.com/goran-ethernal/ChainExporter/pkg/push"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

func testPushConfig() config.PushConfig {
	return config.PushConfig{
		ListenAddress: "127.0.0.1:0",
		Path:          "/ws",
		WriteTimeout:  common.NewDuration(time.Second),
		SendBuffer:    8,
	}
}

func setupHub(t *testing.T) (*Hub, string) {
	t.Helper()

	hub := NewHub(testPushConfig(), logger.NewNopLogger())
	srv := httptest.NewServer(hub.Handler())
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
	})

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, hub *Hub, url string) (*websocket.Conn, push.Subscriber) {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	select {
	case sub := <-hub.Subscribers():
		require.NotEmpty(t, sub.ID)
		return conn, sub
	case <-time.After(2 * time.Second):
		require.FailNow(t, "subscriber was not announced")
		return nil, push.Subscriber{}
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var f frame
	require.NoError(t, json.Unmarshal(data, &f))

	return f
}

func TestHub_BroadcastReachesEverySubscriber(t *testing.T) {
	hub, url := setupHub(t)

	first, _ := dial(t, hub, url)
	second, _ := dial(t, hub, url)
	require.Equal(t, 2, hub.Count())

	hub.Broadcast(push.TopicNewEvent, map[string]any{"id": "3_4_2"})

	for _, conn := range []*websocket.Conn{first, second} {
		f := readFrame(t, conn)
		require.Equal(t, push.TopicNewEvent, f.Event)
		require.JSONEq(t, `{"id":"3_4_2"}`, string(f.Data))
	}
}

func TestHub_SendToOnlyTargetsOneSubscriber(t *testing.T) {
	hub, url := setupHub(t)

	target, sub := dial(t, hub, url)
	other, _ := dial(t, hub, url)

	require.NoError(t, hub.SendTo(sub.ID, push.TopicLatestBlock, map[string]any{"number": 120}))
	hub.Broadcast(push.TopicStatusUpdated, map[string]any{"currentAuction": "3"})

	f := readFrame(t, target)
	require.Equal(t, push.TopicLatestBlock, f.Event)
	require.Equal(t, push.TopicStatusUpdated, readFrame(t, target).Event)

	require.Equal(t, push.TopicStatusUpdated, readFrame(t, other).Event)
}

func TestHub_SendToUnknownSubscriber(t *testing.T) {
	hub, _ := setupHub(t)

	err := hub.SendTo("missing", push.TopicLatestBlock, nil)
	require.ErrorIs(t, err, push.ErrUnknownSubscriber)
}

func TestHub_DisconnectRemovesSubscriber(t *testing.T) {
	hub, url := setupHub(t)

	conn, sub := dial(t, hub, url)
	require.Equal(t, 1, hub.Count())

	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool { return hub.Count() == 0 }, 2*time.Second, 10*time.Millisecond)
	require.ErrorIs(t, hub.SendTo(sub.ID, push.TopicLatestBlock, nil), push.ErrUnknownSubscriber)
}

func TestHub_FullQueueDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub(testPushConfig(), logger.NewNopLogger())
	c := &client{id: "slow", hub: hub, send: make(chan []byte, 1), closing: make(chan struct{})}
	hub.clients[c.id] = c

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Broadcast(push.TopicNewEvent, 1)
		hub.Broadcast(push.TopicNewEvent, 2)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.FailNow(t, "broadcast blocked on a slow subscriber")
	}

	require.Len(t, c.send, 1)
	require.Error(t, hub.SendTo("slow", push.TopicNewEvent, 3))
}

func TestHub_CloseClosesSubscribers(t *testing.T) {
	hub, url := setupHub(t)
	conn, _ := dial(t, hub, url)

	hub.Close()
	hub.Close()

	_, ok := <-hub.Subscribers()
	require.False(t, ok)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestHub_StartStop(t *testing.T) {
	hub := NewHub(testPushConfig(), logger.NewNopLogger())

	require.NoError(t, hub.Start(context.Background()))
	require.NoError(t, hub.Stop(context.Background()))
}

func TestHub_StartFailsOnBadAddress(t *testing.T) {
	cfg := testPushConfig()
	cfg.ListenAddress = "256.0.0.1:bad"

	hub := NewHub(cfg, logger.NewNopLogger())
	require.ErrorContains(t, hub.Start(context.Background()), "failed to listen")
}
