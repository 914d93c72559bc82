package websocket

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dennisdiepolder/monti/dashboard/internal/config"
	"github.com/dennisdiepolder/monti/dashboard/internal/types"
	gws "github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zerolog.New(&bytes.Buffer{}), nil)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)
	return hub
}

func testClient(hub *Hub, id string, buf int) *Client {
	return &Client{id: id, hub: hub, send: make(chan []byte, buf)}
}

func receive(t *testing.T, c *Client) []byte {
	t.Helper()
	select {
	case msg := <-c.send:
		return msg
	case <-time.After(200 * time.Millisecond):
		t.Fatalf("%s did not receive a message", c.id)
		return nil
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub(zerolog.New(&bytes.Buffer{}), nil)

	if hub == nil {
		t.Fatal("expected hub to be created")
	}
	if hub.clients == nil {
		t.Error("expected clients map to be initialized")
	}
	if hub.broadcast == nil {
		t.Error("expected broadcast channel to be initialized")
	}
	if hub.register == nil {
		t.Error("expected register channel to be initialized")
	}
	if hub.unregister == nil {
		t.Error("expected unregister channel to be initialized")
	}
}

func TestHubClientCount(t *testing.T) {
	hub := NewHub(zerolog.New(&bytes.Buffer{}), nil)

	if hub.ClientCount() != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount())
	}

	hub.mu.Lock()
	hub.clients[&Client{id: "test1"}] = true
	hub.clients[&Client{id: "test2"}] = true
	hub.mu.Unlock()

	if hub.ClientCount() != 2 {
		t.Errorf("expected 2 clients, got %d", hub.ClientCount())
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := startHub(t)
	client := testClient(hub, "test-client", 1)

	require.True(t, hub.Register(client))
	assert.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Unregister(client)
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)

	_, open := <-client.send
	assert.False(t, open, "send channel should be closed")
}

func TestHubBroadcastToMultipleClients(t *testing.T) {
	hub := startHub(t)
	client1 := testClient(hub, "client1", 10)
	client2 := testClient(hub, "client2", 10)
	hub.Register(client1)
	hub.Register(client2)

	hub.PublishSnapshot(types.DashboardSnapshot{Type: "snapshot", WaitingCalls: 29})

	for _, c := range []*Client{client1, client2} {
		var got types.DashboardSnapshot
		require.NoError(t, json.Unmarshal(receive(t, c), &got))
		assert.Equal(t, 29, got.WaitingCalls)
	}
}

func TestHubPublishRespectsSubscriptions(t *testing.T) {
	hub := startHub(t)
	all := testClient(hub, "all", 10)
	queuesOnly := testClient(hub, "queues", 10)
	queuesOnly.Subscribe([]types.Kind{types.KindQueue})
	hub.Register(all)
	hub.Register(queuesOnly)

	hub.Publish(types.Change{Type: "change", Entity: types.KindAgent, Action: types.ActionUpdated, ID: 1})
	hub.Publish(types.Change{Type: "change", Entity: types.KindQueue, Action: types.ActionDeleted, ID: 2})

	var first types.Change
	require.NoError(t, json.Unmarshal(receive(t, all), &first))
	assert.Equal(t, types.KindAgent, first.Entity)

	var only types.Change
	require.NoError(t, json.Unmarshal(receive(t, queuesOnly), &only))
	assert.Equal(t, types.KindQueue, only.Entity)
	assert.Equal(t, 2, only.ID)

	hub.PublishSnapshot(types.DashboardSnapshot{Type: "snapshot", ActiveCalls: 3})
	receive(t, all) // queue change
	assert.Contains(t, string(receive(t, all)), `"snapshot"`)
	assert.Contains(t, string(receive(t, queuesOnly)), `"activeCalls":3`)
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := startHub(t)
	slow := testClient(hub, "slow", 1)
	hub.Register(slow)

	hub.PublishSnapshot(types.DashboardSnapshot{Type: "snapshot"})
	hub.PublishSnapshot(types.DashboardSnapshot{Type: "snapshot"})

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubPublishNeverBlocks(t *testing.T) {
	// Run is not started, so the queue fills up
	hub := NewHub(zerolog.New(&bytes.Buffer{}), nil)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(types.Change{Entity: types.KindCall, ID: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}

func TestHubStopsOnContextCancel(t *testing.T) {
	hub := NewHub(zerolog.New(&bytes.Buffer{}), nil)
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := testClient(hub, "c", 1)
	hub.Register(client)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop")
	}
	assert.False(t, hub.Register(testClient(hub, "late", 1)))
	hub.Unregister(client) // must not block
}

func TestCheckOrigin(t *testing.T) {
	h := NewHandler(nil, &config.Config{AllowedOrigins: []string{"http://localhost:5173"}}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://localhost:5173")
	assert.True(t, h.checkOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, h.checkOrigin(req))

	h.config.AllowedOrigins = []string{"*"}
	assert.True(t, h.checkOrigin(req))
}

func TestHandlerEndToEnd(t *testing.T) {
	hub := startHub(t)
	cfg := &config.Config{
		AllowedOrigins: []string{"*"},
		PongWait:       time.Minute,
		PingPeriod:     50 * time.Second,
		WriteWait:      time.Second,
		MaxMessageSize: 512,
	}
	srv := httptest.NewServer(NewHandler(hub, cfg, zerolog.Nop()))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := gws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(SubscribeMessage{Type: "subscribe", Entities: []types.Kind{types.KindCall}}))
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// give the read pump a moment to apply the subscription
	time.Sleep(50 * time.Millisecond)
	hub.Publish(types.Change{Type: "change", Entity: types.KindAgent, ID: 1})
	hub.Publish(types.Change{Type: "change", Entity: types.KindCall, ID: 7})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(time.Second)))
	var got types.Change
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, types.KindCall, got.Entity)
	assert.Equal(t, 7, got.ID)
}
