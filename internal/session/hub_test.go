package session

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbd888/numerics/internal/logging"
)

func startHub(t *testing.T, cfg HubConfig) (*Hub, string) {
	t.Helper()
	hub := NewHub(cfg, nil, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	require.Eventually(t, hub.running.Load, time.Second, 5*time.Millisecond)

	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})
	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func connected(hub *Hub) int {
	return hub.Stats()["connectedSessions"].(int)
}

func TestHub_MountOverWebSocket(t *testing.T) {
	hub, url := startHub(t, HubConfig{})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return connected(hub) == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeMount, Field: "ein", Kind: "ein", Value: "5432109876"}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var first, second Outbound
	require.NoError(t, conn.ReadJSON(&first))
	require.NoError(t, conn.ReadJSON(&second))

	assert.Equal(t, TypeDisplay, first.Type)
	require.NotNil(t, first.Display)
	assert.Equal(t, "54-3210987", *first.Display)
	assert.Equal(t, TypeNumeric, second.Type)
	require.NotNil(t, second.Value)
	assert.Equal(t, "543210987", *second.Value)

	require.NoError(t, conn.WriteJSON(Inbound{Type: TypeKeyDown, Field: "ein", Key: "x"}))
	var reply Outbound
	require.NoError(t, conn.ReadJSON(&reply))
	require.NotNil(t, reply.Accepted)
	assert.False(t, *reply.Accepted)
}

func TestHub_DisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t, HubConfig{})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return connected(hub) == 1 }, time.Second, 5*time.Millisecond)

	_ = conn.Close()
	assert.Eventually(t, func() bool { return connected(hub) == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, int64(1), hub.Stats()["totalSessions"])
}

func TestHub_MaxSessions(t *testing.T) {
	hub, url := startHub(t, HubConfig{MaxSessions: 1})

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return connected(hub) == 1 }, time.Second, 5*time.Millisecond)

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestHub_RejectsDisallowedOrigin(t *testing.T) {
	_, url := startHub(t, HubConfig{CheckOrigin: func(r *http.Request) bool {
		return r.Header.Get("Origin") == "https://app.example.com"
	}})

	header := http.Header{"Origin": []string{"https://evil.example.com"}}
	_, resp, err := websocket.DefaultDialer.Dial(url, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestHub_RejectsAfterShutdown(t *testing.T) {
	hub := NewHub(HubConfig{}, nil, logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	w := httptest.NewRecorder()
	hub.HandleWebSocket(w, httptest.NewRequest("GET", "/v1/ws", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
