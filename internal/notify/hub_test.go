package notify

import (
	"encoding/json"
	"minedash/internal/models"
	"minedash/internal/testutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestHub_BroadcastReachesClients(t *testing.T) {
	hub := NewHub(&testutil.MockLogger{})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	first := dial(t, srv)
	second := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(&models.UpdateEvent{CharacterID: 42, CharacterName: "Miner One", NewRecords: 3, Result: "3 new mining records for Miner One"})

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)

		var event models.UpdateEvent
		require.NoError(t, json.Unmarshal(message, &event))
		assert.Equal(t, int64(42), event.CharacterID)
		assert.Equal(t, "3 new mining records for Miner One", event.Result)
	}
}

func TestHub_UnregistersOnDisconnect(t *testing.T) {
	hub := NewHub(&testutil.MockLogger{})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	_ = conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestHub_BroadcastWithoutClients(t *testing.T) {
	hub := NewHub(&testutil.MockLogger{})
	hub.Broadcast(&models.UpdateEvent{CharacterID: 1})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHub_RejectsPlainHTTP(t *testing.T) {
	logger := &testutil.MockLogger{}
	hub := NewHub(logger)

	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestHub_CloseDisconnectsClients(t *testing.T) {
	hub := NewHub(&testutil.MockLogger{})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.Close()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
}
