package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"slidecast/internal/engine"
)

func startHub(t *testing.T) (*WebSocketService, *httptest.Server) {
	t.Helper()
	hub := NewWebSocketService()
	go hub.Run()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.ServeClient(conn)
	}))

	t.Cleanup(func() {
		hub.Stop()
		server.Close()
	})
	return hub, server
}

func dialHub(t *testing.T, hub *WebSocketService, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	before := hub.ClientCount()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	require.Eventually(t, func() bool { return hub.ClientCount() == before+1 }, 2*time.Second, 10*time.Millisecond)
	return conn
}

func readEvent(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &event))
	return event
}

func TestWebSocketService_BroadcastsToAllClients(t *testing.T) {
	hub, server := startHub(t)
	first := dialHub(t, hub, server)
	second := dialHub(t, hub, server)

	hub.Publish(Event{Type: EventSlideChanged, Data: SlideChange{Index: 3}})

	for _, conn := range []*websocket.Conn{first, second} {
		event := readEvent(t, conn)
		assert.Equal(t, EventSlideChanged, event["type"])
		assert.Equal(t, float64(3), event["data"].(map[string]interface{})["index"])
	}
}

func TestWebSocketService_UnregistersOnDisconnect(t *testing.T) {
	hub, server := startHub(t)
	conn := dialHub(t, hub, server)

	conn.Close()

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestWebSocketService_ForwardsEngineSignals(t *testing.T) {
	hub, server := startHub(t)
	conn := dialHub(t, hub, server)
	signals := engine.NewSignals(4)
	unsubscribe, err := hub.ForwardSignals(signals)
	require.NoError(t, err)
	defer unsubscribe()

	signals.Publish(engine.Signal{Type: engine.SignalTransitionDone, SceneID: "scene-1"})

	event := readEvent(t, conn)
	assert.Equal(t, EventEngineSignal, event["type"])
	data := event["data"].(map[string]interface{})
	assert.Equal(t, "transition_done", data["type"])
	assert.Equal(t, "scene-1", data["sceneId"])
}

func TestWebSocketService_StopDisconnectsClients(t *testing.T) {
	hub, server := startHub(t)
	conn := dialHub(t, hub, server)

	hub.Stop()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err)
	assert.Equal(t, 0, hub.ClientCount())
}
