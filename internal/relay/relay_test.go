package relay_test

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"hubportal/internal/logging"
	"hubportal/internal/relay"
)

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readText(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	messageType, message, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if messageType != websocket.TextMessage {
		t.Fatalf("message type = %d, want text", messageType)
	}
	return string(message)
}

func waitForClients(t *testing.T, hub *relay.Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for hub.ClientCount() != want {
		if time.Now().After(deadline) {
			t.Fatalf("client count = %d, want %d", hub.ClientCount(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestBroadcastReachesAllClients(t *testing.T) {
	t.Parallel()

	hub := relay.NewHub(logging.NewNop())
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	first := dial(t, server)
	second := dial(t, server)
	waitForClients(t, hub, 2)

	hub.Broadcast([]byte("hub> print('hi')"))

	for _, conn := range []*websocket.Conn{first, second} {
		if got := readText(t, conn); got != "hub> print('hi')" {
			t.Fatalf("got %q", got)
		}
	}
}

func TestClientFramesRelayToOthers(t *testing.T) {
	t.Parallel()

	hub := relay.NewHub(logging.NewNop())
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	sender := dial(t, server)
	receiver := dial(t, server)
	waitForClients(t, hub, 2)

	if err := sender.WriteMessage(websocket.TextMessage, []byte("motor.run(500)")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := readText(t, receiver); got != "motor.run(500)" {
		t.Fatalf("got %q", got)
	}
}

func TestDisconnectLeavesHub(t *testing.T) {
	t.Parallel()

	hub := relay.NewHub(logging.NewNop())
	server := httptest.NewServer(hub)
	defer server.Close()
	defer hub.Close()

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	_ = conn.Close()
	waitForClients(t, hub, 0)
}

func TestCloseDisconnectsClients(t *testing.T) {
	t.Parallel()

	hub := relay.NewHub(logging.NewNop())
	server := httptest.NewServer(hub)
	defer server.Close()

	conn := dial(t, server)
	waitForClients(t, hub, 1)

	hub.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Fatal("expected read to fail after hub close")
	}
}
