package websocket

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"shipwatch/internal/logger"

	"github.com/gorilla/websocket"
)

func startHub(t *testing.T) (*HubService, *httptest.Server, context.CancelFunc) {
	t.Helper()

	log := logger.NewWithWriters(t.TempDir(), io.Discard, io.Discard)
	hub := NewHubService(log)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
	}))

	t.Cleanup(func() {
		server.Close()
		cancel()
		<-done
		log.Close()
	})
	return hub, server, cancel
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *HubService, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.GetClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("Expected %d clients, got %d", n, hub.GetClientCount())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHub_BroadcastReachesAllViewers(t *testing.T) {
	hub, server, _ := startHub(t)

	first := dial(t, server)
	second := dial(t, server)
	waitForClients(t, hub, 2)

	hub.Broadcast([]byte(`{"video_id":1,"status":"completed"}`))

	for i, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("Viewer %d read failed: %v", i, err)
		}
		if string(msg) != `{"video_id":1,"status":"completed"}` {
			t.Errorf("Viewer %d got unexpected message: %s", i, msg)
		}
	}
}

func TestHub_UnregisterRemovesClient(t *testing.T) {
	hub, _, _ := startHub(t)

	upgrader := websocket.Upgrader{}
	registered := make(chan *websocket.Conn, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		hub.Register(conn)
		registered <- conn
	}))
	defer server.Close()

	dial(t, server)
	conn := <-registered
	waitForClients(t, hub, 1)

	hub.Unregister(conn)
	waitForClients(t, hub, 0)
}

func TestHub_StopsOnCancel(t *testing.T) {
	hub, server, cancel := startHub(t)
	conn := dial(t, server)
	waitForClients(t, hub, 1)

	cancel()
	waitForClients(t, hub, 0)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected connection to be closed after shutdown")
	}

	// Broadcast after shutdown must not block.
	hub.Broadcast([]byte("late"))
}
