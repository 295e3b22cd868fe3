package handler

import (
	"net/http"
	"time"

	"shipwatch/internal/logger"

	"github.com/gorilla/websocket"
)

var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// pongWait is how long a viewer may stay silent; pings go out at 9/10 of it.
var pongWait = 60 * time.Second

const pingWriteWait = 10 * time.Second

// ViewerHub tracks progress viewers.
type ViewerHub interface {
	Register(conn *websocket.Conn)
	Unregister(conn *websocket.Conn)
}

// ProgressWebsocketHandler handles GET /api/video/progress. Viewers only
// receive; anything they send is discarded.
func ProgressWebsocketHandler(hub ViewerHub, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warning("WebSocket upgrade error: %v", err)
			return
		}
		wait := pongWait
		connection.SetReadLimit(512)
		connection.SetReadDeadline(time.Now().Add(wait))
		connection.SetPongHandler(func(string) error {
			connection.SetReadDeadline(time.Now().Add(wait))
			return nil
		})

		hub.Register(connection)
		defer hub.Unregister(connection)

		done := make(chan struct{})
		defer close(done)
		go keepAlive(connection, wait*9/10, done, logger)

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				break
			}
			connection.SetReadDeadline(time.Now().Add(wait))
		}
	}
}

// keepAlive pings the viewer until done is closed or a ping fails.
func keepAlive(connection *websocket.Conn, period time.Duration, done <-chan struct{}, logger *logger.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := connection.WriteControl(websocket.PingMessage, nil, time.Now().Add(pingWriteWait)); err != nil {
				logger.Warning("WebSocket ping failed: %v", err)
				return
			}
		}
	}
}
