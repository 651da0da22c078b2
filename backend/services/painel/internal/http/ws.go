package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"painelans/backend/services/painel/internal/store"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Subscriber is the store surface used by the state stream.
type Subscriber interface {
	Snapshot() store.State
	Subscribe() (<-chan store.State, func())
}

// NewStreamHandler streams store snapshots over WebSocket: the current state on connect,
// then one message per change until the client goes away.
func NewStreamHandler(s Subscriber, checkOrigin func(*http.Request) bool, logger *zap.Logger) http.HandlerFunc {
	upgrader := websocket.Upgrader{CheckOrigin: checkOrigin}

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Debug("websocket upgrade failed", zap.Error(err))
			return
		}
		defer conn.Close()

		updates, unsubscribe := s.Subscribe()
		defer unsubscribe()

		closed := make(chan struct{})
		go readPump(conn, closed)

		if err := writeState(conn, s.Snapshot()); err != nil {
			return
		}

		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()

		for {
			select {
			case <-closed:
				return
			case <-r.Context().Done():
				return
			case st, ok := <-updates:
				if !ok {
					return
				}
				if err := writeState(conn, st); err != nil {
					logger.Debug("websocket write failed", zap.Error(err))
					return
				}
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}

// readPump drains client frames so control messages are handled, closing done on error.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func writeState(conn *websocket.Conn, st store.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, payload)
}
