package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/oceanic/riskscreen/internal/events"
)

// upgrader mirrors the teacher's DAGStreamer upgrader (internal/websocket/
// dag_streamer.go): permissive CheckOrigin, since this stream sits behind
// the same operator-facing surface as the REST endpoints rather than a
// public one.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleVerdictStream upgrades to a websocket and relays every
// VerdictComputed/ApprovalReconciled event from the bus to this connection
// until it disconnects. One events.EventBus.Subscribe channel per
// connection; no broadcast hub is needed since the bus already fans out to
// every subscriber channel (internal/events/bus.go Publish).
func (s *Server) handleVerdictStream(w http.ResponseWriter, r *http.Request) {
	if s.bus == nil {
		http.Error(w, `{"error":"event stream not configured"}`, http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("api: websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch := s.bus.Subscribe(events.EventVerdictComputed, events.EventApprovalReconciled)
	defer s.bus.Unsubscribe(ch)

	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})
	go drainReads(conn)

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-ch:
			if !ok {
				return
			}
			data, err := event.JSON()
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// drainReads discards inbound client frames (this stream is send-only) so
// the connection's read deadline keeps advancing via the pong handler and
// a client disconnect is detected promptly.
func drainReads(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
