package realtime

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"
)

// HandleFeed returns an HTTP handler that upgrades connections to WebSocket
// and runs them as feed clients. Auth is enforced by middleware in front.
func HandleFeed(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := ws.Accept(w, r, nil)
		if err != nil {
			logger.Warn("websocket accept failed", "error", err)
			return
		}

		client := NewClient(hub, conn)
		client.Run(r.Context())
	}
}
