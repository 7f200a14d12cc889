package ws

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/dallinbsmith/prescription-db-sub001/internal/auth"
)

// ServeWS upgrades to WebSocket. Auth uses the ?token= query param because
// browsers cannot set headers on WebSocket requests; verification is the
// same token service the HTTP guard uses.
func ServeWS(hub *Hub, issuer *auth.TokenIssuer, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenStr := r.URL.Query().Get("token")
		if tokenStr == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		claims, err := issuer.Verify(tokenStr)
		if err != nil {
			logger.Debug("ws token rejected", zap.Error(err))
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.Warn("ws accept error", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, claims.UserID(), logger)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
