package handlers

import (
	"net/http"
	"os"

	"duel_arena/internal/logger"
	"duel_arena/internal/service"
	"duel_arena/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// WS upgrades the connection into the event stream for one match. Auth rides
// the query string because browsers cannot set headers on websocket dials.
func (h *Handler) WS(hub *ws.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}

		userID, err := service.ParseJWT(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		matchID := c.Query("match")
		if matchID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "match required"})
			return
		}

		m, err := h.Duel.Match(matchID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "match not found"})
			return
		}
		if !m.HasParticipant(userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
			return
		}

		allowedOrigin := os.Getenv("ALLOWED_ORIGIN")
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Error("ws upgrade failed", "error", err)
			return
		}

		client := ws.NewClient(userID, matchID, conn, hub)
		hub.Join(matchID, m.Players(), client)
		go client.Run()
	}
}
