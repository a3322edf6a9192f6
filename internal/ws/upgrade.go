package ws

import (
	"net/http"
	"time"

	"geolog/config"
	"geolog/internal/logging"
	"geolog/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Connection timings. A peer that misses pongs for pongWait is dropped.
var (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

const maxMessageSize = 512

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeLocationWS authenticates ?token= and streams location events.
// New connections first receive a snapshot of the latest visible locations.
func UpgradeLocationWS(cfg *config.JWTConfig, resolver middleware.PrincipalResolver, hub *LocationHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			token, _ = middleware.BearerToken(c.GetHeader("Authorization"))
		}
		_, principal, err := middleware.Authenticate(cfg, resolver, token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Authentication required"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logging.Ctx(c.Request.Context()).Debug().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		client := NewClient(principal.UserID, principal.CanViewAll())
		hub.Register(client)
		defer client.Close()
		hub.SendSnapshot(c.Request.Context(), client)
		go writePump(client, conn)
		readPump(conn)
	}
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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

// readPump drains client frames until the connection closes or the peer
// stops answering pings; the feed is server to client only.
func readPump(conn *websocket.Conn) {
	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
