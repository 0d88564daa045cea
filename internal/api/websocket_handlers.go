// internal/api/websocket_handlers.go
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Host and player screens are served from arbitrary LAN origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// parseAfterSeq reads a non-negative after_seq query value; empty means 0.
func parseAfterSeq(c *gin.Context) (int, bool) {
	raw := c.Query("after_seq")
	if raw == "" {
		return 0, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, false
	}
	return value, true
}

// HandleWebSocket upgrades an authenticated observer and streams events
// with seq > after_seq.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	afterSeq, ok := parseAfterSeq(c)
	if !ok {
		h.rh.BadRequest(c, "after_seq must be a non-negative integer")
		return
	}
	if !authenticate(c, h.pairing, h.rh) {
		return
	}
	role := RoleFromContext(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", map[string]interface{}{"error": err.Error()})
		return
	}

	client := newWebSocketClient(conn, role, afterSeq, h.ws.sendBuffer)
	if !h.ws.Register(client) {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}

	go h.ws.handleWrites(client)
	h.ws.handleReads(client)
}

// handleReads consumes client frames until the connection fails. Clients
// only send pings and pongs; any frame counts as activity.
func (m *WebSocketManager) handleReads(client *WebSocketClient) {
	defer func() {
		m.Unregister(client)
		client.Close()
	}()

	client.conn.SetReadDeadline(time.Now().Add(m.pingTimeout))
	client.conn.SetPongHandler(func(string) error {
		client.Touch()
		return client.conn.SetReadDeadline(time.Now().Add(m.pingTimeout))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("WebSocket read failed", map[string]interface{}{"error": err.Error()})
			}
			return
		}
		client.Touch()
		client.conn.SetReadDeadline(time.Now().Add(m.pingTimeout))
	}
}

// handleWrites drains client.send and pings at 9/10 of the ping timeout.
// It owns every write to the connection.
func (m *WebSocketManager) handleWrites(client *WebSocketClient) {
	ticker := time.NewTicker(m.pingTimeout * 9 / 10)
	defer func() {
		ticker.Stop()
		client.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				client.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := client.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// GetWebSocketStatus reports connected observers.
func (h *Handler) GetWebSocketStatus(c *gin.Context) {
	h.rh.Success(c, h.ws.GetStatus())
}
