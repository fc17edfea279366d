package ws

import (
	"net/http"
	"time"

	"orderwizard/internal/core/domain/model/kernel"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait = 10 * time.Second
	pongWait  = 60 * time.Second
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Clients only listen.
	maxMessageSize = 512
	sendBuffer     = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(*http.Request) bool {
		return true
	},
}

// Client is one websocket connection watching a wizard session.
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	sessionID kernel.UUID
	send      chan []byte
}

// SessionLookup reports whether a wizard session is running.
type SessionLookup func(id kernel.UUID) bool

// Handler upgrades GET /ws/wizard/sessions/:id to a websocket subscribed to the
// session's events.
func (h *Hub) Handler(exists SessionLookup) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		sessionID, err := kernel.UUIDFromString(ctx.Param("id"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid session id")
		}
		if !exists(sessionID) {
			return echo.NewHTTPError(http.StatusGone, "session is not running")
		}

		conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
		if err != nil {
			h.logger.Warn("Websocket upgrade failed", "session_id", sessionID.String(), "error", err)
			return nil
		}

		c := &Client{
			hub:       h,
			conn:      conn,
			sessionID: sessionID,
			send:      make(chan []byte, sendBuffer),
		}
		if !h.join(c) {
			_ = conn.Close()
			return nil
		}

		go c.writePump()
		go c.readPump()
		return nil
	}
}

// readPump only detects disconnects.
func (c *Client) readPump() {
	defer func() {
		c.hub.leave(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("Websocket closed unexpectedly", "session_id", c.sessionID.String(), "error", err)
			}
			return
		}
	}
}

// writePump sends one event per message and pings the peer.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
