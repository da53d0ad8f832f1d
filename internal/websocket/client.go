package websocket

import (
	"bytes"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 512

	sendBuffer = 256
)

// Timing controls keepalive pings. PingPeriod must be less than PongWait.
type Timing struct {
	PingPeriod time.Duration
	PongWait   time.Duration
}

// DefaultTiming pings every 54s and drops peers silent for 60s
func DefaultTiming() Timing {
	return Timing{PingPeriod: 54 * time.Second, PongWait: 60 * time.Second}
}

func (t Timing) normalized() Timing {
	d := DefaultTiming()
	if t.PongWait <= 0 {
		t.PongWait = d.PongWait
	}
	if t.PingPeriod <= 0 || t.PingPeriod >= t.PongWait {
		t.PingPeriod = (t.PongWait * 9) / 10
	}
	return t
}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub  *Hub
	conn Connection

	// Buffered channel of outbound messages
	send chan []byte

	id          string
	remoteAddr  string
	connectedAt time.Time
	timing      Timing

	logger *slog.Logger
}

// NewClient creates a client for conn. It is not registered until Serve.
func NewClient(hub *Hub, conn Connection, timing Timing, logger *slog.Logger) *Client {
	if logger == nil {
		logger = hub.logger
	}

	id := uuid.NewString()
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		id:          id,
		remoteAddr:  conn.RemoteAddr(),
		connectedAt: time.Now(),
		timing:      timing.normalized(),
		logger: logger.With(
			slog.String("component", "websocket.client"),
			slog.String("client_id", id)),
	}
}

// ID identifies the client in logs and the connect message
func (c *Client) ID() string {
	return c.id
}

// Serve registers the client and starts its pumps
func (c *Client) Serve() {
	c.hub.Register(c)
	go c.writePump()
	go c.readPump()
}

// readPump discards client messages and detects disconnects. Dashboards
// only listen; the loop exists to process pongs and close frames.
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Unexpected WebSocket close error", slog.String("error", err.Error()))
			}
			return
		}
		if bytes.Equal(bytes.TrimSpace(message), []byte(`{"type":"heartbeat"}`)) {
			c.conn.SetReadDeadline(time.Now().Add(c.timing.PongWait))
		}
	}
}

// writePump sends hub messages and pings until the send channel closes
func (c *Client) writePump() {
	ticker := time.NewTicker(c.timing.PingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Debug("Error writing message to WebSocket", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Debug("Failed to send ping message", slog.String("error", err.Error()))
				return
			}
		}
	}
}
