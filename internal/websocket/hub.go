package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
	"github.com/komalvinayak/Ecommerce-Analysis/pkg/contracts/events"
)

// Hub maintains the set of active clients and broadcasts messages to them
type Hub struct {
	// Registered clients
	clients map[*Client]bool

	// Outbound messages for every client
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger *slog.Logger

	metrics *infrastructure.DashboardMetrics

	totalConnections int64
	messagesSent     int64
	dropped          int64

	quit    chan struct{}
	done    chan struct{}
	running bool
}

// NewHub creates a hub. Call Start before registering clients.
func NewHub(metrics *infrastructure.DashboardMetrics, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger.With(slog.String("component", "websocket.hub")),
		metrics:    metrics,
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start runs the hub loop in its own goroutine
func (h *Hub) Start() {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return
	}
	h.running = true
	h.mu.Unlock()

	go h.run()
}

// Stop ends the hub loop and closes every client's send channel
func (h *Hub) Stop() {
	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return
	}
	h.running = false
	h.mu.Unlock()

	close(h.quit)
	<-h.done
}

func (h *Hub) run() {
	defer close(h.done)
	ctx := context.Background()

	for {
		select {
		case <-h.quit:
			h.mu.Lock()
			n := len(h.clients)
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			h.metrics.RecordWebSocketClients(ctx, -int64(n))
			h.logger.Info("Hub shutting down", slog.Int("closed_clients", n))
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			count := len(h.clients)
			h.totalConnections++
			h.mu.Unlock()
			h.metrics.RecordWebSocketClients(ctx, 1)

			h.logger.Info("Client registered",
				slog.Int("total_clients", count),
				slog.String("client_id", client.id),
				slog.String("remote_addr", client.remoteAddr))

			if msg, err := encode(events.MessageTypeConnect, map[string]string{
				"status":    "connected",
				"client_id": client.id,
			}); err == nil {
				select {
				case client.send <- msg:
				default:
					h.logger.Warn("Failed to send connection message - client buffer full",
						slog.String("client_id", client.id))
				}
			}

		case client := <-h.unregister:
			h.remove(ctx, client, "closed")

		case message := <-h.broadcast:
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()

			sent := 0
			for _, client := range clients {
				select {
				case client.send <- message:
					sent++
				default:
					h.remove(ctx, client, "send buffer full")
				}
			}

			h.mu.Lock()
			h.messagesSent += int64(sent)
			h.mu.Unlock()

			h.logger.Debug("Broadcast delivered",
				slog.Int("clients", len(clients)),
				slog.Int("delivered", sent),
				slog.Int("message_size", len(message)))
		}
	}
}

// remove drops client if it is still registered
func (h *Hub) remove(ctx context.Context, client *Client, reason string) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	close(client.send)
	count := len(h.clients)
	h.mu.Unlock()
	h.metrics.RecordWebSocketClients(ctx, -1)

	level := slog.LevelInfo
	if reason != "closed" {
		level = slog.LevelWarn
	}
	h.logger.Log(ctx, level, "Client unregistered",
		slog.String("client_id", client.id),
		slog.String("reason", reason),
		slog.Int("total_clients", count),
		slog.Duration("connection_duration", time.Since(client.connectedAt)))
}

// encode wraps data in the message envelope clients expect
func encode(messageType events.MessageType, data interface{}) ([]byte, error) {
	return json.Marshal(events.WebSocketMessage{
		BaseMessage: events.BaseMessage{
			ID:        uuid.NewString(),
			Type:      messageType,
			Timestamp: time.Now().UTC(),
		},
		Data: data,
	})
}

// Broadcast queues a message for every connected client. Messages are
// dropped when the hub is stopped or its queue is full.
func (h *Hub) Broadcast(messageType string, data interface{}) {
	msg, err := encode(events.MessageType(messageType), data)
	if err != nil {
		h.logger.Error("Error marshaling message",
			slog.String("error", err.Error()),
			slog.String("message_type", messageType))
		return
	}

	select {
	case <-h.quit:
		return
	default:
	}

	select {
	case h.broadcast <- msg:
	default:
		h.mu.Lock()
		h.dropped++
		h.mu.Unlock()
		h.logger.Warn("Broadcast queue full, message dropped",
			slog.String("message_type", messageType))
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.quit:
		close(client.send)
	}
}

// Unregister removes a client from the hub
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Stats returns counters for the status endpoint
func (h *Hub) Stats() map[string]interface{} {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return map[string]interface{}{
		"active_clients":    len(h.clients),
		"total_connections": h.totalConnections,
		"messages_sent":     h.messagesSent,
		"messages_dropped":  h.dropped,
	}
}
