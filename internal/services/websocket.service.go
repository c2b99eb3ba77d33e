package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vehicledash/internal/models"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string          `json:"type"` // "telemetry", "ask", "answer", "ping", "pong", "error"
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
	Text      string          `json:"text,omitempty"` // question text from client
	Error     string          `json:"error,omitempty"`
}

// ClientConnection represents a connected WebSocket client
type ClientConnection struct {
	ID    string
	Conn  *websocket.Conn
	Send  chan WebSocketMessage
	Close chan struct{}
}

// NewClientConnection wraps conn with a fresh id and buffered send queue
func NewClientConnection(conn *websocket.Conn) *ClientConnection {
	return &ClientConnection{
		ID:    uuid.NewString(),
		Conn:  conn,
		Send:  make(chan WebSocketMessage, 256),
		Close: make(chan struct{}),
	}
}

// WebSocketHub fans published telemetry out to connected clients
type WebSocketHub struct {
	logger     *zap.Logger
	clients    map[string]*ClientConnection
	broadcast  chan WebSocketMessage
	register   chan *ClientConnection
	unregister chan string
	done       chan struct{}
	mu         sync.RWMutex
	onCount    func(int)
}

// NewWebSocketHub creates a hub; onCount, if set, is told the client count on every change
func NewWebSocketHub(logger *zap.Logger, onCount func(int)) *WebSocketHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHub{
		logger:     logger.Named("ws"),
		clients:    make(map[string]*ClientConnection),
		broadcast:  make(chan WebSocketMessage, 256),
		register:   make(chan *ClientConnection),
		unregister: make(chan string),
		done:       make(chan struct{}),
		onCount:    onCount,
	}
}

// Run manages the hub's event loop until ctx is done
func (h *WebSocketHub) Run(ctx context.Context) {
	defer close(h.done)
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			n := len(h.clients)
			h.mu.Unlock()
			h.countChanged(n)
			h.logger.Info("client connected", zap.String("client", client.ID), zap.Int("total", n))

		case clientID := <-h.unregister:
			h.mu.Lock()
			if client, exists := h.clients[clientID]; exists {
				delete(h.clients, clientID)
				close(client.Send)
			}
			n := len(h.clients)
			h.mu.Unlock()
			h.countChanged(n)
			h.logger.Info("client disconnected", zap.String("client", clientID), zap.Int("total", n))

		case msg := <-h.broadcast:
			h.mu.RLock()
			for _, client := range h.clients {
				select {
				case client.Send <- msg:
				default:
					// slow client, drop this frame
				}
			}
			h.mu.RUnlock()
		}
	}
}

func (h *WebSocketHub) countChanged(n int) {
	if h.onCount != nil {
		h.onCount(n)
	}
}

func (h *WebSocketHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, client := range h.clients {
		close(client.Close)
		delete(h.clients, id)
	}
	h.countChanged(0)
}

// PublishSnapshot queues a telemetry frame for every client. It never
// blocks the caller; a full queue drops the frame.
func (h *WebSocketHub) PublishSnapshot(snap models.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error("marshal snapshot", zap.Error(err))
		return
	}

	msg := WebSocketMessage{
		Type:      "telemetry",
		Timestamp: snap.GeneratedAt,
		Data:      data,
	}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("broadcast queue full, dropping frame", zap.Uint64("tick", snap.Tick))
	}
}

// Register adds a new client to the hub
func (h *WebSocketHub) Register(client *ClientConnection) {
	select {
	case h.register <- client:
	case <-h.done:
		close(client.Close)
	}
}

// Unregister removes a client from the hub
func (h *WebSocketHub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *WebSocketHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
