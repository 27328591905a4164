package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"study-copilot-be/internal/pkg/logger"
)

// InboundHandler receives messages sent by connected clients (speech engine
// events, voice inventories).
type InboundHandler func(raw []byte)

type Hub struct {
	// Registered clients keyed by connection id
	clients map[uuid.UUID]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out (optional)
	rdb *redis.Client

	// Dedicated Logger
	logger logger.ILogger

	inboundMu sync.RWMutex
	inbound   InboundHandler
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

// SetInboundHandler installs the consumer for client-originated messages.
func (h *Hub) SetInboundHandler(handler InboundHandler) {
	h.inboundMu.Lock()
	h.inbound = handler
	h.inboundMu.Unlock()
}

func (h *Hub) dispatchInbound(raw []byte) {
	h.inboundMu.RLock()
	handler := h.inbound
	h.inboundMu.RUnlock()
	if handler != nil {
		handler(raw)
	}
}

func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.Id] = client
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"client_id": client.Id})

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.Id]; ok {
				delete(h.clients, client.Id)
				close(client.Send)
				h.logger.Info("Hub", "Client unregistered", map[string]interface{}{"client_id": client.Id})
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast sends a typed message to every connected client.
func (h *Hub) Broadcast(messageType string, payload interface{}) {
	data, err := json.Marshal(map[string]interface{}{
		"type": messageType,
		"data": payload,
	})
	if err != nil {
		h.logger.Error("Hub", "Broadcast payload marshal failed", map[string]interface{}{"type": messageType, "error": err.Error()})
		return
	}

	h.broadcastLocal(data)

	// Fan out to other instances
	if h.rdb != nil {
		h.rdb.Publish(context.Background(), "copilot_events", data)
	}
}

func (h *Hub) broadcastLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"client_id": client.Id})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, "copilot_events")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.broadcastLocal([]byte(msg.Payload))
	}
}
