package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"ai-interview-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	logModule      = "Hub"
	clusterChannel = "interview_events"
)

// instanceId tags cluster messages so an instance skips its own publishes.
var instanceId = uuid.NewString()

// Hub fans session events out to the websocket clients watching that
// session. With Redis configured, events also reach clients connected to
// other instances.
type Hub struct {
	// Session id -> clients watching it
	clients map[string][]*Client

	register   chan *Client
	unregister chan *Client
	// Closed once Run returns
	done chan struct{}

	mu sync.RWMutex

	rdb    *redis.Client
	logger logger.ILogger
}

type clusterMessage struct {
	Origin    string          `json:"origin"`
	SessionId string          `json:"session_id"`
	Message   json.RawMessage `json:"message"`
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string][]*Client),
		rdb:        rdb,
		logger:     log,
	}
}

// Run serves register/unregister requests until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.SessionId] = append(h.clients[client.SessionId], client)
			h.mu.Unlock()
			h.logger.Info(logModule, "Client registered", map[string]interface{}{"session_id": client.SessionId})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

// add hands client to Run. It reports false once the hub has stopped.
func (h *Hub) add(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// drop hands client to Run for removal, or closes it directly once the hub
// has stopped.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.close()
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.SessionId]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.clients[client.SessionId] = append(clients[:i], clients[i+1:]...)
			client.close()
			break
		}
	}
	if len(h.clients[client.SessionId]) == 0 {
		delete(h.clients, client.SessionId)
		h.logger.Info(logModule, "Last client for session left", map[string]interface{}{"session_id": client.SessionId})
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, clients := range h.clients {
		for _, c := range clients {
			c.close()
		}
		delete(h.clients, id)
	}
}

// SendToSession delivers payload to local watchers and publishes it for
// the other instances.
func (h *Hub) SendToSession(sessionId string, payload []byte) {
	h.deliver(sessionId, payload)

	if h.rdb != nil {
		data, _ := json.Marshal(clusterMessage{
			Origin:    instanceId,
			SessionId: sessionId,
			Message:   payload,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, data).Err(); err != nil {
			h.logger.Warn(logModule, "Redis publish failed", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	}
}

// Watchers returns how many local clients follow a session.
func (h *Hub) Watchers(sessionId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[sessionId])
}

func (h *Hub) deliver(sessionId string, payload []byte) {
	h.mu.RLock()
	clients := append([]*Client(nil), h.clients[sessionId]...)
	h.mu.RUnlock()

	for _, client := range clients {
		if !client.enqueue(payload) {
			h.logger.Warn(logModule, "Client send buffer full, dropping client", map[string]interface{}{"session_id": sessionId})
			go h.drop(client)
		}
	}
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var payload clusterMessage
			if err := json.Unmarshal([]byte(msg.Payload), &payload); err != nil {
				h.logger.Warn(logModule, "Redis message parse error", map[string]interface{}{"error": err.Error()})
				continue
			}
			// Our own publish already reached local clients
			if payload.Origin == instanceId {
				continue
			}
			h.deliver(payload.SessionId, payload.Message)
		}
	}
}
