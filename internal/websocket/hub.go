package websocket

import (
	"context"
	"sync"

	"commerce-assistant-be/internal/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// redisChannel carries assistant events between instances.
const redisChannel = "assistant_cluster_events"

// Hub fans assistant events out to connected dashboard subscribers.
type Hub struct {
	// Registered subscribers map: subscriber ID -> connections (multi-tab)
	subscribers map[string][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	// Lock for safe map access
	mu sync.RWMutex

	// Redis connection for cross-instance fan-out
	rdb *redis.Client

	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribers: make(map[string][]*Client),
		rdb:         rdb,
		logger:      log,
	}
}

func (h *Hub) Run() {
	if h.rdb != nil {
		go h.subscribeToRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.subscribers[client.SubscriberID] = append(h.subscribers[client.SubscriberID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Subscriber registered", map[string]interface{}{"subscriber_id": client.SubscriberID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.subscribers[client.SubscriberID]; ok {
				for i, c := range clients {
					if c == client {
						h.subscribers[client.SubscriberID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.subscribers[client.SubscriberID]) == 0 {
					delete(h.subscribers, client.SubscriberID)
					h.logger.Info("Hub", "Subscriber fully unregistered", map[string]interface{}{"subscriber_id": client.SubscriberID})
				}
			}
			h.mu.Unlock()
		}
	}
}

// Broadcast delivers an already-serialized event to every local subscriber
// and publishes it for other instances.
func (h *Hub) Broadcast(data []byte) {
	h.deliverLocal(data)

	if h.rdb != nil {
		h.rdb.Publish(context.Background(), redisChannel, data)
	}
}

func (h *Hub) deliverLocal(data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.subscribers {
		for _, client := range clients {
			select {
			case client.Send <- data:
			default:
				h.logger.Warn("Hub", "Subscriber buffer full, dropping connection", map[string]interface{}{"subscriber_id": client.SubscriberID})
				go func(c *Client) { h.unregister <- c }(client)
			}
		}
	}
}

func (h *Hub) subscribeToRedis() {
	ctx := context.Background()
	pubsub := h.rdb.Subscribe(ctx, redisChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliverLocal([]byte(msg.Payload))
	}
}
