package realtime

import (
	"encoding/json"
	"sync"

	"retrack-app/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Event is one server-sent event.
type Event struct {
	Type string `json:"event"`
	Data string `json:"data"`
}

// Client is a subscriber listening on one room (a notification role).
type Client struct {
	ID     string
	Room   string
	Events chan Event
}

// Hub fans events out to subscribers. Delivery is at most once: a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	buffer  int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{clients: make(map[string]*Client), buffer: buffer}
}

func (h *Hub) Subscribe(room string) *Client {
	c := &Client{ID: uuid.NewString(), Room: room, Events: make(chan Event, h.buffer)}
	h.mu.Lock()
	h.clients[c.ID] = c
	total := len(h.clients)
	h.mu.Unlock()
	logger.L().Debug("sse subscribe", zap.String("client", c.ID), zap.String("room", room), zap.Int("total", total))
	return c
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		close(c.Events)
		delete(h.clients, id)
	}
}

// Publish sends event to every subscriber of room and returns how many
// received it.
func (h *Hub) Publish(room string, event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	delivered := 0
	for _, c := range h.clients {
		if c.Room != room {
			continue
		}
		select {
		case c.Events <- event:
			delivered++
		default:
			logger.L().Warn("sse buffer full, dropping event", zap.String("client", c.ID), zap.String("room", room))
		}
	}
	return delivered
}

// PublishJSON marshals payload as the event data.
func (h *Hub) PublishJSON(room, eventType string, payload interface{}) int {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.L().Warn("sse marshal failed", zap.Error(err))
		return 0
	}
	return h.Publish(room, Event{Type: eventType, Data: string(data)})
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
