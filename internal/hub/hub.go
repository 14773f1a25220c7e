package hub

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
)

// EventMessage is sent to a user's streams when a chat message is created.
const EventMessage = "message"

// Event represents a real-time event to be sent to clients.
type Event struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Client is one open stream of a user. The SSE handler reads encoded
// events from it until it is closed.
type Client chan []byte

// Hub fans events out to every open stream of a user.
type Hub struct {
	users map[uuid.UUID]map[Client]bool
	mu    sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[uuid.UUID]map[Client]bool),
	}
}

// Subscribe registers client as a stream of userID.
func (h *Hub) Subscribe(userID uuid.UUID, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.users[userID]; !ok {
		h.users[userID] = make(map[Client]bool)
	}
	h.users[userID][client] = true
}

// Unsubscribe removes client and closes it. Unknown clients are ignored.
func (h *Hub) Unsubscribe(userID uuid.UUID, client Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.users[userID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client)
			if len(clients) == 0 {
				delete(h.users, userID)
			}
		}
	}
}

// Publish sends event to every stream of each listed user, once per user
// even when an id is listed twice. Streams whose buffer is full are skipped.
func (h *Hub) Publish(event Event, userIDs ...uuid.UUID) error {
	messageBytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]struct{}, len(userIDs))
	for _, userID := range userIDs {
		if _, ok := seen[userID]; ok {
			continue
		}
		seen[userID] = struct{}{}

		for client := range h.users[userID] {
			select {
			case client <- messageBytes:
			default:
			}
		}
	}
	return nil
}

// Subscribers returns how many streams userID has open.
func (h *Hub) Subscribers(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}
