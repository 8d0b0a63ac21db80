package websocket

import (
	"log/slog"
	"sync"
)

// Hub is the publish/subscribe group keyed by room code. It decouples
// room state transitions from delivery: rooms never know about
// connections, the hub never touches game state.
type Hub struct {
	logger *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[string]*Client
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[string]*Client),
	}
}

// Join subscribes a client to a room's broadcasts.
func (that *Hub) Join(code string, client *Client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.rooms[code] == nil {
		that.rooms[code] = make(map[string]*Client)
	}
	that.rooms[code][client.ID] = client
}

// Leave unsubscribes a client. The room group disappears with its last
// member.
func (that *Hub) Leave(code, clientID string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms[code], clientID)
	if len(that.rooms[code]) == 0 {
		delete(that.rooms, code)
	}
}

// DropRoom removes a whole broadcast group after its room was deleted.
func (that *Hub) DropRoom(code string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms, code)
}

// Broadcast delivers a message to every connection in the room.
func (that *Hub) Broadcast(code string, message Message) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for _, client := range that.rooms[code] {
		if err := client.Send(message); err != nil {
			that.logger.Warn("failed to send broadcast", "code", code, "connection", client.ID, "error", err)
		}
	}
}

// BroadcastExcept delivers a message to everyone in the room but the
// named connection.
func (that *Hub) BroadcastExcept(code, exceptID string, message Message) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for id, client := range that.rooms[code] {
		if id == exceptID {
			continue
		}

		if err := client.Send(message); err != nil {
			that.logger.Warn("failed to send broadcast", "code", code, "connection", client.ID, "error", err)
		}
	}
}

// Count reports the number of subscribers in a room.
func (that *Hub) Count(code string) int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms[code])
}
