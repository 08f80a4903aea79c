package websocket

import "sync"

// Hub tracks which connections are bound to which room and fans the
// canonical room view out to all of them after every mutation.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*client]bool
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[string]map[*client]bool),
	}
}

// Register adds a connection to a room's broadcast set.
func (that *Hub) Register(code string, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.rooms[code] == nil {
		that.rooms[code] = make(map[*client]bool)
	}

	that.rooms[code][c] = true
}

// Unregister removes a connection from a room's broadcast set and returns
// how many connections remain bound to the room.
func (that *Hub) Unregister(code string, c *client) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	delete(that.rooms[code], c)

	remaining := len(that.rooms[code])
	if remaining == 0 {
		delete(that.rooms, code)
	}

	return remaining
}

// Broadcast delivers a message to every connection bound to the room. Write
// failures are left to each connection's read loop to detect.
func (that *Hub) Broadcast(code string, msg *Message) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	for c := range that.rooms[code] {
		_ = c.send(msg)
	}
}
