package websocket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// RoomRef identifies a room in a client request.
type RoomRef struct {
	Code string `json:"code"`
}

type JoinPayload struct {
	Room RoomRef `json:"room"`
}

type StatePayload struct {
	Room RoomRef `json:"room"`
}

type PlacePayload struct {
	Room RoomRef `json:"room"`
	X    int     `json:"x"`
	Y    int     `json:"y"`
}

// SeatInfo tells the receiving connection which seat it holds.
type SeatInfo struct {
	Seat string `json:"seat"`
}

// LastMove points at the cell changed by the placement that triggered a
// broadcast.
type LastMove struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Seat string `json:"seat"`
}

type ResponsePayload struct {
	Room     *entity.RoomView `json:"room,omitempty"`
	You      *SeatInfo        `json:"you,omitempty"`
	LastMove *LastMove        `json:"last_move,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func newMessage(action string, payload ResponsePayload) (*Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	return &Message{
		Action:  action,
		Payload: raw,
	}, nil
}

// client is one live connection and its ephemeral binding to a room and
// seat. The mutex serializes writes; gorilla connections do not support
// concurrent writers.
type client struct {
	id   string
	conn *websocket.Conn
	mu   sync.Mutex

	roomCode string
	seat     string
}

func (that *client) send(msg *Message) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := that.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}
