package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/pkg"
)

const (
	actionJoin  = "room:join"
	actionState = "room:state"
	actionPlace = "room:place"
	actionReset = "room:reset"
)

type roomManager interface {
	JoinRoom(ctx context.Context, code, connID string) (*entity.Room, string, error)
	GetRoomState(ctx context.Context, code string) (*entity.Room, error)
	PlacePiece(ctx context.Context, code, connID string, x, y int) (*entity.Room, error)
	ResetRoom(ctx context.Context, code string) (*entity.Room, error)
	LeaveRoom(ctx context.Context, code, connID string) (*entity.Room, error)
	DeleteRoom(ctx context.Context, code string) error
}

type Server struct {
	logger  *slog.Logger
	manager roomManager
	hub     *Hub

	// mu serializes event handling end to end: a room mutation, its hub
	// bookkeeping and the resulting broadcast form one unit, so a snapshot
	// taken by an earlier event can never be published after a later one's.
	mu sync.Mutex

	upgrader websocket.Upgrader
	handlers map[string]func(ctx context.Context, c *client, msg *Message) error
}

func New(logger *slog.Logger, manager roomManager) *Server {
	server := &Server{
		logger:  logger,
		manager: manager,
		hub:     NewHub(),

		upgrader: websocket.Upgrader{
			CheckOrigin: func(_ *http.Request) bool { return true },
		},
		handlers: make(map[string]func(context.Context, *client, *Message) error),
	}

	server.handlers[actionJoin] = server.handleJoin
	server.handlers[actionState] = server.handleState
	server.handlers[actionPlace] = server.handlePlace
	server.handlers[actionReset] = server.handleReset

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.serveConnection(ctx, w, r)
	})

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     mux,
		ReadTimeout: 0, // connections are long-lived; liveness is the read loop's job
		IdleTimeout: 30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// serveConnection - upgrades the connection and runs its read loop until the
// peer goes away.
func (that *Server) serveConnection(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "serveConnection")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := &client{
		id:   pkg.GenerateConnectionID(),
		conn: conn,
	}

	defer conn.Close()

	log.Info("WebSocket connection established", "connID", c.id)

	that.readLoop(ctx, c)
	that.handleDisconnect(ctx, c)
}

// readLoop - processes messages from one client in arrival order.
func (that *Server) readLoop(ctx context.Context, c *client) {
	log := that.logger.With("method", "readLoop", "connID", c.id)

	for {
		_, reqBody, err := c.conn.ReadMessage()
		if err != nil {
			log.Info("connection closed", "error", err)
			return
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Error("unknown action", "action", message.Action)
			continue
		}

		that.mu.Lock()
		err = handler(ctx, c, &message)
		that.mu.Unlock()

		if err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) sendErrorResponse(c *client, action, errorMsg string) error {
	msg, err := newMessage(action, ResponsePayload{Error: errorMsg})
	if err != nil {
		return err
	}

	if err = c.send(msg); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

// broadcastState fans the canonical room view out to every connection bound
// to the room. This is the single mechanism by which participants converge
// on the same state.
func (that *Server) broadcastState(code string, room *entity.Room, lastMove *LastMove) error {
	msg, err := newMessage(actionState, ResponsePayload{
		Room:     room.PublicView(),
		LastMove: lastMove,
	})
	if err != nil {
		return err
	}

	that.hub.Broadcast(code, msg)

	return nil
}
