package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
)

// isRejection reports whether an error is a per-move rule violation. Those
// are answered to the originating connection only; no state change, no
// broadcast.
func isRejection(err error) bool {
	return errors.Is(err, apperror.ErrGameOver) ||
		errors.Is(err, apperror.ErrNotASeat) ||
		errors.Is(err, apperror.ErrNotYourTurn) ||
		errors.Is(err, apperror.ErrOutOfBounds) ||
		errors.Is(err, apperror.ErrCellOccupied) ||
		errors.Is(err, repository.ErrRoomNotFound)
}

func (that *Server) handleJoin(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleJoin", "connID", c.id)

	var payloadReq JoinPayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if c.roomCode != "" {
		return that.sendErrorResponse(c, msg.Action, "already bound to room "+c.roomCode)
	}

	room, seat, err := that.manager.JoinRoom(ctx, payloadReq.Room.Code, c.id)
	if err != nil {
		log.Error("failed to join room", "code", payloadReq.Room.Code, "error", err)
		return that.sendErrorResponse(c, msg.Action, "failed to join room")
	}

	c.roomCode = room.Code
	c.seat = seat
	that.hub.Register(room.Code, c)

	log = log.With("code", room.Code, "seat", seat)

	// The join ack goes out before the room-wide broadcast, so the joiner
	// never has to guess at seat status from a partial picture.
	ack, err := newMessage(msg.Action, ResponsePayload{
		Room: room.PublicView(),
		You:  &SeatInfo{Seat: seat},
	})
	if err != nil {
		return err
	}

	if err = c.send(ack); err != nil {
		return fmt.Errorf("failed to send join ack: %w", err)
	}

	if err = that.broadcastState(room.Code, room, nil); err != nil {
		return err
	}

	log.Info("connection joined room")

	return nil
}

func (that *Server) handleState(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleState", "connID", c.id)

	var payloadReq StatePayload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	code := payloadReq.Room.Code
	if code == "" {
		code = c.roomCode
	}

	if code == "" {
		return that.sendErrorResponse(c, msg.Action, "no room specified")
	}

	room, err := that.manager.GetRoomState(ctx, code)
	if err != nil {
		if isRejection(err) {
			return that.sendErrorResponse(c, msg.Action, err.Error())
		}

		log.Error("failed to get room state", "code", code, "error", err)

		return that.sendErrorResponse(c, msg.Action, "failed to get room state")
	}

	resp, err := newMessage(msg.Action, ResponsePayload{Room: room.PublicView()})
	if err != nil {
		return err
	}

	return c.send(resp)
}

func (that *Server) handlePlace(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handlePlace", "connID", c.id)

	var payloadReq PlacePayload
	if err := json.Unmarshal(msg.Payload, &payloadReq); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if c.roomCode == "" {
		return that.sendErrorResponse(c, msg.Action, "join a room first")
	}

	room, err := that.manager.PlacePiece(ctx, c.roomCode, c.id, payloadReq.X, payloadReq.Y)
	if err != nil {
		if isRejection(err) {
			return that.sendErrorResponse(c, msg.Action, err.Error())
		}

		log.Error("failed to place piece", "code", c.roomCode, "error", err)

		return that.sendErrorResponse(c, msg.Action, "failed to place piece")
	}

	log = log.With("code", room.Code, "x", payloadReq.X, "y", payloadReq.Y)

	lastMove := &LastMove{X: payloadReq.X, Y: payloadReq.Y, Seat: c.seat}
	if err = that.broadcastState(room.Code, room, lastMove); err != nil {
		return err
	}

	if room.IsOver() {
		log.Info("game over", "status", room.Status, "winner", room.Winner)
	} else {
		log.Info("piece placed", "turn", room.Turn)
	}

	return nil
}

func (that *Server) handleReset(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleReset", "connID", c.id)

	if c.roomCode == "" {
		return that.sendErrorResponse(c, msg.Action, "join a room first")
	}

	room, err := that.manager.ResetRoom(ctx, c.roomCode)
	if err != nil {
		if isRejection(err) {
			return that.sendErrorResponse(c, msg.Action, err.Error())
		}

		log.Error("failed to reset room", "code", c.roomCode, "error", err)

		return that.sendErrorResponse(c, msg.Action, "failed to reset room")
	}

	if err = that.broadcastState(room.Code, room, nil); err != nil {
		return err
	}

	log.Info("room reset", "code", room.Code, "status", room.Status)

	return nil
}

// handleDisconnect frees the connection's seat, tells the remaining
// participants, and deletes the room once nobody is bound to it anymore. It
// takes the same lock as the read-loop handlers: a join landing between
// Unregister and DeleteRoom would otherwise lose its room.
func (that *Server) handleDisconnect(ctx context.Context, c *client) {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "handleDisconnect", "connID", c.id)

	if c.roomCode == "" {
		return
	}

	remaining := that.hub.Unregister(c.roomCode, c)

	room, err := that.manager.LeaveRoom(ctx, c.roomCode, c.id)
	if err != nil {
		log.Error("failed to leave room", "code", c.roomCode, "error", err)
		return
	}

	if remaining == 0 {
		if err = that.manager.DeleteRoom(ctx, c.roomCode); err != nil {
			log.Error("failed to delete empty room", "code", c.roomCode, "error", err)
		}

		return
	}

	if err = that.broadcastState(c.roomCode, room, nil); err != nil {
		log.Error("failed to broadcast after disconnect", "code", c.roomCode, "error", err)
	}

	log.Info("connection left room", "code", c.roomCode)
}
