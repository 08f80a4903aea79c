package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/pkg"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
)

var ErrNoFreeRoomCode = errors.New("could not allocate a free room code")

// maxCodeAttempts bounds collision retries during room creation. With a
// 32^6 code space collisions are vanishingly rare among live rooms.
const maxCodeAttempts = 5

type roomRepo interface {
	CreateOrUpdate(ctx context.Context, room *entity.Room) error
	GetByCode(ctx context.Context, code string) (*entity.Room, error)
	DeleteByCode(ctx context.Context, code string) error
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.GameResult) error
}

// RoomManager owns every room mutation. The mutex keeps REST room creation
// and socket events from interleaving, so rooms themselves need no locking;
// the socket transport additionally serializes each event together with its
// broadcast.
type RoomManager struct {
	logger     *slog.Logger
	roomRepo   roomRepo
	resultRepo resultRepo

	mu sync.Mutex
}

func NewRoomManager(logger *slog.Logger, roomRepo roomRepo, resultRepo resultRepo) *RoomManager {
	return &RoomManager{
		logger:     logger,
		roomRepo:   roomRepo,
		resultRepo: resultRepo,
	}
}

// CreateRoom allocates a fresh room with the given settings and a newly
// generated code, retrying generation on collision against live rooms.
func (that *RoomManager) CreateRoom(ctx context.Context, settings entity.Settings) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return that.createRoom(ctx, settings)
}

// JoinRoom binds a connection to a seat in the room identified by code. An
// unknown code creates a room with default settings, so joining by URL works
// without a prior explicit create step.
func (that *RoomManager) JoinRoom(ctx context.Context, code, connID string) (*entity.Room, string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.getOrCreateRoom(ctx, code)
	if err != nil {
		return nil, "", fmt.Errorf("failed to join room: %w", err)
	}

	seat := room.Join(connID)

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, "", fmt.Errorf("failed to update room: %w", err)
	}

	return room, seat, nil
}

// GetRoomState returns the room for an explicit state-refresh request. No
// mutation, no broadcast.
func (that *RoomManager) GetRoomState(ctx context.Context, code string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

// PlacePiece applies one placement event. Rejections come back as apperror
// sentinels with the room untouched; on a terminal transition the result is
// archived before the room state is stored.
func (that *RoomManager) PlacePiece(ctx context.Context, code, connID string, x, y int) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	if err = room.ApplyMove(connID, x, y); err != nil {
		return room, err
	}

	if room.IsOver() {
		that.archiveResult(ctx, room)
	}

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

// ResetRoom hands the room a fresh board while preserving settings and seat
// bindings.
func (that *RoomManager) ResetRoom(ctx context.Context, code string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Reset()

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

// LeaveRoom frees the seat held by a disconnecting connection. The caller
// decides on deletion, since only the transport knows how many connections
// (spectators included) remain bound.
func (that *RoomManager) LeaveRoom(ctx context.Context, code, connID string) (*entity.Room, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room.Leave(connID)

	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to update room: %w", err)
	}

	return room, nil
}

// DeleteRoom removes a room from the registry. Called only when its
// connection count reaches zero.
func (that *RoomManager) DeleteRoom(ctx context.Context, code string) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "DeleteRoom")

	if err := that.roomRepo.DeleteByCode(ctx, code); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}

	log.Info("room deleted", "code", code)

	return nil
}

func (that *RoomManager) createRoom(ctx context.Context, settings entity.Settings) (*entity.Room, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := pkg.GenerateRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}

		_, err = that.roomRepo.GetByCode(ctx, code)
		if err == nil {
			continue // collision with a live room, try another code
		}

		if !errors.Is(err, repository.ErrRoomNotFound) {
			return nil, fmt.Errorf("failed to check room code: %w", err)
		}

		room := entity.NewRoom(code, settings)
		if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
			return nil, fmt.Errorf("failed to create room: %w", err)
		}

		return room, nil
	}

	return nil, ErrNoFreeRoomCode
}

func (that *RoomManager) getOrCreateRoom(ctx context.Context, code string) (*entity.Room, error) {
	if code == "" {
		return that.createRoom(ctx, entity.DefaultSettings())
	}

	room, err := that.roomRepo.GetByCode(ctx, code)
	if err == nil {
		return room, nil
	}

	if !errors.Is(err, repository.ErrRoomNotFound) {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	room = entity.NewRoom(code, entity.DefaultSettings())
	if err = that.roomRepo.CreateOrUpdate(ctx, room); err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return room, nil
}

// archiveResult writes the terminal outcome to the results archive. Failures
// are logged, never fatal: the archive is a side record, not game state.
func (that *RoomManager) archiveResult(ctx context.Context, room *entity.Room) {
	log := that.logger.With("method", "archiveResult")

	winner := room.Winner
	if room.IsDraw() {
		winner = entity.ResultDraw
	}

	result := &entity.GameResult{
		RoomCode:     room.Code,
		Winner:       winner,
		PlayerCount:  room.Settings.PlayerCount,
		WinCondition: room.Settings.WinCondition,
		BoardSize:    room.Settings.BoardSize,
		FinishedAt:   time.Now().UTC(),
	}

	if err := that.resultRepo.Save(ctx, result); err != nil {
		log.Error("failed to archive game result", "code", room.Code, "error", err)
		return
	}

	log.Info("game result archived", "code", room.Code, "winner", winner)
}
