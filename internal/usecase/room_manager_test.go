package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRoomRepo is an in-memory stand-in for the redis room repository, enough
// to drive the manager without a container.
type memRoomRepo struct {
	rooms map[string]*entity.Room
}

func newMemRoomRepo() *memRoomRepo {
	return &memRoomRepo{rooms: make(map[string]*entity.Room)}
}

func (that *memRoomRepo) CreateOrUpdate(_ context.Context, room *entity.Room) error {
	that.rooms[room.Code] = room
	return nil
}

func (that *memRoomRepo) GetByCode(_ context.Context, code string) (*entity.Room, error) {
	room, ok := that.rooms[code]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return room, nil
}

func (that *memRoomRepo) DeleteByCode(_ context.Context, code string) error {
	delete(that.rooms, code)
	return nil
}

type memResultRepo struct {
	saved []*entity.GameResult
}

func (that *memResultRepo) Save(_ context.Context, result *entity.GameResult) error {
	that.saved = append(that.saved, result)
	return nil
}

func newTestManager() (*RoomManager, *memRoomRepo, *memResultRepo) {
	roomRepo := newMemRoomRepo()
	resultRepo := &memResultRepo{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewRoomManager(logger, roomRepo, resultRepo), roomRepo, resultRepo
}

func TestRoomManager_CreateRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates rooms with pairwise distinct codes", func(t *testing.T) {
		manager, roomRepo, _ := newTestManager()

		// When: creating many rooms
		codes := make(map[string]bool)
		for i := 0; i < 25; i++ {
			room, err := manager.CreateRoom(ctx, entity.DefaultSettings())
			require.NoError(t, err)
			require.False(t, codes[room.Code], "duplicate code %s", room.Code)
			codes[room.Code] = true
		}

		// Then: every room is live in the registry
		assert.Len(t, roomRepo.rooms, 25)
	})

	t.Run("Rejects invalid settings", func(t *testing.T) {
		manager, roomRepo, _ := newTestManager()

		// When: creating a room with an unsupported board size
		settings := entity.Settings{PlayerCount: 2, WinCondition: 5, BoardSize: 10}
		room, err := manager.CreateRoom(ctx, settings)

		// Then: the creation fails and nothing is stored
		require.ErrorIs(t, err, apperror.ErrInvalidSettings)
		assert.Nil(t, room)
		assert.Empty(t, roomRepo.rooms)
	})
}

func TestRoomManager_JoinRoom(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown code implicitly creates a room with defaults", func(t *testing.T) {
		manager, _, _ := newTestManager()

		// When: joining a code nobody created
		room, seat, err := manager.JoinRoom(ctx, "FRESH2", "conn-1")

		// Then: the room exists with default settings and the joiner is black
		require.NoError(t, err)
		assert.Equal(t, "FRESH2", room.Code)
		assert.Equal(t, entity.DefaultSettings(), room.Settings)
		assert.Equal(t, entity.SeatBlack, seat)
	})

	t.Run("Empty code allocates a fresh room", func(t *testing.T) {
		manager, _, _ := newTestManager()

		room, seat, err := manager.JoinRoom(ctx, "", "conn-1")

		require.NoError(t, err)
		assert.NotEmpty(t, room.Code)
		assert.Equal(t, entity.SeatBlack, seat)
	})

	t.Run("Overflow joins become spectators", func(t *testing.T) {
		manager, _, _ := newTestManager()

		room, err := manager.CreateRoom(ctx, entity.DefaultSettings())
		require.NoError(t, err)

		_, first, err := manager.JoinRoom(ctx, room.Code, "conn-1")
		require.NoError(t, err)
		_, second, err := manager.JoinRoom(ctx, room.Code, "conn-2")
		require.NoError(t, err)
		_, third, err := manager.JoinRoom(ctx, room.Code, "conn-3")
		require.NoError(t, err)

		assert.Equal(t, entity.SeatBlack, first)
		assert.Equal(t, entity.SeatWhite, second)
		assert.Equal(t, entity.SeatSpectator, third)
	})
}

func TestRoomManager_PlacePiece(t *testing.T) {
	ctx := context.Background()

	t.Run("A full game to a win archives the result", func(t *testing.T) {
		manager, _, resultRepo := newTestManager()

		room, _, err := manager.JoinRoom(ctx, "GAME42", "conn-black")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(ctx, "GAME42", "conn-white")
		require.NoError(t, err)

		// When: black builds a vertical five while white plays elsewhere
		for i := 0; i < 4; i++ {
			_, err = manager.PlacePiece(ctx, room.Code, "conn-black", 7, 7+i)
			require.NoError(t, err)
			_, err = manager.PlacePiece(ctx, room.Code, "conn-white", 0, i)
			require.NoError(t, err)
		}

		finished, err := manager.PlacePiece(ctx, room.Code, "conn-black", 7, 11)
		require.NoError(t, err)

		// Then: the room is finished and exactly one result is archived
		assert.Equal(t, entity.StatusFinished, finished.Status)
		assert.Equal(t, entity.SeatBlack, finished.Winner)
		require.Len(t, resultRepo.saved, 1)
		assert.Equal(t, "GAME42", resultRepo.saved[0].RoomCode)
		assert.Equal(t, entity.SeatBlack, resultRepo.saved[0].Winner)

		// Then: further moves are rejected with ErrGameOver
		_, err = manager.PlacePiece(ctx, room.Code, "conn-white", 1, 1)
		require.ErrorIs(t, err, apperror.ErrGameOver)
		require.Len(t, resultRepo.saved, 1)
	})

	t.Run("Rejections leave the room unchanged and unarchived", func(t *testing.T) {
		manager, _, resultRepo := newTestManager()

		room, _, err := manager.JoinRoom(ctx, "GAME42", "conn-black")
		require.NoError(t, err)
		_, _, err = manager.JoinRoom(ctx, "GAME42", "conn-white")
		require.NoError(t, err)

		_, err = manager.PlacePiece(ctx, room.Code, "conn-white", 0, 0)
		require.ErrorIs(t, err, apperror.ErrNotYourTurn)

		_, err = manager.PlacePiece(ctx, room.Code, "conn-black", 20, 0)
		require.ErrorIs(t, err, apperror.ErrOutOfBounds)

		state, err := manager.GetRoomState(ctx, room.Code)
		require.NoError(t, err)
		assert.Equal(t, entity.SeatBlack, state.Turn)
		assert.Empty(t, resultRepo.saved)
	})

	t.Run("Unknown room is reported", func(t *testing.T) {
		manager, _, _ := newTestManager()

		_, err := manager.PlacePiece(ctx, "NOSUCH", "conn-1", 0, 0)
		require.ErrorIs(t, err, repository.ErrRoomNotFound)
	})
}

func TestRoomManager_ResetRoom(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestManager()

	room, _, err := manager.JoinRoom(ctx, "GAME42", "conn-black")
	require.NoError(t, err)
	_, _, err = manager.JoinRoom(ctx, "GAME42", "conn-white")
	require.NoError(t, err)

	_, err = manager.PlacePiece(ctx, room.Code, "conn-black", 7, 7)
	require.NoError(t, err)

	// When: the room is reset mid-game
	reset, err := manager.ResetRoom(ctx, room.Code)
	require.NoError(t, err)

	// Then: board is empty, black to move, and with both seats still
	// occupied the room is immediately active again
	assert.Equal(t, entity.SeatBlack, reset.Turn)
	assert.Equal(t, entity.StatusActive, reset.Status)
	assert.Equal(t, "", reset.Board[7][7])
}

func TestRoomManager_LeaveAndDelete(t *testing.T) {
	ctx := context.Background()

	manager, roomRepo, _ := newTestManager()

	room, _, err := manager.JoinRoom(ctx, "GAME42", "conn-black")
	require.NoError(t, err)
	_, _, err = manager.JoinRoom(ctx, "GAME42", "conn-white")
	require.NoError(t, err)

	// When: white leaves
	left, err := manager.LeaveRoom(ctx, room.Code, "conn-white")
	require.NoError(t, err)

	// Then: the seat is free and a newcomer can claim it
	assert.Equal(t, entity.StatusWaiting, left.Status)

	_, seat, err := manager.JoinRoom(ctx, room.Code, "conn-new")
	require.NoError(t, err)
	assert.Equal(t, entity.SeatWhite, seat)

	// When: the registry is told the last connection is gone
	require.NoError(t, manager.DeleteRoom(ctx, room.Code))

	// Then: the room no longer exists
	assert.Empty(t, roomRepo.rooms)
	_, err = manager.GetRoomState(ctx, room.Code)
	require.ErrorIs(t, err, repository.ErrRoomNotFound)
}
