package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/repository/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newResultRepo(t *testing.T) (context.Context, ResultRepository) {
	t.Helper()

	ctx := context.Background()

	sqliteStorage, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "results.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, sqliteStorage.Close())
	})

	require.NoError(t, sqliteStorage.Init(ctx))

	return ctx, NewResultRepository(sqliteStorage.Connection)
}

func TestResultRepository_Save(t *testing.T) {
	ctx, resultRepo := newResultRepo(t)

	// Given: a finished game's outcome
	result := &entity.GameResult{
		RoomCode:     "ABC234",
		Winner:       entity.SeatBlack,
		PlayerCount:  2,
		WinCondition: 5,
		BoardSize:    15,
		FinishedAt:   time.Now().UTC(),
	}

	// When: Save is called
	err := resultRepo.Save(ctx, result)

	// Then: no error should be returned
	require.NoError(t, err)
}

func TestResultRepository_GetByRoomCode(t *testing.T) {
	t.Run("Returns archived results for a room in order", func(t *testing.T) {
		ctx, resultRepo := newResultRepo(t)

		// Given: two finished games in the same room and one elsewhere
		first := &entity.GameResult{
			RoomCode:     "ABC234",
			Winner:       entity.SeatBlack,
			PlayerCount:  2,
			WinCondition: 5,
			BoardSize:    15,
			FinishedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		}
		second := &entity.GameResult{
			RoomCode:     "ABC234",
			Winner:       entity.ResultDraw,
			PlayerCount:  2,
			WinCondition: 5,
			BoardSize:    15,
			FinishedAt:   time.Date(2025, 3, 1, 13, 0, 0, 0, time.UTC),
		}
		other := &entity.GameResult{
			RoomCode:     "XYZ789",
			Winner:       entity.SeatWhite,
			PlayerCount:  2,
			WinCondition: 5,
			BoardSize:    15,
			FinishedAt:   time.Date(2025, 3, 1, 14, 0, 0, 0, time.UTC),
		}

		require.NoError(t, resultRepo.Save(ctx, first))
		require.NoError(t, resultRepo.Save(ctx, second))
		require.NoError(t, resultRepo.Save(ctx, other))

		// When: fetching results for the room
		results, err := resultRepo.GetByRoomCode(ctx, "ABC234")

		// Then: only that room's results come back, oldest first
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, entity.SeatBlack, results[0].Winner)
		assert.Equal(t, entity.ResultDraw, results[1].Winner)
	})

	t.Run("Unknown room yields no results", func(t *testing.T) {
		ctx, resultRepo := newResultRepo(t)

		results, err := resultRepo.GetByRoomCode(ctx, "NOSUCH")

		require.NoError(t, err)
		assert.Empty(t, results)
	})
}
