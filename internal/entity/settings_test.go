package entity

import (
	"testing"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Validate(t *testing.T) {
	t.Run("Accepts every supported combination", func(t *testing.T) {
		for _, players := range []int{2, 3} {
			for _, win := range []int{4, 5, 6} {
				for _, size := range []int{15, 19} {
					settings := Settings{PlayerCount: players, WinCondition: win, BoardSize: size}
					require.NoError(t, settings.Validate())
				}
			}
		}
	})

	t.Run("Rejects values outside the supported ranges", func(t *testing.T) {
		for _, settings := range []Settings{
			{PlayerCount: 1, WinCondition: 5, BoardSize: 15},
			{PlayerCount: 4, WinCondition: 5, BoardSize: 15},
			{PlayerCount: 2, WinCondition: 3, BoardSize: 15},
			{PlayerCount: 2, WinCondition: 7, BoardSize: 15},
			{PlayerCount: 2, WinCondition: 5, BoardSize: 9},
			{},
		} {
			require.ErrorIs(t, settings.Validate(), apperror.ErrInvalidSettings)
		}
	})
}

func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	assert.Equal(t, 2, settings.PlayerCount)
	assert.Equal(t, 5, settings.WinCondition)
	assert.Equal(t, 15, settings.BoardSize)
	require.NoError(t, settings.Validate())
}
