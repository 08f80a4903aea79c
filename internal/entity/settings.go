package entity

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const (
	DefaultPlayerCount  = 2
	DefaultWinCondition = 5
	DefaultBoardSize    = 15
)

// Settings are fixed at room creation and never change afterwards, reset
// included.
type Settings struct {
	PlayerCount  int `json:"player_count"`
	WinCondition int `json:"win_condition"`
	BoardSize    int `json:"board_size"`
}

// DefaultSettings is used when a room is created implicitly by joining an
// unknown code: two players, five in a row, 15x15.
func DefaultSettings() Settings {
	return Settings{
		PlayerCount:  DefaultPlayerCount,
		WinCondition: DefaultWinCondition,
		BoardSize:    DefaultBoardSize,
	}
}

func (that Settings) Validate() error {
	if that.PlayerCount != 2 && that.PlayerCount != 3 {
		return fmt.Errorf("%w: player count %d", apperror.ErrInvalidSettings, that.PlayerCount)
	}

	if that.WinCondition < 4 || that.WinCondition > 6 {
		return fmt.Errorf("%w: win condition %d", apperror.ErrInvalidSettings, that.WinCondition)
	}

	if that.BoardSize != 15 && that.BoardSize != 19 {
		return fmt.Errorf("%w: board size %d", apperror.ErrInvalidSettings, that.BoardSize)
	}

	return nil
}
