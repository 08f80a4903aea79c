package apperror

import "errors"

var (
	ErrGameOver        = errors.New("game is already over")
	ErrNotASeat        = errors.New("spectators cannot play")
	ErrNotYourTurn     = errors.New("it's not your turn")
	ErrOutOfBounds     = errors.New("cell is out of bounds")
	ErrCellOccupied    = errors.New("cell is already occupied")
	ErrInvalidSettings = errors.New("invalid room settings")
)
