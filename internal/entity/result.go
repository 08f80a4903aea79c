package entity

import "time"

// ResultDraw is stored as the winner of a drawn game.
const ResultDraw = "draw"

// GameResult is the durable record written once when a room reaches a
// terminal status. Live room state itself is never restored from it.
type GameResult struct {
	RoomCode     string    `json:"room_code"`
	Winner       string    `json:"winner"`
	PlayerCount  int       `json:"player_count"`
	WinCondition int       `json:"win_condition"`
	BoardSize    int       `json:"board_size"`
	FinishedAt   time.Time `json:"finished_at"`
}
