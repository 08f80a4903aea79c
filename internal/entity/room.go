package entity

import (
	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
)

const (
	StatusWaiting  = "waiting"
	StatusActive   = "active"
	StatusFinished = "finished"
	StatusDraw     = "draw"

	SeatBlack     = "black"
	SeatWhite     = "white"
	SeatThird     = "third"
	SeatSpectator = "spectator"
)

// Room is the authoritative state of a single game, addressed by its code.
// Occupants maps a playing seat to the connection currently holding it;
// spectators are tracked by the transport only.
type Room struct {
	Code      string            `json:"code"`
	Settings  Settings          `json:"settings"`
	Board     [][]string        `json:"board"`
	Turn      string            `json:"turn,omitempty"`
	Status    string            `json:"status"`
	Winner    string            `json:"winner,omitempty"`
	Occupants map[string]string `json:"occupants"`
}

// RoomView is the canonical public view broadcast to every bound connection
// after any mutation. Connection IDs never leave the server.
type RoomView struct {
	Code     string          `json:"code"`
	Settings Settings        `json:"settings"`
	Board    [][]string      `json:"board"`
	Turn     string          `json:"turn,omitempty"`
	Status   string          `json:"status"`
	Winner   string          `json:"winner,omitempty"`
	Seats    map[string]bool `json:"seats"`
}

func NewRoom(code string, settings Settings) *Room {
	return &Room{
		Code:      code,
		Settings:  settings,
		Board:     gomoku.NewBoard(settings.BoardSize),
		Turn:      SeatBlack,
		Status:    StatusWaiting,
		Occupants: make(map[string]string),
	}
}

// PlayingSeats returns the seats that take part in this room, in turn order.
func (that *Room) PlayingSeats() []string {
	if that.Settings.PlayerCount == 3 {
		return []string{SeatBlack, SeatWhite, SeatThird}
	}

	return []string{SeatBlack, SeatWhite}
}

// SeatOf returns the playing seat held by a connection, or an empty string.
func (that *Room) SeatOf(connID string) string {
	for seat, occupant := range that.Occupants {
		if occupant == connID {
			return seat
		}
	}

	return ""
}

// Join binds a connection to the first free playing seat, in fixed priority
// order black, white, third. When every playing seat is taken the connection
// becomes a spectator. A connection already holding a seat keeps it.
func (that *Room) Join(connID string) string {
	if seat := that.SeatOf(connID); seat != "" {
		return seat
	}

	for _, seat := range that.PlayingSeats() {
		if _, occupied := that.Occupants[seat]; occupied {
			continue
		}

		that.Occupants[seat] = connID
		that.refreshStatus()

		return seat
	}

	return SeatSpectator
}

// Leave frees the seat held by a connection, if any. Returns true when a
// playing seat was actually freed.
func (that *Room) Leave(connID string) bool {
	seat := that.SeatOf(connID)
	if seat == "" {
		return false
	}

	delete(that.Occupants, seat)
	that.refreshStatus()

	return true
}

// ApplyMove validates and applies one placement for the given connection,
// then evaluates win, draw and turn rotation in that order. A rejected move
// leaves the room untouched.
func (that *Room) ApplyMove(connID string, x, y int) error {
	if that.IsOver() {
		return apperror.ErrGameOver
	}

	seat := that.SeatOf(connID)
	if seat == "" {
		return apperror.ErrNotASeat
	}

	if seat != that.Turn {
		return apperror.ErrNotYourTurn
	}

	if err := gomoku.Place(that.Board, x, y, seat); err != nil {
		return err
	}

	if gomoku.CheckWin(that.Board, x, y, that.Settings.WinCondition) {
		that.Status = StatusFinished
		that.Winner = seat
		that.Turn = ""

		return nil
	}

	if gomoku.CheckDraw(that.Board) {
		that.Status = StatusDraw
		that.Turn = ""

		return nil
	}

	that.rotateTurn(seat)

	return nil
}

// Reset reallocates an empty board of the configured size and hands the turn
// back to black. Settings and seat bindings are preserved; status depends on
// current occupancy.
func (that *Room) Reset() {
	that.Board = gomoku.NewBoard(that.Settings.BoardSize)
	that.Turn = SeatBlack
	that.Winner = ""
	that.Status = StatusWaiting
	that.refreshStatus()
}

func (that *Room) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Room) IsActive() bool {
	return that.Status == StatusActive
}

func (that *Room) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Room) IsDraw() bool {
	return that.Status == StatusDraw
}

// IsOver reports whether the room reached a terminal status. Only an
// explicit reset leaves it.
func (that *Room) IsOver() bool {
	return that.IsFinished() || that.IsDraw()
}

// PublicView builds the canonical view of the room: seat occupancy, turn,
// settings and board, without connection identities.
func (that *Room) PublicView() *RoomView {
	seats := make(map[string]bool, len(that.PlayingSeats()))
	for _, seat := range that.PlayingSeats() {
		_, occupied := that.Occupants[seat]
		seats[seat] = occupied
	}

	return &RoomView{
		Code:     that.Code,
		Settings: that.Settings,
		Board:    that.Board,
		Turn:     that.Turn,
		Status:   that.Status,
		Winner:   that.Winner,
		Seats:    seats,
	}
}

// rotateTurn advances to the next seat in the configured cycle. A vacant
// seat's turn is never skipped; the game simply stalls until someone claims
// the seat or the room is reset.
func (that *Room) rotateTurn(current string) {
	seats := that.PlayingSeats()
	for i, seat := range seats {
		if seat == current {
			that.Turn = seats[(i+1)%len(seats)]
			return
		}
	}

	that.Turn = SeatBlack
}

// refreshStatus recomputes waiting/active from seat occupancy. Terminal
// statuses are left alone; they only change through Reset.
func (that *Room) refreshStatus() {
	if that.IsOver() {
		return
	}

	if len(that.Occupants) == len(that.PlayingSeats()) {
		that.Status = StatusActive
		return
	}

	that.Status = StatusWaiting
}
