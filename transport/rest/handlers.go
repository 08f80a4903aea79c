package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type newRoomRequest struct {
	PlayerCount  int `json:"player_count"`
	WinCondition int `json:"win_condition"`
	BoardSize    int `json:"board_size"`
}

type newRoomResponse struct {
	Code string `json:"code"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type handlers struct {
	logger  *slog.Logger
	creator roomCreator
}

func newHandlers(logger *slog.Logger, creator roomCreator) *handlers {
	return &handlers{
		logger:  logger,
		creator: creator,
	}
}

// newRoomHandler is the out-of-band room creation endpoint: it takes the
// desired settings and answers with a freshly generated room code. Joining
// happens over the socket.
func (that *handlers) newRoomHandler(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "newRoomHandler")

	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	var req newRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	settings := entity.Settings{
		PlayerCount:  req.PlayerCount,
		WinCondition: req.WinCondition,
		BoardSize:    req.BoardSize,
	}

	room, err := that.creator.CreateRoom(r.Context(), settings)
	if errors.Is(err, apperror.ErrInvalidSettings) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if err != nil {
		log.Error("failed to create room", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to create room"})

		return
	}

	log.Info("room created", "code", room.Code)

	writeJSON(w, http.StatusCreated, newRoomResponse{Code: room.Code})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
