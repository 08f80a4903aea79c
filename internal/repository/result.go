package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.GameResult) error
	GetByRoomCode(ctx context.Context, code string) ([]*entity.GameResult, error)
}

type dbResult struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &dbResult{
		conn: conn,
	}
}

func (that *dbResult) Save(ctx context.Context, result *entity.GameResult) error {
	query := `INSERT INTO results (room_code, winner, player_count, win_condition, board_size, finished_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		result.RoomCode,
		result.Winner,
		result.PlayerCount,
		result.WinCondition,
		result.BoardSize,
		result.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

func (that *dbResult) GetByRoomCode(ctx context.Context, code string) ([]*entity.GameResult, error) {
	query := `SELECT room_code, winner, player_count, win_condition, board_size, finished_at
		FROM results WHERE room_code = ? ORDER BY finished_at`

	rows, err := that.conn.QueryContext(ctx, query, code)
	if err != nil {
		return nil, fmt.Errorf("can't query results: %w", err)
	}
	defer rows.Close()

	var results []*entity.GameResult

	for rows.Next() {
		var result entity.GameResult
		if err = rows.Scan(
			&result.RoomCode,
			&result.Winner,
			&result.PlayerCount,
			&result.WinCondition,
			&result.BoardSize,
			&result.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("can't scan result: %w", err)
		}

		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read results: %w", err)
	}

	return results, nil
}
