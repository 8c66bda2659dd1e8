package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
)

const defaultHistoryLimit = 20

type HistoryRepository interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	List(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

type historyRepository struct {
	conn *sql.DB
}

func NewHistoryRepository(conn *sql.DB) HistoryRepository {
	return &historyRepository{
		conn: conn,
	}
}

func (that *historyRepository) Save(ctx context.Context, result *entity.MatchResult) error {
	query := `INSERT OR REPLACE INTO matches (game_id, winner, moves, finished_at) VALUES (?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query, result.GameID, int(result.Winner), result.Moves, result.FinishedAt.UTC())
	if err != nil {
		return fmt.Errorf("can't save match: %w", err)
	}

	return nil
}

// List returns the most recent results first.
func (that *historyRepository) List(ctx context.Context, limit int) ([]*entity.MatchResult, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	query := `SELECT game_id, winner, moves, finished_at FROM matches ORDER BY finished_at DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list matches: %w", err)
	}
	defer rows.Close()

	results := make([]*entity.MatchResult, 0, limit)
	for rows.Next() {
		var result entity.MatchResult
		if err = rows.Scan(&result.GameID, &result.Winner, &result.Moves, &result.FinishedAt); err != nil {
			return nil, fmt.Errorf("can't scan match: %w", err)
		}

		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read matches: %w", err)
	}

	return results, nil
}
