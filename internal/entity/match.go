package entity

import (
	"time"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

// MatchResult is the archived outcome of a finished game.
type MatchResult struct {
	GameID     string          `json:"game_id"`
	Winner     morris.PlayerID `json:"winner"`
	Moves      int             `json:"moves"`
	FinishedAt time.Time       `json:"finished_at"`
}

func NewMatchResult(game *Game) *MatchResult {
	return &MatchResult{
		GameID:     game.ID,
		Winner:     game.Winner,
		Moves:      len(game.Actions),
		FinishedAt: game.UpdatedAt,
	}
}
