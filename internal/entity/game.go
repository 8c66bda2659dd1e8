package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const (
	StatusFinished = "finished"
	StatusOngoing  = "ongoing"
	StatusWaiting  = "waiting"
)

// Game is a hosted match. The board itself is never stored: it is rebuilt by
// replaying Actions into a fresh engine.
type Game struct {
	ID        string          `json:"id"`
	Status    string          `json:"status"`
	Players   []*Player       `json:"players,omitempty"`
	Actions   []morris.Action `json:"actions,omitempty"`
	Winner    morris.PlayerID `json:"winner,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewGame(id string, now time.Time) *Game {
	return &Game{
		ID:        id,
		Status:    StatusWaiting,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) IsWaiting() bool {
	return that.Status == StatusWaiting
}

func (that *Game) ConfirmOngoingState() error {
	switch {
	case that.IsWaiting():
		return apperror.ErrGameIsNotStarted
	case that.IsFinished():
		return apperror.ErrGameFinished
	case that.IsOngoing():
		return nil
	default:
		return fmt.Errorf("%w: %s", apperror.ErrUnknownGameStatus, that.Status)
	}
}

// IsFull reports whether both seats are taken.
func (that *Game) IsFull() bool {
	return len(that.Players) == 2
}

// PlayerBySeat returns the session sitting on a seat.
func (that *Game) PlayerBySeat(seat morris.PlayerID) (*Player, bool) {
	for _, player := range that.Players {
		if player.Seat == seat {
			return player, true
		}
	}

	return nil, false
}

// Engine rebuilds the rules engine from the action log.
func (that *Game) Engine() (*morris.Game, error) {
	engine, err := morris.Replay(that.Actions)
	if err != nil {
		return nil, fmt.Errorf("failed to rebuild game %s: %w", that.ID, err)
	}

	return engine, nil
}

// Record appends an applied action to the log.
func (that *Game) Record(action morris.Action, now time.Time) {
	that.Actions = append(that.Actions, action)
	that.UpdatedAt = now
}

// Finish closes the match with the given winner; NoPlayer means abandoned.
func (that *Game) Finish(winner morris.PlayerID, now time.Time) {
	that.Status = StatusFinished
	that.Winner = winner
	that.UpdatedAt = now
}
