package entity

import "github.com/rocketscienceinc/morris-backend/internal/morris"

// Player is a connected session. Seat is the engine player it controls while in a game.
type Player struct {
	ID     string          `json:"id"`
	GameID string          `json:"game_id,omitempty"`
	Seat   morris.PlayerID `json:"seat,omitempty"`
}

func (that *Player) InGame() bool {
	return that.GameID != ""
}

// Release detaches the session from its game.
func (that *Player) Release() {
	that.GameID = ""
	that.Seat = morris.NoPlayer
}
