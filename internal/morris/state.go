package morris

// State is a read-only view of a game for renderers and clients.
type State struct {
	Phase           Phase         `json:"phase"`
	PhaseText       string        `json:"phase_text"`
	CurrentPlayer   PlayerID      `json:"current_player"`
	PendingDiscards int           `json:"pending_discards"`
	Winner          PlayerID      `json:"winner,omitempty"`
	InvalidDiscard  bool          `json:"invalid_discard"`
	Players         []PlayerState `json:"players"`
	Points          []PointState  `json:"points"`
}

type PlayerState struct {
	ID        PlayerID `json:"id"`
	Name      string   `json:"name"`
	Color     string   `json:"color"`
	NotPlaced int      `json:"not_placed"`
	Placed    int      `json:"placed"`
	Discarded int      `json:"discarded"`
}

type PointState struct {
	ID       PointID  `json:"id"`
	Center   Center   `json:"center"`
	Occupant PlayerID `json:"occupant,omitempty"`
	Selected bool     `json:"selected,omitempty"`
}

// State snapshots the game.
func (that *Game) State() State {
	state := State{
		Phase:           that.phase,
		PhaseText:       that.phase.Text(),
		CurrentPlayer:   that.current,
		PendingDiscards: that.pendingDiscards,
		Winner:          that.winner,
		InvalidDiscard:  that.invalidDiscard,
		Players:         make([]PlayerState, 0, len(that.players)),
		Points:          make([]PointState, 0, PointCount),
	}

	for _, player := range that.players {
		state.Players = append(state.Players, PlayerState{
			ID:        player.id,
			Name:      player.name,
			Color:     player.color,
			NotPlaced: player.NotPlacedTokens(),
			Placed:    player.PlacedTokens(),
			Discarded: player.DiscardedTokens(),
		})
	}

	for i := range that.board.points {
		point := &that.board.points[i]

		pointState := PointState{ID: point.id, Center: point.center}
		if ref, ok := point.Occupant(); ok {
			pointState.Occupant = ref.Owner
			pointState.Selected = that.selected == point
		}

		state.Points = append(state.Points, pointState)
	}

	return state
}

// Occupant returns the player holding a point in the snapshot.
func (that State) Occupant(id PointID) PlayerID {
	for _, point := range that.Points {
		if point.ID == id {
			return point.Occupant
		}
	}

	return NoPlayer
}
