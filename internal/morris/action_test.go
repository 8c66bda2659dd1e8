package morris

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGame_Apply(t *testing.T) {
	t.Run("Dispatches by kind", func(t *testing.T) {
		game := NewGame()

		changed, err := game.Apply(NewAction(ActionPlace, pt(0, 0)))

		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, mustPoint(t, game.board, pt(0, 0)).OwnedBy(Player1))
	})

	t.Run("Restart needs no point", func(t *testing.T) {
		game := NewGame()
		place(t, game, pt(0, 0))

		changed, err := game.Apply(Action{Kind: ActionRestart})

		require.NoError(t, err)
		assert.True(t, changed)
		assert.Empty(t, game.board.PointsOf(Player1))
	})

	t.Run("Point is required for board actions", func(t *testing.T) {
		game := NewGame()

		_, err := game.Apply(Action{Kind: ActionPlace})

		require.ErrorIs(t, err, ErrPointRequired)
	})

	t.Run("Unknown kind", func(t *testing.T) {
		game := NewGame()

		_, err := game.Apply(NewAction("fly", pt(0, 0)))

		require.ErrorIs(t, err, ErrUnknownAction)
	})
}

func TestReplay(t *testing.T) {
	t.Run("Rebuilds the same position", func(t *testing.T) {
		// Given: a game played directly
		played := NewGame()
		place(t, played, quietPlacement...)
		move(t, played, pt(6, 3), pt(5, 3))

		// And: the same inputs as an action log
		actions := make([]Action, 0, len(quietPlacement)+2)
		for _, id := range quietPlacement {
			actions = append(actions, NewAction(ActionPlace, id))
		}
		actions = append(actions, NewAction(ActionSelect, pt(6, 3)), NewAction(ActionMove, pt(5, 3)))

		// When: the log is replayed
		replayed, err := Replay(actions)

		// Then: both games expose the same state
		require.NoError(t, err)
		assert.Equal(t, played.State(), replayed.State())
	})

	t.Run("Reports the failing action", func(t *testing.T) {
		_, err := Replay([]Action{NewAction(ActionPlace, pt(0, 0)), NewAction(ActionPlace, pt(9, 9))})

		require.ErrorIs(t, err, ErrUnknownPoint)
		assert.Contains(t, err.Error(), "action 1")
	})
}

func TestAction_JSON(t *testing.T) {
	var action Action
	require.NoError(t, json.Unmarshal([]byte(`{"kind":"discard","point":"4,4"}`), &action))

	assert.Equal(t, ActionDiscard, action.Kind)
	require.NotNil(t, action.Point)
	assert.Equal(t, pt(4, 4), *action.Point)
	assert.Equal(t, "discard 4,4", action.String())
	assert.Equal(t, "restart", Action{Kind: ActionRestart}.String())
}

func TestGame_State(t *testing.T) {
	// Given: a game with a selected token in the moving phase
	game := NewGame()
	place(t, game, quietPlacement...)
	_, err := game.SelectForMove(pt(6, 3))
	require.NoError(t, err)

	// When
	state := game.State()

	// Then
	assert.Equal(t, Moving, state.Phase)
	assert.Equal(t, "Phase 2: Move your pieces", state.PhaseText)
	assert.Equal(t, Player1, state.CurrentPlayer)
	assert.Equal(t, NoPlayer, state.Winner)
	require.Len(t, state.Players, 2)
	assert.Equal(t, 9, state.Players[1].Placed)
	require.Len(t, state.Points, PointCount)
	assert.Equal(t, Player2, state.Occupant(pt(1, 5)))
	assert.Equal(t, NoPlayer, state.Occupant(pt(5, 3)))

	selected := 0
	for _, point := range state.Points {
		if point.Selected {
			selected++
			assert.Equal(t, pt(6, 3), point.ID)
		}
	}
	assert.Equal(t, 1, selected)

	raw, err := json.Marshal(state)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"phase":"moving"`)
	assert.Contains(t, string(raw), `"id":"6,3"`)
}
