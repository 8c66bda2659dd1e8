package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const emptyBoard = `   0 1 2 3 4 5 6
0  +-----+-----+
   |     |     |
1  | +---+---+ |
   | |   |   | |
2  | | +-+-+ | |
   | | |   | | |
3  +-+-+   +-+-+
   | | |   | | |
4  | | +-+-+ | |
   | |   |   | |
5  | +---+---+ |
   |     |     |
6  +-----+-----+
`

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "morris", cmd.Use)

	for _, name := range []string{"serve", "play"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, subCmd.Name())
		})
	}

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "config.yml", configFlag.DefValue)
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		line string
		want morris.Action
	}{
		{line: "place 3,0", want: morris.NewAction(morris.ActionPlace, morris.PointID{X: 3, Y: 0})},
		{line: "SELECT 6, 6", want: morris.NewAction(morris.ActionSelect, morris.PointID{X: 6, Y: 6})},
		{line: "move 5,3", want: morris.NewAction(morris.ActionMove, morris.PointID{X: 5, Y: 3})},
		{line: "discard 1,1", want: morris.NewAction(morris.ActionDiscard, morris.PointID{X: 1, Y: 1})},
		{line: "restart", want: morris.Action{Kind: morris.ActionRestart}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			got, err := parseCommand(tc.line)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	t.Run("errors", func(t *testing.T) {
		_, err := parseCommand("quit")
		require.ErrorIs(t, err, errQuit)

		_, err = parseCommand("jump 1,1")
		require.ErrorIs(t, err, errUnknownCommand)

		_, err = parseCommand("place")
		require.ErrorIs(t, err, errMissingPoint)

		_, err = parseCommand("place a,b")
		require.ErrorIs(t, err, morris.ErrUnknownPoint)
	})
}

func TestRenderBoard(t *testing.T) {
	t.Run("Draws the empty board", func(t *testing.T) {
		game := morris.NewGame()

		var out bytes.Buffer
		require.NoError(t, renderBoard(&out, game.Board(), game.State()))

		assert.Equal(t, emptyBoard, out.String())
	})

	t.Run("Marks owners and the selected token", func(t *testing.T) {
		// Given: a board with one token of each player
		game := morris.NewGame()
		_, err := game.PlaceAt(morris.PointID{X: 0, Y: 0})
		require.NoError(t, err)
		_, err = game.PlaceAt(morris.PointID{X: 6, Y: 6})
		require.NoError(t, err)

		// When: rendering
		var out bytes.Buffer
		require.NoError(t, renderBoard(&out, game.Board(), game.State()))

		// Then: the corners show the owners
		lines := strings.Split(out.String(), "\n")
		assert.Equal(t, "0  X-----+-----+", lines[1])
		assert.Equal(t, "6  +-----+-----O", lines[13])
	})
}

func TestPlaySession(t *testing.T) {
	newSession := func(out io.Writer, format string) *playSession {
		return newPlaySession(out, format, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}

	t.Run("Plays commands until quit", func(t *testing.T) {
		// Given: a scripted sequence with one illegal placement
		var out bytes.Buffer
		session := newSession(&out, "text")

		input := strings.Join([]string{
			"place 0,0",
			"place 0,0",
			"jump",
			"place 3,0",
			"quit",
			"place 6,0",
		}, "\n")

		// When: running the session
		require.NoError(t, session.run(strings.NewReader(input)))

		// Then: two tokens are down and input after quit is ignored
		state := session.game.State()
		assert.Equal(t, morris.Player1, state.Occupant(morris.PointID{X: 0, Y: 0}))
		assert.Equal(t, morris.Player2, state.Occupant(morris.PointID{X: 3, Y: 0}))
		assert.Equal(t, morris.NoPlayer, state.Occupant(morris.PointID{X: 6, Y: 0}))
		assert.Contains(t, out.String(), "Nothing happened.")
		assert.Contains(t, out.String(), `error: unknown command "jump"`)
		assert.Contains(t, out.String(), "Phase 1: Place your pieces")
	})

	t.Run("Reports points off the board", func(t *testing.T) {
		var out bytes.Buffer
		session := newSession(&out, "text")

		require.NoError(t, session.run(strings.NewReader("place 1,0\n")))

		assert.Contains(t, out.String(), "error: ")
		assert.Equal(t, morris.Player1, session.game.State().CurrentPlayer)
	})

	t.Run("Emits one JSON state per step", func(t *testing.T) {
		var out bytes.Buffer
		session := newSession(&out, "json")

		require.NoError(t, session.run(strings.NewReader("place 2,3\n")))

		decoder := json.NewDecoder(&out)

		var initial, afterMove morris.State
		require.NoError(t, decoder.Decode(&initial))
		require.NoError(t, decoder.Decode(&afterMove))

		assert.Equal(t, morris.Player1, initial.CurrentPlayer)
		assert.Equal(t, morris.Player2, afterMove.CurrentPlayer)
	})
}
