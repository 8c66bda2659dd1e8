package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const canvasSize = 13

var symbols = map[morris.PlayerID]byte{
	morris.NoPlayer: '+',
	morris.Player1:  'X',
	morris.Player2:  'O',
}

// renderBoard draws the board as text. Points sit on even cells of a 13x13 grid.
func renderBoard(out io.Writer, board *morris.Board, state morris.State) error {
	var canvas [canvasSize][canvasSize]byte
	for y := range canvas {
		for x := range canvas[y] {
			canvas[y][x] = ' '
		}
	}

	for _, id := range board.IDs() {
		point, err := board.Point(id)
		if err != nil {
			return err
		}

		if right, ok := board.Neighbour(point, morris.Right); ok {
			for x := 2*id.X + 1; x < 2*right.ID().X; x++ {
				canvas[2*id.Y][x] = '-'
			}
		}

		if down, ok := board.Neighbour(point, morris.Down); ok {
			for y := 2*id.Y + 1; y < 2*down.ID().Y; y++ {
				canvas[y][2*id.X] = '|'
			}
		}
	}

	for _, point := range state.Points {
		symbol := symbols[point.Occupant]
		if point.Selected {
			symbol = '*'
		}

		canvas[2*point.ID.Y][2*point.ID.X] = symbol
	}

	var sb strings.Builder
	sb.WriteString("   0 1 2 3 4 5 6\n")
	for y := range canvas {
		if y%2 == 0 {
			fmt.Fprintf(&sb, "%d  ", y/2)
		} else {
			sb.WriteString("   ")
		}

		sb.WriteString(strings.TrimRight(string(canvas[y][:]), " "))
		sb.WriteByte('\n')
	}

	_, err := io.WriteString(out, sb.String())

	return err
}

// renderStatus prints the phase banner, the per-player counters and the outcome.
func renderStatus(out io.Writer, state morris.State) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s\n", state.PhaseText)

	for _, player := range state.Players {
		marker := " "
		if player.ID == state.CurrentPlayer && state.Phase != morris.End {
			marker = ">"
		}

		fmt.Fprintf(&sb, "%s %s (%c): in hand %d, on board %d, discarded %d\n",
			marker, player.Name, symbols[player.ID], player.NotPlaced, player.Placed, player.Discarded)
	}

	if state.PendingDiscards > 0 {
		fmt.Fprintf(&sb, "Tokens to discard: %d\n", state.PendingDiscards)
	}

	if state.InvalidDiscard {
		sb.WriteString("That token is part of a mill, pick another one.\n")
	}

	if state.Winner != morris.NoPlayer {
		fmt.Fprintf(&sb, "Player %d wins!\n", state.Winner)
	}

	_, err := io.WriteString(out, sb.String())

	return err
}
