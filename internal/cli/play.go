package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rocketscienceinc/morris-backend/internal/logger"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const playHelp = `Commands:
  place x,y     put a token from your hand on a free point
  select x,y    pick up one of your tokens to move
  move x,y      move the picked up token to an adjacent free point
  discard x,y   remove an opponent token after closing a mill
  restart       start over
  help          show this help
  quit          leave the game`

var (
	errQuit           = errors.New("quit")
	errUnknownCommand = errors.New("unknown command")
	errMissingPoint   = errors.New("missing point, expected x,y")
	errUnknownFormat  = errors.New("unknown format")
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	Format  string
	Verbose bool
}

// NewPlayCommand creates the local hot-seat game command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play a local two-player game in the terminal",
		Long:  "Two players share the terminal and take turns.\n\n" + playHelp,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Format != "text" && opts.Format != "json" {
				return fmt.Errorf("%w %q: must be text or json", errUnknownFormat, opts.Format)
			}

			level := "error"
			if opts.Verbose {
				level = "debug"
			}

			session := newPlaySession(cmd.OutOrStdout(), opts.Format, logger.NewWithWriter(cmd.ErrOrStderr(), level))

			return session.run(cmd.InOrStdin())
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "text", "output format (text|json)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every action to stderr")

	return cmd
}

type playSession struct {
	game   *morris.Game
	out    io.Writer
	format string
	logger *slog.Logger
}

func newPlaySession(out io.Writer, format string, logger *slog.Logger) *playSession {
	return &playSession{
		game:   morris.NewGame(),
		out:    out,
		format: format,
		logger: logger,
	}
}

func (that *playSession) run(in io.Reader) error {
	if err := that.show(); err != nil {
		return err
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := that.execute(line)
		if errors.Is(err, errQuit) {
			return nil
		}

		if err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	return nil
}

// execute handles one input line; only output failures and quit are returned.
func (that *playSession) execute(line string) error {
	log := that.logger.With("method", "execute")

	if strings.EqualFold(line, "help") {
		_, err := fmt.Fprintln(that.out, playHelp)
		return err
	}

	action, err := parseCommand(line)
	if errors.Is(err, errQuit) {
		return err
	}

	if err != nil {
		_, err = fmt.Fprintf(that.out, "error: %v\n", err)
		return err
	}

	changed, err := that.game.Apply(action)
	if err != nil {
		_, err = fmt.Fprintf(that.out, "error: %v\n", err)
		return err
	}

	log.Debug("action applied", "action", action.String(), "changed", changed)

	if !changed && !that.game.InvalidDiscard() {
		if _, err = fmt.Fprintln(that.out, "Nothing happened."); err != nil {
			return err
		}
	}

	return that.show()
}

func (that *playSession) show() error {
	state := that.game.State()

	if that.format == "json" {
		return json.NewEncoder(that.out).Encode(state)
	}

	if err := renderBoard(that.out, that.game.Board(), state); err != nil {
		return err
	}

	return renderStatus(that.out, state)
}

// parseCommand turns a line such as "place 3,0" into an action.
func parseCommand(line string) (morris.Action, error) {
	fields := strings.Fields(line)
	name := strings.ToLower(fields[0])

	switch name {
	case "quit", "exit":
		return morris.Action{}, errQuit
	case string(morris.ActionRestart):
		return morris.Action{Kind: morris.ActionRestart}, nil
	}

	kind := morris.ActionKind(name)
	switch kind {
	case morris.ActionPlace, morris.ActionSelect, morris.ActionMove, morris.ActionDiscard:
	default:
		return morris.Action{}, fmt.Errorf("%w %q", errUnknownCommand, fields[0])
	}

	if len(fields) < 2 {
		return morris.Action{}, errMissingPoint
	}

	id, err := morris.ParsePointID(strings.Join(fields[1:], ""))
	if err != nil {
		return morris.Action{}, err
	}

	return morris.NewAction(kind, id), nil
}
