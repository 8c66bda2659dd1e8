package morris

import "fmt"

type ActionKind string

const (
	ActionPlace   ActionKind = "place"
	ActionSelect  ActionKind = "select"
	ActionMove    ActionKind = "move"
	ActionDiscard ActionKind = "discard"
	ActionRestart ActionKind = "restart"
)

// Action is a single player input addressed to a board point.
type Action struct {
	Kind  ActionKind `json:"kind"`
	Point *PointID   `json:"point,omitempty"`
}

func NewAction(kind ActionKind, id PointID) Action {
	return Action{Kind: kind, Point: &id}
}

func (that Action) String() string {
	if that.Point == nil {
		return string(that.Kind)
	}

	return string(that.Kind) + " " + that.Point.String()
}

// Apply dispatches an action and reports whether it changed the game.
func (that *Game) Apply(action Action) (bool, error) {
	if action.Kind == ActionRestart {
		that.Restart()
		return true, nil
	}

	if action.Point == nil {
		return false, fmt.Errorf("%w: %s", ErrPointRequired, action.Kind)
	}

	switch action.Kind {
	case ActionPlace:
		return that.PlaceAt(*action.Point)
	case ActionSelect:
		return that.SelectForMove(*action.Point)
	case ActionMove:
		return that.CompleteMove(*action.Point)
	case ActionDiscard:
		return that.DiscardAt(*action.Point)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownAction, action.Kind)
	}
}

// Replay builds a game by applying actions in order to a fresh board.
func Replay(actions []Action) (*Game, error) {
	game := NewGame()

	for i, action := range actions {
		if _, err := game.Apply(action); err != nil {
			return nil, fmt.Errorf("failed to replay action %d (%s): %w", i, action, err)
		}
	}

	return game, nil
}
