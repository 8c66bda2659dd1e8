package morris

import (
	"fmt"
	"strconv"
	"strings"
)

// PointID names an intersection by its column and row on the 7x7 layout grid.
type PointID struct {
	X int
	Y int
}

func (id PointID) String() string {
	return strconv.Itoa(id.X) + "," + strconv.Itoa(id.Y)
}

// ParsePointID reads the "x,y" form produced by String.
func ParsePointID(raw string) (PointID, error) {
	x, y, ok := strings.Cut(strings.TrimSpace(raw), ",")
	if !ok {
		return PointID{}, fmt.Errorf("%w: %q", ErrUnknownPoint, raw)
	}

	col, err := strconv.Atoi(strings.TrimSpace(x))
	if err != nil {
		return PointID{}, fmt.Errorf("%w: %q", ErrUnknownPoint, raw)
	}

	row, err := strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return PointID{}, fmt.Errorf("%w: %q", ErrUnknownPoint, raw)
	}

	return PointID{X: col, Y: row}, nil
}

func (id PointID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

func (id *PointID) UnmarshalText(text []byte) error {
	parsed, err := ParsePointID(string(text))
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

type Direction int

const (
	Up Direction = iota
	Right
	Down
	Left
)

var directions = [...]Direction{Up, Right, Down, Left}

// Center is the display position of a point, in board pixels.
type Center struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// TokenRef points at a token without owning it.
type TokenRef struct {
	Owner PlayerID
	Index int
}

const noNeighbour = -1

// Point is one intersection of the board graph.
type Point struct {
	id         PointID
	center     Center
	neighbours [4]int
	occupant   *TokenRef
}

func (that *Point) ID() PointID {
	return that.id
}

func (that *Point) Center() Center {
	return that.center
}

func (that *Point) IsOccupied() bool {
	return that.occupant != nil
}

// Occupant returns the token on the point, if any.
func (that *Point) Occupant() (TokenRef, bool) {
	if that.occupant == nil {
		return TokenRef{}, false
	}

	return *that.occupant, true
}

// OwnedBy reports whether the point holds a token of the given player.
func (that *Point) OwnedBy(id PlayerID) bool {
	return that.occupant != nil && that.occupant.Owner == id
}
