package morris

import "fmt"

// PointCount is the number of intersections on the board.
const PointCount = 24

var (
	columnCenters = [7]int{51, 158, 262, 396, 528, 630, 738}
	rowCenters    = [7]int{59, 158, 253, 378, 503, 600, 700}
)

// layout lists every point with its up, right, down and left neighbours; none marks a missing link.
var (
	none   = PointID{X: -1, Y: -1}
	layout = [PointCount]struct {
		id                    PointID
		up, right, down, left PointID
	}{
		{p(0, 0), none, p(3, 0), p(0, 3), none},
		{p(3, 0), none, p(6, 0), p(3, 1), p(0, 0)},
		{p(6, 0), none, none, p(6, 3), p(3, 0)},
		{p(1, 1), none, p(3, 1), p(1, 3), none},
		{p(3, 1), p(3, 0), p(5, 1), p(3, 2), p(1, 1)},
		{p(5, 1), none, none, p(5, 3), p(3, 1)},
		{p(2, 2), none, p(3, 2), p(2, 3), none},
		{p(3, 2), p(3, 1), p(4, 2), none, p(2, 2)},
		{p(4, 2), none, none, p(4, 3), p(3, 2)},
		{p(0, 3), p(0, 0), p(1, 3), p(0, 6), none},
		{p(1, 3), p(1, 1), p(2, 3), p(1, 5), p(0, 3)},
		{p(2, 3), p(2, 2), none, p(2, 4), p(1, 3)},
		{p(4, 3), p(4, 2), p(5, 3), p(4, 4), none},
		{p(5, 3), p(5, 1), p(6, 3), p(5, 5), p(4, 3)},
		{p(6, 3), p(6, 0), none, p(6, 6), p(5, 3)},
		{p(2, 4), p(2, 3), p(3, 4), none, none},
		{p(3, 4), none, p(4, 4), p(3, 5), p(2, 4)},
		{p(4, 4), p(4, 3), none, none, p(3, 4)},
		{p(1, 5), p(1, 3), p(3, 5), none, none},
		{p(3, 5), p(3, 4), p(5, 5), p(3, 6), p(1, 5)},
		{p(5, 5), p(5, 3), none, none, p(3, 5)},
		{p(0, 6), p(0, 3), p(3, 6), none, none},
		{p(3, 6), p(3, 5), p(6, 6), none, p(0, 6)},
		{p(6, 6), p(6, 3), none, none, p(3, 6)},
	}
)

func p(x, y int) PointID {
	return PointID{X: x, Y: y}
}

// Board is the fixed graph of 24 points. Only occupancy changes after construction.
type Board struct {
	points [PointCount]Point
	index  map[PointID]int
}

func NewBoard() *Board {
	board := &Board{index: make(map[PointID]int, PointCount)}

	for i, row := range layout {
		board.index[row.id] = i
		board.points[i] = Point{
			id:     row.id,
			center: Center{X: columnCenters[row.id.X], Y: rowCenters[row.id.Y]},
		}
	}

	for i, row := range layout {
		for dir, neighbour := range [4]PointID{row.up, row.right, row.down, row.left} {
			board.points[i].neighbours[dir] = noNeighbour
			if neighbour != none {
				board.points[i].neighbours[dir] = board.index[neighbour]
			}
		}
	}

	return board
}

// IDs returns the point ids in board order.
func (that *Board) IDs() []PointID {
	ids := make([]PointID, 0, PointCount)
	for i := range that.points {
		ids = append(ids, that.points[i].id)
	}

	return ids
}

// Point looks a point up by id.
func (that *Board) Point(id PointID) (*Point, error) {
	i, ok := that.index[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPoint, id)
	}

	return &that.points[i], nil
}

// Neighbour returns the point adjacent in the given direction, if one exists.
func (that *Board) Neighbour(point *Point, dir Direction) (*Point, bool) {
	i := point.neighbours[dir]
	if i == noNeighbour {
		return nil, false
	}

	return &that.points[i], true
}

// Adjacent reports whether two points share a line segment.
func (that *Board) Adjacent(a, b *Point) bool {
	for _, dir := range directions {
		if neighbour, ok := that.Neighbour(a, dir); ok && neighbour.id == b.id {
			return true
		}
	}

	return false
}

// CountMills returns how many complete lines (0, 1 or 2) pass through an occupied point.
func (that *Board) CountMills(point *Point) int {
	if !point.IsOccupied() {
		return 0
	}

	owner := point.occupant.Owner
	horizontal := 1 + that.run(point, Left, owner) + that.run(point, Right, owner)
	vertical := 1 + that.run(point, Up, owner) + that.run(point, Down, owner)

	mills := 0
	if horizontal == 3 {
		mills++
	}
	if vertical == 3 {
		mills++
	}

	return mills
}

// run counts points held by owner along one direction until the line ends.
func (that *Board) run(from *Point, dir Direction, owner PlayerID) int {
	total := 0
	for next, ok := that.Neighbour(from, dir); ok; next, ok = that.Neighbour(next, dir) {
		if next.OwnedBy(owner) {
			total++
		}
	}

	return total
}

// CanMove reports whether at least one neighbour of the point is free.
func (that *Board) CanMove(point *Point) bool {
	for _, dir := range directions {
		if neighbour, ok := that.Neighbour(point, dir); ok && !neighbour.IsOccupied() {
			return true
		}
	}

	return false
}

// PointsOf returns the points currently held by a player, in board order.
func (that *Board) PointsOf(id PlayerID) []*Point {
	var owned []*Point
	for i := range that.points {
		if that.points[i].OwnedBy(id) {
			owned = append(owned, &that.points[i])
		}
	}

	return owned
}

func (that *Board) occupy(point *Point, ref TokenRef) {
	point.occupant = &ref
}

func (that *Board) vacate(point *Point) {
	point.occupant = nil
}

// Clear empties every point.
func (that *Board) Clear() {
	for i := range that.points {
		that.points[i].occupant = nil
	}
}
