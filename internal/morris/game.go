package morris

import "fmt"

const (
	Player1Color = "OrangeRed"
	Player2Color = "SpringGreen"
)

// Game is the Nine Men's Morris state machine. It is not safe for concurrent use;
// callers serialise actions themselves.
type Game struct {
	board   *Board
	players [2]*Player

	current         PlayerID
	phase           Phase
	pendingDiscards int
	winner          PlayerID
	selected        *Point
	invalidDiscard  bool
}

func NewGame() *Game {
	return &Game{
		board:   NewBoard(),
		players: [2]*Player{NewPlayer(Player1, Player1Color), NewPlayer(Player2, Player2Color)},
		current: Player1,
		phase:   Placing,
	}
}

func (that *Game) Board() *Board {
	return that.board
}

func (that *Game) Player(id PlayerID) *Player {
	if id == Player2 {
		return that.players[1]
	}
	return that.players[0]
}

func (that *Game) CurrentPlayer() *Player {
	return that.Player(that.current)
}

func (that *Game) Phase() Phase {
	return that.phase
}

func (that *Game) PendingDiscards() int {
	return that.pendingDiscards
}

// Winner is only set once the game has reached the End phase.
func (that *Game) Winner() (*Player, bool) {
	if that.winner == NoPlayer {
		return nil, false
	}

	return that.Player(that.winner), true
}

// Selected returns the point picked up for a move in progress.
func (that *Game) Selected() (*Point, bool) {
	return that.selected, that.selected != nil
}

// InvalidDiscard reports whether the last discard attempt broke the mill protection rule.
func (that *Game) InvalidDiscard() bool {
	return that.invalidDiscard
}

// PlaceAt puts the current player's next token on a free point.
// It reports whether the game state changed.
func (that *Game) PlaceAt(id PointID) (bool, error) {
	point, err := that.board.Point(id)
	if err != nil {
		return false, err
	}

	that.invalidDiscard = false

	if that.phase != Placing || point.IsOccupied() {
		return false, nil
	}

	player := that.CurrentPlayer()
	index := player.nextToken()
	if index < 0 {
		return false, nil
	}

	if err = that.put(point, TokenRef{Owner: player.id, Index: index}); err != nil {
		return false, err
	}

	that.checkForDiscarding(point)

	if that.placementDone() && that.phase == Placing {
		that.phase = Moving
		that.checkForEnd()
	}

	return true, nil
}

// SelectForMove picks up one of the current player's tokens.
func (that *Game) SelectForMove(id PointID) (bool, error) {
	point, err := that.board.Point(id)
	if err != nil {
		return false, err
	}

	that.invalidDiscard = false

	if that.phase != Moving || !point.OwnedBy(that.current) {
		return false, nil
	}

	that.selected = point

	return true, nil
}

// CompleteMove slides the selected token to a free neighbouring point.
func (that *Game) CompleteMove(id PointID) (bool, error) {
	destination, err := that.board.Point(id)
	if err != nil {
		return false, err
	}

	that.invalidDiscard = false

	if that.phase != Moving || that.selected == nil {
		return false, nil
	}

	if destination.IsOccupied() || !that.board.Adjacent(that.selected, destination) {
		return false, nil
	}

	ref, _ := that.selected.Occupant()
	that.lift(that.selected)

	if err = that.put(destination, ref); err != nil {
		return false, err
	}

	that.selected = nil

	that.checkForDiscarding(destination)
	that.checkForEnd()

	return true, nil
}

// DiscardAt removes an opponent token after a mill. A token inside one of the
// opponent's mills may only go when every opponent token is in a mill.
func (that *Game) DiscardAt(id PointID) (bool, error) {
	point, err := that.board.Point(id)
	if err != nil {
		return false, err
	}

	that.invalidDiscard = false

	opponent := that.current.Opponent()
	if that.phase != Discarding || !point.OwnedBy(opponent) {
		return false, nil
	}

	if that.board.CountMills(point) > 0 && that.hasUnprotected(opponent) {
		that.invalidDiscard = true
		return false, nil
	}

	ref, _ := point.Occupant()
	if err = that.token(ref).Discard(); err != nil {
		return false, fmt.Errorf("failed to discard at %s: %w", id, err)
	}

	that.board.vacate(point)
	that.pendingDiscards--

	if that.pendingDiscards == 0 {
		that.advanceTurn()
		that.phase = Placing

		if that.placementDone() {
			that.phase = Moving
			that.checkForEnd()
		}
	}

	return true, nil
}

// Restart returns the game to its opening position.
func (that *Game) Restart() {
	that.board.Clear()
	for _, player := range that.players {
		player.Reset()
	}

	that.current = Player1
	that.phase = Placing
	that.pendingDiscards = 0
	that.winner = NoPlayer
	that.selected = nil
	that.invalidDiscard = false
}

func (that *Game) put(point *Point, ref TokenRef) error {
	if err := that.token(ref).Place(); err != nil {
		return fmt.Errorf("failed to place at %s: %w", point.id, err)
	}

	that.board.occupy(point, ref)

	return nil
}

// lift takes a token off the board without discarding it.
func (that *Game) lift(point *Point) {
	ref, ok := point.Occupant()
	if !ok {
		return
	}

	that.token(ref).Reset()
	that.board.vacate(point)
}

func (that *Game) checkForDiscarding(point *Point) {
	if mills := that.board.CountMills(point); mills > 0 {
		that.pendingDiscards = mills
		that.phase = Discarding
		return
	}

	that.advanceTurn()
}

// checkForEnd evaluates player 1 then player 2; when both lose, player 1 is recorded as winner.
func (that *Game) checkForEnd() {
	if !that.placementDone() {
		return
	}

	for _, player := range that.players {
		points := that.board.PointsOf(player.id)

		tooFew := len(points) <= 2
		blocked := true
		for _, point := range points {
			if that.board.CanMove(point) {
				blocked = false
				break
			}
		}

		if tooFew || blocked {
			that.phase = End
			that.winner = player.id.Opponent()
			that.pendingDiscards = 0
			that.selected = nil
		}
	}
}

func (that *Game) hasUnprotected(id PlayerID) bool {
	for _, point := range that.board.PointsOf(id) {
		if that.board.CountMills(point) == 0 {
			return true
		}
	}

	return false
}

func (that *Game) placementDone() bool {
	return that.players[0].NotPlacedTokens() == 0 && that.players[1].NotPlacedTokens() == 0
}

func (that *Game) advanceTurn() {
	that.current = that.current.Opponent()
}

func (that *Game) token(ref TokenRef) *Token {
	return that.Player(ref.Owner).Token(ref.Index)
}
