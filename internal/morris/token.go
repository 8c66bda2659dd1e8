package morris

import "fmt"

// Token is one of the nine pieces a player owns. Its owner never changes.
type Token struct {
	owner     PlayerID
	placed    bool
	discarded bool
}

func newToken(owner PlayerID) Token {
	return Token{owner: owner}
}

func (that *Token) Owner() PlayerID {
	return that.owner
}

func (that *Token) IsPlaced() bool {
	return that.placed
}

func (that *Token) IsDiscarded() bool {
	return that.discarded
}

// Place moves an unplaced token onto the board.
func (that *Token) Place() error {
	if that.placed || that.discarded {
		return fmt.Errorf("%w: token can not be placed on board", ErrInvalidTokenTransition)
	}

	that.placed = true

	return nil
}

// Discard removes a placed token from the game for good.
func (that *Token) Discard() error {
	if !that.placed || that.discarded {
		return fmt.Errorf("%w: token can not be discarded", ErrInvalidTokenTransition)
	}

	that.discarded = true
	that.placed = false

	return nil
}

func (that *Token) Reset() {
	that.placed = false
	that.discarded = false
}
