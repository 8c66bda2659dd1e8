package morris

import "fmt"

// TokensPerPlayer is the fixed supply of pieces each side starts with.
const TokensPerPlayer = 9

type PlayerID int

const (
	NoPlayer PlayerID = 0
	Player1  PlayerID = 1
	Player2  PlayerID = 2
)

// Opponent returns the other seat.
func (id PlayerID) Opponent() PlayerID {
	if id == Player1 {
		return Player2
	}
	return Player1
}

// Player owns exactly nine tokens for the life of a game.
type Player struct {
	id     PlayerID
	name   string
	color  string
	tokens [TokensPerPlayer]Token
}

func NewPlayer(id PlayerID, color string) *Player {
	player := &Player{
		id:    id,
		name:  fmt.Sprintf("Player %d", id),
		color: color,
	}

	for i := range player.tokens {
		player.tokens[i] = newToken(id)
	}

	return player
}

func (that *Player) ID() PlayerID {
	return that.id
}

func (that *Player) Name() string {
	return that.name
}

func (that *Player) Color() string {
	return that.color
}

// Token returns the token at index i of the player's fixed supply.
func (that *Player) Token(i int) *Token {
	return &that.tokens[i]
}

func (that *Player) NotPlacedTokens() int {
	return that.count(func(token *Token) bool { return !token.placed && !token.discarded })
}

func (that *Player) PlacedTokens() int {
	return that.count(func(token *Token) bool { return token.placed && !token.discarded })
}

func (that *Player) DiscardedTokens() int {
	return that.count(func(token *Token) bool { return token.discarded })
}

// nextToken returns the index of the first token still in hand, or -1.
func (that *Player) nextToken() int {
	for i := range that.tokens {
		if !that.tokens[i].placed && !that.tokens[i].discarded {
			return i
		}
	}

	return -1
}

func (that *Player) Reset() {
	for i := range that.tokens {
		that.tokens[i].Reset()
	}
}

func (that *Player) count(match func(token *Token) bool) int {
	total := 0
	for i := range that.tokens {
		if match(&that.tokens[i]) {
			total++
		}
	}

	return total
}
