package websocket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
)

const writeWait = 10 * time.Second

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type Payload struct {
	Player *entity.Player `json:"player,omitempty"`
	Game   *GameResponse  `json:"game,omitempty"`
	Action *morris.Action `json:"action,omitempty"`
	State  *morris.State  `json:"state,omitempty"`
	Error  string         `json:"error,omitempty"`
}

// GameResponse is the public part of a game; sessions and the action log stay on the server.
type GameResponse struct {
	ID     string          `json:"id"`
	Status string          `json:"status,omitempty"`
	Winner morris.PlayerID `json:"winner,omitempty"`
	Moves  int             `json:"moves,omitempty"`
}

func newGameResponse(game *entity.Game) *GameResponse {
	return &GameResponse{
		ID:     game.ID,
		Status: game.Status,
		Winner: game.Winner,
		Moves:  len(game.Actions),
	}
}

// connection serializes writes; gorilla allows one concurrent writer per conn.
type connection struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func newConnection(conn *websocket.Conn) *connection {
	return &connection{conn: conn}
}

func (that *connection) send(action string, payload Payload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if err = that.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return fmt.Errorf("failed to set write deadline: %w", err)
	}

	if err = that.conn.WriteJSON(Message{Action: action, Payload: body}); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}

	return nil
}

func (that *connection) close() error {
	return that.conn.Close()
}
