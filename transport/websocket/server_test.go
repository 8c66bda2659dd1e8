package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/usecase"
)

type stubGames struct {
	mu      sync.Mutex
	players map[string]*entity.Player
	game    *entity.Game
	actErr  error
}

func newStubGames() *stubGames {
	return &stubGames{players: make(map[string]*entity.Player)}
}

func (that *stubGames) GetOrCreatePlayer(_ context.Context, id string) (*entity.Player, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if id == "" {
		id = "generated"
	}

	player, ok := that.players[id]
	if !ok {
		player = &entity.Player{ID: id}
		that.players[id] = player
	}

	return player, nil
}

func (that *stubGames) CreateGame(_ context.Context, playerID string) (*usecase.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.game = entity.NewGame("game1", time.Now())
	that.game.Players = []*entity.Player{{ID: playerID, GameID: "game1", Seat: morris.Player1}}

	return that.view()
}

func (that *stubGames) JoinGame(_ context.Context, gameID, playerID string) (*usecase.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil || that.game.ID != gameID {
		return nil, apperror.ErrNotFound
	}

	that.game.Players = append(that.game.Players, &entity.Player{ID: playerID, GameID: gameID, Seat: morris.Player2})
	that.game.Status = entity.StatusOngoing

	return that.view()
}

func (that *stubGames) GetGameByPlayerID(context.Context, string) (*usecase.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrNotInGame
	}

	return that.view()
}

func (that *stubGames) Act(_ context.Context, _ string, action morris.Action) (*usecase.GameView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.actErr != nil {
		return nil, that.actErr
	}

	that.game.Record(action, time.Now())

	return that.view()
}

func (that *stubGames) LeaveGame(context.Context, string) (*entity.Game, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.game == nil {
		return nil, apperror.ErrNotInGame
	}

	that.game.Finish(morris.NoPlayer, time.Now())
	game := *that.game

	return &game, nil
}

func (that *stubGames) view() (*usecase.GameView, error) {
	engine, err := that.game.Engine()
	if err != nil {
		return nil, err
	}

	game := *that.game
	game.Players = slices.Clone(that.game.Players)
	game.Actions = slices.Clone(that.game.Actions)

	return &usecase.GameView{Game: &game, State: engine.State()}, nil
}

func startServer(t *testing.T, games *stubGames) string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), games)
	httpServer := httptest.NewServer(server.Handler(ctx))
	t.Cleanup(httpServer.Close)

	return "ws" + strings.TrimPrefix(httpServer.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}

	return conn
}

func exchange(t *testing.T, conn *websocket.Conn, action string, payload any) (string, Payload) {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)
	require.NoError(t, conn.WriteJSON(Message{Action: action, Payload: body}))

	return receive(t, conn)
}

func receive(t *testing.T, conn *websocket.Conn) (string, Payload) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	var message Message
	require.NoError(t, conn.ReadJSON(&message))

	var payload Payload
	require.NoError(t, json.Unmarshal(message.Payload, &payload))

	return message.Action, payload
}

func TestServer_Connect(t *testing.T) {
	t.Run("Creates a session for a new client", func(t *testing.T) {
		// Given: a running server
		url := startServer(t, newStubGames())
		conn := dial(t, url)

		// When: the client connects without an id
		action, payload := exchange(t, conn, actionConnect, Payload{})

		// Then: a player session is returned
		assert.Equal(t, actionConnect, action)
		require.NotNil(t, payload.Player)
		assert.Equal(t, "generated", payload.Player.ID)
		assert.Empty(t, payload.Error)
	})

	t.Run("Issues a session cookie on upgrade", func(t *testing.T) {
		// Given: a running server
		url := startServer(t, newStubGames())

		// When: dialing without cookies
		conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
		require.NoError(t, err)
		defer conn.Close()

		// Then: the handshake response sets the session cookie
		require.NotNil(t, resp)
		assert.Contains(t, resp.Header.Get("Set-Cookie"), sessionCookie+"=")
	})
}

func TestServer_Game(t *testing.T) {
	t.Run("Creates, joins and plays a game", func(t *testing.T) {
		// Given: two connected clients
		url := startServer(t, newStubGames())
		host := dial(t, url)
		guest := dial(t, url)

		_, _ = exchange(t, host, actionConnect, Payload{Player: &entity.Player{ID: "p1"}})
		_, _ = exchange(t, guest, actionConnect, Payload{Player: &entity.Player{ID: "p2"}})

		// When: the host creates a game
		action, payload := exchange(t, host, actionGameNew, Payload{Player: &entity.Player{ID: "p1"}})

		// Then: the host gets the waiting game with a fresh board
		assert.Equal(t, actionGameNew, action)
		require.NotNil(t, payload.Game)
		assert.Equal(t, entity.StatusWaiting, payload.Game.Status)
		require.NotNil(t, payload.State)
		assert.Equal(t, morris.Placing, payload.State.Phase)
		assert.Len(t, payload.State.Points, morris.PointCount)

		// When: the guest joins
		action, payload = exchange(t, guest, actionGameJoin, Payload{
			Player: &entity.Player{ID: "p2"},
			Game:   &GameResponse{ID: "game1"},
		})

		// Then: both receive the started game
		assert.Equal(t, actionGameJoin, action)
		assert.Equal(t, entity.StatusOngoing, payload.Game.Status)
		assert.Equal(t, morris.Player2, payload.Player.Seat)

		action, payload = receive(t, host)
		assert.Equal(t, actionGameJoin, action)
		assert.Equal(t, morris.Player1, payload.Player.Seat)

		// When: the host places a token
		placement := morris.NewAction(morris.ActionPlace, morris.PointID{X: 0, Y: 0})
		action, payload = exchange(t, host, actionGameAction, Payload{
			Player: &entity.Player{ID: "p1"},
			Action: &placement,
		})

		// Then: the new state is broadcast
		assert.Equal(t, actionGameAction, action)
		assert.Equal(t, morris.Player1, payload.State.Occupant(morris.PointID{X: 0, Y: 0}))
		assert.Equal(t, morris.Player2, payload.State.CurrentPlayer)

		_, payload = receive(t, guest)
		assert.Equal(t, 1, payload.Game.Moves)
	})

	t.Run("Reports use case errors to the sender", func(t *testing.T) {
		// Given: a game that rejects the action
		games := newStubGames()
		games.actErr = apperror.ErrNotYourTurn
		url := startServer(t, games)
		conn := dial(t, url)

		placement := morris.NewAction(morris.ActionPlace, morris.PointID{X: 0, Y: 0})

		// When: sending the action
		action, payload := exchange(t, conn, actionGameAction, Payload{
			Player: &entity.Player{ID: "p2"},
			Action: &placement,
		})

		// Then: the error is echoed back
		assert.Equal(t, actionGameAction, action)
		assert.Equal(t, apperror.ErrNotYourTurn.Error(), payload.Error)
	})

	t.Run("Requires a player on game messages", func(t *testing.T) {
		// Given: a connected client
		url := startServer(t, newStubGames())
		conn := dial(t, url)

		// When: creating a game without a player
		_, payload := exchange(t, conn, actionGameNew, Payload{})

		// Then: the request is rejected
		assert.Equal(t, errPlayerRequired.Error(), payload.Error)
	})

	t.Run("Rejects unknown actions", func(t *testing.T) {
		// Given: a connected client
		url := startServer(t, newStubGames())
		conn := dial(t, url)

		// When: sending an unknown action
		action, payload := exchange(t, conn, "game:undo", Payload{})

		// Then: the server answers with an error
		assert.Equal(t, "game:undo", action)
		assert.Equal(t, "unknown action", payload.Error)
	})
}

func TestServer_LeaveGame(t *testing.T) {
	// Given: two players in a game
	url := startServer(t, newStubGames())
	host := dial(t, url)
	guest := dial(t, url)

	_, _ = exchange(t, host, actionGameNew, Payload{Player: &entity.Player{ID: "p1"}})
	_, _ = exchange(t, guest, actionGameJoin, Payload{Player: &entity.Player{ID: "p2"}, Game: &GameResponse{ID: "game1"}})
	_, _ = receive(t, host)

	// When: the guest leaves
	action, payload := exchange(t, guest, actionGameLeave, Payload{Player: &entity.Player{ID: "p2"}})

	// Then: the guest sees its own leave and the host sees the opponent gone
	assert.Equal(t, actionGameLeave, action)
	assert.Equal(t, gameStatusLeave, payload.Game.Status)

	action, payload = receive(t, host)
	assert.Equal(t, actionGameLeave, action)
	assert.Equal(t, gameStatusOpponentOut, payload.Game.Status)
}

func TestServer_ExpiredDisconnects(t *testing.T) {
	// Given: two players dropped at different times
	server := New(slog.New(slog.NewTextHandler(io.Discard, nil)), newStubGames())
	now := time.Now()
	server.disconnectedPlayers["old"] = now.Add(-opponentOutTimeout - time.Second)
	server.disconnectedPlayers["fresh"] = now

	// When: checking for expired disconnects
	expired := server.expiredDisconnects(now)

	// Then: only the old one is due, and it is no longer tracked
	assert.Equal(t, []string{"old"}, expired)
	assert.Contains(t, server.disconnectedPlayers, "fresh")
	assert.NotContains(t, server.disconnectedPlayers, "old")
}
