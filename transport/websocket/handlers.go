package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/usecase"
)

const (
	actionConnect    = "connect"
	actionGameNew    = "game:new"
	actionGameJoin   = "game:join"
	actionGameAction = "game:action"
	actionGameState  = "game:state"
	actionGameLeave  = "game:leave"

	gameStatusOpponentOut = "opponent_out"
	gameStatusLeave       = "leave"
)

// clientErrors are safe to echo back verbatim.
var clientErrors = []error{
	apperror.ErrGameFinished,
	apperror.ErrGameIsNotStarted,
	apperror.ErrNotYourTurn,
	apperror.ErrGameAlreadyExists,
	apperror.ErrGameIsFull,
	apperror.ErrNotInGame,
	apperror.ErrNotFound,
	morris.ErrUnknownPoint,
	morris.ErrUnknownAction,
	morris.ErrPointRequired,
	errPlayerRequired,
	errGameRequired,
	errActionRequired,
	errBadPayload,
}

func (that *Server) handleConnect(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleConnect")

	payloadReq, err := decodePayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	playerID := ""
	if payloadReq.Player != nil {
		playerID = payloadReq.Player.ID
	}

	player, err := that.gameUseCase.GetOrCreatePlayer(ctx, playerID)
	if err != nil {
		log.Error("failed to get or create player", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.register(player.ID, conn)

	payloadResp := Payload{Player: player}

	if player.InGame() {
		view, err := that.gameUseCase.GetGameByPlayerID(ctx, player.ID)
		if err != nil {
			log.Warn("failed to restore game", "game_id", player.GameID, "error", err)
		} else {
			payloadResp.Game = newGameResponse(view.Game)
			payloadResp.State = &view.State
		}
	}

	if err = conn.send(msg.Action, payloadResp); err != nil {
		return fmt.Errorf("failed to send response: %w", err)
	}

	log.Info("player connected", "player_id", player.ID)

	return nil
}

func (that *Server) handleNewGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleNewGame")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.register(payloadReq.Player.ID, conn)

	view, err := that.gameUseCase.CreateGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to create game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.broadcast(msg.Action, view)

	log.Info("game ready", "game_id", view.Game.ID)

	return nil
}

func (that *Server) handleJoinGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleJoinGame")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payloadReq.Game == nil || payloadReq.Game.ID == "" {
		return that.sendErrorResponse(conn, msg.Action, errGameRequired)
	}

	that.register(payloadReq.Player.ID, conn)

	view, err := that.gameUseCase.JoinGame(ctx, payloadReq.Game.ID, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to join game", "game_id", payloadReq.Game.ID, "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.broadcast(msg.Action, view)

	log.Info("player joined game", "game_id", view.Game.ID, "player_id", payloadReq.Player.ID)

	return nil
}

func (that *Server) handleGameAction(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleGameAction")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	if payloadReq.Action == nil {
		return that.sendErrorResponse(conn, msg.Action, errActionRequired)
	}

	that.register(payloadReq.Player.ID, conn)

	view, err := that.gameUseCase.Act(ctx, payloadReq.Player.ID, *payloadReq.Action)
	if err != nil {
		log.Debug("action rejected", "player_id", payloadReq.Player.ID, "action", payloadReq.Action.String(), "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.broadcast(msg.Action, view)

	if view.Game.IsFinished() {
		log.Info("game finished", "game_id", view.Game.ID, "winner", view.Game.Winner)
	}

	return nil
}

func (that *Server) handleGameState(ctx context.Context, msg *Message, conn *connection) error {
	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.register(payloadReq.Player.ID, conn)

	view, err := that.gameUseCase.GetGameByPlayerID(ctx, payloadReq.Player.ID)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	return conn.send(msg.Action, Payload{
		Player: playerOf(view.Game, payloadReq.Player.ID),
		Game:   newGameResponse(view.Game),
		State:  &view.State,
	})
}

func (that *Server) handleLeaveGame(ctx context.Context, msg *Message, conn *connection) error {
	log := that.logger.With("method", "handleLeaveGame")

	payloadReq, err := decodePlayerPayload(msg)
	if err != nil {
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	that.register(payloadReq.Player.ID, conn)

	game, err := that.gameUseCase.LeaveGame(ctx, payloadReq.Player.ID)
	if err != nil {
		log.Error("failed to leave game", "error", err)
		return that.sendErrorResponse(conn, msg.Action, err)
	}

	for _, player := range game.Players {
		payloadResp := Payload{Game: newGameResponse(game)}
		payloadResp.Game.Status = gameStatusLeave
		if player.ID != payloadReq.Player.ID {
			payloadResp.Game.Status = gameStatusOpponentOut
		}

		that.sendTo(player.ID, msg.Action, payloadResp)
	}

	log.Info("player left game", "game_id", game.ID, "player_id", payloadReq.Player.ID)

	return nil
}

// handleOpponentOut abandons the game of a player whose connection did not come back.
func (that *Server) handleOpponentOut(ctx context.Context, playerID string) {
	log := that.logger.With("method", "handleOpponentOut")

	game, err := that.gameUseCase.LeaveGame(ctx, playerID)
	if errors.Is(err, apperror.ErrNotInGame) {
		return
	}

	if err != nil {
		log.Error("failed to abandon game", "player_id", playerID, "error", err)
		return
	}

	for _, player := range game.Players {
		if player.ID == playerID {
			continue
		}

		payloadResp := Payload{Game: newGameResponse(game)}
		payloadResp.Game.Status = gameStatusOpponentOut

		that.sendTo(player.ID, actionGameLeave, payloadResp)
	}

	log.Info("handled opponent out", "game_id", game.ID)
}

// broadcast sends the game update to every seated player that is connected.
func (that *Server) broadcast(action string, view *usecase.GameView) {
	for _, player := range view.Game.Players {
		that.sendTo(player.ID, action, Payload{
			Player: player,
			Game:   newGameResponse(view.Game),
			State:  &view.State,
		})
	}
}

func (that *Server) sendTo(playerID, action string, payload Payload) {
	log := that.logger.With("method", "sendTo")

	conn, ok := that.connectionOf(playerID)
	if !ok {
		log.Warn("connection not found for player", "player_id", playerID)
		return
	}

	if err := conn.send(action, payload); err != nil {
		log.Error("failed to send game update", "player_id", playerID, "error", err)
	}
}

func (that *Server) sendErrorResponse(conn *connection, action string, cause error) error {
	if err := conn.send(action, Payload{Error: clientMessage(cause)}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}

var (
	errPlayerRequired = errors.New("player is required")
	errGameRequired   = errors.New("game is required")
	errActionRequired = errors.New("action is required")
	errBadPayload     = errors.New("malformed payload")
)

func decodePayload(msg *Message) (*Payload, error) {
	var payload Payload
	if len(msg.Payload) == 0 {
		return &payload, nil
	}

	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: %w", errBadPayload, err)
	}

	return &payload, nil
}

func decodePlayerPayload(msg *Message) (*Payload, error) {
	payload, err := decodePayload(msg)
	if err != nil {
		return nil, err
	}

	if payload.Player == nil || payload.Player.ID == "" {
		return nil, errPlayerRequired
	}

	return payload, nil
}

func clientMessage(err error) string {
	for _, known := range clientErrors {
		if errors.Is(err, known) {
			return known.Error()
		}
	}

	return "internal error"
}

func playerOf(game *entity.Game, playerID string) *entity.Player {
	for _, player := range game.Players {
		if player.ID == playerID {
			return player
		}
	}

	return nil
}
