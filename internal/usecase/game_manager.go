package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
	"github.com/rocketscienceinc/morris-backend/internal/entity"
	"github.com/rocketscienceinc/morris-backend/internal/morris"
	"github.com/rocketscienceinc/morris-backend/internal/pkg"
)

type playerRepo interface {
	CreateOrUpdate(ctx context.Context, player *entity.Player) error
	GetByID(ctx context.Context, id string) (*entity.Player, error)
}

type gameRepo interface {
	CreateOrUpdate(ctx context.Context, game *entity.Game) error
	GetByID(ctx context.Context, id string) (*entity.Game, error)
	DeleteByID(ctx context.Context, id string) error
}

type historyRepo interface {
	Save(ctx context.Context, result *entity.MatchResult) error
	List(ctx context.Context, limit int) ([]*entity.MatchResult, error)
}

// GameView pairs a stored game with the engine state rebuilt from its log.
type GameView struct {
	Game  *entity.Game `json:"game"`
	State morris.State `json:"state"`
}

type GameManager struct {
	logger      *slog.Logger
	playerRepo  playerRepo
	gameRepo    gameRepo
	historyRepo historyRepo

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	now func() time.Time
}

func NewGameManager(logger *slog.Logger, playerRepo playerRepo, gameRepo gameRepo, historyRepo historyRepo) *GameManager {
	return &GameManager{
		logger: logger,

		playerRepo:  playerRepo,
		gameRepo:    gameRepo,
		historyRepo: historyRepo,

		locks: make(map[string]*sync.Mutex),
		now:   time.Now,
	}
}

// GetOrCreatePlayer loads a session, or opens a new one when id is empty or unknown.
func (that *GameManager) GetOrCreatePlayer(ctx context.Context, id string) (*entity.Player, error) {
	if id == "" {
		player, err := that.createPlayer(ctx, pkg.GenerateNewSessionID())
		if err != nil {
			return nil, fmt.Errorf("failed to create new player: %w", err)
		}

		return player, nil
	}

	player, err := that.playerRepo.GetByID(ctx, id)
	if errors.Is(err, apperror.ErrNotFound) {
		player, err = that.createPlayer(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to create player %s: %w", id, err)
		}

		return player, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get player by id: %w", err)
	}

	return player, nil
}

// CreateGame seats the player as Player1 in a new waiting game. A player already in a game gets that game back.
func (that *GameManager) CreateGame(ctx context.Context, playerID string) (*GameView, error) {
	log := that.logger.With("method", "CreateGame")

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.InGame() {
		view, err := that.GetGame(ctx, player.GameID)
		if err == nil && !view.Game.IsFinished() {
			return view, nil
		}

		if err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}

		player.Release()
	}

	game := entity.NewGame(pkg.GenerateGameID(), that.now())

	player.GameID = game.ID
	player.Seat = morris.Player1
	game.Players = []*entity.Player{player}

	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("game created", "game_id", game.ID, "player_id", player.ID)

	return newGameView(game)
}

// JoinGame seats the player as Player2 and starts the game.
func (that *GameManager) JoinGame(ctx context.Context, gameID, playerID string) (*GameView, error) {
	log := that.logger.With("method", "JoinGame")

	unlock := that.lock(gameID)
	defer unlock()

	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if player.GameID == game.ID {
		return newGameView(game)
	}

	if player.InGame() {
		return nil, fmt.Errorf("%w: player %s is in game %s", apperror.ErrGameAlreadyExists, player.ID, player.GameID)
	}

	if game.IsFinished() {
		return nil, apperror.ErrGameFinished
	}

	if game.IsFull() {
		return nil, fmt.Errorf("%w: game id %s", apperror.ErrGameIsFull, gameID)
	}

	player.GameID = game.ID
	player.Seat = morris.Player2
	if err = that.updatePlayer(ctx, player); err != nil {
		return nil, err
	}

	game.Players = append(game.Players, player)
	game.Status = entity.StatusOngoing
	game.UpdatedAt = that.now()
	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	log.Info("player joined", "game_id", game.ID, "player_id", player.ID)

	return newGameView(game)
}

func (that *GameManager) GetGame(ctx context.Context, gameID string) (*GameView, error) {
	game, err := that.getGameByID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	return newGameView(game)
}

func (that *GameManager) GetGameByPlayerID(ctx context.Context, playerID string) (*GameView, error) {
	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InGame() {
		return nil, apperror.ErrNotInGame
	}

	return that.GetGame(ctx, player.GameID)
}

// Act applies one player input to the player's game.
func (that *GameManager) Act(ctx context.Context, playerID string, action morris.Action) (*GameView, error) {
	log := that.logger.With("method", "Act")

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InGame() {
		return nil, apperror.ErrNotInGame
	}

	unlock := that.lock(player.GameID)
	defer unlock()

	game, err := that.getGameByID(ctx, player.GameID)
	if err != nil {
		return nil, err
	}

	if err = game.ConfirmOngoingState(); err != nil {
		return nil, err
	}

	engine, err := game.Engine()
	if err != nil {
		return nil, err
	}

	if action.Kind != morris.ActionRestart && engine.CurrentPlayer().ID() != player.Seat {
		return nil, apperror.ErrNotYourTurn
	}

	changed, err := engine.Apply(action)
	if err != nil {
		return nil, fmt.Errorf("failed to apply %s: %w", action, err)
	}

	// Rejected inputs are not logged, the live state still reports them.
	view := &GameView{Game: game, State: engine.State()}
	if !changed {
		return view, nil
	}

	now := that.now()
	game.Record(action, now)

	if winner, ok := engine.Winner(); ok {
		game.Finish(winner.ID(), now)
	}

	if err = that.updateGame(ctx, game); err != nil {
		return nil, err
	}

	if game.IsFinished() {
		if winner, ok := game.PlayerBySeat(game.Winner); ok {
			log = log.With("winner_id", winner.ID)
		}

		log.Info("game finished", "game_id", game.ID, "winner", game.Winner)
		that.archive(ctx, game)
	}

	return view, nil
}

// LeaveGame abandons the player's game. A game nobody joined yet is deleted.
func (that *GameManager) LeaveGame(ctx context.Context, playerID string) (*entity.Game, error) {
	log := that.logger.With("method", "LeaveGame")

	player, err := that.getPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}

	if !player.InGame() {
		return nil, apperror.ErrNotInGame
	}

	unlock := that.lock(player.GameID)
	defer unlock()

	game, err := that.getGameByID(ctx, player.GameID)
	if errors.Is(err, apperror.ErrNotFound) {
		player.Release()
		if updateErr := that.updatePlayer(ctx, player); updateErr != nil {
			return nil, updateErr
		}

		return nil, err
	}

	if err != nil {
		return nil, err
	}

	switch {
	case game.IsWaiting():
		if err = that.gameRepo.DeleteByID(ctx, game.ID); err != nil && !errors.Is(err, apperror.ErrNotFound) {
			return nil, fmt.Errorf("failed to delete game: %w", err)
		}

		that.releasePlayers(ctx, game)
	case game.IsOngoing():
		game.Finish(morris.NoPlayer, that.now())
		if err = that.updateGame(ctx, game); err != nil {
			return nil, err
		}

		that.archive(ctx, game)
	default:
		player.Release()
		if err = that.updatePlayer(ctx, player); err != nil {
			return nil, err
		}
	}

	log.Info("player left", "game_id", game.ID, "player_id", player.ID)

	return game, nil
}

// History lists finished matches, newest first.
func (that *GameManager) History(ctx context.Context, limit int) ([]*entity.MatchResult, error) {
	results, err := that.historyRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list history: %w", err)
	}

	return results, nil
}

func (that *GameManager) archive(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "archive")

	if err := that.historyRepo.Save(ctx, entity.NewMatchResult(game)); err != nil {
		log.Error("failed to save match result", "game_id", game.ID, "error", err)
	}

	that.releasePlayers(ctx, game)
}

func (that *GameManager) releasePlayers(ctx context.Context, game *entity.Game) {
	log := that.logger.With("method", "releasePlayers")

	for _, player := range game.Players {
		released := *player
		released.Release()

		if err := that.playerRepo.CreateOrUpdate(ctx, &released); err != nil {
			log.Error("failed to update player", "player_id", player.ID, "error", err)
		}
	}
}

func (that *GameManager) lock(gameID string) func() {
	that.mu.Lock()
	gameLock, ok := that.locks[gameID]
	if !ok {
		gameLock = &sync.Mutex{}
		that.locks[gameID] = gameLock
	}
	that.mu.Unlock()

	gameLock.Lock()

	return gameLock.Unlock
}

func (that *GameManager) createPlayer(ctx context.Context, id string) (*entity.Player, error) {
	player := &entity.Player{
		ID: id,
	}

	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	return player, nil
}

func (that *GameManager) getPlayerByID(ctx context.Context, id string) (*entity.Player, error) {
	player, err := that.playerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	return player, nil
}

func (that *GameManager) updatePlayer(ctx context.Context, player *entity.Player) error {
	if err := that.playerRepo.CreateOrUpdate(ctx, player); err != nil {
		return fmt.Errorf("failed to update player: %w", err)
	}

	return nil
}

func (that *GameManager) getGameByID(ctx context.Context, id string) (*entity.Game, error) {
	game, err := that.gameRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

func (that *GameManager) updateGame(ctx context.Context, game *entity.Game) error {
	if err := that.gameRepo.CreateOrUpdate(ctx, game); err != nil {
		return fmt.Errorf("failed to update game: %w", err)
	}

	return nil
}

func newGameView(game *entity.Game) (*GameView, error) {
	engine, err := game.Engine()
	if err != nil {
		return nil, err
	}

	return &GameView{Game: game, State: engine.State()}, nil
}
