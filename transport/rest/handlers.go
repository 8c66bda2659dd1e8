package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/rocketscienceinc/morris-backend/internal/apperror"
)

const maxHistoryLimit = 100

type handler struct {
	logger *slog.Logger
	games  gameUseCase
}

func newHandler(logger *slog.Logger, games gameUseCase) *handler {
	return &handler{
		logger: logger,
		games:  games,
	}
}

func (that *handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/ping", that.ping)
	group.GET("/games/:id", that.game)
	group.GET("/history", that.history)
}

func (that *handler) ping(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

func (that *handler) game(c *gin.Context) {
	log := that.logger.With("method", "game")

	view, err := that.games.GetGame(c.Request.Context(), c.Param("id"))
	if errors.Is(err, apperror.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}

	if err != nil {
		log.Error("failed to get game", "game_id", c.Param("id"), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"game": gin.H{
			"id":         view.Game.ID,
			"status":     view.Game.Status,
			"winner":     view.Game.Winner,
			"moves":      len(view.Game.Actions),
			"created_at": view.Game.CreatedAt,
			"updated_at": view.Game.UpdatedAt,
		},
		"state": view.State,
	})
}

func (that *handler) history(c *gin.Context) {
	log := that.logger.With("method", "history")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}

		limit = min(parsed, maxHistoryLimit)
	}

	results, err := that.games.History(c.Request.Context(), limit)
	if err != nil {
		log.Error("failed to list history", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}
