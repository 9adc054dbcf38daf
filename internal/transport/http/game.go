package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/domain"
	"github.com/gomokuarena/backend/internal/obslog"
	"github.com/gomokuarena/backend/internal/repository/postgres"
	"github.com/gomokuarena/backend/internal/repository/redis"
	gamesvc "github.com/gomokuarena/backend/internal/service/game"
	"github.com/gomokuarena/backend/internal/transport/http/middleware"
)

// finishedSnapshotTTL caches terminal games, which never change again.
const finishedSnapshotTTL = time.Hour

type GameHandler struct {
	games    *gamesvc.Service
	rulesets *postgres.RuleSetRepo
	users    *postgres.UserRepo
	cache    *redis.Cache
}

func NewGameHandler(games *gamesvc.Service, rulesets *postgres.RuleSetRepo, users *postgres.UserRepo, cache *redis.Cache) *GameHandler {
	return &GameHandler{games: games, rulesets: rulesets, users: users, cache: cache}
}

type createGameRequest struct {
	OpponentUsername string `json:"opponent_username" binding:"required"`
	RuleSet          string `json:"ruleset"`
}

// CreateGame opens a game with the caller as black against the named
// opponent, who gets a challenge notice on their live connections.
func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if req.RuleSet == "" {
		req.RuleSet = "standard"
	}

	opponent, err := h.users.GetByUsername(c.Request.Context(), req.OpponentUsername)
	if errors.Is(err, postgres.ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "opponent not found"})
		return
	}
	if err != nil {
		obslog.L().Error("opponent lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	rules, err := h.rulesets.Get(c.Request.Context(), req.RuleSet)
	if errors.Is(err, postgres.ErrRuleSetNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "ruleset not found"})
		return
	}
	if err != nil {
		obslog.L().Error("ruleset lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	snap, err := h.games.CreateGame(c.Request.Context(), middleware.UserID(c), opponent.ID, rules)
	if errors.Is(err, domain.ErrSamePlayer) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot challenge yourself"})
		return
	}
	if err != nil {
		obslog.L().Error("create game failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"game": snap})
}

// GetGame returns the current snapshot for polling. Finished games come out
// of the cache when possible; they are immutable, so the cache never lies.
func (h *GameHandler) GetGame(c *gin.Context) {
	gameID := c.Param("id")

	if snap, err := h.cache.GetSnapshot(c.Request.Context(), gameID); err == nil {
		c.JSON(http.StatusOK, gin.H{"game": snap})
		return
	}

	snap, err := h.games.Snapshot(c.Request.Context(), gameID)
	if errors.Is(err, domain.ErrGameNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		obslog.L().Error("snapshot failed", zap.String("game_id", gameID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if snap.Status == domain.StatusFinished || snap.Status == domain.StatusDraw {
		if err := h.cache.PutSnapshot(c.Request.Context(), snap, finishedSnapshotTTL); err != nil {
			obslog.L().Debug("snapshot cache write failed", zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"game": snap})
}

type moveRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// MakeMove is the REST variant of the move path, for clients without a live
// socket. Updates still fan out to both participants' connections.
func (h *GameHandler) MakeMove(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	move, snap, err := h.games.MakeMove(c.Request.Context(), c.Param("id"), middleware.UserID(c), req.Row, req.Col)
	if err != nil {
		c.JSON(moveErrorStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"move": move, "game": snap})
}

func moveErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotAParticipant):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrGameAlreadyOver),
		errors.Is(err, domain.ErrNotYourTurn),
		errors.Is(err, domain.ErrCellOccupied):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOutOfBounds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// MyTurn tells the caller whether they move next; used by clients for
// enabling the board.
func (h *GameHandler) MyTurn(c *gin.Context) {
	myTurn, err := h.games.IsPlayersTurn(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if errors.Is(err, domain.ErrGameNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"your_turn": myTurn})
}

// Opponent resolves the other participant of a game.
func (h *GameHandler) Opponent(c *gin.Context) {
	opponentID, err := h.games.Opponent(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if errors.Is(err, domain.ErrGameNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	if errors.Is(err, domain.ErrNotAParticipant) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	opponent, err := h.users.GetByID(c.Request.Context(), opponentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"opponent": opponent.Response()})
}

// MyGames lists the caller's live games.
func (h *GameHandler) MyGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"game_ids": h.games.GamesOf(middleware.UserID(c))})
}

// ListRuleSets returns every known rule variant.
func (h *GameHandler) ListRuleSets(c *gin.Context) {
	rulesets, err := h.rulesets.List(c.Request.Context())
	if err != nil {
		obslog.L().Error("list rulesets failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rulesets": rulesets})
}

type createRuleSetRequest struct {
	Name           string `json:"name" binding:"required"`
	BoardSize      int    `json:"board_size" binding:"required"`
	WinLength      int    `json:"win_length" binding:"required"`
	AllowOverlines bool   `json:"allow_overlines"`
	Description    string `json:"description"`
}

// CreateRuleSet registers a new rule variant ahead of game creation.
func (h *GameHandler) CreateRuleSet(c *gin.Context) {
	var req createRuleSetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	rules, err := domain.NewRuleSet(req.Name, req.BoardSize, req.WinLength, req.AllowOverlines, req.Description)
	if errors.Is(err, domain.ErrInvalidRuleSet) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	if err := h.rulesets.Create(c.Request.Context(), rules); err != nil {
		obslog.L().Error("create ruleset failed", zap.Error(err))
		c.JSON(http.StatusConflict, gin.H{"error": "ruleset already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ruleset": rules})
}
