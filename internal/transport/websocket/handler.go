package websocket

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/notify"
	"github.com/gomokuarena/backend/internal/obslog"
	gamesvc "github.com/gomokuarena/backend/internal/service/game"
	"github.com/gomokuarena/backend/internal/service/session"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 30 * time.Second
)

// ClientMessage is anything a client sends over the socket.
type ClientMessage struct {
	Type   string `json:"type"`
	Token  string `json:"token,omitempty"`
	GameID string `json:"game_id,omitempty"`
	Row    int    `json:"row,omitempty"`
	Col    int    `json:"col,omitempty"`
}

// Handler upgrades authenticated websocket connections and feeds move
// messages into the game service. Updates flow back through the fanout.
type Handler struct {
	connManager *ConnectionManager
	games       *gamesvc.Service
	authService *session.AuthService
	upgrader    websocket.Upgrader
}

func NewHandler(cm *ConnectionManager, games *gamesvc.Service, authService *session.AuthService) *Handler {
	return &Handler{
		connManager: cm,
		games:       games,
		authService: authService,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the gin route that upgrades the connection.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	ws, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		obslog.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	h.handleConnection(c, ws)
}

func (h *Handler) handleConnection(c *gin.Context, ws *websocket.Conn) {
	log := obslog.L()
	ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	// The first message must authenticate the socket.
	var init ClientMessage
	if err := ws.ReadJSON(&init); err != nil {
		ws.Close()
		return
	}
	if init.Type != "init" || init.Token == "" {
		ws.WriteJSON(notify.Event{Type: "error", Payload: gin.H{"message": "authentication required"}})
		ws.Close()
		return
	}

	claims, err := h.authService.ValidateToken(c.Request.Context(), init.Token)
	if err != nil {
		ws.WriteJSON(notify.Event{Type: "error", Payload: gin.H{"message": "invalid token or session expired"}})
		ws.Close()
		return
	}

	playerID := claims.UserID
	conn := h.connManager.Add(playerID, ws)
	log.Info("websocket connected",
		zap.Int64("player_id", playerID),
		zap.String("username", claims.Username))

	defer func() {
		h.connManager.Remove(playerID, conn)
		log.Info("websocket disconnected", zap.Int64("player_id", playerID))
	}()

	// Keep-alive pinger.
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				conn.mu.Lock()
				err := ws.WriteMessage(websocket.PingMessage, nil)
				conn.mu.Unlock()
				if err != nil {
					return
				}
			}
		}
	}()

	for {
		var msg ClientMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("websocket read error", zap.Int64("player_id", playerID), zap.Error(err))
			}
			return
		}

		switch msg.Type {
		case "move":
			h.handleMove(c, conn, playerID, msg)
		case "ping":
			conn.writeEvent(notify.Event{Type: "pong"})
		default:
			conn.writeEvent(notify.Event{Type: "error", Payload: gin.H{"message": "unknown message type"}})
		}
	}
}

func (h *Handler) handleMove(c *gin.Context, conn *Connection, playerID int64, msg ClientMessage) {
	_, _, err := h.games.MakeMove(c.Request.Context(), msg.GameID, playerID, msg.Row, msg.Col)
	if err != nil {
		// A rejected move concerns only its sender; the fanout will carry
		// accepted moves to both participants.
		conn.writeEvent(notify.Event{Type: "move_rejected", Payload: gin.H{
			"game_id": msg.GameID,
			"message": err.Error(),
		}})
	}
}
