package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/gomokuarena/backend/internal/notify"
)

const writeTimeout = 10 * time.Second

// Connection is one live socket. The write mutex exists because
// conn.WriteJSON is not safe for concurrent writers.
type Connection struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *Connection) writeEvent(event notify.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(event)
}

// ConnectionManager maps a player to their set of live connections. A player
// may be connected from several devices at once; every one of them gets the
// events. The manager owns this mapping, nothing else mutates it.
type ConnectionManager struct {
	mu    sync.RWMutex
	conns map[int64]map[*Connection]struct{}
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{conns: make(map[int64]map[*Connection]struct{})}
}

// Add registers a new connection for the player.
func (cm *ConnectionManager) Add(playerID int64, ws *websocket.Conn) *Connection {
	c := &Connection{ws: ws}

	cm.mu.Lock()
	defer cm.mu.Unlock()

	set, ok := cm.conns[playerID]
	if !ok {
		set = make(map[*Connection]struct{})
		cm.conns[playerID] = set
	}
	set[c] = struct{}{}
	return c
}

// Remove closes and unregisters one connection of the player. Other
// connections of the same player stay live.
func (cm *ConnectionManager) Remove(playerID int64, c *Connection) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if set, ok := cm.conns[playerID]; ok {
		if _, present := set[c]; present {
			c.ws.Close()
			delete(set, c)
			if len(set) == 0 {
				delete(cm.conns, playerID)
			}
		}
	}
}

// ConnectionCount reports how many live sockets a player has.
func (cm *ConnectionManager) ConnectionCount(playerID int64) int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.conns[playerID])
}

// Send implements notify.Registry: deliver the event to every live
// connection of the player. No live connection is a silent no-op; a dead
// socket is dropped so it stops accumulating.
func (cm *ConnectionManager) Send(playerID int64, event notify.Event) error {
	cm.mu.RLock()
	targets := make([]*Connection, 0, len(cm.conns[playerID]))
	for c := range cm.conns[playerID] {
		targets = append(targets, c)
	}
	cm.mu.RUnlock()

	var lastErr error
	for _, c := range targets {
		if err := c.writeEvent(event); err != nil {
			lastErr = err
			cm.Remove(playerID, c)
		}
	}
	return lastErr
}
