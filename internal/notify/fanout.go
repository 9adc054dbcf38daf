package notify

import (
	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/domain"
)

// Registry resolves a player to their live connections. Owned by the
// connection-management layer; the fanout only reads through it.
type Registry interface {
	// Send delivers one event to every live connection of the player.
	// A player with no connection is not an error.
	Send(playerID int64, event Event) error
}

// Fanout is stateless best-effort delivery. The engine never blocks on it
// and a delivery failure never fails a move; the authoritative state is
// always re-readable from the game itself.
type Fanout struct {
	registry Registry
	log      *zap.Logger
}

func NewFanout(registry Registry, log *zap.Logger) *Fanout {
	return &Fanout{registry: registry, log: log}
}

// Publish forwards the event to each recipient's connections, fire-and-forget.
func (f *Fanout) Publish(event Event, recipients ...int64) {
	for _, playerID := range recipients {
		if err := f.registry.Send(playerID, event); err != nil {
			f.log.Debug("event delivery skipped",
				zap.String("event", event.Type),
				zap.Int64("player_id", playerID),
				zap.Error(err))
		}
	}
}

// SendGameUpdate publishes a game_update to exactly the two participants.
func (f *Fanout) SendGameUpdate(snap domain.Snapshot, updatedBy int64) {
	f.Publish(GameUpdateEvent(snap, updatedBy), snap.BlackID, snap.WhiteID)
}

// SendChallengeNotice tells the challenged player a game is waiting for them.
func (f *Fanout) SendChallengeNotice(opponentID int64, payload ChallengeNoticePayload) {
	f.Publish(Event{Type: EventChallengeNotice, Payload: payload}, opponentID)
}
