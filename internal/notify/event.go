package notify

import "github.com/gomokuarena/backend/internal/domain"

// Wire event names. The envelope is {"type": <name>, "payload": {...}} and
// must stay stable for clients.
const (
	EventGameUpdate      = "game_update"
	EventChallengeNotice = "challenge_notice"
)

// Event is the envelope delivered on the wire.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// GameUpdatePayload announces a state change on a game to its participants.
type GameUpdatePayload struct {
	GameID    string `json:"game_id"`
	UpdatedBy int64  `json:"updated_by"`
	NextTurn  int64  `json:"next_turn"`
}

// ChallengeNoticePayload tells a player a game has been opened against them.
type ChallengeNoticePayload struct {
	GameID       string `json:"game_id"`
	ChallengerID int64  `json:"challenger_id"`
	RuleSet      string `json:"ruleset"`
}

// GameUpdateEvent builds the update event for a fresh snapshot.
func GameUpdateEvent(snap domain.Snapshot, updatedBy int64) Event {
	return Event{
		Type: EventGameUpdate,
		Payload: GameUpdatePayload{
			GameID:    snap.GameID,
			UpdatedBy: updatedBy,
			NextTurn:  snap.NextPlayerID,
		},
	}
}
