package notify

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gomokuarena/backend/internal/domain"
)

type recordingRegistry struct {
	sent map[int64][]Event
	fail map[int64]error
}

func newRecordingRegistry() *recordingRegistry {
	return &recordingRegistry{sent: make(map[int64][]Event), fail: make(map[int64]error)}
}

func (r *recordingRegistry) Send(playerID int64, event Event) error {
	if err := r.fail[playerID]; err != nil {
		return err
	}
	r.sent[playerID] = append(r.sent[playerID], event)
	return nil
}

func TestFanoutSendGameUpdate(t *testing.T) {
	reg := newRecordingRegistry()
	f := NewFanout(reg, zap.NewNop())

	snap := domain.Snapshot{GameID: "g1", BlackID: 1, WhiteID: 2, NextPlayerID: 2}
	f.SendGameUpdate(snap, 1)

	require.Len(t, reg.sent[1], 1)
	require.Len(t, reg.sent[2], 1)
	assert.Len(t, reg.sent, 2) // never anyone beyond the two participants

	event := reg.sent[1][0]
	assert.Equal(t, EventGameUpdate, event.Type)
	payload, ok := event.Payload.(GameUpdatePayload)
	require.True(t, ok)
	assert.Equal(t, "g1", payload.GameID)
	assert.Equal(t, int64(1), payload.UpdatedBy)
	assert.Equal(t, int64(2), payload.NextTurn)
}

func TestFanoutDeliveryFailureIsSilent(t *testing.T) {
	reg := newRecordingRegistry()
	reg.fail[2] = errors.New("no live connection")
	f := NewFanout(reg, zap.NewNop())

	snap := domain.Snapshot{GameID: "g1", BlackID: 1, WhiteID: 2, NextPlayerID: 1}

	assert.NotPanics(t, func() { f.SendGameUpdate(snap, 2) })
	assert.Len(t, reg.sent[1], 1) // the reachable participant still got it
}

func TestFanoutSendChallengeNotice(t *testing.T) {
	reg := newRecordingRegistry()
	f := NewFanout(reg, zap.NewNop())

	f.SendChallengeNotice(7, ChallengeNoticePayload{GameID: "g2", ChallengerID: 3, RuleSet: "standard"})

	require.Len(t, reg.sent[7], 1)
	assert.Equal(t, EventChallengeNotice, reg.sent[7][0].Type)
}

func TestEventWireFormat(t *testing.T) {
	event := GameUpdateEvent(domain.Snapshot{GameID: "abc", BlackID: 10, WhiteID: 20, NextPlayerID: 20}, 10)

	raw, err := json.Marshal(event)
	require.NoError(t, err)

	assert.JSONEq(t,
		`{"type":"game_update","payload":{"game_id":"abc","updated_by":10,"next_turn":20}}`,
		string(raw))
}
