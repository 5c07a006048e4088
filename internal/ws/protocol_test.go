package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/regattadev/boatrace/internal/model"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestEncodeSyncState(t *testing.T) {
	race := &model.Race{
		ID:        "RACE01",
		CreatorID: "alice",
		Status:    model.RaceStatusInProgress,
		Players: []model.Player{
			{UserID: "alice", ConnID: "conn-a", Screen: 1, Ready: true},
			{UserID: "bob", Screen: 2, Ready: true},
		},
		Boat: &model.Boat{Position: 45, OwnerID: "alice", Direction: model.DirectionForward},
	}
	ev := model.Event{
		Type:      model.EventSyncState,
		Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		RaceID:    "RACE01",
		Payload:   model.SyncStatePayload{Race: race},
	}

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	out := decode(t, data)
	assert.Equal(t, "sync_state", out["event"])
	assert.Equal(t, "RACE01", out["race_id"])

	payload := out["payload"].(map[string]any)
	wire := payload["race"].(map[string]any)
	assert.Equal(t, "in_progress", wire["status"])

	players := wire["players"].([]any)
	require.Len(t, players, 2)
	first := players[0].(map[string]any)
	assert.Equal(t, "alice", first["user_id"])
	assert.Equal(t, true, first["connected"])
	second := players[1].(map[string]any)
	assert.Equal(t, false, second["connected"])

	boat := wire["boat"].(map[string]any)
	assert.Equal(t, float64(45), boat["position"])
	assert.Equal(t, "alice", boat["owner_id"])
	assert.Equal(t, "forward", boat["direction"])
}

func TestEncodeBoatUpdated(t *testing.T) {
	ev := model.Event{
		Type:    model.EventBoatUpdated,
		RaceID:  "RACE01",
		Payload: model.BoatUpdatedPayload{Boat: model.Boat{Position: 5, OwnerID: "bob", Direction: model.DirectionForward}},
	}

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	out := decode(t, data)
	assert.Equal(t, "boat_updated", out["event"])
	boat := out["payload"].(map[string]any)["boat"].(map[string]any)
	assert.Equal(t, float64(5), boat["position"])
	assert.Equal(t, "bob", boat["owner_id"])
}

func TestEncodeWinner(t *testing.T) {
	ev := model.Event{
		Type:    model.EventWinner,
		RaceID:  "RACE01",
		Payload: model.WinnerPayload{UserID: "alice"},
	}

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	out := decode(t, data)
	assert.Equal(t, "winner", out["event"])
	assert.Equal(t, "alice", out["payload"].(map[string]any)["user_id"])
}

func TestEncodeError(t *testing.T) {
	ev := model.Event{
		Type:    model.EventError,
		RaceID:  "RACE01",
		Payload: model.ErrorPayload{Message: "screen already taken"},
	}

	data, err := EncodeEvent(ev)
	require.NoError(t, err)

	out := decode(t, data)
	assert.Equal(t, "error", out["event"])
	assert.Equal(t, "screen already taken", out["payload"].(map[string]any)["message"])
}

func TestEncodeUnknownPayloadFails(t *testing.T) {
	ev := model.Event{
		Type:    model.EventType("bogus"),
		Payload: struct{ X int }{X: 1},
	}

	_, err := EncodeEvent(ev)
	assert.Error(t, err)
}

func TestDecodeChooseScreen(t *testing.T) {
	cmd, err := DecodeCommand("alice", InboundMessage{Action: ActionChooseScreen, Screen: 2})
	require.NoError(t, err)

	assert.Equal(t, model.ChooseScreenCommand{UserID: "alice", Screen: 2}, cmd)
}

func TestDecodeStart(t *testing.T) {
	cmd, err := DecodeCommand("alice", InboundMessage{Action: ActionStart})
	require.NoError(t, err)

	assert.Equal(t, model.StartCommand{UserID: "alice"}, cmd)
}

func TestDecodeClickBoat(t *testing.T) {
	cmd, err := DecodeCommand("alice", InboundMessage{Action: ActionClickBoat})
	require.NoError(t, err)

	assert.Equal(t, model.ClickBoatCommand{UserID: "alice"}, cmd)
}

func TestDecodeLeave(t *testing.T) {
	cmd, err := DecodeCommand("alice", InboundMessage{Action: ActionLeave})
	require.NoError(t, err)

	assert.Equal(t, model.LeaveCommand{UserID: "alice"}, cmd)
}

func TestDecodeUnknownActionFails(t *testing.T) {
	_, err := DecodeCommand("alice", InboundMessage{Action: "teleport"})
	assert.Error(t, err)
}
