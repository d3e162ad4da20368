package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		raw  string
		want Message
	}{
		{
			raw:  `{"type":"create_room","payload":{"gameId":"tetris"}}`,
			want: &CreateRoomMessage{GameId: "tetris"},
		},
		{
			raw:  `{"type":"join_room","payload":{"roomId":"r1"}}`,
			want: &JoinRoomMessage{RoomId: "r1"},
		},
		{
			raw:  `{"type":"leave_room"}`,
			want: &LeaveRoomMessage{},
		},
		{
			raw:  `{"type":"player_ready","payload":{"ready":true}}`,
			want: &PlayerReadyMessage{Ready: true},
		},
		{
			raw:  `{"type":"start_game"}`,
			want: &StartGameMessage{},
		},
		{
			raw: `{"type":"game_state_sync","payload":{"timestamp":1000,"sequenceNumber":2,"gameState":{"score":1}}}`,
			want: &GameStateSyncMessage{
				Timestamp:      1000,
				SequenceNumber: 2,
				GameState:      json.RawMessage(`{"score":1}`),
			},
		},
		{
			raw: `{"type":"player_input","payload":{"input":{"jump":true},"timestamp":5}}`,
			want: &PlayerInputMessage{
				Input:     json.RawMessage(`{"jump":true}`),
				Timestamp: 5,
			},
		},
		{
			raw:  `{"type":"game_end","payload":{"results":{"winner":"a"}}}`,
			want: &GameEndMessage{Results: json.RawMessage(`{"winner":"a"}`)},
		},
		{
			raw:  `{"type":"get_room_list","payload":{"gameId":"tetris"}}`,
			want: &GetRoomListMessage{GameId: "tetris"},
		},
		{
			raw:  `{"type":"ping","payload":{"timestamp":42}}`,
			want: &PingMessage{Timestamp: 42},
		},
		{
			raw:  `{"type":"performance_update","payload":{"fps":60,"memoryUsage":128}}`,
			want: &PerformanceUpdateMessage{Fps: 60, MemoryUsage: 128},
		},
		{
			raw:  `{"type":"chat_message","payload":{"message":"gg"}}`,
			want: &ChatMessageMessage{Message: "gg"},
		},
		{
			raw:  `{"type":"kick_player","payload":{"playerId":"p2"}}`,
			want: &KickPlayerMessage{PlayerId: "p2"},
		},
		{
			raw:  `{"type":"reconnect_to_room","payload":{"roomId":"r1"}}`,
			want: &ReconnectToRoomMessage{RoomId: "r1"},
		},
	}

	for _, test := range tests {
		t.Run(test.raw, func(t *testing.T) {
			decoded, err := Decode([]byte(test.raw))
			require.NoError(t, err)
			assert.Equal(t, test.want, decoded)
		})
	}
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("not json"))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"type":"teleport"}`))
	assert.Error(t, err)

	_, err = Decode([]byte(`{"type":"join_room","payload":[1,2]}`))
	assert.Error(t, err)
}

func TestEventEncoding(t *testing.T) {
	raw, err := PlayerLeftEvent("p1")
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(raw, &event))

	assert.Equal(t, EventPlayerLeft, event.Type)

	payload, ok := event.Payload.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p1", payload["playerId"])
}

func TestBrokerEventEncoding(t *testing.T) {
	raw, err := RoomCreatedBrokerEvent("r1", "tetris", "h1")
	require.NoError(t, err)

	var event PublisherEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &event))

	assert.Equal(t, "RoomCreated", event.Type)
	assert.Contains(t, event.Content, `"roomId":"r1"`)
}
