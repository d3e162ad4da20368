package schemas

import (
	"encoding/json"
	"time"
)

// Outbound event types pushed to session connections.
const (
	EventRoomCreated        = "room_created"
	EventRoomError          = "room_error"
	EventRoomJoined         = "room_joined"
	EventJoinRoomError      = "join_room_error"
	EventPlayerJoined       = "player_joined"
	EventPlayerLeft         = "player_left"
	EventHostChanged        = "host_changed"
	EventPlayerReadyChanged = "player_ready_changed"
	EventGameStarted        = "game_started"
	EventGameStateUpdate    = "game_state_update"
	EventPlayerInput        = "player_input"
	EventGameEnded          = "game_ended"
	EventRoomList           = "room_list"
	EventPingResponse       = "ping_response"
	EventChatMessage        = "chat_message"
	EventKickedFromRoom     = "kicked_from_room"
	EventRoomClosed         = "room_closed"
	EventPlayerDisconnected = "player_disconnected"
	EventPlayerReconnected  = "player_reconnected"
	EventRoomStateSync      = "room_state_sync"
)

// Event is the wire frame for every outbound message.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

func encodeEvent(eventType string, payload any) ([]byte, error) {
	return json.Marshal(Event{
		Type:    eventType,
		Payload: payload,
	})
}

func RoomCreatedEvent(room RoomState) ([]byte, error) {
	return encodeEvent(EventRoomCreated, struct {
		RoomId string    `json:"roomId"`
		Room   RoomState `json:"room"`
	}{RoomId: room.Id, Room: room})
}

func RoomErrorEvent(message string) ([]byte, error) {
	return encodeEvent(EventRoomError, struct {
		Message string `json:"message"`
	}{Message: message})
}

func RoomJoinedEvent(room RoomState) ([]byte, error) {
	return encodeEvent(EventRoomJoined, struct {
		RoomId string    `json:"roomId"`
		Room   RoomState `json:"room"`
	}{RoomId: room.Id, Room: room})
}

func JoinRoomErrorEvent(roomId, message string) ([]byte, error) {
	return encodeEvent(EventJoinRoomError, struct {
		RoomId  string `json:"roomId"`
		Message string `json:"message"`
	}{RoomId: roomId, Message: message})
}

func PlayerJoinedEvent(player PlayerInfo) ([]byte, error) {
	return encodeEvent(EventPlayerJoined, struct {
		Player PlayerInfo `json:"player"`
	}{Player: player})
}

func PlayerLeftEvent(playerId string) ([]byte, error) {
	return encodeEvent(EventPlayerLeft, struct {
		PlayerId string `json:"playerId"`
	}{PlayerId: playerId})
}

func HostChangedEvent(hostId string) ([]byte, error) {
	return encodeEvent(EventHostChanged, struct {
		HostId string `json:"hostId"`
	}{HostId: hostId})
}

func PlayerReadyChangedEvent(playerId string, ready bool) ([]byte, error) {
	return encodeEvent(EventPlayerReadyChanged, struct {
		PlayerId string `json:"playerId"`
		Ready    bool   `json:"ready"`
	}{PlayerId: playerId, Ready: ready})
}

func GameStartedEvent(roomId string, settings RoomSettings, gameState json.RawMessage) ([]byte, error) {
	return encodeEvent(EventGameStarted, struct {
		RoomId    string          `json:"roomId"`
		Settings  RoomSettings    `json:"settings"`
		GameState json.RawMessage `json:"gameState"`
	}{RoomId: roomId, Settings: settings, GameState: gameState})
}

func GameStateUpdateEvent(playerId string, gameState json.RawMessage, timestamp int64) ([]byte, error) {
	return encodeEvent(EventGameStateUpdate, struct {
		PlayerId  string          `json:"playerId"`
		GameState json.RawMessage `json:"gameState"`
		Timestamp int64           `json:"timestamp"`
	}{PlayerId: playerId, GameState: gameState, Timestamp: timestamp})
}

func PlayerInputEvent(playerId string, input json.RawMessage, timestamp int64) ([]byte, error) {
	return encodeEvent(EventPlayerInput, struct {
		PlayerId  string          `json:"playerId"`
		Input     json.RawMessage `json:"input"`
		Timestamp int64           `json:"timestamp"`
	}{PlayerId: playerId, Input: input, Timestamp: timestamp})
}

func GameEndedEvent(roomId string, results json.RawMessage) ([]byte, error) {
	return encodeEvent(EventGameEnded, struct {
		RoomId  string          `json:"roomId"`
		Results json.RawMessage `json:"results"`
	}{RoomId: roomId, Results: results})
}

func RoomListEvent(rooms []RoomSummary) ([]byte, error) {
	return encodeEvent(EventRoomList, rooms)
}

func PingResponseEvent(timestamp int64, serverTime time.Time) ([]byte, error) {
	return encodeEvent(EventPingResponse, struct {
		Timestamp  int64 `json:"timestamp"`
		ServerTime int64 `json:"serverTime"`
	}{Timestamp: timestamp, ServerTime: serverTime.UnixMilli()})
}

func ChatMessageEvent(playerId, username, message string, timestamp time.Time) ([]byte, error) {
	return encodeEvent(EventChatMessage, struct {
		PlayerId  string `json:"playerId"`
		Username  string `json:"username"`
		Message   string `json:"message"`
		Timestamp int64  `json:"timestamp"`
	}{PlayerId: playerId, Username: username, Message: message, Timestamp: timestamp.UnixMilli()})
}

func KickedFromRoomEvent(roomId, reason string) ([]byte, error) {
	return encodeEvent(EventKickedFromRoom, struct {
		RoomId string `json:"roomId"`
		Reason string `json:"reason"`
	}{RoomId: roomId, Reason: reason})
}

func RoomClosedEvent(roomId, reason string) ([]byte, error) {
	return encodeEvent(EventRoomClosed, struct {
		RoomId string `json:"roomId"`
		Reason string `json:"reason"`
	}{RoomId: roomId, Reason: reason})
}

func PlayerDisconnectedEvent(playerId string) ([]byte, error) {
	return encodeEvent(EventPlayerDisconnected, struct {
		PlayerId string `json:"playerId"`
	}{PlayerId: playerId})
}

func PlayerReconnectedEvent(playerId string) ([]byte, error) {
	return encodeEvent(EventPlayerReconnected, struct {
		PlayerId string `json:"playerId"`
	}{PlayerId: playerId})
}

func RoomStateSyncEvent(room RoomState, serverTime time.Time) ([]byte, error) {
	return encodeEvent(EventRoomStateSync, struct {
		Room       RoomState `json:"room"`
		ServerTime int64     `json:"serverTime"`
	}{Room: room, ServerTime: serverTime.UnixMilli()})
}

// PublisherEvent is the envelope published to sibling services over the
// message broker, as opposed to frames pushed to clients.
type PublisherEvent struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func RoomCreatedBrokerEvent(roomId, gameId, hostId string) (string, error) {
	type content struct {
		RoomId string `json:"roomId"`
		GameId string `json:"gameId"`
		HostId string `json:"hostId"`
	}

	return encodeBrokerEvent("RoomCreated", content{
		RoomId: roomId,
		GameId: gameId,
		HostId: hostId,
	})
}

func GameEndedBrokerEvent(roomId, gameId string) (string, error) {
	type content struct {
		RoomId string `json:"roomId"`
		GameId string `json:"gameId"`
	}

	return encodeBrokerEvent("GameEnded", content{
		RoomId: roomId,
		GameId: gameId,
	})
}

func encodeBrokerEvent(eventType string, content any) (string, error) {
	message, err := json.Marshal(content)
	if err != nil {
		return "", err
	}

	event := PublisherEvent{
		Type:    eventType,
		Content: string(message),
	}

	e, err := json.Marshal(event)
	if err != nil {
		return "", err
	}

	return string(e), nil
}
