package schemas

import (
	"encoding/json"
	"fmt"
	"time"
)

// Inbound message types accepted on a session connection.
const (
	TypeCreateRoom        = "create_room"
	TypeJoinRoom          = "join_room"
	TypeLeaveRoom         = "leave_room"
	TypePlayerReady       = "player_ready"
	TypeStartGame         = "start_game"
	TypeGameStateSync     = "game_state_sync"
	TypePlayerInput       = "player_input"
	TypeGameEnd           = "game_end"
	TypeGetRoomList       = "get_room_list"
	TypePing              = "ping"
	TypePerformanceUpdate = "performance_update"
	TypeChatMessage       = "chat_message"
	TypeKickPlayer        = "kick_player"
	TypeReconnectToRoom   = "reconnect_to_room"
)

// Envelope is the wire frame shared by every inbound message.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Message is the decoded form of an inbound frame. The concrete type is
// one of the *Message structs below; Decode is the only constructor, so
// a switch over Message covers every variant the protocol defines.
type Message interface {
	isMessage()
}

type CreateRoomMessage struct {
	GameId   string         `json:"gameId"`
	Settings *SettingsPatch `json:"settings"`
}

type JoinRoomMessage struct {
	RoomId string `json:"roomId"`
}

type LeaveRoomMessage struct{}

type PlayerReadyMessage struct {
	Ready bool `json:"ready"`
}

type StartGameMessage struct{}

type GameStateSyncMessage struct {
	Timestamp      int64           `json:"timestamp"`
	SequenceNumber int64           `json:"sequenceNumber"`
	GameState      json.RawMessage `json:"gameState"`
}

type PlayerInputMessage struct {
	Input     json.RawMessage `json:"input"`
	Timestamp int64           `json:"timestamp"`
}

type GameEndMessage struct {
	Results json.RawMessage `json:"results"`
}

type GetRoomListMessage struct {
	GameId string `json:"gameId"`
}

type PingMessage struct {
	Timestamp int64 `json:"timestamp"`
}

type PerformanceUpdateMessage struct {
	Fps         float64 `json:"fps"`
	MemoryUsage float64 `json:"memoryUsage"`
	PacketLoss  float64 `json:"packetLoss"`
}

type ChatMessageMessage struct {
	Message string `json:"message"`
}

type KickPlayerMessage struct {
	PlayerId string `json:"playerId"`
}

type ReconnectToRoomMessage struct {
	RoomId string `json:"roomId"`
}

func (CreateRoomMessage) isMessage()        {}
func (JoinRoomMessage) isMessage()          {}
func (LeaveRoomMessage) isMessage()         {}
func (PlayerReadyMessage) isMessage()       {}
func (StartGameMessage) isMessage()         {}
func (GameStateSyncMessage) isMessage()     {}
func (PlayerInputMessage) isMessage()       {}
func (GameEndMessage) isMessage()           {}
func (GetRoomListMessage) isMessage()       {}
func (PingMessage) isMessage()              {}
func (PerformanceUpdateMessage) isMessage() {}
func (ChatMessageMessage) isMessage()       {}
func (KickPlayerMessage) isMessage()        {}
func (ReconnectToRoomMessage) isMessage()   {}

// Decode parses an inbound frame into its typed variant.
func Decode(raw []byte) (Message, error) {
	var envelope Envelope

	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("could not decode envelope: %w", err)
	}

	payload := envelope.Payload

	if payload == nil {
		payload = []byte("{}")
	}

	decode := func(message Message) (Message, error) {
		if err := json.Unmarshal(payload, message); err != nil {
			return nil, fmt.Errorf("could not decode %s payload: %w", envelope.Type, err)
		}
		return message, nil
	}

	switch envelope.Type {
	case TypeCreateRoom:
		return decode(&CreateRoomMessage{})
	case TypeJoinRoom:
		return decode(&JoinRoomMessage{})
	case TypeLeaveRoom:
		return decode(&LeaveRoomMessage{})
	case TypePlayerReady:
		return decode(&PlayerReadyMessage{})
	case TypeStartGame:
		return decode(&StartGameMessage{})
	case TypeGameStateSync:
		return decode(&GameStateSyncMessage{})
	case TypePlayerInput:
		return decode(&PlayerInputMessage{})
	case TypeGameEnd:
		return decode(&GameEndMessage{})
	case TypeGetRoomList:
		return decode(&GetRoomListMessage{})
	case TypePing:
		return decode(&PingMessage{})
	case TypePerformanceUpdate:
		return decode(&PerformanceUpdateMessage{})
	case TypeChatMessage:
		return decode(&ChatMessageMessage{})
	case TypeKickPlayer:
		return decode(&KickPlayerMessage{})
	case TypeReconnectToRoom:
		return decode(&ReconnectToRoomMessage{})
	default:
		return nil, fmt.Errorf("unknown message type %q", envelope.Type)
	}
}

// ErrorResponse is the JSON error body returned by HTTP endpoints.
type ErrorResponse struct {
	Message string `json:"message"`
}

// SettingsPatch overrides individual room settings at creation time.
// Nil fields keep the documented defaults.
type SettingsPatch struct {
	MaxPlayers       *int    `json:"maxPlayers"`
	Difficulty       *int    `json:"difficulty"`
	GameMode         *string `json:"gameMode"`
	IsPrivate        *bool   `json:"isPrivate"`
	AllowSpectators  *bool   `json:"allowSpectators"`
	AntiCheatEnabled *bool   `json:"antiCheatEnabled"`
}

// RoomSettings is the effective, immutable configuration of a room.
type RoomSettings struct {
	MaxPlayers       int    `json:"maxPlayers"`
	Difficulty       int    `json:"difficulty"`
	GameMode         string `json:"gameMode"`
	IsPrivate        bool   `json:"isPrivate"`
	AllowSpectators  bool   `json:"allowSpectators"`
	AntiCheatEnabled bool   `json:"antiCheatEnabled"`
}

// PerformanceMetrics is client-reported telemetry, advisory only.
type PerformanceMetrics struct {
	Fps        float64 `json:"fps"`
	Latency    float64 `json:"latency"`
	PacketLoss float64 `json:"packetLoss"`
}

// PlayerInfo is the sanitized view of a player sent to other clients.
// It never carries the player's raw game state.
type PlayerInfo struct {
	Id          string             `json:"id"`
	Username    string             `json:"username"`
	AvatarId    string             `json:"avatarId"`
	IsHost      bool               `json:"isHost"`
	IsReady     bool               `json:"isReady"`
	IsConnected bool               `json:"isConnected"`
	Performance PerformanceMetrics `json:"performance"`
}

// RoomState is the full snapshot of a room sent to its own members.
type RoomState struct {
	Id        string          `json:"id"`
	GameId    string          `json:"gameId"`
	HostId    string          `json:"hostId"`
	Status    string          `json:"status"`
	Settings  RoomSettings    `json:"settings"`
	Players   []PlayerInfo    `json:"players"`
	GameState json.RawMessage `json:"gameState"`
	CreatedAt time.Time       `json:"createdAt"`
}

// RoomSummary is the public room-browser view. It exposes no player
// identities and no game state.
type RoomSummary struct {
	Id         string       `json:"id"`
	GameId     string       `json:"gameId"`
	Players    int          `json:"players"`
	MaxPlayers int          `json:"maxPlayers"`
	Settings   RoomSettings `json:"settings"`
	CreatedAt  time.Time    `json:"createdAt"`
}
