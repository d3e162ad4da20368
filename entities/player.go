package entities

import (
	"encoding/json"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
)

// Player is the in-room record of a connected participant. It is owned
// by exactly one room at a time and mutated only by the session service.
type Player struct {
	Id       string
	Username string
	AvatarId string

	IsHost  bool
	IsReady bool
	// IsConnected is false while the player sits in the disconnect
	// grace window.
	IsConnected bool

	JoinedAt time.Time
	LastPing time.Time

	// Client-reported telemetry, advisory only.
	Performance schemas.PerformanceMetrics

	// GameState is the last state blob received from this player.
	// The session core never interprets it.
	GameState json.RawMessage
}

func NewPlayer(id, username, avatarId string, now time.Time) *Player {
	return &Player{
		Id:          id,
		Username:    username,
		AvatarId:    avatarId,
		IsConnected: true,
		JoinedAt:    now,
		LastPing:    now,
	}
}

// Info returns the sanitized view broadcast to other clients. It never
// carries the raw game state.
func (player *Player) Info() schemas.PlayerInfo {
	return schemas.PlayerInfo{
		Id:          player.Id,
		Username:    player.Username,
		AvatarId:    player.AvatarId,
		IsHost:      player.IsHost,
		IsReady:     player.IsReady,
		IsConnected: player.IsConnected,
		Performance: player.Performance,
	}
}
