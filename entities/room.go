package entities

import (
	"encoding/json"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
)

const (
	StatusWaiting  = "waiting"
	StatusPlaying  = "playing"
	StatusFinished = "finished"
)

// Room is the aggregate of players, game identity, settings and the
// shared game-state blob. Status only moves forward:
// waiting -> playing -> finished. Finished rooms are deleted after a
// grace delay, never reused.
type Room struct {
	Id     string
	GameId string
	HostId string

	// I used map[] in order to easily remove player and load it in O(1)
	Players map[string]*Player

	// Settings are fixed at creation.
	Settings schemas.RoomSettings

	// GameState is the shared aggregate blob, distinct from each
	// player's own state. Opaque to the session core.
	GameState json.RawMessage

	Status       string
	CreatedAt    time.Time
	LastActivity time.Time
}

// DefaultSettings are the documented room defaults, overridable per
// field at creation time.
func DefaultSettings() schemas.RoomSettings {
	return schemas.RoomSettings{
		MaxPlayers:       4,
		Difficulty:       1,
		GameMode:         "standard",
		IsPrivate:        false,
		AllowSpectators:  true,
		AntiCheatEnabled: true,
	}
}

// MergeSettings applies a patch onto the defaults. Nil patch fields
// keep the default value.
func MergeSettings(patch *schemas.SettingsPatch) schemas.RoomSettings {
	settings := DefaultSettings()

	if patch == nil {
		return settings
	}

	if patch.MaxPlayers != nil && *patch.MaxPlayers > 0 {
		settings.MaxPlayers = *patch.MaxPlayers
	}
	if patch.Difficulty != nil {
		settings.Difficulty = *patch.Difficulty
	}
	if patch.GameMode != nil {
		settings.GameMode = *patch.GameMode
	}
	if patch.IsPrivate != nil {
		settings.IsPrivate = *patch.IsPrivate
	}
	if patch.AllowSpectators != nil {
		settings.AllowSpectators = *patch.AllowSpectators
	}
	if patch.AntiCheatEnabled != nil {
		settings.AntiCheatEnabled = *patch.AntiCheatEnabled
	}

	return settings
}

func NewRoom(id, gameId, hostId string, settings schemas.RoomSettings, now time.Time) *Room {
	return &Room{
		Id:           id,
		GameId:       gameId,
		HostId:       hostId,
		Players:      make(map[string]*Player),
		Settings:     settings,
		GameState:    json.RawMessage("{}"),
		Status:       StatusWaiting,
		CreatedAt:    now,
		LastActivity: now,
	}
}

// CanJoin reports whether a new player is admitted right now.
func (room *Room) CanJoin() bool {
	if len(room.Players) >= room.Settings.MaxPlayers {
		return false
	}

	if room.Status == StatusPlaying && !room.Settings.AllowSpectators {
		return false
	}

	return room.Status != StatusFinished
}

// AllReady reports whether every player has readied up.
func (room *Room) AllReady() bool {
	for _, player := range room.Players {
		if !player.IsReady {
			return false
		}
	}

	return true
}

func (room *Room) Touch(now time.Time) {
	room.LastActivity = now
}

// State builds the full snapshot sent to room members.
func (room *Room) State() schemas.RoomState {
	players := make([]schemas.PlayerInfo, 0, len(room.Players))

	for _, player := range room.Players {
		players = append(players, player.Info())
	}

	return schemas.RoomState{
		Id:        room.Id,
		GameId:    room.GameId,
		HostId:    room.HostId,
		Status:    room.Status,
		Settings:  room.Settings,
		Players:   players,
		GameState: room.GameState,
		CreatedAt: room.CreatedAt,
	}
}

// Summary builds the public room-browser entry. No player identities,
// no game state.
func (room *Room) Summary() schemas.RoomSummary {
	return schemas.RoomSummary{
		Id:         room.Id,
		GameId:     room.GameId,
		Players:    len(room.Players),
		MaxPlayers: room.Settings.MaxPlayers,
		Settings:   room.Settings,
		CreatedAt:  room.CreatedAt,
	}
}
