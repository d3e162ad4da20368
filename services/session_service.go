package services

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/entities"
	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"
	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/scheduler"
	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

var (
	RoomNotFound    = errors.New("room not found")
	RoomFull        = errors.New("room is full")
	RoomNotJoinable = errors.New("room is not joinable")
	PlayerNotInRoom = errors.New("player is not in a room")
	NotHost         = errors.New("requester is not the host")
	PlayersNotReady = errors.New("not all players are ready")
	InvalidStatus   = errors.New("room status does not allow this operation")
	ChatTooLong     = errors.New("chat message exceeds length limit")
)

// SessionConfig carries every tunable of the session core.
type SessionConfig struct {
	// ReconnectGrace is how long a disconnected player keeps their
	// seat before the normal leave path runs.
	ReconnectGrace time.Duration
	// FinishedRoomTTL is how long a finished room stays queryable for
	// late result screens before it is deleted. Not cancellable.
	FinishedRoomTTL time.Duration
	// IdleThreshold is the inactivity age past which the reaper closes
	// a room.
	IdleThreshold  time.Duration
	ReaperInterval time.Duration
	ResyncInterval time.Duration
	RoomListLimit  int
	MaxChatLength  int
	Validator      ValidatorConfig
}

func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		ReconnectGrace:  30 * time.Second,
		FinishedRoomTTL: 5 * time.Minute,
		IdleThreshold:   10 * time.Minute,
		ReaperInterval:  60 * time.Second,
		ResyncInterval:  5 * time.Second,
		RoomListLimit:   20,
		MaxChatLength:   200,
		Validator:       DefaultValidatorConfig(),
	}
}

// SessionService owns every room and the player->room index. A single
// mutex serializes all mutations, so each operation is a critical
// section with respect to room data; broadcasts fan out through the
// Channel without blocking.
type SessionService struct {
	mutex      sync.Mutex
	rooms      map[string]*entities.Room
	playerRoom map[string]string

	channel   Channel
	publisher Publisher
	validator *StateValidator
	timers    *scheduler.Scheduler
	config    SessionConfig

	// now is swappable in tests.
	now func() time.Time
}

func NewSessionService(channel Channel, publisher Publisher, config SessionConfig) *SessionService {
	return &SessionService{
		rooms:      make(map[string]*entities.Room),
		playerRoom: make(map[string]string),
		channel:    channel,
		publisher:  publisher,
		validator:  NewStateValidator(config.Validator),
		timers:     scheduler.NewScheduler(),
		config:     config,
		now:        time.Now,
	}
}

func graceKey(playerId string) string { return "grace:" + playerId }
func cleanupKey(roomId string) string { return "cleanup:" + roomId }

// CreateRoom allocates a room with status waiting. It does not seat
// the creator; the client follows up with a join, by convention
// immediately.
func (service *SessionService) CreateRoom(hostId, gameId string, patch *schemas.SettingsPatch) (schemas.RoomState, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	room := entities.NewRoom(
		bson.NewObjectID().Hex(),
		gameId,
		hostId,
		entities.MergeSettings(patch),
		service.now(),
	)

	service.rooms[room.Id] = room

	if service.publisher != nil {
		message, err := schemas.RoomCreatedBrokerEvent(room.Id, room.GameId, room.HostId)

		if err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not create RoomCreated event"),
				zap.String("roomId", room.Id),
			)
		} else if err := service.publisher.Publish(message); err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not publish RoomCreated event"),
				zap.String("roomId", room.Id),
			)
		}
	}

	return room.State(), nil
}

// JoinRoom seats an authenticated player. Joining while a member of
// another room leaves that room first.
func (service *SessionService) JoinRoom(roomId string, identity Identity) (schemas.RoomState, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	room, exists := service.rooms[roomId]

	if !exists {
		return schemas.RoomState{}, RoomNotFound
	}

	// Re-joining the current room is idempotent.
	if _, seated := room.Players[identity.Id]; seated {
		return room.State(), nil
	}

	if len(room.Players) >= room.Settings.MaxPlayers {
		return schemas.RoomState{}, RoomFull
	}

	if !room.CanJoin() {
		return schemas.RoomState{}, RoomNotJoinable
	}

	if previous, indexed := service.playerRoom[identity.Id]; indexed && previous != roomId {
		service.leaveLocked(identity.Id)
	}

	now := service.now()
	player := entities.NewPlayer(identity.Id, identity.Username, identity.AvatarId, now)

	// The first seated player holds host rights even when the creator
	// never showed up.
	if len(room.Players) == 0 || identity.Id == room.HostId {
		player.IsHost = true
		room.HostId = identity.Id
	}

	room.Players[identity.Id] = player
	service.playerRoom[identity.Id] = roomId
	service.channel.JoinGroup(roomId, identity.Id)
	room.Touch(now)

	message, err := schemas.PlayerJoinedEvent(player.Info())
	service.emit(roomId, message, err)

	return room.State(), nil
}

// LeaveRoom removes a player from their current room, reassigning the
// host or deleting the room as needed.
func (service *SessionService) LeaveRoom(playerId string) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	return service.leaveLocked(playerId)
}

// leaveLocked is the shared leave path for voluntary leaves, kicks and
// grace-window expiry. Caller holds the mutex.
func (service *SessionService) leaveLocked(playerId string) error {
	roomId, indexed := service.playerRoom[playerId]

	if !indexed {
		return PlayerNotInRoom
	}

	room := service.rooms[roomId]

	delete(room.Players, playerId)
	delete(service.playerRoom, playerId)
	service.channel.LeaveGroup(roomId, playerId)
	service.timers.Cancel(graceKey(playerId))
	room.Touch(service.now())

	if len(room.Players) == 0 {
		service.deleteRoomLocked(roomId)
		return nil
	}

	message, err := schemas.PlayerLeftEvent(playerId)
	service.emit(roomId, message, err)

	if room.HostId == playerId {
		for id, player := range room.Players {
			player.IsHost = true
			room.HostId = id
			break
		}

		message, err := schemas.HostChangedEvent(room.HostId)
		service.emit(roomId, message, err)
	}

	return nil
}

// deleteRoomLocked drops a room, its index entries and its channel
// group. Caller holds the mutex.
func (service *SessionService) deleteRoomLocked(roomId string) {
	room, exists := service.rooms[roomId]

	if !exists {
		return
	}

	for playerId := range room.Players {
		delete(service.playerRoom, playerId)
		service.timers.Cancel(graceKey(playerId))
	}

	delete(service.rooms, roomId)
	service.channel.CloseGroup(roomId)
}

// SetReady toggles a player's ready flag and notifies the room.
func (service *SessionService) SetReady(playerId string, ready bool) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	roomId, room, player, err := service.locatePlayer(playerId)

	if err != nil {
		return err
	}

	player.IsReady = ready
	room.Touch(service.now())

	message, encodeErr := schemas.PlayerReadyChangedEvent(playerId, ready)
	service.emit(roomId, message, encodeErr)

	return nil
}

// UpdateGameState stores a player's reported state and relays it to
// every other room member. When the room has anti-cheat enabled the
// update must pass the plausibility filter first; rejected updates are
// dropped without a reply.
func (service *SessionService) UpdateGameState(playerId string, update schemas.GameStateSyncMessage) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	roomId, room, player, err := service.locatePlayer(playerId)

	if err != nil {
		return err
	}

	if room.Settings.AntiCheatEnabled {
		if err := service.validator.Validate(update); err != nil {
			logx.Logger.Debug(
				"dropping implausible state update",
				zap.String("playerId", playerId),
				zap.String("roomId", roomId),
				zap.String("reason", err.Error()),
			)
			return err
		}
	}

	now := service.now()
	player.GameState = update.GameState
	player.LastPing = now
	room.Touch(now)

	message, encodeErr := schemas.GameStateUpdateEvent(playerId, update.GameState, update.Timestamp)
	service.emitExcept(roomId, playerId, message, encodeErr)

	return nil
}

// RelayInput forwards a raw input frame to every other room member.
// Inputs are never validated or interpreted.
func (service *SessionService) RelayInput(playerId string, input schemas.PlayerInputMessage) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	roomId, room, player, err := service.locatePlayer(playerId)

	if err != nil {
		return err
	}

	now := service.now()
	player.LastPing = now
	room.Touch(now)

	message, encodeErr := schemas.PlayerInputEvent(playerId, input.Input, input.Timestamp)
	service.emitExcept(roomId, playerId, message, encodeErr)

	return nil
}

// StartGame moves a room from waiting to playing. Host only, and every
// seated player must be ready.
func (service *SessionService) StartGame(roomId, requesterId string) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	room, exists := service.rooms[roomId]

	if !exists {
		return RoomNotFound
	}

	if room.Status != entities.StatusWaiting {
		return InvalidStatus
	}

	if room.HostId != requesterId {
		return NotHost
	}

	if len(room.Players) == 0 || !room.AllReady() {
		return PlayersNotReady
	}

	room.Status = entities.StatusPlaying
	room.Touch(service.now())

	message, err := schemas.GameStartedEvent(roomId, room.Settings, room.GameState)
	service.emit(roomId, message, err)

	return nil
}

// EndGame moves a room from playing to finished and schedules its
// deletion after the finished-room TTL. The delay is fixed; it cannot
// be extended or cancelled.
func (service *SessionService) EndGame(roomId, requesterId string, results json.RawMessage) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	room, exists := service.rooms[roomId]

	if !exists {
		return RoomNotFound
	}

	if room.HostId != requesterId {
		return NotHost
	}

	if room.Status != entities.StatusPlaying {
		return InvalidStatus
	}

	room.Status = entities.StatusFinished
	room.Touch(service.now())

	message, err := schemas.GameEndedEvent(roomId, results)
	service.emit(roomId, message, err)

	if service.publisher != nil {
		event, err := schemas.GameEndedBrokerEvent(roomId, room.GameId)

		if err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not create GameEnded event"),
				zap.String("roomId", roomId),
			)
		} else if err := service.publisher.Publish(event); err != nil {
			logx.Logger.Error(
				err.Error(),
				zap.String("desc", "could not publish GameEnded event"),
				zap.String("roomId", roomId),
			)
		}
	}

	service.timers.Schedule(cleanupKey(roomId), service.config.FinishedRoomTTL, func() {
		service.mutex.Lock()
		defer service.mutex.Unlock()

		if room, exists := service.rooms[roomId]; exists && room.Status == entities.StatusFinished {
			service.deleteRoomLocked(roomId)

			logx.Logger.Info(
				"reclaimed finished room",
				zap.String("roomId", roomId),
			)
		}
	})

	return nil
}

// Chat broadcasts a chat line to the sender's room. Oversized messages
// are dropped without a reply.
func (service *SessionService) Chat(playerId, text string) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	if len(text) > service.config.MaxChatLength {
		return ChatTooLong
	}

	roomId, room, player, err := service.locatePlayer(playerId)

	if err != nil {
		return err
	}

	now := service.now()
	room.Touch(now)

	message, encodeErr := schemas.ChatMessageEvent(playerId, player.Username, text, now)
	service.emit(roomId, message, encodeErr)

	return nil
}

// Kick removes a player on the host's request. Kicking someone who is
// not in the host's room is a no-op; the target gets no notice.
func (service *SessionService) Kick(requesterId, targetId string) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	roomId, room, _, err := service.locatePlayer(requesterId)

	if err != nil {
		return err
	}

	if room.HostId != requesterId {
		return NotHost
	}

	if _, seated := room.Players[targetId]; !seated {
		return nil
	}

	message, encodeErr := schemas.KickedFromRoomEvent(roomId, "kicked by host")
	service.emitTo(targetId, message, encodeErr)

	return service.leaveLocked(targetId)
}

// Ping refreshes the player's liveness and derives their latency from
// the echoed client timestamp.
func (service *SessionService) Ping(playerId string, timestamp int64) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	_, _, player, err := service.locatePlayer(playerId)

	if err != nil {
		return
	}

	now := service.now()
	player.LastPing = now

	if latency := now.UnixMilli() - timestamp; latency >= 0 {
		player.Performance.Latency = float64(latency)
	}
}

// UpdatePerformance stores client-reported telemetry. Advisory only,
// never broadcast.
func (service *SessionService) UpdatePerformance(playerId string, report schemas.PerformanceUpdateMessage) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	_, _, player, err := service.locatePlayer(playerId)

	if err != nil {
		return err
	}

	player.Performance.Fps = report.Fps
	player.Performance.PacketLoss = report.PacketLoss

	return nil
}

// Disconnect opens the reconnect grace window for a player who lost
// their connection. The seat is kept until the window expires.
func (service *SessionService) Disconnect(playerId string) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	roomId, _, player, err := service.locatePlayer(playerId)

	if err != nil {
		return
	}

	player.IsConnected = false

	message, encodeErr := schemas.PlayerDisconnectedEvent(playerId)
	service.emitExcept(roomId, playerId, message, encodeErr)

	service.timers.Schedule(graceKey(playerId), service.config.ReconnectGrace, func() {
		service.mutex.Lock()
		defer service.mutex.Unlock()

		currentRoom, indexed := service.playerRoom[playerId]

		if !indexed || currentRoom != roomId {
			return
		}

		if player, seated := service.rooms[currentRoom].Players[playerId]; seated && !player.IsConnected {
			service.leaveLocked(playerId)
		}
	})
}

// Reconnect restores a player inside the grace window. The caller gets
// the current room snapshot so the client can resynchronize.
func (service *SessionService) Reconnect(playerId, roomId string) (schemas.RoomState, error) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	indexedRoom, indexed := service.playerRoom[playerId]

	if !indexed || indexedRoom != roomId {
		return schemas.RoomState{}, RoomNotFound
	}

	room := service.rooms[roomId]
	player := room.Players[playerId]

	player.IsConnected = true
	player.LastPing = service.now()
	service.timers.Cancel(graceKey(playerId))
	service.channel.JoinGroup(roomId, playerId)
	room.Touch(service.now())

	message, err := schemas.PlayerReconnectedEvent(playerId)
	service.emit(roomId, message, err)

	return room.State(), nil
}

// RoomOf returns the room a player currently occupies.
func (service *SessionService) RoomOf(playerId string) (string, bool) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	roomId, exists := service.playerRoom[playerId]

	return roomId, exists
}

// GetRoom returns a snapshot of a single room.
func (service *SessionService) GetRoom(roomId string) (schemas.RoomState, bool) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	room, exists := service.rooms[roomId]

	if !exists {
		return schemas.RoomState{}, false
	}

	return room.State(), true
}

// RoomList returns the public room browser: waiting, non-private
// rooms, optionally filtered by game, capped at the configured limit.
func (service *SessionService) RoomList(gameId string) []schemas.RoomSummary {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	summaries := make([]schemas.RoomSummary, 0)

	for _, room := range service.rooms {
		if room.Settings.IsPrivate || room.Status != entities.StatusWaiting {
			continue
		}

		if gameId != "" && room.GameId != gameId {
			continue
		}

		summaries = append(summaries, room.Summary())

		if len(summaries) >= service.config.RoomListLimit {
			break
		}
	}

	return summaries
}

// SessionStats is an observability snapshot of the live session set.
type SessionStats struct {
	Rooms    int            `json:"rooms"`
	Players  int            `json:"players"`
	ByGame   map[string]int `json:"byGame"`
	ByStatus map[string]int `json:"byStatus"`
}

func (service *SessionService) Stats() SessionStats {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	stats := SessionStats{
		Rooms:    len(service.rooms),
		ByGame:   make(map[string]int),
		ByStatus: make(map[string]int),
	}

	for _, room := range service.rooms {
		stats.Players += len(room.Players)
		stats.ByGame[room.GameId]++
		stats.ByStatus[room.Status]++
	}

	return stats
}

// Sweep closes every room idle past the threshold. This is the only
// path that removes a non-empty room wholesale.
func (service *SessionService) Sweep() {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	now := service.now()

	for roomId, room := range service.rooms {
		if now.Sub(room.LastActivity) <= service.config.IdleThreshold {
			continue
		}

		message, err := schemas.RoomClosedEvent(roomId, "idle")
		service.emit(roomId, message, err)

		service.deleteRoomLocked(roomId)

		logx.Logger.Info(
			"reaped idle room",
			zap.String("roomId", roomId),
			zap.String("gameId", room.GameId),
		)
	}
}

// BroadcastSnapshots pushes a full room snapshot to each active room
// group so clients can correct for dropped relay frames.
func (service *SessionService) BroadcastSnapshots() {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	now := service.now()

	for roomId, room := range service.rooms {
		message, err := schemas.RoomStateSyncEvent(room.State(), now)
		service.emit(roomId, message, err)
	}
}

// Stop cancels every pending grace and cleanup timer.
func (service *SessionService) Stop() {
	service.timers.Stop()
}

// locatePlayer resolves a player id into their room and record.
// Caller holds the mutex.
func (service *SessionService) locatePlayer(playerId string) (string, *entities.Room, *entities.Player, error) {
	roomId, indexed := service.playerRoom[playerId]

	if !indexed {
		return "", nil, nil, PlayerNotInRoom
	}

	room := service.rooms[roomId]
	player := room.Players[playerId]

	return roomId, room, player, nil
}

func (service *SessionService) emit(roomId string, message []byte, err error) {
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not encode event"),
			zap.String("roomId", roomId),
		)
		return
	}

	service.channel.Broadcast(roomId, message)
}

func (service *SessionService) emitExcept(roomId, exceptId string, message []byte, err error) {
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not encode event"),
			zap.String("roomId", roomId),
		)
		return
	}

	service.channel.BroadcastExcept(roomId, exceptId, message)
}

func (service *SessionService) emitTo(playerId string, message []byte, err error) {
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not encode event"),
			zap.String("playerId", playerId),
		)
		return
	}

	service.channel.Send(playerId, message)
}
