package services

import (
	"errors"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"
	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/syncx"
	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
	"go.uber.org/zap"
)

// Dispatcher routes decoded inbound frames to session operations and
// unicasts replies to the sender. It also caches the authenticated
// identity of each live connection, handed over by the transport
// binding at connect time.
type Dispatcher struct {
	sessions   *SessionService
	channel    Channel
	identities syncx.Map[string, Identity]
}

func NewDispatcher(sessions *SessionService, channel Channel) *Dispatcher {
	return &Dispatcher{
		sessions: sessions,
		channel:  channel,
	}
}

// HandleConnect registers the identity behind a new connection.
func (dispatcher *Dispatcher) HandleConnect(identity Identity) {
	dispatcher.identities.Store(identity.Id, identity)
}

// HandleDisconnect opens the grace window for the dropped player.
func (dispatcher *Dispatcher) HandleDisconnect(playerId string) {
	dispatcher.identities.Delete(playerId)
	dispatcher.sessions.Disconnect(playerId)
}

// HandleMessage decodes one inbound frame and applies it. Per-room
// ordering holds because the transport delivers each connection's
// frames in order and the session service serializes mutations.
func (dispatcher *Dispatcher) HandleMessage(playerId string, raw []byte) {
	decoded, err := schemas.Decode(raw)

	if err != nil {
		logx.Logger.Info(
			err.Error(),
			zap.String("desc", "could not decode inbound frame"),
			zap.String("playerId", playerId),
		)
		return
	}

	switch message := decoded.(type) {
	case *schemas.CreateRoomMessage:
		dispatcher.createRoom(playerId, message)
	case *schemas.JoinRoomMessage:
		dispatcher.joinRoom(playerId, message)
	case *schemas.LeaveRoomMessage:
		if err := dispatcher.sessions.LeaveRoom(playerId); err != nil {
			dispatcher.logRejection("leave_room", playerId, err)
		}
	case *schemas.PlayerReadyMessage:
		if err := dispatcher.sessions.SetReady(playerId, message.Ready); err != nil {
			dispatcher.logRejection("player_ready", playerId, err)
		}
	case *schemas.StartGameMessage:
		dispatcher.startGame(playerId)
	case *schemas.GameStateSyncMessage:
		// Rejected updates are dropped without a reply; the periodic
		// resync keeps slow or misbehaving clients consistent.
		if err := dispatcher.sessions.UpdateGameState(playerId, *message); err != nil {
			dispatcher.logRejection("game_state_sync", playerId, err)
		}
	case *schemas.PlayerInputMessage:
		if err := dispatcher.sessions.RelayInput(playerId, *message); err != nil {
			dispatcher.logRejection("player_input", playerId, err)
		}
	case *schemas.GameEndMessage:
		dispatcher.endGame(playerId, message)
	case *schemas.GetRoomListMessage:
		reply, err := schemas.RoomListEvent(dispatcher.sessions.RoomList(message.GameId))
		dispatcher.reply(playerId, reply, err)
	case *schemas.PingMessage:
		dispatcher.sessions.Ping(playerId, message.Timestamp)

		reply, err := schemas.PingResponseEvent(message.Timestamp, dispatcher.sessions.now())
		dispatcher.reply(playerId, reply, err)
	case *schemas.PerformanceUpdateMessage:
		if err := dispatcher.sessions.UpdatePerformance(playerId, *message); err != nil {
			dispatcher.logRejection("performance_update", playerId, err)
		}
	case *schemas.ChatMessageMessage:
		if err := dispatcher.sessions.Chat(playerId, message.Message); err != nil {
			dispatcher.logRejection("chat_message", playerId, err)
		}
	case *schemas.KickPlayerMessage:
		if err := dispatcher.sessions.Kick(playerId, message.PlayerId); err != nil {
			dispatcher.logRejection("kick_player", playerId, err)
		}
	case *schemas.ReconnectToRoomMessage:
		dispatcher.reconnect(playerId, message)
	}
}

func (dispatcher *Dispatcher) createRoom(playerId string, message *schemas.CreateRoomMessage) {
	room, err := dispatcher.sessions.CreateRoom(playerId, message.GameId, message.Settings)

	if err != nil {
		reply, encodeErr := schemas.RoomErrorEvent(err.Error())
		dispatcher.reply(playerId, reply, encodeErr)
		return
	}

	reply, encodeErr := schemas.RoomCreatedEvent(room)
	dispatcher.reply(playerId, reply, encodeErr)
}

func (dispatcher *Dispatcher) joinRoom(playerId string, message *schemas.JoinRoomMessage) {
	identity, known := dispatcher.identities.Load(playerId)

	if !known {
		logx.Logger.Warn(
			"join from a connection with no cached identity",
			zap.String("playerId", playerId),
		)
		return
	}

	room, err := dispatcher.sessions.JoinRoom(message.RoomId, identity)

	if err != nil {
		reply, encodeErr := schemas.JoinRoomErrorEvent(message.RoomId, err.Error())
		dispatcher.reply(playerId, reply, encodeErr)
		return
	}

	reply, encodeErr := schemas.RoomJoinedEvent(room)
	dispatcher.reply(playerId, reply, encodeErr)
}

func (dispatcher *Dispatcher) startGame(playerId string) {
	roomId, exists := dispatcher.sessions.RoomOf(playerId)

	if !exists {
		dispatcher.replyError(playerId, PlayerNotInRoom)
		return
	}

	if err := dispatcher.sessions.StartGame(roomId, playerId); err != nil {
		dispatcher.replyError(playerId, err)
	}
}

func (dispatcher *Dispatcher) endGame(playerId string, message *schemas.GameEndMessage) {
	roomId, exists := dispatcher.sessions.RoomOf(playerId)

	if !exists {
		dispatcher.replyError(playerId, PlayerNotInRoom)
		return
	}

	if err := dispatcher.sessions.EndGame(roomId, playerId, message.Results); err != nil {
		dispatcher.replyError(playerId, err)
	}
}

func (dispatcher *Dispatcher) reconnect(playerId string, message *schemas.ReconnectToRoomMessage) {
	room, err := dispatcher.sessions.Reconnect(playerId, message.RoomId)

	if err != nil {
		reply, encodeErr := schemas.JoinRoomErrorEvent(message.RoomId, err.Error())
		dispatcher.reply(playerId, reply, encodeErr)
		return
	}

	reply, encodeErr := schemas.RoomStateSyncEvent(room, dispatcher.sessions.now())
	dispatcher.reply(playerId, reply, encodeErr)
}

func (dispatcher *Dispatcher) replyError(playerId string, err error) {
	reply, encodeErr := schemas.RoomErrorEvent(err.Error())
	dispatcher.reply(playerId, reply, encodeErr)
}

func (dispatcher *Dispatcher) reply(playerId string, message []byte, err error) {
	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not encode reply"),
			zap.String("playerId", playerId),
		)
		return
	}

	dispatcher.channel.Send(playerId, message)
}

// logRejection records silently-dropped frames. Policy rejections are
// recoverable and never fatal to the connection.
func (dispatcher *Dispatcher) logRejection(messageType, playerId string, err error) {
	if errors.Is(err, PlayerNotInRoom) || errors.Is(err, ChatTooLong) {
		logx.Logger.Debug(
			"dropped frame",
			zap.String("type", messageType),
			zap.String("playerId", playerId),
			zap.String("reason", err.Error()),
		)
		return
	}

	logx.Logger.Info(
		err.Error(),
		zap.String("desc", "rejected frame"),
		zap.String("type", messageType),
		zap.String("playerId", playerId),
	)
}
