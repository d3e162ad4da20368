package handlers

import (
	"net/http"
	"slices"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/channel"
	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"
	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
	"github.com/H4ZEY86/Opure-Nexus-sub003/services"
	"github.com/go-chi/chi/v5"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type SessionHandler struct {
	hub        *channel.Hub
	dispatcher *services.Dispatcher
	sessions   *services.SessionService
	identities services.IdentityResolver
	upgrader   websocket.Upgrader
}

func NewSessionHandler(
	router *chi.Mux,
	hub *channel.Hub,
	dispatcher *services.Dispatcher,
	sessions *services.SessionService,
	identities services.IdentityResolver,
	allowedOrigins []string,
) {
	sessionHandler := SessionHandler{
		hub:        hub,
		dispatcher: dispatcher,
		sessions:   sessions,
		identities: identities,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}

	router.Get("/ws", sessionHandler.connect)
	router.Get("/rooms", sessionHandler.rooms)
	router.Get("/rooms/{id}", sessionHandler.room)
	router.Get("/stats", sessionHandler.stats)
	router.Get("/health", sessionHandler.health)
}

// connect authenticates the ticket, upgrades to a websocket and binds
// the connection to the session dispatcher. A second connection for
// the same player replaces the first.
func (sessionHandler SessionHandler) connect(w http.ResponseWriter, r *http.Request) {
	ticketId := r.URL.Query().Get("ticketId")

	if ticketId == "" {
		logx.Logger.Info("ticketId is not provided")
		w.WriteHeader(http.StatusUnprocessableEntity)
		return
	}

	identity, err := sessionHandler.identities.Resolve(ticketId)

	if err != nil {
		logx.Logger.Info(
			err.Error(),
			zap.String("desc", "could not resolve identity from ticket"),
		)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	connection, err := sessionHandler.upgrader.Upgrade(w, r, nil)

	if err != nil {
		logx.Logger.Error(
			err.Error(),
			zap.String("desc", "could not upgrade http request"),
		)
		return
	}

	sessionHandler.dispatcher.HandleConnect(identity)

	client := sessionHandler.hub.Register(identity.Id, connection)

	channel.Read(client, sessionHandler.hub)
}

// rooms is the HTTP face of the room browser, mirroring the
// get_room_list channel event for clients that poll before connecting.
func (sessionHandler SessionHandler) rooms(w http.ResponseWriter, r *http.Request) {
	gameId := r.URL.Query().Get("gameId")

	encode(sessionHandler.sessions.RoomList(gameId), w)
}

func (sessionHandler SessionHandler) room(w http.ResponseWriter, r *http.Request) {
	state, exists := sessionHandler.sessions.GetRoom(r.PathValue("id"))

	if !exists {
		w.WriteHeader(http.StatusNotFound)
		encode(schemas.ErrorResponse{Message: "Room not found."}, w)
		return
	}

	encode(state, w)
}

func (sessionHandler SessionHandler) stats(w http.ResponseWriter, r *http.Request) {
	encode(sessionHandler.sessions.Stats(), w)
}

func (sessionHandler SessionHandler) health(w http.ResponseWriter, r *http.Request) {
	encode(map[string]string{"status": "ok"}, w)
}
