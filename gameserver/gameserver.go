package gameserver

import (
	"context"

	"github.com/H4ZEY86/Opure-Nexus-sub003/handlers"
	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/channel"
	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"
	"github.com/H4ZEY86/Opure-Nexus-sub003/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// GameServer wires the session core to its transport, publisher and
// background loops. Each instance is fully isolated; construct one per
// process at the top level, or several in tests.
type GameServer struct {
	router   *chi.Mux
	hub      *channel.Hub
	sessions *services.SessionService
}

// NewGameServer creates a session server from the provided configuration.
func NewGameServer(config Config) *GameServer {
	logx.NewLogger()

	ctx := config.Context

	if ctx == nil {
		ctx = context.Background()
	}

	hub := channel.NewHub()

	publisherService := services.NewPublisherService(
		config.Publisher.Redis.Host,
		config.Publisher.Redis.Port,
		config.Publisher.Redis.Password,
	)

	sessionService := services.NewSessionService(hub, publisherService, config.Session)

	dispatcher := services.NewDispatcher(sessionService, hub)

	hub.OnMessage = dispatcher.HandleMessage
	hub.OnDisconnect = dispatcher.HandleDisconnect

	router := chi.NewRouter()
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   config.Router.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	identityResolver := services.NewJWTIdentityResolver(config.Auth.JWTSecret)

	handlers.NewSessionHandler(
		router,
		hub,
		dispatcher,
		sessionService,
		identityResolver,
		config.Router.AllowedOrigins,
	)

	go services.NewIdleReaper(sessionService).Run(ctx)
	go services.NewStateBroadcaster(sessionService).Run(ctx)

	go func() {
		<-ctx.Done()
		sessionService.Stop()
		hub.Shutdown()
	}()

	return &GameServer{
		router:   router,
		hub:      hub,
		sessions: sessionService,
	}
}

// GetRouter returns the configured router
func (gs *GameServer) GetRouter() *chi.Mux {
	return gs.router
}

// GetHub returns the hub instance
func (gs *GameServer) GetHub() *channel.Hub {
	return gs.hub
}

// GetSessions returns the session service instance
func (gs *GameServer) GetSessions() *services.SessionService {
	return gs.sessions
}
