package gameserver

import (
	"context"

	"github.com/H4ZEY86/Opure-Nexus-sub003/services"
)

// Config contains all configuration options for the session server.
type Config struct {
	// Context controls graceful shutdown. When cancelled, the reaper
	// and resync loops stop, pending timers are cancelled and every
	// client connection is closed.
	Context context.Context

	// Session carries the session-core tunables: grace window,
	// finished-room TTL, idle threshold, sweep and resync intervals,
	// room list cap, chat length limit and validator thresholds.
	Session services.SessionConfig

	Auth      AuthConfig
	Publisher PublisherConfig
	Router    RouterConfig
}

// AuthConfig configures ticket verification. Issuance is handled by
// the external auth service.
type AuthConfig struct {
	JWTSecret string
}

// PublisherConfig contains configuration for the publisher service
type PublisherConfig struct {
	Redis RedisConfig
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// RouterConfig contains router configuration
type RouterConfig struct {
	AllowedOrigins []string
}
