package services

import (
	"context"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/logx"
)

// IdleReaper periodically closes rooms whose last activity is older
// than the idle threshold.
type IdleReaper struct {
	sessions *SessionService
	interval time.Duration
}

func NewIdleReaper(sessions *SessionService) *IdleReaper {
	return &IdleReaper{
		sessions: sessions,
		interval: sessions.config.ReaperInterval,
	}
}

func (reaper *IdleReaper) Run(ctx context.Context) {
	ticker := time.NewTicker(reaper.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Logger.Info("idle reaper stopped")
			return
		case <-ticker.C:
			reaper.sessions.Sweep()
		}
	}
}

// StateBroadcaster pushes full room snapshots on a short period so
// clients recover from dropped relay frames. Independent of the room
// core's per-message path.
type StateBroadcaster struct {
	sessions *SessionService
	interval time.Duration
}

func NewStateBroadcaster(sessions *SessionService) *StateBroadcaster {
	return &StateBroadcaster{
		sessions: sessions,
		interval: sessions.config.ResyncInterval,
	}
}

func (broadcaster *StateBroadcaster) Run(ctx context.Context) {
	ticker := time.NewTicker(broadcaster.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Logger.Info("state broadcaster stopped")
			return
		case <-ticker.C:
			broadcaster.sessions.BroadcastSnapshots()
		}
	}
}
