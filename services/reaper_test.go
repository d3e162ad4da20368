package services

import (
	"context"
	"testing"
	"time"

	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
	"github.com/stretchr/testify/require"
)

func TestIdleReaperLoop(t *testing.T) {
	config := DefaultSessionConfig()
	config.ReaperInterval = 10 * time.Millisecond
	config.IdleThreshold = 20 * time.Millisecond

	service, _ := newTestService(config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go NewIdleReaper(service).Run(ctx)

	roomId := createAndJoin(t, service, "host", nil)

	require.Eventually(t, func() bool {
		_, exists := service.GetRoom(roomId)
		return !exists
	}, time.Second, 5*time.Millisecond)
}

func TestStateBroadcasterLoop(t *testing.T) {
	config := DefaultSessionConfig()
	config.ResyncInterval = 10 * time.Millisecond

	service, fake := newTestService(config)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go NewStateBroadcaster(service).Run(ctx)

	roomId := createAndJoin(t, service, "host", nil)

	require.Eventually(t, func() bool {
		return countOf(fake.broadcastTypes(t, roomId), schemas.EventRoomStateSync) > 0
	}, time.Second, 5*time.Millisecond)
}
