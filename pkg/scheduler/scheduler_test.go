package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleFires(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var fired atomic.Int32

	s.Schedule("k", 10*time.Millisecond, func() { fired.Add(1) })

	require.Eventually(t, func() bool {
		return fired.Load() == 1
	}, time.Second, 5*time.Millisecond)

	assert.False(t, s.Pending("k"))
}

func TestCancelPreventsFiring(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var fired atomic.Int32

	s.Schedule("k", 20*time.Millisecond, func() { fired.Add(1) })
	assert.True(t, s.Cancel("k"))

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())

	assert.False(t, s.Cancel("k"), "cancelling an unknown key is a no-op")
}

func TestScheduleReplacesPendingKey(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	var first, second atomic.Int32

	s.Schedule("k", 20*time.Millisecond, func() { first.Add(1) })
	s.Schedule("k", 20*time.Millisecond, func() { second.Add(1) })

	require.Eventually(t, func() bool {
		return second.Load() == 1
	}, time.Second, 5*time.Millisecond)

	assert.Zero(t, first.Load())
}

func TestStopCancelsAll(t *testing.T) {
	s := NewScheduler()

	var fired atomic.Int32

	s.Schedule("a", 20*time.Millisecond, func() { fired.Add(1) })
	s.Schedule("b", 20*time.Millisecond, func() { fired.Add(1) })

	s.Stop()

	time.Sleep(60 * time.Millisecond)
	assert.Zero(t, fired.Load())
}
