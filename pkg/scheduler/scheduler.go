package scheduler

import (
	"sync"
	"time"
)

// Scheduler runs named one-shot tasks after a delay. A task scheduled
// under a key that is already pending replaces the previous one, and a
// pending task can be cancelled by key. Fired or cancelled tasks are
// removed from the table, so keys are reusable.
type Scheduler struct {
	mutex  sync.Mutex
	timers map[string]*time.Timer
}

func NewScheduler() *Scheduler {
	return &Scheduler{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule runs fn after delay unless the key is cancelled first.
func (scheduler *Scheduler) Schedule(key string, delay time.Duration, fn func()) {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()

	if timer, exists := scheduler.timers[key]; exists {
		timer.Stop()
	}

	scheduler.timers[key] = time.AfterFunc(delay, func() {
		scheduler.mutex.Lock()
		delete(scheduler.timers, key)
		scheduler.mutex.Unlock()

		fn()
	})
}

// Cancel stops a pending task. It reports whether a task was pending;
// cancelling an unknown key is a no-op.
func (scheduler *Scheduler) Cancel(key string) bool {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()

	timer, exists := scheduler.timers[key]

	if !exists {
		return false
	}

	delete(scheduler.timers, key)

	return timer.Stop()
}

// Stop cancels every pending task.
func (scheduler *Scheduler) Stop() {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()

	for key, timer := range scheduler.timers {
		timer.Stop()
		delete(scheduler.timers, key)
	}
}

// Pending reports whether a task is scheduled under key.
func (scheduler *Scheduler) Pending(key string) bool {
	scheduler.mutex.Lock()
	defer scheduler.mutex.Unlock()

	_, exists := scheduler.timers[key]

	return exists
}
