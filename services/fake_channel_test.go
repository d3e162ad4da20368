package services

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/H4ZEY86/Opure-Nexus-sub003/schemas"
	"github.com/stretchr/testify/require"
)

// fakeChannel records every broadcast and unicast so tests can assert
// on the exact event traffic a session operation produced.
type fakeChannel struct {
	mutex sync.Mutex

	groups     map[string]map[string]struct{}
	broadcasts []recordedFrame
	unicasts   []recordedFrame
}

type recordedFrame struct {
	group    string
	exceptId string
	clientId string
	message  []byte
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{
		groups: make(map[string]map[string]struct{}),
	}
}

func (fake *fakeChannel) JoinGroup(group, clientId string) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	if fake.groups[group] == nil {
		fake.groups[group] = make(map[string]struct{})
	}

	fake.groups[group][clientId] = struct{}{}
}

func (fake *fakeChannel) LeaveGroup(group, clientId string) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	delete(fake.groups[group], clientId)
}

func (fake *fakeChannel) CloseGroup(group string) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	delete(fake.groups, group)
}

func (fake *fakeChannel) Broadcast(group string, message []byte) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fake.broadcasts = append(fake.broadcasts, recordedFrame{group: group, message: message})
}

func (fake *fakeChannel) BroadcastExcept(group, exceptId string, message []byte) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fake.broadcasts = append(fake.broadcasts, recordedFrame{group: group, exceptId: exceptId, message: message})
}

func (fake *fakeChannel) Send(clientId string, message []byte) {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	fake.unicasts = append(fake.unicasts, recordedFrame{clientId: clientId, message: message})
}

// broadcastTypes returns the event types broadcast to a group, in order.
func (fake *fakeChannel) broadcastTypes(t *testing.T, group string) []string {
	t.Helper()

	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	types := make([]string, 0)

	for _, frame := range fake.broadcasts {
		if frame.group != group {
			continue
		}

		var event schemas.Event
		require.NoError(t, json.Unmarshal(frame.message, &event))
		types = append(types, event.Type)
	}

	return types
}

// unicastTypes returns the event types sent to a single client, in order.
func (fake *fakeChannel) unicastTypes(t *testing.T, clientId string) []string {
	t.Helper()

	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	types := make([]string, 0)

	for _, frame := range fake.unicasts {
		if frame.clientId != clientId {
			continue
		}

		var event schemas.Event
		require.NoError(t, json.Unmarshal(frame.message, &event))
		types = append(types, event.Type)
	}

	return types
}

func (fake *fakeChannel) groupMembers(group string) []string {
	fake.mutex.Lock()
	defer fake.mutex.Unlock()

	members := make([]string, 0, len(fake.groups[group]))

	for id := range fake.groups[group] {
		members = append(members, id)
	}

	return members
}

func countOf(types []string, eventType string) int {
	count := 0

	for _, t := range types {
		if t == eventType {
			count++
		}
	}

	return count
}
