package channel

import (
	"sync"

	"github.com/H4ZEY86/Opure-Nexus-sub003/pkg/syncx"
	"github.com/gorilla/websocket"
)

const messageBufferSize = 50

// Hub owns every live client connection and the named groups used to
// broadcast to a room. Group membership is driven entirely by the
// session service, so the hub itself never inspects message contents.
type Hub struct {
	clients syncx.Map[string, *Client]

	mutex  sync.RWMutex
	groups map[string]map[string]struct{}

	// OnMessage receives every inbound frame together with the client
	// id that sent it.
	OnMessage func(clientId string, message []byte)
	// OnDisconnect fires when a client's connection drops without being
	// replaced by a newer one for the same id.
	OnDisconnect func(clientId string)
}

func NewHub() *Hub {
	return &Hub{
		groups: make(map[string]map[string]struct{}),
	}
}

// Register binds a connection to a client id and starts its write
// pump. An existing client under the same id is kicked first, so a
// duplicate tab or a reconnect silently replaces the old socket.
func (hub *Hub) Register(clientId string, connection *websocket.Conn) *Client {
	client := &Client{
		Id:         clientId,
		Connection: connection,
		Message:    make(chan []byte, messageBufferSize),
	}

	// Store before kicking the previous client so its read pump sees
	// itself replaced and does not report a disconnect.
	previous, existed := hub.clients.Load(clientId)

	hub.clients.Store(clientId, client)

	if existed {
		previous.Kick()
	}

	go client.Write()

	return client
}

// unregister drops a client unless a newer connection already replaced
// it under the same id.
func (hub *Hub) unregister(client *Client) {
	current, exists := hub.clients.Load(client.Id)

	if !exists || current != client {
		return
	}

	hub.clients.Delete(client.Id)

	if hub.OnDisconnect != nil {
		hub.OnDisconnect(client.Id)
	}
}

// Kick force-closes a client's connection and removes it. The
// disconnect callback is not invoked; the caller already knows.
func (hub *Hub) Kick(clientId string) {
	if client, exists := hub.clients.LoadAndDelete(clientId); exists {
		client.Kick()
	}
}

func (hub *Hub) JoinGroup(group, clientId string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	members, exists := hub.groups[group]

	if !exists {
		members = make(map[string]struct{})
		hub.groups[group] = members
	}

	members[clientId] = struct{}{}
}

func (hub *Hub) LeaveGroup(group, clientId string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	if members, exists := hub.groups[group]; exists {
		delete(members, clientId)

		if len(members) == 0 {
			delete(hub.groups, group)
		}
	}
}

// CloseGroup forgets a group without touching its clients.
func (hub *Hub) CloseGroup(group string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	delete(hub.groups, group)
}

func (hub *Hub) members(group string) []string {
	hub.mutex.RLock()
	defer hub.mutex.RUnlock()

	ids := make([]string, 0, len(hub.groups[group]))

	for id := range hub.groups[group] {
		ids = append(ids, id)
	}

	return ids
}

// Broadcast delivers a frame to every member of a group, best effort.
func (hub *Hub) Broadcast(group string, message []byte) {
	for _, id := range hub.members(group) {
		hub.Send(id, message)
	}
}

// BroadcastExcept delivers a frame to every group member but one,
// which is how state updates are relayed around their sender.
func (hub *Hub) BroadcastExcept(group, exceptId string, message []byte) {
	for _, id := range hub.members(group) {
		if id != exceptId {
			hub.Send(id, message)
		}
	}
}

// Send delivers a frame to a single client if it is connected. Unknown
// ids are a no-op.
func (hub *Hub) Send(clientId string, message []byte) {
	if client, exists := hub.clients.Load(clientId); exists {
		client.enqueue(message)
	}
}

// Shutdown kicks every client, usually on process exit.
func (hub *Hub) Shutdown() {
	hub.clients.Range(func(_ string, client *Client) bool {
		client.Kick()
		return true
	})
}
