package services

// Channel is the bidirectional, group-capable transport the session
// core broadcasts through. Groups are keyed by room id and members by
// player id. Every call is fire-and-forget; delivery is best effort
// and corrected by the periodic room resync.
type Channel interface {
	JoinGroup(group, clientId string)
	LeaveGroup(group, clientId string)
	CloseGroup(group string)
	Broadcast(group string, message []byte)
	BroadcastExcept(group, exceptId string, message []byte)
	Send(clientId string, message []byte)
}
