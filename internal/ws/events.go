package ws

import "time"

// Event names the kind of a pushed message. Names are the wire contract the
// web client listens on.
type Event string

const (
	// EventNewMessage carries a full persisted message to its receiver.
	EventNewMessage Event = "newMessage"
	// EventMessageRead carries {messageId, readerUserId} to the original sender.
	EventMessageRead Event = "messageRead"

	// Presence transitions, broadcast to everyone except the subject.
	EventUserOnline  Event = "userOnline"
	EventUserOffline Event = "userOffline"
	// EventOnlineUsers is the full online-id snapshot sent to a client on connect.
	EventOnlineUsers Event = "getOnlineUsers"

	// Call signaling relay. The server only forwards; the call itself is the
	// video SDK's business.
	EventCallUser     Event = "callUser"
	EventCallAccepted Event = "callAccepted"
	EventCallEnded    Event = "callEnded"

	EventError Event = "error"
)

// Envelope is the frame written to every live connection
type Envelope struct {
	Event     Event       `json:"event"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// PresencePayload announces one user's presence transition
type PresencePayload struct {
	UserID   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// CallSignal is an opaque signaling frame relayed between the two call
// parties. Data is whatever the SDK on the client side needs.
type CallSignal struct {
	FromUserID string      `json:"fromUserId"`
	ToUserID   string      `json:"toUserId"`
	Data       interface{} `json:"data,omitempty"`
}

// IncomingMessage is a frame received from a client over the socket
type IncomingMessage struct {
	Event   Event                  `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}
