// Package reconcile keeps a client's local view of one open conversation
// consistent with server state and push events. Sends are optimistic: an
// entry appears immediately as pending under a correlation token, then is
// replaced by the server's persisted message on ack or removed on failure.
//
// A Conversation is driven from a single goroutine, mirroring one logical
// thread of control per connection; it is not safe for concurrent use.
package reconcile

import (
	"errors"

	"github.com/shashibhushan21/Chat-App32/internal/models"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a local entry
type Status int

const (
	// StatusPending is an optimistic local entry awaiting server ack
	StatusPending Status = iota
	// StatusConfirmed is an entry backed by a persisted server message
	StatusConfirmed
)

var (
	ErrUnknownCorrelation = errors.New("reconcile: unknown correlation token")
	ErrUnknownMessage     = errors.New("reconcile: unknown message id")
)

// Entry is one message in the local view
type Entry struct {
	// CorrelationID matches a pending entry to its server ack. Stable across
	// the pending->confirmed transition.
	CorrelationID string
	Status        Status
	Message       models.Message
}

// Conversation is the local view of the currently open conversation between
// the local user and one peer.
type Conversation struct {
	selfID string
	peerID string

	entries []*Entry
	byCorr  map[string]*Entry
	byMsgID map[string]*Entry

	// unread counts pushed messages from other peers while this
	// conversation is open
	unread map[string]int
}

// NewConversation opens the local view for the conversation with peerID
func NewConversation(selfID, peerID string) *Conversation {
	return &Conversation{
		selfID:  selfID,
		peerID:  peerID,
		byCorr:  make(map[string]*Entry),
		byMsgID: make(map[string]*Entry),
		unread:  make(map[string]int),
	}
}

// Load replaces the view with server history, e.g. after a conversation
// fetch. Pending entries are preserved at the tail.
func (c *Conversation) Load(history []models.Message) {
	var pending []*Entry
	for _, e := range c.entries {
		if e.Status == StatusPending {
			pending = append(pending, e)
		}
	}

	c.entries = nil
	c.byMsgID = make(map[string]*Entry)
	for _, msg := range history {
		e := &Entry{Status: StatusConfirmed, Message: msg}
		c.entries = append(c.entries, e)
		c.byMsgID[msg.ID] = e
	}
	c.entries = append(c.entries, pending...)
}

// Submit appends an optimistic pending entry for a local send and returns
// the correlation token to hand back on ack or failure.
func (c *Conversation) Submit(text string, images []string) string {
	corrID := uuid.New().String()
	e := &Entry{
		CorrelationID: corrID,
		Status:        StatusPending,
		Message: models.Message{
			SenderID:   c.selfID,
			ReceiverID: c.peerID,
			Text:       text,
			Images:     images,
		},
	}
	c.entries = append(c.entries, e)
	c.byCorr[corrID] = e
	return corrID
}

// Confirm replaces the pending entry with the server's persisted message,
// keeping its position in the view.
func (c *Conversation) Confirm(corrID string, msg models.Message) error {
	e, ok := c.byCorr[corrID]
	if !ok {
		return ErrUnknownCorrelation
	}
	delete(c.byCorr, corrID)
	e.Status = StatusConfirmed
	e.Message = msg
	c.byMsgID[msg.ID] = e
	return nil
}

// Fail removes the pending entry after a server failure so the client can
// surface the error without a ghost message.
func (c *Conversation) Fail(corrID string) error {
	e, ok := c.byCorr[corrID]
	if !ok {
		return ErrUnknownCorrelation
	}
	delete(c.byCorr, corrID)
	for i, cur := range c.entries {
		if cur == e {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			break
		}
	}
	return nil
}

// ApplyNewMessage handles a newMessage push event. Messages from the open
// conversation's peer are appended; messages from other peers only bump that
// peer's unread count, keeping the open view uncorrupted. Returns true if
// the message was appended to the view.
func (c *Conversation) ApplyNewMessage(msg models.Message) bool {
	if msg.ReceiverID != c.selfID {
		return false
	}
	if msg.SenderID != c.peerID {
		c.unread[msg.SenderID]++
		return false
	}
	if _, seen := c.byMsgID[msg.ID]; seen {
		return false
	}
	e := &Entry{Status: StatusConfirmed, Message: msg}
	c.entries = append(c.entries, e)
	c.byMsgID[msg.ID] = e
	return true
}

// ApplyRead handles a messageRead push event: flip the message to read by
// id, whichever conversation it belongs to. Read never moves backward.
func (c *Conversation) ApplyRead(messageID string) error {
	e, ok := c.byMsgID[messageID]
	if !ok {
		return ErrUnknownMessage
	}
	e.Message.Read = true
	return nil
}

// UnreadIncoming returns the ids of confirmed messages in the view that were
// sent by the peer and not yet read. The client issues markRead for each
// and then calls MarkReadLocal.
func (c *Conversation) UnreadIncoming() []string {
	var ids []string
	for _, e := range c.entries {
		if e.Status == StatusConfirmed && e.Message.SenderID == c.peerID && !e.Message.Read {
			ids = append(ids, e.Message.ID)
		}
	}
	return ids
}

// MarkReadLocal flips local state after the server acknowledged a markRead
func (c *Conversation) MarkReadLocal(messageIDs ...string) {
	for _, id := range messageIDs {
		if e, ok := c.byMsgID[id]; ok {
			e.Message.Read = true
		}
	}
}

// UnreadFrom reports how many pushed messages from another peer arrived
// while this conversation was open.
func (c *Conversation) UnreadFrom(peerID string) int {
	return c.unread[peerID]
}

// ClearUnread resets the unread count for a peer, e.g. when switching to
// that conversation.
func (c *Conversation) ClearUnread(peerID string) {
	delete(c.unread, peerID)
}

// Entries returns the view in order: confirmed history followed by any
// in-flight pending sends.
func (c *Conversation) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	for i, e := range c.entries {
		out[i] = *e
	}
	return out
}

// PendingCount reports in-flight optimistic sends
func (c *Conversation) PendingCount() int {
	return len(c.byCorr)
}
