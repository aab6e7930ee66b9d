package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Hub is the presence registry and push dispatcher in one: a single
// in-process table mapping user IDs to their live connections. A user may
// hold several connections at once (multi-tab); every push fans out to all
// of them. Nothing here is persisted and nothing here queues: if a user has
// no connection at notify time the event is dropped.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	log zerolog.Logger
}

// NewHub creates a new WebSocket hub
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		log:        log.With().Str("component", "ws_hub").Logger(),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.RegisterClient(client)
		case client := <-h.Unregister:
			h.UnregisterClient(client)
		}
	}
}

// RegisterClient adds a connection to the user's set. The user's first
// connection is an offline->online transition, broadcast to everyone else.
func (h *Hub) RegisterClient(client *Client) {
	h.mu.Lock()
	conns, known := h.clients[client.UserID]
	if !known {
		conns = make(map[*Client]struct{})
		h.clients[client.UserID] = conns
	}
	conns[client] = struct{}{}
	wentOnline := !known
	h.mu.Unlock()

	h.log.Info().Str("user_id", client.UserID).Bool("went_online", wentOnline).
		Msg("connection registered")

	// Every fresh connection gets the current online snapshot
	h.sendTo(client, Envelope{
		Event:     EventOnlineUsers,
		Payload:   h.OnlineUserIDs(),
		Timestamp: time.Now(),
	})

	if wentOnline {
		h.BroadcastExcept(client.UserID, EventUserOnline, PresencePayload{
			UserID:   client.UserID,
			IsOnline: true,
		})
	}
}

// UnregisterClient removes a connection. Removing the user's last connection
// is an online->offline transition, broadcast to everyone else.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	conns, known := h.clients[client.UserID]
	if !known {
		h.mu.Unlock()
		return
	}
	if _, ok := conns[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(conns, client)
	close(client.Send)
	wentOffline := len(conns) == 0
	if wentOffline {
		delete(h.clients, client.UserID)
	}
	h.mu.Unlock()

	h.log.Info().Str("user_id", client.UserID).Bool("went_offline", wentOffline).
		Msg("connection unregistered")

	if wentOffline {
		h.BroadcastExcept(client.UserID, EventUserOffline, PresencePayload{
			UserID:   client.UserID,
			IsOnline: false,
		})
	}
}

// Notify delivers an event to every live connection of one user. At-most-once
// and best-effort: with no connections, or a connection whose send buffer is
// full, the event is dropped and only logged. The caller's state change has
// already been persisted, so a drop is never an error.
func (h *Hub) Notify(userID string, event Event, payload interface{}) {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.log.Error().Err(err).Str("event", string(event)).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	conns := h.clients[userID]
	if len(conns) == 0 {
		h.mu.RUnlock()
		h.log.Debug().Str("user_id", userID).Str("event", string(event)).
			Msg("delivery dropped, no live connections")
		return
	}
	for client := range conns {
		select {
		case client.Send <- data:
		default:
			h.log.Debug().Str("user_id", userID).Str("event", string(event)).
				Msg("delivery dropped, send buffer full")
		}
	}
	h.mu.RUnlock()
}

// BroadcastExcept delivers an event to every connected user except the
// subject. Used for presence transitions.
func (h *Hub) BroadcastExcept(subjectID string, event Event, payload interface{}) {
	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   payload,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.log.Error().Err(err).Str("event", string(event)).Msg("failed to marshal event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for userID, conns := range h.clients {
		if userID == subjectID {
			continue
		}
		for client := range conns {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

func (h *Hub) sendTo(client *Client, env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.log.Error().Err(err).Str("event", string(env.Event)).Msg("failed to marshal event")
		return
	}
	select {
	case client.Send <- data:
	default:
	}
}

// IsOnline reports whether a user has at least one live connection
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[userID]) > 0
}

// OnlineUserIDs returns the ids of all users with at least one connection
func (h *Hub) OnlineUserIDs() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	ids := make([]string, 0, len(h.clients))
	for userID := range h.clients {
		ids = append(ids, userID)
	}
	return ids
}

// ConnectionCount returns the number of live connections across all users
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, conns := range h.clients {
		n += len(conns)
	}
	return n
}
