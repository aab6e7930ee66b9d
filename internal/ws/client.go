package ws

import (
	"encoding/json"
	"time"

	"github.com/gofiber/contrib/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 54 * time.Second
	sendBuffer = 256
)

// Client represents one live WebSocket connection for one user. A user may
// have several Clients at once.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Hub    *Hub
	Send   chan []byte
}

// NewClient creates a new WebSocket client
func NewClient(userID string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Hub:    hub,
		Send:   make(chan []byte, sendBuffer),
	}
}

// ReadPump handles incoming frames from the client. It blocks until the
// connection closes and guarantees the client is unregistered on exit, so a
// dropped connection leaves the presence table promptly.
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.log.Debug().Err(err).Str("user_id", c.UserID).Msg("websocket read error")
			}
			break
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.Hub.log.Debug().Err(err).Str("user_id", c.UserID).Msg("unparseable frame")
			continue
		}

		c.handleIncoming(incoming)
	}
}

// WritePump drains the send channel onto the wire and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncoming processes frames a client pushes up the socket. The only
// client-initiated traffic is call signaling, which the hub relays verbatim
// to the target user.
func (c *Client) handleIncoming(msg IncomingMessage) {
	switch msg.Event {
	case EventCallUser, EventCallAccepted, EventCallEnded:
		c.relayCallSignal(msg)
	default:
		c.Hub.log.Debug().Str("user_id", c.UserID).Str("event", string(msg.Event)).
			Msg("unknown incoming event")
	}
}

func (c *Client) relayCallSignal(msg IncomingMessage) {
	toUserID, _ := msg.Payload["toUserId"].(string)
	if toUserID == "" {
		return
	}

	c.Hub.Notify(toUserID, msg.Event, CallSignal{
		FromUserID: c.UserID,
		ToUserID:   toUserID,
		Data:       msg.Payload["data"],
	})
}
