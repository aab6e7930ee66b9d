package models

import "time"

// Message represents one directed chat message. Delivered means persisted
// server-side, not delivered to a device. Read transitions false->true once,
// set only by the receiver.
type Message struct {
	ID         string     `json:"id" db:"id"`
	SenderID   string     `json:"senderId" db:"sender_id"`
	ReceiverID string     `json:"receiverId" db:"receiver_id"`
	Text       string     `json:"text" db:"text"`
	Images     []string   `json:"images" db:"images"`
	Delivered  bool       `json:"isDelivered" db:"delivered"`
	Read       bool       `json:"isRead" db:"read"`
	ReadAt     *time.Time `json:"readAt,omitempty" db:"read_at"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

// ReadReceipt is the payload pushed to the original sender when the
// receiver marks a message read.
type ReadReceipt struct {
	MessageID    string `json:"messageId"`
	ReaderUserID string `json:"readerUserId"`
}
