package models

import "time"

// Contact links a user to another user they have added by contact number.
// A user may not add itself.
type Contact struct {
	UserID    string    `json:"userId" db:"user_id"`
	ContactID string    `json:"contactId" db:"contact_id"`
	AddedAt   time.Time `json:"addedAt" db:"added_at"`
}

// ContactWithUser includes the contact's user information plus live presence
type ContactWithUser struct {
	Contact  UserResponse `json:"contact"`
	AddedAt  time.Time    `json:"addedAt"`
	IsOnline bool         `json:"isOnline"`
}
