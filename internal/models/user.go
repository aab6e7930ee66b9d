package models

import "time"

// User represents a registered account
type User struct {
	ID            string       `json:"id" db:"id"`
	Email         string       `json:"email" db:"email"`
	FullName      string       `json:"fullName" db:"full_name"`
	Password      string       `json:"-" db:"password_hash"` // Never expose in JSON
	ContactNumber string       `json:"contactNumber" db:"contact_number"`
	ProfilePics   []ProfilePic `json:"profilePics" db:"profile_pics"`
	CreatedAt     time.Time    `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time    `json:"updatedAt" db:"updated_at"`
}

// ProfilePic is one uploaded profile picture. Users keep a history,
// most recent first.
type ProfilePic struct {
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserResponse is what we send to clients (without sensitive data)
type UserResponse struct {
	ID            string       `json:"id"`
	Email         string       `json:"email"`
	FullName      string       `json:"fullName"`
	ContactNumber string       `json:"contactNumber"`
	ProfilePics   []ProfilePic `json:"profilePics"`
	CreatedAt     time.Time    `json:"createdAt"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	pics := u.ProfilePics
	if pics == nil {
		pics = []ProfilePic{}
	}
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		ContactNumber: u.ContactNumber,
		ProfilePics:   pics,
		CreatedAt:     u.CreatedAt,
	}
}
