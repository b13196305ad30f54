package model

import "time"

// User is an authenticated account holder. PasswordHash is a bcrypt hash
// and is never serialized.
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	Currency     string    `json:"currency"`
	Locale       string    `json:"locale"`
}
