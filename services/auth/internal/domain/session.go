package domain

import "time"

// Session is one refreshable login. Hash is opaque and is compared by
// equality with the hash claim of refresh tokens.
type Session struct {
	ID        string
	UserID    string
	Hash      string
	User      *User
	CreatedAt time.Time
	UpdatedAt time.Time
}
