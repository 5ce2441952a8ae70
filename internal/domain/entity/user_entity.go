package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Password holds the bcrypt hash, never the plaintext. Serialization to
// clients happens field-by-field at the handler layer, so the hash is
// never part of any outbound body.
type User struct {
	ID        string
	Email     string
	Username  string
	Password  string
	Avatar    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
