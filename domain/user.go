package domain

import "time"

// User represents a registered account. Username is case-sensitive and
// immutable after creation; PasswordHash only ever holds a bcrypt digest.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
