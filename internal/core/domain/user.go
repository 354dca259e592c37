package domain

import "time"

type User struct {
	ID        int64
	Username  string
	Email     string
	Password  string // bcrypt hash, never exposed over the API
	CreatedAt time.Time
}
