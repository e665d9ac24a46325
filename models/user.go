package models

import (
	"time"
)

// User represents a trading user, keyed by their platform username
type User struct {
	Username  string    `db:"username" json:"username"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
