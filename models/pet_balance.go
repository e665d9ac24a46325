package models

import (
	"time"
)

// PetBalance represents how many units of one pet a user holds.
// Rows are created lazily on the first balance-affecting event and are
// never deleted; a count of zero is a valid persisted state.
type PetBalance struct {
	ID        int64     `db:"id" json:"-"`
	Username  string    `db:"username" json:"username"`
	PetName   string    `db:"pet_name" json:"petName"`
	Count     int64     `db:"count" json:"count"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// AvailablePet is the withdrawable view of a balance entry (count > 0 only)
type AvailablePet struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
