package model

import (
	"time"
)

// Member is owned by the member directory service. Rows are read here only
// to resolve identity and for author display.
type Member struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
