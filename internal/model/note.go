package model

import "time"

// Note is a private text entry. Listing is owner-scoped; there is no
// sharing between users.
type Note struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreatedByID int64     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}
