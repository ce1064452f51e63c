package model

import "time"

// Book is a user-created catalog entry. The creator recorded in CreatedByID
// is set once at creation and never reassigned; only the creator may delete
// the book. A book may belong to any number of libraries.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Description string    `json:"description"`
	Pages       int       `json:"pages"`
	Image       string    `json:"image"`
	CreatedByID int64     `json:"createdById"`
	CreatedAt   time.Time `json:"createdAt"`
}
