package model

import "time"

// Library is a user's personal collection of books. Each user may create at
// most one library (unique index on created_by_id); membership is a
// many-to-many association with books, mutable only by the owner.
type Library struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	CreatedByID int64     `json:"createdById"`
	Books       []Book    `json:"books"`
	CreatedAt   time.Time `json:"createdAt"`
}

// HasBook reports whether the given book is currently a member.
func (l *Library) HasBook(bookID int64) bool {
	for _, b := range l.Books {
		if b.ID == bookID {
			return true
		}
	}
	return false
}
