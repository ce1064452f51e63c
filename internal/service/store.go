// Package service provides business logic for the application.
package service

import (
	"context"

	"github.com/libretto/libretto/internal/model"
)

// The persistence collaborator is consumed through narrow interfaces, all
// satisfied by *repository.Repository. Services never reach into the store
// engine directly; uniqueness and membership invariants are enforced by the
// store itself, atomically, not re-checked here.

// UserStore persists user identities and password hashes.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

// BookStore persists books.
type BookStore interface {
	CreateBook(ctx context.Context, book *model.Book) error
	GetBookByID(ctx context.Context, id int64) (*model.Book, error)
	ListBooks(ctx context.Context) ([]*model.Book, error)
	ListBooksByOwner(ctx context.Context, ownerID int64) ([]*model.Book, error)
	DeleteBook(ctx context.Context, id int64) error
}

// LibraryStore persists libraries and the library↔book association.
type LibraryStore interface {
	CreateLibrary(ctx context.Context, library *model.Library, bookIDs []int64) error
	GetLibraryByID(ctx context.Context, id int64) (*model.Library, error)
	GetLibraryByOwner(ctx context.Context, ownerID int64) (*model.Library, error)
	ListLibraries(ctx context.Context) ([]*model.Library, error)
	AddBookToLibrary(ctx context.Context, libraryID, bookID int64) error
	RemoveBookFromLibrary(ctx context.Context, libraryID, bookID int64) error
}

// NoteStore persists notes.
type NoteStore interface {
	CreateNote(ctx context.Context, note *model.Note) error
	GetNoteByID(ctx context.Context, id int64) (*model.Note, error)
	ListNotesByOwner(ctx context.Context, ownerID int64) ([]*model.Note, error)
	DeleteNote(ctx context.Context, id int64) error
}

// LibraryCache caches the library-with-books aggregate.
type LibraryCache interface {
	GetLibrary(ctx context.Context, id int64) (*model.Library, error)
	SetLibrary(ctx context.Context, library *model.Library) error
	InvalidateLibrary(ctx context.Context, id int64) error
}
