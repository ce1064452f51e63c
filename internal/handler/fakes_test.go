package handler

import (
	"context"
	"errors"
	"sync"

	"github.com/libretto/libretto/internal/model"
	"github.com/libretto/libretto/internal/repository"
)

// fakeStore is an in-memory implementation of the service store
// interfaces, mirroring the sentinel errors the real store surfaces
// from Postgres constraints.
type fakeStore struct {
	mu        sync.Mutex
	seq       int64
	users     map[int64]*model.User
	books     map[int64]*model.Book
	notes     map[int64]*model.Note
	libraries map[int64]*model.Library
	members   map[int64]map[int64]bool // libraryID -> bookID set
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[int64]*model.User),
		books:     make(map[int64]*model.Book),
		notes:     make(map[int64]*model.Note),
		libraries: make(map[int64]*model.Library),
		members:   make(map[int64]map[int64]bool),
	}
}

func (f *fakeStore) nextID() int64 {
	f.seq++
	return f.seq
}

func (f *fakeStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.ID = f.nextID()
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id int64) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeStore) CreateBook(_ context.Context, book *model.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	book.ID = f.nextID()
	copied := *book
	f.books[book.ID] = &copied
	return nil
}

func (f *fakeStore) GetBookByID(_ context.Context, id int64) (*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	copied := *b
	return &copied, nil
}

func (f *fakeStore) ListBooks(_ context.Context) ([]*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []*model.Book
	for id := int64(1); id <= f.seq; id++ {
		if b, ok := f.books[id]; ok {
			copied := *b
			books = append(books, &copied)
		}
	}
	return books, nil
}

func (f *fakeStore) ListBooksByOwner(_ context.Context, ownerID int64) ([]*model.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var books []*model.Book
	for id := int64(1); id <= f.seq; id++ {
		if b, ok := f.books[id]; ok && b.CreatedByID == ownerID {
			copied := *b
			books = append(books, &copied)
		}
	}
	return books, nil
}

func (f *fakeStore) DeleteBook(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return repository.ErrBookNotFound
	}
	delete(f.books, id)
	for _, set := range f.members {
		delete(set, id)
	}
	return nil
}

func (f *fakeStore) CreateLibrary(_ context.Context, library *model.Library, bookIDs []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.libraries {
		if l.CreatedByID == library.CreatedByID {
			return repository.ErrLibraryExists
		}
	}
	set := make(map[int64]bool)
	for _, bookID := range bookIDs {
		if _, ok := f.books[bookID]; !ok {
			return repository.ErrBookNotFound
		}
		if set[bookID] {
			return repository.ErrBookInLibrary
		}
		set[bookID] = true
	}
	library.ID = f.nextID()
	copied := *library
	f.libraries[library.ID] = &copied
	f.members[library.ID] = set
	return nil
}

func (f *fakeStore) GetLibraryByID(_ context.Context, id int64) (*model.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.libraries[id]
	if !ok {
		return nil, repository.ErrLibraryNotFound
	}
	return f.libraryWithBooks(l), nil
}

func (f *fakeStore) GetLibraryByOwner(_ context.Context, ownerID int64) (*model.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.libraries {
		if l.CreatedByID == ownerID {
			return f.libraryWithBooks(l), nil
		}
	}
	return nil, repository.ErrLibraryNotFound
}

func (f *fakeStore) ListLibraries(_ context.Context) ([]*model.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var libraries []*model.Library
	for id := int64(1); id <= f.seq; id++ {
		if l, ok := f.libraries[id]; ok {
			libraries = append(libraries, f.libraryWithBooks(l))
		}
	}
	return libraries, nil
}

func (f *fakeStore) AddBookToLibrary(_ context.Context, libraryID, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.members[libraryID]
	if !ok {
		return repository.ErrLibraryNotFound
	}
	if _, ok := f.books[bookID]; !ok {
		return repository.ErrBookNotFound
	}
	if set[bookID] {
		return repository.ErrBookInLibrary
	}
	set[bookID] = true
	return nil
}

func (f *fakeStore) RemoveBookFromLibrary(_ context.Context, libraryID, bookID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	set, ok := f.members[libraryID]
	if !ok || !set[bookID] {
		return repository.ErrBookNotInLibrary
	}
	delete(set, bookID)
	return nil
}

func (f *fakeStore) libraryWithBooks(l *model.Library) *model.Library {
	copied := *l
	copied.Books = []model.Book{}
	for id := int64(1); id <= f.seq; id++ {
		if f.members[l.ID][id] {
			if b, ok := f.books[id]; ok {
				copied.Books = append(copied.Books, *b)
			}
		}
	}
	return &copied
}

func (f *fakeStore) CreateNote(_ context.Context, note *model.Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	note.ID = f.nextID()
	copied := *note
	f.notes[note.ID] = &copied
	return nil
}

func (f *fakeStore) GetNoteByID(_ context.Context, id int64) (*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notes[id]
	if !ok {
		return nil, repository.ErrNoteNotFound
	}
	copied := *n
	return &copied, nil
}

func (f *fakeStore) ListNotesByOwner(_ context.Context, ownerID int64) ([]*model.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var notes []*model.Note
	for id := int64(1); id <= f.seq; id++ {
		if n, ok := f.notes[id]; ok && n.CreatedByID == ownerID {
			copied := *n
			notes = append(notes, &copied)
		}
	}
	return notes, nil
}

func (f *fakeStore) DeleteNote(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.notes[id]; !ok {
		return repository.ErrNoteNotFound
	}
	delete(f.notes, id)
	return nil
}

var errFakeCacheMiss = errors.New("cache miss")

// fakeCache is an in-memory LibraryCache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[int64]*model.Library
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[int64]*model.Library)}
}

func (f *fakeCache) GetLibrary(_ context.Context, id int64) (*model.Library, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.entries[id]
	if !ok {
		return nil, errFakeCacheMiss
	}
	copied := *l
	return &copied, nil
}

func (f *fakeCache) SetLibrary(_ context.Context, library *model.Library) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *library
	f.entries[library.ID] = &copied
	return nil
}

func (f *fakeCache) InvalidateLibrary(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, id)
	return nil
}
