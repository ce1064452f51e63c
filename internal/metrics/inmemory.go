package metrics

import "sync/atomic"

// Snapshot captures current in-memory counters.
type Snapshot struct {
	Signups            uint64
	LoginSuccesses     uint64
	LoginFailures      uint64
	BooksCreated       uint64
	BooksDeleted       uint64
	NotesCreated       uint64
	NotesDeleted       uint64
	LibrariesCreated   uint64
	LibraryBooksAdded  uint64
	LibraryBooksRemoved uint64
	LibraryCacheHits   uint64
	LibraryCacheMisses uint64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	signups             uint64
	loginSuccesses      uint64
	loginFailures       uint64
	booksCreated        uint64
	booksDeleted        uint64
	notesCreated        uint64
	notesDeleted        uint64
	librariesCreated    uint64
	libraryBooksAdded   uint64
	libraryBooksRemoved uint64
	libraryCacheHits    uint64
	libraryCacheMisses  uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		Signups:             atomic.LoadUint64(&m.signups),
		LoginSuccesses:      atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:       atomic.LoadUint64(&m.loginFailures),
		BooksCreated:        atomic.LoadUint64(&m.booksCreated),
		BooksDeleted:        atomic.LoadUint64(&m.booksDeleted),
		NotesCreated:        atomic.LoadUint64(&m.notesCreated),
		NotesDeleted:        atomic.LoadUint64(&m.notesDeleted),
		LibrariesCreated:    atomic.LoadUint64(&m.librariesCreated),
		LibraryBooksAdded:   atomic.LoadUint64(&m.libraryBooksAdded),
		LibraryBooksRemoved: atomic.LoadUint64(&m.libraryBooksRemoved),
		LibraryCacheHits:    atomic.LoadUint64(&m.libraryCacheHits),
		LibraryCacheMisses:  atomic.LoadUint64(&m.libraryCacheMisses),
	}
}

// IncSignup increments the signup counter.
func (m *InMemoryRecorder) IncSignup() {
	atomic.AddUint64(&m.signups, 1)
}

// IncLogin increments the login counter for the given status.
func (m *InMemoryRecorder) IncLogin(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncBookCreated increments the book created counter.
func (m *InMemoryRecorder) IncBookCreated() {
	atomic.AddUint64(&m.booksCreated, 1)
}

// IncBookDeleted increments the book deleted counter.
func (m *InMemoryRecorder) IncBookDeleted() {
	atomic.AddUint64(&m.booksDeleted, 1)
}

// IncNoteCreated increments the note created counter.
func (m *InMemoryRecorder) IncNoteCreated() {
	atomic.AddUint64(&m.notesCreated, 1)
}

// IncNoteDeleted increments the note deleted counter.
func (m *InMemoryRecorder) IncNoteDeleted() {
	atomic.AddUint64(&m.notesDeleted, 1)
}

// IncLibraryCreated increments the library created counter.
func (m *InMemoryRecorder) IncLibraryCreated() {
	atomic.AddUint64(&m.librariesCreated, 1)
}

// IncLibraryMutation increments the membership mutation counter for op.
func (m *InMemoryRecorder) IncLibraryMutation(op string) {
	if op == "remove_book" {
		atomic.AddUint64(&m.libraryBooksRemoved, 1)
		return
	}
	atomic.AddUint64(&m.libraryBooksAdded, 1)
}

// IncLibraryCacheHit increments the cache hit counter.
func (m *InMemoryRecorder) IncLibraryCacheHit() {
	atomic.AddUint64(&m.libraryCacheHits, 1)
}

// IncLibraryCacheMiss increments the cache miss counter.
func (m *InMemoryRecorder) IncLibraryCacheMiss() {
	atomic.AddUint64(&m.libraryCacheMisses, 1)
}
