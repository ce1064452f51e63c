package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/libretto/libretto/internal/auth"
	"github.com/libretto/libretto/internal/metrics"
	"github.com/libretto/libretto/internal/model"
	"github.com/libretto/libretto/internal/repository"
)

// Library service errors.
var (
	ErrLibraryNotFound  = errors.New("library not found")
	ErrLibraryExists    = errors.New("user already has a library")
	ErrBookInLibrary    = errors.New("book is already in the library")
	ErrBookNotInLibrary = errors.New("book is not in the library")
)

// LibraryService handles library business logic, including the
// library↔book association.
type LibraryService struct {
	libraries LibraryStore
	cache     LibraryCache
	metrics   metrics.Recorder
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(libraries LibraryStore, cache LibraryCache, recorder metrics.Recorder) *LibraryService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &LibraryService{
		libraries: libraries,
		cache:     cache,
		metrics:   recorder,
	}
}

// Create persists a library owned by the principal, associating the given
// initial book ids. A second library for the same owner fails with
// ErrLibraryExists whatever the payload; the store's unique index decides,
// so concurrent creates cannot both win.
func (s *LibraryService) Create(ctx context.Context, principal *model.Principal, name string, bookIDs []int64) (*model.Library, error) {
	library := &model.Library{
		Name:        name,
		CreatedByID: principal.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.libraries.CreateLibrary(ctx, library, bookIDs); err != nil {
		switch {
		case errors.Is(err, repository.ErrLibraryExists):
			return nil, ErrLibraryExists
		case errors.Is(err, repository.ErrBookNotFound):
			return nil, ErrBookNotFound
		case errors.Is(err, repository.ErrBookInLibrary):
			return nil, ErrBookInLibrary
		}
		return nil, fmt.Errorf("create library: %w", err)
	}

	s.metrics.IncLibraryCreated()

	return s.reload(ctx, library.ID)
}

// List returns all libraries with their associated books.
func (s *LibraryService) List(ctx context.Context) ([]*model.Library, error) {
	libraries, err := s.libraries.ListLibraries(ctx)
	if err != nil {
		return nil, err
	}
	return libraries, nil
}

// GetByID returns a library with its books, regardless of requester
// identity. Reads go through the cache; the aggregate join is the most
// expensive read in the system.
func (s *LibraryService) GetByID(ctx context.Context, id int64) (*model.Library, error) {
	if library, err := s.cache.GetLibrary(ctx, id); err == nil {
		s.metrics.IncLibraryCacheHit()
		return library, nil
	}
	s.metrics.IncLibraryCacheMiss()

	library, err := s.libraries.GetLibraryByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			return nil, ErrLibraryNotFound
		}
		return nil, err
	}

	_ = s.cache.SetLibrary(ctx, library)

	return library, nil
}

// AddBook associates a book with the library. Only the owner may mutate
// membership; existence is confirmed before ownership (404 before 403).
// A duplicate add fails with ErrBookInLibrary, decided atomically by the
// store's composite key.
func (s *LibraryService) AddBook(ctx context.Context, principal *model.Principal, libraryID, bookID int64) (*model.Library, error) {
	library, err := s.libraries.GetLibraryByID(ctx, libraryID)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			return nil, ErrLibraryNotFound
		}
		return nil, err
	}

	if err := auth.Authorize(principal, library.CreatedByID); err != nil {
		return nil, err
	}

	if err := s.libraries.AddBookToLibrary(ctx, libraryID, bookID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBookInLibrary):
			return nil, ErrBookInLibrary
		case errors.Is(err, repository.ErrBookNotFound):
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("add book to library: %w", err)
	}

	s.metrics.IncLibraryMutation("add_book")

	return s.reload(ctx, libraryID)
}

// RemoveBook dissociates a book from the library. Removing a non-member
// fails with ErrBookNotInLibrary.
func (s *LibraryService) RemoveBook(ctx context.Context, principal *model.Principal, libraryID, bookID int64) (*model.Library, error) {
	library, err := s.libraries.GetLibraryByID(ctx, libraryID)
	if err != nil {
		if errors.Is(err, repository.ErrLibraryNotFound) {
			return nil, ErrLibraryNotFound
		}
		return nil, err
	}

	if err := auth.Authorize(principal, library.CreatedByID); err != nil {
		return nil, err
	}

	if err := s.libraries.RemoveBookFromLibrary(ctx, libraryID, bookID); err != nil {
		if errors.Is(err, repository.ErrBookNotInLibrary) {
			return nil, ErrBookNotInLibrary
		}
		return nil, fmt.Errorf("remove book from library: %w", err)
	}

	s.metrics.IncLibraryMutation("remove_book")

	return s.reload(ctx, libraryID)
}

// reload fetches the library fresh after a mutation and refreshes the
// cache so readers never see stale membership.
func (s *LibraryService) reload(ctx context.Context, libraryID int64) (*model.Library, error) {
	_ = s.cache.InvalidateLibrary(ctx, libraryID)

	library, err := s.libraries.GetLibraryByID(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("reload library: %w", err)
	}

	_ = s.cache.SetLibrary(ctx, library)

	return library, nil
}
