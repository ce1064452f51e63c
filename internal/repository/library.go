package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/libretto/libretto/internal/model"
)

// Common errors for library repository operations.
var (
	ErrLibraryNotFound  = errors.New("library not found")
	ErrLibraryExists    = errors.New("library already exists for this user")
	ErrBookInLibrary    = errors.New("book is already in the library")
	ErrBookNotInLibrary = errors.New("book is not in the library")
)

// Constraint names from migrations/000004_libraries.up.sql. The unique
// index on created_by_id enforces one library per user; the composite
// primary key on library_books enforces no-duplicate membership.
const (
	constraintOneLibraryPerUser = "libraries_created_by_id_key"
	constraintLibraryBooksPK    = "library_books_pkey"
)

// CreateLibrary inserts a library and its initial book associations in one
// transaction. A second library for the same owner fails with
// ErrLibraryExists regardless of payload; an initial book id that does not
// resolve to an existing book fails with ErrBookNotFound via the FK.
func (r *Repository) CreateLibrary(ctx context.Context, library *model.Library, bookIDs []int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO libraries (name, created_by_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err = tx.QueryRow(ctx, query,
		library.Name,
		library.CreatedByID,
		library.CreatedAt,
	).Scan(&library.ID)

	if err != nil {
		if isUniqueViolation(err, constraintOneLibraryPerUser) {
			return ErrLibraryExists
		}
		return fmt.Errorf("failed to create library: %w", err)
	}

	for _, bookID := range bookIDs {
		_, err := tx.Exec(ctx,
			`INSERT INTO library_books (library_id, book_id, added_at) VALUES ($1, $2, $3)`,
			library.ID, bookID, time.Now().UTC(),
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return ErrBookNotFound
			}
			if isUniqueViolation(err, constraintLibraryBooksPK) {
				return ErrBookInLibrary
			}
			return fmt.Errorf("failed to associate book %d: %w", bookID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit library creation: %w", err)
	}

	return nil
}

// GetLibraryByID retrieves a library with its associated books.
func (r *Repository) GetLibraryByID(ctx context.Context, id int64) (*model.Library, error) {
	query := `
		SELECT id, name, created_by_id, created_at
		FROM libraries
		WHERE id = $1
	`

	library, err := scanLibrary(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLibraryNotFound
		}
		return nil, fmt.Errorf("failed to get library by ID: %w", err)
	}

	if err := r.loadLibraryBooks(ctx, library); err != nil {
		return nil, err
	}

	return library, nil
}

// GetLibraryByOwner retrieves a user's library, with books.
func (r *Repository) GetLibraryByOwner(ctx context.Context, ownerID int64) (*model.Library, error) {
	query := `
		SELECT id, name, created_by_id, created_at
		FROM libraries
		WHERE created_by_id = $1
	`

	library, err := scanLibrary(r.pool.QueryRow(ctx, query, ownerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLibraryNotFound
		}
		return nil, fmt.Errorf("failed to get library by owner: %w", err)
	}

	if err := r.loadLibraryBooks(ctx, library); err != nil {
		return nil, err
	}

	return library, nil
}

// ListLibraries retrieves all libraries with their associated books.
func (r *Repository) ListLibraries(ctx context.Context) ([]*model.Library, error) {
	query := `
		SELECT id, name, created_by_id, created_at
		FROM libraries
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list libraries: %w", err)
	}
	defer rows.Close()

	var libraries []*model.Library
	for rows.Next() {
		library, err := scanLibrary(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan library: %w", err)
		}
		libraries = append(libraries, library)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating libraries: %w", err)
	}

	for _, library := range libraries {
		if err := r.loadLibraryBooks(ctx, library); err != nil {
			return nil, err
		}
	}

	return libraries, nil
}

// AddBookToLibrary creates a library↔book association. The composite
// primary key makes a duplicate add fail atomically with ErrBookInLibrary
// even under concurrent requests.
func (r *Repository) AddBookToLibrary(ctx context.Context, libraryID, bookID int64) error {
	query := `
		INSERT INTO library_books (library_id, book_id, added_at)
		VALUES ($1, $2, $3)
	`

	_, err := r.pool.Exec(ctx, query, libraryID, bookID, time.Now().UTC())
	if err != nil {
		if isUniqueViolation(err, constraintLibraryBooksPK) {
			return ErrBookInLibrary
		}
		if isForeignKeyViolation(err) {
			return ErrBookNotFound
		}
		return fmt.Errorf("failed to add book to library: %w", err)
	}

	return nil
}

// RemoveBookFromLibrary deletes a library↔book association. Removing an id
// that is not a member fails with ErrBookNotInLibrary.
func (r *Repository) RemoveBookFromLibrary(ctx context.Context, libraryID, bookID int64) error {
	query := `
		DELETE FROM library_books
		WHERE library_id = $1 AND book_id = $2
	`

	result, err := r.pool.Exec(ctx, query, libraryID, bookID)
	if err != nil {
		return fmt.Errorf("failed to remove book from library: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookNotInLibrary
	}

	return nil
}

// loadLibraryBooks fills in the library's books slice.
func (r *Repository) loadLibraryBooks(ctx context.Context, library *model.Library) error {
	query := `
		SELECT b.id, b.title, b.author, b.description, b.pages, b.image, b.created_by_id, b.created_at
		FROM books b
		JOIN library_books lb ON lb.book_id = b.id
		WHERE lb.library_id = $1
		ORDER BY b.id
	`

	rows, err := r.pool.Query(ctx, query, library.ID)
	if err != nil {
		return fmt.Errorf("failed to load library books: %w", err)
	}
	defer rows.Close()

	library.Books = []model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return fmt.Errorf("failed to scan library book: %w", err)
		}
		library.Books = append(library.Books, *book)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating library books: %w", err)
	}

	return nil
}

// scanLibrary scans a single row into a Library model (without books).
func scanLibrary(row pgx.Row) (*model.Library, error) {
	var library model.Library
	err := row.Scan(
		&library.ID,
		&library.Name,
		&library.CreatedByID,
		&library.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &library, nil
}
