package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libretto/libretto/internal/model"
)

// ErrBookNotFound indicates the book id does not resolve to a row.
var ErrBookNotFound = errors.New("book not found")

// CreateBook inserts a new book and fills in the generated ID.
func (r *Repository) CreateBook(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (title, author, description, pages, image, created_by_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		book.Title,
		book.Author,
		book.Description,
		book.Pages,
		book.Image,
		book.CreatedByID,
		book.CreatedAt,
	).Scan(&book.ID)

	if err != nil {
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `
		SELECT id, title, author, description, pages, image, created_by_id, created_at
		FROM books
		WHERE id = $1
	`

	book, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by ID: %w", err)
	}

	return book, nil
}

// ListBooks retrieves every book, unfiltered by owner.
func (r *Repository) ListBooks(ctx context.Context) ([]*model.Book, error) {
	query := `
		SELECT id, title, author, description, pages, image, created_by_id, created_at
		FROM books
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// ListBooksByOwner retrieves the books created by one user.
func (r *Repository) ListBooksByOwner(ctx context.Context, ownerID int64) ([]*model.Book, error) {
	query := `
		SELECT id, title, author, description, pages, image, created_by_id, created_at
		FROM books
		WHERE created_by_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list books by owner: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating books: %w", err)
	}

	return books, nil
}

// DeleteBook removes a book entirely. Association rows in library_books
// are removed by ON DELETE CASCADE.
func (r *Repository) DeleteBook(ctx context.Context, id int64) error {
	query := `DELETE FROM books WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrBookNotFound
	}

	return nil
}

// scanBook scans a single row into a Book model.
func scanBook(row pgx.Row) (*model.Book, error) {
	var book model.Book
	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&book.Description,
		&book.Pages,
		&book.Image,
		&book.CreatedByID,
		&book.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &book, nil
}
