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

// ErrBookNotFound indicates the book id does not resolve.
var ErrBookNotFound = errors.New("book not found")

// BookService handles book business logic.
type BookService struct {
	books   BookStore
	metrics metrics.Recorder
}

// NewBookService creates a new BookService.
func NewBookService(books BookStore, recorder metrics.Recorder) *BookService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &BookService{
		books:   books,
		metrics: recorder,
	}
}

// CreateBookInput defines input for creating a book.
type CreateBookInput struct {
	Title       string
	Author      string
	Description string
	Pages       int
	Image       string
}

// Create persists a book owned by the principal. The owner is recorded
// once and never reassigned.
func (s *BookService) Create(ctx context.Context, principal *model.Principal, input CreateBookInput) (*model.Book, error) {
	book := &model.Book{
		Title:       input.Title,
		Author:      input.Author,
		Description: input.Description,
		Pages:       input.Pages,
		Image:       input.Image,
		CreatedByID: principal.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.books.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.metrics.IncBookCreated()

	return book, nil
}

// List returns all books, unfiltered by owner.
func (s *BookService) List(ctx context.Context) ([]*model.Book, error) {
	books, err := s.books.ListBooks(ctx)
	if err != nil {
		return nil, err
	}
	return books, nil
}

// GetByID returns a book regardless of requester identity.
func (s *BookService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return book, nil
}

// Delete removes a book. The existence check runs before the ownership
// check so a non-owner sees the same 404 as everyone else for a missing id.
func (s *BookService) Delete(ctx context.Context, principal *model.Principal, id int64) error {
	book, err := s.books.GetBookByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return err
	}

	if err := auth.Authorize(principal, book.CreatedByID); err != nil {
		return err
	}

	if err := s.books.DeleteBook(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return ErrBookNotFound
		}
		return fmt.Errorf("delete book: %w", err)
	}

	s.metrics.IncBookDeleted()

	return nil
}
