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

// ErrNoteNotFound indicates the note id does not resolve.
var ErrNoteNotFound = errors.New("note not found")

// NoteService handles note business logic. Notes are private: listing is
// owner-scoped, unlike book and library listings.
type NoteService struct {
	notes   NoteStore
	metrics metrics.Recorder
}

// NewNoteService creates a new NoteService.
func NewNoteService(notes NoteStore, recorder metrics.Recorder) *NoteService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &NoteService{
		notes:   notes,
		metrics: recorder,
	}
}

// CreateNoteInput defines input for creating a note.
type CreateNoteInput struct {
	Title       string
	Description string
}

// Create persists a note owned by the principal.
func (s *NoteService) Create(ctx context.Context, principal *model.Principal, input CreateNoteInput) (*model.Note, error) {
	note := &model.Note{
		Title:       input.Title,
		Description: input.Description,
		CreatedByID: principal.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.notes.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	s.metrics.IncNoteCreated()

	return note, nil
}

// ListMine returns only the principal's notes.
func (s *NoteService) ListMine(ctx context.Context, principal *model.Principal) ([]*model.Note, error) {
	notes, err := s.notes.ListNotesByOwner(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	return notes, nil
}

// GetByID returns a note regardless of requester identity.
func (s *NoteService) GetByID(ctx context.Context, id int64) (*model.Note, error) {
	note, err := s.notes.GetNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

// Delete removes a note. Existence is confirmed before ownership.
func (s *NoteService) Delete(ctx context.Context, principal *model.Principal, id int64) error {
	note, err := s.notes.GetNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return err
	}

	if err := auth.Authorize(principal, note.CreatedByID); err != nil {
		return err
	}

	if err := s.notes.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNoteNotFound) {
			return ErrNoteNotFound
		}
		return fmt.Errorf("delete note: %w", err)
	}

	s.metrics.IncNoteDeleted()

	return nil
}
