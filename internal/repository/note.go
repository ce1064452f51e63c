package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/libretto/libretto/internal/model"
)

// ErrNoteNotFound indicates the note id does not resolve to a row.
var ErrNoteNotFound = errors.New("note not found")

// CreateNote inserts a new note and fills in the generated ID.
func (r *Repository) CreateNote(ctx context.Context, note *model.Note) error {
	query := `
		INSERT INTO notes (title, description, created_by_id, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		note.Title,
		note.Description,
		note.CreatedByID,
		note.CreatedAt,
	).Scan(&note.ID)

	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

// GetNoteByID retrieves a note by its ID.
func (r *Repository) GetNoteByID(ctx context.Context, id int64) (*model.Note, error) {
	query := `
		SELECT id, title, description, created_by_id, created_at
		FROM notes
		WHERE id = $1
	`

	var note model.Note
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&note.ID,
		&note.Title,
		&note.Description,
		&note.CreatedByID,
		&note.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, fmt.Errorf("failed to get note by ID: %w", err)
	}

	return &note, nil
}

// ListNotesByOwner retrieves only the notes created by the given user.
func (r *Repository) ListNotesByOwner(ctx context.Context, ownerID int64) ([]*model.Note, error) {
	query := `
		SELECT id, title, description, created_by_id, created_at
		FROM notes
		WHERE created_by_id = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*model.Note
	for rows.Next() {
		var note model.Note
		err := rows.Scan(
			&note.ID,
			&note.Title,
			&note.Description,
			&note.CreatedByID,
			&note.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}

	return notes, nil
}

// DeleteNote removes a note entirely. There is no soft delete.
func (r *Repository) DeleteNote(ctx context.Context, id int64) error {
	query := `DELETE FROM notes WHERE id = $1`

	result, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	return nil
}
