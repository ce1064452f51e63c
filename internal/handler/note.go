package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/libretto/libretto/internal/auth"
	"github.com/libretto/libretto/internal/handler/dto"
	"github.com/libretto/libretto/internal/model"
	"github.com/libretto/libretto/internal/service"
)

// NoteHandler handles HTTP requests for note operations.
type NoteHandler struct {
	svc    *service.NoteService
	logger *slog.Logger
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(svc *service.NoteService, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /notes.
func (h *NoteHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	var req dto.CreateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	note, err := h.svc.Create(r.Context(), principal, service.CreateNoteInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("note_created", "note_id", note.ID, "user_id", principal.ID)

	writeJSON(w, http.StatusCreated, note)
}

// List handles GET /notes. Notes are private, so only the caller's notes
// are returned.
func (h *NoteHandler) List(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	notes, err := h.svc.ListMine(r.Context(), principal)
	if err != nil {
		h.handleError(w, err)
		return
	}

	if notes == nil {
		notes = []*model.Note{}
	}

	writeJSON(w, http.StatusOK, notes)
}

// Get handles GET /notes/{noteID}.
func (h *NoteHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid note ID", "")
		return
	}

	note, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

// Delete handles DELETE /notes/{noteID}. Only the creator may delete.
func (h *NoteHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "noteID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid note ID", "")
		return
	}

	if err := h.svc.Delete(r.Context(), principal, id); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("note_deleted", "note_id", id, "user_id", principal.ID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Note successfully deleted"})
}

// handleError maps note service errors to HTTP responses.
func (h *NoteHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "Note not found", "")
	case errors.Is(err, auth.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Unauthorized - you can only delete notes you've created", "")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong.", "")
	}
}
