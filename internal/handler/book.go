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

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	svc    *service.BookService
	logger *slog.Logger
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(svc *service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /books.
func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	book, err := h.svc.Create(r.Context(), principal, service.CreateBookInput{
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Pages:       req.Pages,
		Image:       req.Image,
	})
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("book_created", "book_id", book.ID, "user_id", principal.ID)

	writeJSON(w, http.StatusCreated, book)
}

// List handles GET /books. The listing is public and unfiltered.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	books, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	if books == nil {
		books = []*model.Book{}
	}

	writeJSON(w, http.StatusOK, books)
}

// Get handles GET /books/{bookID}.
func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid book ID", "")
		return
	}

	book, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, book)
}

// Delete handles DELETE /books/{bookID}. Only the creator may delete.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "bookID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid book ID", "")
		return
	}

	if err := h.svc.Delete(r.Context(), principal, id); err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("book_deleted", "book_id", id, "user_id", principal.ID)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Book successfully deleted"})
}

// handleError maps book service errors to HTTP responses.
func (h *BookHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "Book not found", "")
	case errors.Is(err, auth.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Unauthorized - you can only delete books you've created", "")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong.", "")
	}
}
