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

// LibraryHandler handles HTTP requests for library operations.
type LibraryHandler struct {
	svc    *service.LibraryService
	logger *slog.Logger
}

// NewLibraryHandler creates a new LibraryHandler.
func NewLibraryHandler(svc *service.LibraryService, logger *slog.Logger) *LibraryHandler {
	return &LibraryHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /libraries. A user may create at most one library.
func (h *LibraryHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	var req dto.CreateLibraryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return
	}

	library, err := h.svc.Create(r.Context(), principal, req.Name, req.Books)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("library_created", "library_id", library.ID, "user_id", principal.ID)

	writeJSON(w, http.StatusCreated, library)
}

// List handles GET /libraries. Libraries are listed with their books.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	libraries, err := h.svc.List(r.Context())
	if err != nil {
		h.handleError(w, err)
		return
	}

	if libraries == nil {
		libraries = []*model.Library{}
	}

	writeJSON(w, http.StatusOK, libraries)
}

// Get handles GET /libraries/{libraryID}.
func (h *LibraryHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "libraryID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Library ID", "")
		return
	}

	library, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, library)
}

// AddBook handles PUT /libraries/{libraryID}. The body carries the book
// id to associate; only the owner may mutate membership.
func (h *LibraryHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "libraryID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Library ID", "")
		return
	}

	req, ok := h.decodeBookID(w, r)
	if !ok {
		return
	}

	library, err := h.svc.AddBook(r.Context(), principal, id, req.BookID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("library_book_added",
		"library_id", id,
		"book_id", req.BookID,
		"user_id", principal.ID,
	)

	writeJSON(w, http.StatusOK, library)
}

// RemoveBook handles PUT /libraries/{libraryID}/remove-book.
func (h *LibraryHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(chi.URLParam(r, "libraryID"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid Library ID", "")
		return
	}

	req, ok := h.decodeBookID(w, r)
	if !ok {
		return
	}

	library, err := h.svc.RemoveBook(r.Context(), principal, id, req.BookID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.logger.Info("library_book_removed",
		"library_id", id,
		"book_id", req.BookID,
		"user_id", principal.ID,
	)

	writeJSON(w, http.StatusOK, library)
}

// decodeBookID parses the membership mutation body. A missing bookId is
// a caller error.
func (h *LibraryHandler) decodeBookID(w http.ResponseWriter, r *http.Request) (dto.LibraryBookRequest, bool) {
	var req dto.LibraryBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", "")
		return req, false
	}
	if req.BookID == 0 {
		writeError(w, http.StatusBadRequest, "No bookId provided", "")
		return req, false
	}
	return req, true
}

// handleError maps library service errors to HTTP responses. Membership
// conflicts surface as 400 per the original API contract.
func (h *LibraryHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrLibraryNotFound):
		writeError(w, http.StatusNotFound, "Library not found", "")
	case errors.Is(err, service.ErrBookNotFound):
		writeError(w, http.StatusNotFound, "Book not found", "")
	case errors.Is(err, auth.ErrNotOwner):
		writeError(w, http.StatusForbidden, "Unauthorized - you can only update libraries you have created", "")
	case errors.Is(err, service.ErrLibraryExists):
		writeError(w, http.StatusBadRequest, "You already have a library", "")
	case errors.Is(err, service.ErrBookInLibrary):
		writeError(w, http.StatusBadRequest, "The book is already in the library", "")
	case errors.Is(err, service.ErrBookNotInLibrary):
		writeError(w, http.StatusBadRequest, "The book is not in the library", "")
	default:
		h.logger.Error("internal_error", "error", err)
		writeError(w, http.StatusInternalServerError, "Something went wrong.", "")
	}
}
