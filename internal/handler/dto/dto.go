// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import "github.com/libretto/libretto/internal/model"

// SignupRequest represents the request body for creating an account.
type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest represents the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and the account id.
type LoginResponse struct {
	AuthToken string `json:"authToken"`
	ID        int64  `json:"id"`
}

// VerifyResponse confirms a token passed verification.
type VerifyResponse struct {
	LoggedIn bool `json:"loggedIn"`
}

// ProfileResponse represents the authenticated user with their library
// and owned books. Library is null when the user has not created one.
type ProfileResponse struct {
	model.User
	Library *model.Library `json:"library"`
	Books   []*model.Book  `json:"books"`
}

// CreateBookRequest represents the request body for creating a book.
type CreateBookRequest struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	Description string `json:"description"`
	Pages       int    `json:"pages"`
	Image       string `json:"image"`
}

// CreateLibraryRequest represents the request body for creating a library.
type CreateLibraryRequest struct {
	Name  string  `json:"name"`
	Books []int64 `json:"books"`
}

// LibraryBookRequest carries the book id for membership mutations.
type LibraryBookRequest struct {
	BookID int64 `json:"bookId"`
}

// CreateNoteRequest represents the request body for creating a note.
type CreateNoteRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
