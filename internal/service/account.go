package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
	"unicode"

	"github.com/libretto/libretto/internal/auth"
	"github.com/libretto/libretto/internal/metrics"
	"github.com/libretto/libretto/internal/model"
	"github.com/libretto/libretto/internal/repository"
)

// Account service errors.
var (
	ErrMissingSignupFields = errors.New("email, password and name are required")
	ErrMissingLoginFields  = errors.New("email and password are required")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrWeakPassword        = errors.New("password does not meet the policy")
	ErrEmailTaken          = errors.New("user already exists")
	ErrWrongCredentials    = errors.New("wrong credentials")
	ErrUserNotFound        = errors.New("user not found")
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]{2,}$`)

// AccountService handles signup, login, and profile lookups.
type AccountService struct {
	users     UserStore
	libraries LibraryStore
	books     BookStore
	tokens    *auth.TokenService
	metrics   metrics.Recorder
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, libraries LibraryStore, books BookStore, tokens *auth.TokenService, recorder metrics.Recorder) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:     users,
		libraries: libraries,
		books:     books,
		tokens:    tokens,
		metrics:   recorder,
	}
}

// SignupInput defines input for creating an account.
type SignupInput struct {
	Email    string
	Password string
	Name     string
}

// Signup validates the input, hashes the password, and creates the user.
// The stored hash is never echoed back to the caller.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	if input.Email == "" || input.Password == "" || input.Name == "" {
		return nil, ErrMissingSignupFields
	}

	if !emailRegex.MatchString(input.Email) {
		return nil, ErrInvalidEmail
	}

	if !validPassword(input.Password) {
		return nil, ErrWeakPassword
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.IncSignup()

	return user, nil
}

// Login verifies the credentials and issues an identity token. A missing
// user and a wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingLoginFields
	}

	if !emailRegex.MatchString(email) {
		return "", nil, ErrInvalidEmail
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncLogin("failure")
			return "", nil, ErrWrongCredentials
		}
		return "", nil, fmt.Errorf("look up user: %w", err)
	}

	match, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil || !match {
		s.metrics.IncLogin("failure")
		return "", nil, ErrWrongCredentials
	}

	token, err := s.tokens.Issue(&model.Principal{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	s.metrics.IncLogin("success")

	return token, user, nil
}

// Profile is a user together with their library and owned books.
type Profile struct {
	User    *model.User
	Library *model.Library // nil when the user has no library
	Books   []*model.Book
}

// GetProfile loads the user's account, library, and owned books.
func (s *AccountService) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	profile := &Profile{User: user}

	library, err := s.libraries.GetLibraryByOwner(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrLibraryNotFound) {
		return nil, fmt.Errorf("get library: %w", err)
	}
	profile.Library = library

	owned, err := s.books.ListBooksByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	profile.Books = owned

	return profile, nil
}

// validPassword enforces the signup password policy: at least 6 characters
// with one digit, one lowercase and one uppercase letter.
func validPassword(password string) bool {
	if len(password) < 6 {
		return false
	}

	var hasDigit, hasLower, hasUpper bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		}
	}

	return hasDigit && hasLower && hasUpper
}
