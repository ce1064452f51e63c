//go:build integration

package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/libretto/libretto/internal/model"
	"github.com/libretto/libretto/internal/testutil"
)

func newTestEnv(t *testing.T) (context.Context, *Repository) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration tests in short mode")
	}

	ctx := context.Background()
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return ctx, repo
}

func createUser(ctx context.Context, t *testing.T, repo *Repository, email string) *model.User {
	t.Helper()
	user := testutil.NewTestUser(t, email)
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	return user
}

func createBook(ctx context.Context, t *testing.T, repo *Repository, ownerID int64, title string) *model.Book {
	t.Helper()
	book := testutil.NewTestBook(t, ownerID, title)
	if err := repo.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook failed: %v", err)
	}
	return book
}

func TestIntegrationUserRepository_DuplicateEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("dup")
	createUser(ctx, t, repo, email)

	err := repo.CreateUser(ctx, testutil.NewTestUser(t, email))
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("Expected ErrEmailExists, got: %v", err)
	}
}

func TestIntegrationUserRepository_GetByEmail(t *testing.T) {
	ctx, repo := newTestEnv(t)

	email := testutil.UniqueEmail("get")
	user := createUser(ctx, t, repo, email)

	retrieved, err := repo.GetUserByEmail(ctx, email)
	if err != nil {
		t.Fatalf("GetUserByEmail failed: %v", err)
	}
	if retrieved.ID != user.ID {
		t.Errorf("ID mismatch: got %d, want %d", retrieved.ID, user.ID)
	}
	if retrieved.PasswordHash != user.PasswordHash {
		t.Error("password hash not persisted")
	}

	if _, err := repo.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got: %v", err)
	}
}

func TestIntegrationLibraryRepository_OnePerOwner(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := createUser(ctx, t, repo, testutil.UniqueEmail("owner"))

	first := &model.Library{Name: "First", CreatedByID: user.ID}
	if err := repo.CreateLibrary(ctx, first, nil); err != nil {
		t.Fatalf("CreateLibrary failed: %v", err)
	}

	// The unique index decides, whatever the payload.
	second := &model.Library{Name: "Second", CreatedByID: user.ID}
	err := repo.CreateLibrary(ctx, second, nil)
	if !errors.Is(err, ErrLibraryExists) {
		t.Errorf("Expected ErrLibraryExists, got: %v", err)
	}
}

func TestIntegrationLibraryRepository_Membership(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := createUser(ctx, t, repo, testutil.UniqueEmail("member"))
	book := createBook(ctx, t, repo, user.ID, "Dune")

	library := &model.Library{Name: "Shelf", CreatedByID: user.ID}
	if err := repo.CreateLibrary(ctx, library, []int64{book.ID}); err != nil {
		t.Fatalf("CreateLibrary failed: %v", err)
	}

	retrieved, err := repo.GetLibraryByID(ctx, library.ID)
	if err != nil {
		t.Fatalf("GetLibraryByID failed: %v", err)
	}
	if !retrieved.HasBook(book.ID) {
		t.Fatalf("library books = %v, want member %d", retrieved.Books, book.ID)
	}

	// The composite primary key rejects the duplicate row.
	if err := repo.AddBookToLibrary(ctx, library.ID, book.ID); !errors.Is(err, ErrBookInLibrary) {
		t.Errorf("Expected ErrBookInLibrary, got: %v", err)
	}

	// Associating an id with no backing book trips the FK.
	if err := repo.AddBookToLibrary(ctx, library.ID, 999999); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got: %v", err)
	}

	if err := repo.RemoveBookFromLibrary(ctx, library.ID, book.ID); err != nil {
		t.Fatalf("RemoveBookFromLibrary failed: %v", err)
	}
	if err := repo.RemoveBookFromLibrary(ctx, library.ID, book.ID); !errors.Is(err, ErrBookNotInLibrary) {
		t.Errorf("Expected ErrBookNotInLibrary, got: %v", err)
	}
}

func TestIntegrationBookRepository_DeleteCascades(t *testing.T) {
	ctx, repo := newTestEnv(t)

	user := createUser(ctx, t, repo, testutil.UniqueEmail("cascade"))
	book := createBook(ctx, t, repo, user.ID, "Dune")

	library := &model.Library{Name: "Shelf", CreatedByID: user.ID}
	if err := repo.CreateLibrary(ctx, library, []int64{book.ID}); err != nil {
		t.Fatalf("CreateLibrary failed: %v", err)
	}

	if err := repo.DeleteBook(ctx, book.ID); err != nil {
		t.Fatalf("DeleteBook failed: %v", err)
	}

	retrieved, err := repo.GetLibraryByID(ctx, library.ID)
	if err != nil {
		t.Fatalf("GetLibraryByID failed: %v", err)
	}
	if retrieved.HasBook(book.ID) {
		t.Error("deleted book still a library member")
	}

	if err := repo.DeleteBook(ctx, book.ID); !errors.Is(err, ErrBookNotFound) {
		t.Errorf("Expected ErrBookNotFound, got: %v", err)
	}
}

func TestIntegrationNoteRepository_OwnerScope(t *testing.T) {
	ctx, repo := newTestEnv(t)

	alice := createUser(ctx, t, repo, testutil.UniqueEmail("alice"))
	bob := createUser(ctx, t, repo, testutil.UniqueEmail("bob"))

	note := testutil.NewTestNote(t, alice.ID, "Reading list")
	if err := repo.CreateNote(ctx, note); err != nil {
		t.Fatalf("CreateNote failed: %v", err)
	}

	aliceNotes, err := repo.ListNotesByOwner(ctx, alice.ID)
	if err != nil {
		t.Fatalf("ListNotesByOwner failed: %v", err)
	}
	if len(aliceNotes) != 1 {
		t.Errorf("alice notes = %d, want 1", len(aliceNotes))
	}

	bobNotes, err := repo.ListNotesByOwner(ctx, bob.ID)
	if err != nil {
		t.Fatalf("ListNotesByOwner failed: %v", err)
	}
	if len(bobNotes) != 0 {
		t.Errorf("bob notes = %d, want 0", len(bobNotes))
	}
}
