package loans

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, *books.Repository, *users.Repository, func()) {
	dbPath := "./test_loans_" + t.Name() + ".db"

	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}

	return NewRepository(db.DB), books.NewRepository(db.DB), users.NewRepository(db.DB), cleanup
}

func TestRepository_Borrow(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	book, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "")
	require.NoError(t, err)

	loan, err := repo.Borrow(book.ID, user.ID)

	require.NoError(t, err)
	assert.NotZero(t, loan.ID)
	assert.Equal(t, book.ID, loan.BookID)
	assert.Equal(t, "Solaris", loan.BookTitle)
	assert.Nil(t, loan.ReturnedAt)

	updated, err := bookRepo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)

	count, err := repo.CountOpenForBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_Borrow_Unavailable(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	alice, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	bob, err := userRepo.CreateUser("bob", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	book, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "")
	require.NoError(t, err)

	_, err = repo.Borrow(book.ID, alice.ID)
	require.NoError(t, err)

	_, err = repo.Borrow(book.ID, bob.ID)

	assert.ErrorIs(t, err, ErrBookUnavailable)

	// Still exactly one open loan, book still marked borrowed
	count, err := repo.CountOpenForBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	updated, err := bookRepo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)
}

func TestRepository_Borrow_BookNotFound(t *testing.T) {
	repo, _, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)

	_, err = repo.Borrow(999, user.ID)

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_Return(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	book, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "")
	require.NoError(t, err)

	_, err = repo.Borrow(book.ID, user.ID)
	require.NoError(t, err)

	loan, err := repo.Return(book.ID, user.ID)

	require.NoError(t, err)
	require.NotNil(t, loan.ReturnedAt)
	assert.WithinDuration(t, time.Now().UTC(), *loan.ReturnedAt, 5*time.Second)

	updated, err := bookRepo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.True(t, updated.Available)

	count, err := repo.CountOpenForBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestRepository_Return_NoOpenLoan(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	alice, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	bob, err := userRepo.CreateUser("bob", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	book, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "")
	require.NoError(t, err)

	_, err = repo.Borrow(book.ID, alice.ID)
	require.NoError(t, err)

	// Bob never borrowed it; the book must stay borrowed
	_, err = repo.Return(book.ID, bob.ID)

	assert.ErrorIs(t, err, ErrLoanNotFound)

	updated, err := bookRepo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.False(t, updated.Available)

	count, err := repo.CountOpenForBook(book.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestRepository_BorrowReturnCycle(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	user, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	book, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "")
	require.NoError(t, err)

	// Borrow and return twice; history accumulates, availability round-trips
	for i := 0; i < 2; i++ {
		_, err = repo.Borrow(book.ID, user.ID)
		require.NoError(t, err)
		_, err = repo.Return(book.ID, user.ID)
		require.NoError(t, err)
	}

	updated, err := bookRepo.GetBookByID(book.ID)
	require.NoError(t, err)
	assert.True(t, updated.Available)

	history, err := repo.ListAllWithUser()
	require.NoError(t, err)
	require.Len(t, history, 2)
	for _, h := range history {
		assert.NotNil(t, h.ReturnedAt)
		assert.Equal(t, "alice", h.Username)
	}
}

func TestRepository_ListOpenWithUser(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	alice, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	first, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "")
	require.NoError(t, err)
	second, err := bookRepo.CreateBook("Roadside Picnic", "Arkady Strugatsky", "")
	require.NoError(t, err)

	_, err = repo.Borrow(first.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Borrow(second.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Return(first.ID, alice.ID)
	require.NoError(t, err)

	open, err := repo.ListOpenWithUser()

	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "Roadside Picnic", open[0].BookTitle)
	assert.Equal(t, "alice", open[0].Username)
	assert.Nil(t, open[0].ReturnedAt)
}

func TestRepository_ListOpenForUser(t *testing.T) {
	repo, bookRepo, userRepo, cleanup := setupTestDB(t)
	defer cleanup()

	alice, err := userRepo.CreateUser("alice", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	bob, err := userRepo.CreateUser("bob", "hash", entities.UserRoleMember)
	require.NoError(t, err)
	mine, err := bookRepo.CreateBook("Solaris", "Stanislaw Lem", "cover_9.jpg")
	require.NoError(t, err)
	theirs, err := bookRepo.CreateBook("Roadside Picnic", "Arkady Strugatsky", "")
	require.NoError(t, err)

	_, err = repo.Borrow(mine.ID, alice.ID)
	require.NoError(t, err)
	_, err = repo.Borrow(theirs.ID, bob.ID)
	require.NoError(t, err)

	borrowed, err := repo.ListOpenForUser(alice.ID)

	require.NoError(t, err)
	require.Len(t, borrowed, 1)
	assert.Equal(t, mine.ID, borrowed[0].BookID)
	assert.Equal(t, "Solaris", borrowed[0].Title)
	assert.Equal(t, "cover_9.jpg", borrowed[0].Cover)
}
