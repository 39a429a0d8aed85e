package books

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

func setupTestDB(t *testing.T) (*Repository, func()) {
	dbPath := "./test_books_" + t.Name() + ".db"

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(&entities.Book{})
	require.NoError(t, err)

	repo := NewRepository(db)

	cleanup := func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
		os.Remove(dbPath)
	}

	return repo, cleanup
}

func TestRepository_CreateBook(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	book, err := repo.CreateBook("The Dispossessed", "Ursula K. Le Guin", "cover_1.jpg")

	require.NoError(t, err)
	assert.NotZero(t, book.ID)
	assert.True(t, book.Available)
}

func TestRepository_GetBookByID_NotFound(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.GetBookByID(999)

	assert.ErrorIs(t, err, ErrBookNotFound)
}

func TestRepository_ListAvailable(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateBook("Zen and the Art of Motorcycle Maintenance", "Robert M. Pirsig", "")
	require.NoError(t, err)
	_, err = repo.CreateBook("Annihilation", "Jeff VanderMeer", "")
	require.NoError(t, err)
	borrowed, err := repo.CreateBook("Middlemarch", "George Eliot", "")
	require.NoError(t, err)

	// Take one book off the shelf directly
	err = repo.db.Model(&entities.Book{}).Where("id = ?", borrowed.ID).Update("available", false).Error
	require.NoError(t, err)

	available, err := repo.ListAvailable()

	require.NoError(t, err)
	require.Len(t, available, 2)
	// Ordered by title ascending
	assert.Equal(t, "Annihilation", available[0].Title)
	assert.Equal(t, "Zen and the Art of Motorcycle Maintenance", available[1].Title)
}

func TestRepository_CoverInUse(t *testing.T) {
	repo, cleanup := setupTestDB(t)
	defer cleanup()

	_, err := repo.CreateBook("Dune", "Frank Herbert", "cover_42.png")
	require.NoError(t, err)

	inUse, err := repo.CoverInUse("cover_42.png")
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = repo.CoverInUse("cover_unknown.png")
	require.NoError(t, err)
	assert.False(t, inUse)
}
