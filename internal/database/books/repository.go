// Package books provides database operations for the book catalog.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

var ErrBookNotFound = errors.New("book not found")

// Repository handles all book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateBook inserts a new available book.
func (r *Repository) CreateBook(title, author, cover string) (*entities.Book, error) {
	book := &entities.Book{
		Title:     title,
		Author:    author,
		Cover:     cover,
		Available: true,
	}
	if err := r.db.Create(book).Error; err != nil {
		return nil, fmt.Errorf("failed to create book: %w", err)
	}
	return book, nil
}

// GetBookByID retrieves a book by its ID.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.First(&book, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

// ListAvailable returns all books currently on the shelf, ordered by title.
func (r *Repository) ListAvailable() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Where("available = ?", true).Order("title ASC").Find(&books).Error
	return books, err
}

// CoverInUse reports whether any book references the given cover filename.
// Used by the orphan cleanup job before deleting stored uploads.
func (r *Repository) CoverInUse(filename string) (bool, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Where("cover = ?", filename).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
