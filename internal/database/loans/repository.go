// Package loans implements the borrow/return state machine over the loans table.
//
// Each transition runs inside a single transaction so the availability flag and
// the loan rows can never disagree: a book has available=false exactly when one
// open loan row references it. A partial unique index on loans(book_id) for
// open rows backstops concurrent borrows that race past the availability check.
package loans

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
)

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrBookUnavailable = errors.New("book is not available")
	ErrLoanNotFound    = errors.New("no open loan for this book and user")
)

// Repository handles all loan database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new loans repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Borrow transitions a book from available to borrowed on behalf of a user.
// The availability check, the flag flip and the loan insert commit together.
func (r *Repository) Borrow(bookID, userID uint) (*entities.Loan, error) {
	var loan *entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var book entities.Book
		if err := tx.First(&book, bookID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookNotFound
			}
			return fmt.Errorf("failed to load book: %w", err)
		}

		if !book.Available {
			return ErrBookUnavailable
		}

		result := tx.Model(&entities.Book{}).
			Where("id = ? AND available = ?", bookID, true).
			Update("available", false)
		if result.Error != nil {
			return fmt.Errorf("failed to mark book borrowed: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			// Lost the race to a concurrent borrower.
			return ErrBookUnavailable
		}

		loan = &entities.Loan{
			BookID:     book.ID,
			BookTitle:  book.Title,
			UserID:     userID,
			BorrowedAt: time.Now().UTC(),
		}
		if err := tx.Create(loan).Error; err != nil {
			return fmt.Errorf("failed to create loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loan, nil
}

// Return completes the caller's most recent open loan for the book and puts
// the book back on the shelf. Without a matching open loan nothing changes.
func (r *Repository) Return(bookID, userID uint) (*entities.Loan, error) {
	var loan entities.Loan

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("book_id = ? AND user_id = ? AND returned_at IS NULL", bookID, userID).
			Order("borrowed_at DESC").
			First(&loan).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLoanNotFound
			}
			return fmt.Errorf("failed to find open loan: %w", err)
		}

		now := time.Now().UTC()
		if err := tx.Model(&loan).Update("returned_at", now).Error; err != nil {
			return fmt.Errorf("failed to complete loan: %w", err)
		}
		loan.ReturnedAt = &now

		err = tx.Model(&entities.Book{}).
			Where("id = ?", bookID).
			Update("available", true).Error
		if err != nil {
			return fmt.Errorf("failed to mark book available: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &loan, nil
}

// LoanWithUser is a loan row joined with the borrower's username for the
// librarian history and dashboard views.
type LoanWithUser struct {
	ID         uint       `json:"id"`
	BookID     uint       `json:"book_id"`
	BookTitle  string     `json:"book_title"`
	UserID     uint       `json:"user_id"`
	Username   string     `json:"username"`
	BorrowedAt time.Time  `json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`
}

// ListOpenWithUser returns all outstanding loans joined with the borrower,
// newest first.
func (r *Repository) ListOpenWithUser() ([]LoanWithUser, error) {
	var rows []LoanWithUser
	err := r.db.Table("loans").
		Select("loans.id, loans.book_id, loans.book_title, loans.user_id, users.username, loans.borrowed_at, loans.returned_at").
		Joins("JOIN users ON users.id = loans.user_id").
		Where("loans.returned_at IS NULL").
		Order("loans.borrowed_at DESC").
		Scan(&rows).Error
	return rows, err
}

// ListAllWithUser returns the full borrow history joined with the borrower,
// newest first.
func (r *Repository) ListAllWithUser() ([]LoanWithUser, error) {
	var rows []LoanWithUser
	err := r.db.Table("loans").
		Select("loans.id, loans.book_id, loans.book_title, loans.user_id, users.username, loans.borrowed_at, loans.returned_at").
		Joins("JOIN users ON users.id = loans.user_id").
		Order("loans.borrowed_at DESC").
		Scan(&rows).Error
	return rows, err
}

// BorrowedBook is a book joined to the caller's open loan for /my-books.
type BorrowedBook struct {
	LoanID     uint      `json:"loan_id"`
	BookID     uint      `json:"book_id"`
	Title      string    `json:"title"`
	Author     string    `json:"author"`
	Cover      string    `json:"cover"`
	BorrowedAt time.Time `json:"borrowed_at"`
}

// ListOpenForUser returns the books a user currently has out, newest first.
func (r *Repository) ListOpenForUser(userID uint) ([]BorrowedBook, error) {
	var rows []BorrowedBook
	err := r.db.Table("loans").
		Select("loans.id AS loan_id, books.id AS book_id, books.title, books.author, books.cover, loans.borrowed_at").
		Joins("JOIN books ON books.id = loans.book_id").
		Where("loans.user_id = ? AND loans.returned_at IS NULL", userID).
		Order("loans.borrowed_at DESC").
		Scan(&rows).Error
	return rows, err
}

// CountOpenForBook returns the number of open loans referencing a book.
// The partial unique index keeps this at most one; exposed for tests.
func (r *Repository) CountOpenForBook(bookID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entities.Loan{}).
		Where("book_id = ? AND returned_at IS NULL", bookID).
		Count(&count).Error
	return count, err
}
