package http

import (
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Controllers depend on these rather than on concrete repositories so tests
// can substitute fakes where needed.

// BookStore provides the catalog operations the controllers need.
type BookStore interface {
	CreateBook(title, author, cover string) (*entities.Book, error)
	GetBookByID(id uint) (*entities.Book, error)
	ListAvailable() ([]entities.Book, error)
}

// LoanStore provides borrow/return transitions and the loan views.
type LoanStore interface {
	Borrow(bookID, userID uint) (*entities.Loan, error)
	Return(bookID, userID uint) (*entities.Loan, error)
	ListOpenWithUser() ([]loans.LoanWithUser, error)
	ListAllWithUser() ([]loans.LoanWithUser, error)
	ListOpenForUser(userID uint) ([]loans.BorrowedBook, error)
}

// UserLister provides the librarian user listing.
type UserLister interface {
	ListUsers() ([]entities.User, error)
}

// InventoryAuditor records catalog changes for the audit trail.
type InventoryAuditor interface {
	LogBookAdded(userID, bookID uint, title string)
}
