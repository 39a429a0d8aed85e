package http

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/database/loans"
)

// LoansController handles the borrow/return transitions and the caller's
// open-loans view.
type LoansController struct {
	loans LoanStore
}

// NewLoansController creates a new LoansController.
func NewLoansController(loanStore LoanStore) *LoansController {
	return &LoansController{loans: loanStore}
}

// Borrow performs the available-to-borrowed transition. The endpoint speaks
// JSON status codes: 200 on success, 400 when the book is out, 404 when it
// does not exist, 500 on store failure.
func (lc *LoansController) Borrow(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid book id"})
		return
	}

	userID := auth.GetUserID(c)
	loan, err := lc.loans.Borrow(bookID, userID)
	if err != nil {
		switch {
		case errors.Is(err, loans.ErrBookNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "book not found"})
		case errors.Is(err, loans.ErrBookUnavailable):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "book is not available"})
		default:
			log.Printf("Borrow failed for book %d, user %d: %v", bookID, userID, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to borrow book"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "book borrowed",
		"loan_id": loan.ID,
	})
}

// Return performs the borrowed-to-available transition and redirects back to
// the dashboard. A return without a matching open loan changes nothing.
func (lc *LoansController) Return(c *gin.Context) {
	bookID, ok := parseBookID(c)
	if !ok {
		c.Redirect(http.StatusFound, "/my-books?error="+url.QueryEscape("Invalid book"))
		return
	}

	userID := auth.GetUserID(c)
	if _, err := lc.loans.Return(bookID, userID); err != nil {
		if errors.Is(err, loans.ErrLoanNotFound) {
			c.Redirect(http.StatusFound, "/my-books?error="+url.QueryEscape("You have not borrowed this book"))
			return
		}
		log.Printf("Return failed for book %d, user %d: %v", bookID, userID, err)
		c.Redirect(http.StatusFound, "/my-books?error="+url.QueryEscape("Failed to return book"))
		return
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

// MyBooks lists the books the caller currently has out.
func (lc *LoansController) MyBooks(c *gin.Context) {
	userID := auth.GetUserID(c)
	borrowed, err := lc.loans.ListOpenForUser(userID)
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading loans: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "my_books", viewData(c, gin.H{
		"Borrowed": borrowed,
	}))
}
