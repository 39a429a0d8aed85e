package http

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/uploads"
)

// BooksController handles librarian inventory management.
type BooksController struct {
	books   BookStore
	uploads *uploads.Store
	auditor InventoryAuditor
}

// NewBooksController creates a new BooksController.
func NewBooksController(books BookStore, uploadStore *uploads.Store, auditor InventoryAuditor) *BooksController {
	return &BooksController{
		books:   books,
		uploads: uploadStore,
		auditor: auditor,
	}
}

// AddBook creates a catalog entry from the add-book form. The cover upload is
// optional; without one the placeholder image is referenced instead.
func (bc *BooksController) AddBook(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	author := strings.TrimSpace(c.PostForm("author"))
	if title == "" || author == "" {
		bc.redirectWithError(c, "Title and author are required")
		return
	}

	cover := config.PlaceholderCover
	file, header, err := c.Request.FormFile("cover")
	if err == nil {
		defer file.Close()
		cover, err = bc.uploads.Save(file, header.Filename)
		if err != nil {
			switch {
			case errors.Is(err, uploads.ErrUnsupportedType):
				bc.redirectWithError(c, "Cover must be an image file")
			case errors.Is(err, uploads.ErrTooLarge):
				bc.redirectWithError(c, "Cover image is too large")
			default:
				log.Printf("Failed to store cover upload: %v", err)
				bc.redirectWithError(c, "Failed to store cover image")
			}
			return
		}
	}

	book, err := bc.books.CreateBook(title, author, cover)
	if err != nil {
		log.Printf("Failed to create book: %v", err)
		// The stored upload is now orphaned; the cleanup job reclaims it.
		bc.redirectWithError(c, "Failed to create book")
		return
	}

	if bc.auditor != nil {
		bc.auditor.LogBookAdded(auth.GetUserID(c), book.ID, book.Title)
	}

	c.Redirect(http.StatusFound, "/dashboard")
}

func (bc *BooksController) redirectWithError(c *gin.Context, msg string) {
	c.Redirect(http.StatusFound, "/dashboard?error="+url.QueryEscape(msg))
}
