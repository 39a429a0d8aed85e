package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
)

// DashboardController renders the role-branched landing page.
type DashboardController struct {
	books BookStore
	loans LoanStore
}

// NewDashboardController creates a new DashboardController.
func NewDashboardController(books BookStore, loans LoanStore) *DashboardController {
	return &DashboardController{
		books: books,
		loans: loans,
	}
}

// Dashboard shows the available catalog to everyone; librarians additionally
// see the list of books currently out on loan.
func (dc *DashboardController) Dashboard(c *gin.Context) {
	available, err := dc.books.ListAvailable()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading books: %s", err.Error())
		return
	}

	data := gin.H{
		"Books":      available,
		"TotalBooks": len(available),
	}

	if auth.IsLibrarian(c) {
		open, err := dc.loans.ListOpenWithUser()
		if err != nil {
			c.String(http.StatusInternalServerError, "Error loading loans: %s", err.Error())
			return
		}
		data["OpenLoans"] = open
	}

	c.HTML(http.StatusOK, "dashboard", viewData(c, data))
}
