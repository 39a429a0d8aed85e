package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LogsController renders the librarian borrow history.
type LogsController struct {
	loans LoanStore
}

// NewLogsController creates a new LogsController.
func NewLogsController(loanStore LoanStore) *LogsController {
	return &LogsController{loans: loanStore}
}

// ListLogs shows the full borrow history, newest first.
func (lc *LogsController) ListLogs(c *gin.Context) {
	history, err := lc.loans.ListAllWithUser()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading logs: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "logs", viewData(c, gin.H{
		"Loans": history,
	}))
}
