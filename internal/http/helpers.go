package http

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
)

// ErrorResponse is the standard error response format for JSON errors.
type ErrorResponse struct {
	Error string `json:"error"`
}

// parseBookID reads the book_id form value as an unsigned integer.
func parseBookID(c *gin.Context) (uint, bool) {
	raw := c.PostForm("book_id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// viewData assembles the template data shared by every authenticated page:
// the current user's snapshot plus the CSRF token for forms.
func viewData(c *gin.Context, extra gin.H) gin.H {
	data := gin.H{
		"Username":    auth.GetUsername(c),
		"IsLibrarian": auth.IsLibrarian(c),
		"CSRFToken":   auth.GetCSRFToken(c),
		"Error":       c.Query("error"),
	}
	for k, v := range extra {
		data[k] = v
	}
	return data
}
