package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// UsersController renders the librarian user listing.
type UsersController struct {
	users UserLister
}

// NewUsersController creates a new UsersController.
func NewUsersController(users UserLister) *UsersController {
	return &UsersController{users: users}
}

// ListUsers shows every registered account's id, username and role.
func (uc *UsersController) ListUsers(c *gin.Context) {
	users, err := uc.users.ListUsers()
	if err != nil {
		c.String(http.StatusInternalServerError, "Error loading users: %s", err.Error())
		return
	}

	c.HTML(http.StatusOK, "users", viewData(c, gin.H{
		"Users": users,
	}))
}
