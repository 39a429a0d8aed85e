package http

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/librarian/internal/auth"
)

// NewRouter builds the gin engine with all middleware and routes wired.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Apply security headers to all responses
	router.Use(auth.SecurityHeadersMiddleware())

	// CSRF must run before session so that session context is preserved
	if len(cfg.CSRFSecret) > 0 {
		router.Use(auth.CSRFMiddleware(cfg.CSRFSecret, cfg.SecureCookies))
	}

	// Session runs after CSRF so session context isn't overwritten by CSRF's
	// request replacement
	if cfg.SessionManager != nil {
		router.Use(cfg.SessionManager.SessionLoadSave())
	}

	// Copy the session's user snapshot into the gin context
	if cfg.AuthMiddleware != nil {
		router.Use(cfg.AuthMiddleware.LoadUser())
	}

	// Load HTML templates
	tmpl := template.Must(template.New("").ParseGlob(cfg.TemplatesPath + "/*.html"))
	router.SetHTMLTemplate(tmpl)

	// Serve static assets and the stored cover images
	router.Static("/static", cfg.StaticPath)
	if cfg.UploadStore != nil {
		router.Static("/covers", cfg.UploadStore.Dir())
	}

	// Authentication routes
	if cfg.AuthService != nil {
		authController, err := auth.NewAuthController(cfg.AuthService, cfg.SessionManager, cfg.TemplatesPath, cfg.AuthConfig, cfg.Auditor)
		if err != nil {
			log.Printf("WARNING: auth controller unavailable: %v", err)
		} else {
			authController.RegisterRoutes(router)
		}
	}

	// Create controllers with their store interfaces
	health := NewHealthController(cfg.Database, cfg.Version)
	dashboard := NewDashboardController(cfg.BookStore, cfg.LoanStore)
	booksController := NewBooksController(cfg.BookStore, cfg.UploadStore, cfg.Auditor)
	loansController := NewLoansController(cfg.LoanStore)
	usersController := NewUsersController(cfg.UserLister)
	logsController := NewLogsController(cfg.LoanStore)

	// Health endpoints
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	// Landing: authenticated users go to their dashboard, everyone else to login
	router.GET("/", func(c *gin.Context) {
		if auth.GetUserID(c) != 0 {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/login")
	})

	m := cfg.AuthMiddleware

	// Authenticated routes
	router.GET("/dashboard", m.RequireAuth(), dashboard.Dashboard)
	router.GET("/my-books", m.RequireAuth(), loansController.MyBooks)
	router.POST("/borrow-book", m.RequireAuthJSON(), loansController.Borrow)
	router.POST("/return-book", m.RequireAuth(), loansController.Return)

	// Librarian-only routes
	router.GET("/logs", m.RequireLibrarian(), logsController.ListLogs)
	router.GET("/users", m.RequireLibrarian(), usersController.ListUsers)
	router.POST("/add-book", m.RequireLibrarian(), booksController.AddBook)

	return router
}
