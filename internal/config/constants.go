package config

// Default paths
const (
	// DefaultDatabasePath is the default path for the application database
	DefaultDatabasePath = "./librarian.db"

	// DefaultUploadsDir is the default public directory for uploaded covers
	DefaultUploadsDir = "./uploads/covers"

	// PlaceholderCover is the cover filename used when a book is added without an upload
	PlaceholderCover = "placeholder.png"
)
