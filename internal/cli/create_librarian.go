package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

// CreateLibrarianCommand creates a librarian account from the command line,
// for bootstrapping a fresh install without going through the web form.
type CreateLibrarianCommand struct {
	Username     string
	Password     string
	DatabasePath string
}

// NewCreateLibrarianCommand creates a new CreateLibrarianCommand.
func NewCreateLibrarianCommand() *CreateLibrarianCommand {
	return &CreateLibrarianCommand{}
}

// ParseFlags parses command line flags.
func (cmd *CreateLibrarianCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-librarian", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new librarian account")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new librarian account")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the application database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-librarian [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a librarian account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExample:\n")
		fmt.Fprintf(os.Stderr, "  %s create-librarian -username head-librarian -password 'a strong password'\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Password == "" {
		fs.Usage()
		return fmt.Errorf("both -username and -password are required")
	}

	return nil
}

// Run executes the command.
func (cmd *CreateLibrarianCommand) Run() error {
	cfg := config.NewConfig()

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(db.DB, cfg.Auth)
	user, err := service.Register(cmd.Username, cmd.Password, entities.UserRoleLibrarian)
	if err != nil {
		return fmt.Errorf("failed to create librarian: %w", err)
	}

	fmt.Printf("Created librarian %q (id %d)\n", user.Username, user.ID)
	return nil
}
