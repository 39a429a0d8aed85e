// Command seed creates a database with sample accounts and a small catalog
// for local development.
// Usage: go run cmd/seed/main.go [-db path/to/librarian.db]
package main

import (
	"flag"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/entities"
)

const defaultSeedDatabasePath = "./librarian.db"

// seedPassword is shared by every seeded account. Development only.
const seedPassword = "password123"

func main() {
	dbPath := flag.String("db", defaultSeedDatabasePath, "path to the database file")
	flag.Parse()

	log.Printf("Seeding database at %s...", *dbPath)

	// Start from a clean file
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	// Cheap hashing; these accounts are throwaway
	cfg.Auth.BcryptCost = bcrypt.MinCost
	service := auth.NewService(db.DB, cfg.Auth)

	accounts := []struct {
		username string
		role     entities.UserRole
	}{
		{"head-librarian", entities.UserRoleLibrarian},
		{"alice", entities.UserRoleMember},
		{"bob", entities.UserRoleMember},
	}

	users := make(map[string]*entities.User)
	for _, a := range accounts {
		user, err := service.Register(a.username, seedPassword, a.role)
		if err != nil {
			log.Fatalf("Failed to create user %s: %v", a.username, err)
		}
		users[a.username] = user
		log.Printf("Created %s %q (password %q)", a.role, a.username, seedPassword)
	}

	bookRepo := books.NewRepository(db.DB)
	catalog := []struct {
		title  string
		author string
	}{
		{"Meditations", "Marcus Aurelius"},
		{"The Trial", "Franz Kafka"},
		{"Solaris", "Stanislaw Lem"},
		{"Roadside Picnic", "Arkady and Boris Strugatsky"},
		{"The Master and Margarita", "Mikhail Bulgakov"},
		{"We", "Yevgeny Zamyatin"},
	}

	created := make([]*entities.Book, 0, len(catalog))
	for _, b := range catalog {
		book, err := bookRepo.CreateBook(b.title, b.author, config.PlaceholderCover)
		if err != nil {
			log.Fatalf("Failed to create book %s: %v", b.title, err)
		}
		created = append(created, book)
		log.Printf("Added %q by %s", book.Title, book.Author)
	}

	// Leave some history behind: alice holds one book, bob borrowed and
	// returned another
	loanRepo := loans.NewRepository(db.DB)
	if _, err := loanRepo.Borrow(created[0].ID, users["alice"].ID); err != nil {
		log.Fatalf("Failed to record borrow: %v", err)
	}
	if _, err := loanRepo.Borrow(created[1].ID, users["bob"].ID); err != nil {
		log.Fatalf("Failed to record borrow: %v", err)
	}
	if _, err := loanRepo.Return(created[1].ID, users["bob"].ID); err != nil {
		log.Fatalf("Failed to record return: %v", err)
	}

	log.Println("Database seeded successfully!")
}
