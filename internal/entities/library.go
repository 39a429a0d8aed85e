package entities

import (
	"time"
)

type UserRole string

const (
	UserRoleMember    UserRole = "member"
	UserRoleLibrarian UserRole = "librarian"
)

// ValidRole reports whether the role is one of the closed set accepted
// at registration. Unknown values are rejected, never stored.
func ValidRole(r UserRole) bool {
	return r == UserRoleMember || r == UserRoleLibrarian
}

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:100" json:"username"`
	PasswordHash string    `gorm:"size:100" json:"-"`
	Role         UserRole  `gorm:"size:20;default:'member'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Book struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	Author    string    `gorm:"index;size:256" json:"author"`
	Cover     string    `gorm:"size:256" json:"cover,omitempty"` // stored cover filename, or the placeholder
	Available bool      `gorm:"default:true" json:"available"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Loan records a single borrow of a book by a user. ReturnedAt is nil while
// the book is out; a loan is never deleted, only completed.
type Loan struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	BookID     uint       `gorm:"index" json:"book_id"`
	BookTitle  string     `gorm:"size:512" json:"book_title"` // denormalized for history views
	UserID     uint       `gorm:"index" json:"user_id"`
	BorrowedAt time.Time  `gorm:"index" json:"borrowed_at"`
	ReturnedAt *time.Time `json:"returned_at,omitempty"`

	Book Book `gorm:"foreignKey:BookID" json:"-"`
	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (User) TableName() string {
	return "users"
}

func (Book) TableName() string {
	return "books"
}

func (Loan) TableName() string {
	return "loans"
}
