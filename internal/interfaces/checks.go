// Package interfaces contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
package interfaces

import (
	"github.com/mrlokans/librarian/internal/audit"
	"github.com/mrlokans/librarian/internal/auth"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/database/loans"
	"github.com/mrlokans/librarian/internal/database/users"
	"github.com/mrlokans/librarian/internal/http"
	"github.com/mrlokans/librarian/internal/scheduler"
)

// Data access layer
var _ http.BookStore = (*books.Repository)(nil)
var _ http.LoanStore = (*loans.Repository)(nil)
var _ http.UserLister = (*users.Repository)(nil)

// Audit trail
var _ auth.AuthAuditor = (*audit.Service)(nil)
var _ http.InventoryAuditor = (*audit.Service)(nil)

// Maintenance jobs
var _ scheduler.CoverUsage = (*books.Repository)(nil)
var _ scheduler.EventPruner = (*audit.Service)(nil)
