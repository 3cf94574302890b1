package store

import (
	"context"
	"errors"
	"time"

	"github.com/username/homeledger/backend/src/models"
)

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("store: not found")

// Store is the persistence contract the import engine and handlers consume.
// Implementations must make CreateTransactionWithBalance and
// DeleteTransactionWithBalance atomic, and must apply balance changes as
// delta increments rather than read-modify-write, so concurrent batches
// cannot lose updates.
type Store interface {
	// Accounts. Lookup is by (user, exact display name); that pair is the
	// idempotency key across repeated imports.
	GetOrCreateAccount(ctx context.Context, acct *models.Account) (created bool, err error)
	GetAccountByID(ctx context.Context, userID, id int64) (*models.Account, error)
	GetAccountByName(ctx context.Context, userID int64, name string) (*models.Account, error)
	ListAccounts(ctx context.Context, userID int64) ([]models.Account, error)

	// Categories. Identity is (user, name, type); get-or-create is a no-op
	// for an existing pair.
	GetOrCreateCategory(ctx context.Context, userID int64, name, catType string) (*models.Category, error)
	FirstCategoryOfType(ctx context.Context, userID int64, catType string) (*models.Category, error)
	ListCategories(ctx context.Context, userID int64) ([]models.Category, error)

	// Transactions. Creation inserts the row and applies its signed effect
	// to the account balance as one unit; deletion reverses the effect
	// with the same sign convention.
	CreateTransactionWithBalance(ctx context.Context, tx *models.Transaction) error
	ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	DeleteTransactionWithBalance(ctx context.Context, userID, id int64) error

	// Provenance. RecordImportBatch upserts one row per (user, source),
	// adding the batch's created count to the cumulative total.
	GetProvenance(ctx context.Context, userID int64, source string) (*models.ImportProvenance, error)
	RecordImportBatch(ctx context.Context, userID int64, source string, created int, syncedAt time.Time) error

	// Users.
	CreateUser(ctx context.Context, u *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
