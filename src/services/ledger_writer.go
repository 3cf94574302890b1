package services

import (
	"context"
	"fmt"

	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/store"
)

const (
	// Used when a row carries neither merchant nor description text.
	fallbackDescription = "Snoop Import"
	fallbackNotes       = "Imported from Snoop"
)

// LedgerWriter turns a validated import record into a persisted
// transaction plus its balance effect. The insert and the balance delta
// are applied as one storage unit; a failure leaves neither in place.
type LedgerWriter struct {
	store  store.Store
	userID int64
}

func NewLedgerWriter(st store.Store, userID int64) *LedgerWriter {
	return &LedgerWriter{store: st, userID: userID}
}

// Write creates the transaction for a record on the given account. The
// stored amount is always the magnitude; a negative signed amount becomes
// an expense and decreases the balance, anything else becomes income and
// increases it. category may be nil.
func (w *LedgerWriter) Write(ctx context.Context, rec *models.ImportRecord, acct *models.Account, category *models.Category) (*models.Transaction, error) {
	description := rec.Merchant
	if description == "" {
		description = rec.Description
	}
	if description == "" {
		description = fallbackDescription
	}

	notes := rec.Notes
	if notes == "" {
		notes = fallbackNotes
	}

	tx := &models.Transaction{
		UserID:      w.userID,
		AccountID:   acct.ID,
		Amount:      rec.Amount.Abs(),
		Type:        models.TransactionTypeForAmount(rec.Amount),
		Description: description,
		Date:        rec.Date,
		Notes:       notes,
	}
	if category != nil {
		id := category.ID
		tx.CategoryID = &id
	}

	if err := w.store.CreateTransactionWithBalance(ctx, tx); err != nil {
		return nil, fmt.Errorf("writing transaction to account %q: %w", acct.Name, err)
	}
	return tx, nil
}
