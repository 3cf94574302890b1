package services

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrParsingFailed wraps any failure to decode a statement file at all.
// It is the only import failure that surfaces as a hard error; everything
// row-level is aggregated into the summary.
var ErrParsingFailed = errors.New("statement decoding failed")

// ImportInput carries one statement import request.
type ImportInput struct {
	UserID int64
	Source string
	File   io.Reader

	// AutoCreateAccounts enables creating accounts for unseen
	// (provider, name) pairs. When disabled, rows land on the default
	// account or are skipped.
	AutoCreateAccounts bool
	DefaultAccountID   *int64
}

// ImportSummary is the aggregate report for one batch. Errors holds at most
// the first ten row error messages; TotalErrors counts them all.
type ImportSummary struct {
	TransactionsCreated int      `json:"transactions_created"`
	TransactionsSkipped int      `json:"transactions_skipped"`
	AccountsCreated     []string `json:"accounts_created"`
	Errors              []string `json:"errors"`
	TotalErrors         int      `json:"total_errors"`
	Warning             string   `json:"warning,omitempty"`
}

// Integration describes one import source and its per-user history.
type Integration struct {
	Provider    string     `json:"provider"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Logo        string     `json:"logo"`
	Features    []string   `json:"features"`
	Type        string     `json:"type"`
	LastImport  *time.Time `json:"last_import,omitempty"`
	ImportCount int        `json:"import_count"`
}

// ImportService is the bank-statement import engine.
type ImportService interface {
	// ImportStatement processes one complete statement file. Only decode
	// failures return an error; partial failures are reported in the
	// summary.
	ImportStatement(ctx context.Context, input ImportInput) (*ImportSummary, error)

	// LatestImportSummary returns the cached summary of the user's most
	// recent batch for a source, if one is cached.
	LatestImportSummary(userID int64, source string) (*ImportSummary, bool)

	// ListIntegrations returns the available import sources with the
	// user's provenance (last sync, cumulative count).
	ListIntegrations(ctx context.Context, userID int64) ([]Integration, error)
}
