package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Recognized statement column names. Header matching is exact; there is no
// fuzzy matching.
const (
	ColDate            = "Date"
	ColMerchantName    = "Merchant Name"
	ColDescription     = "Description"
	ColAmount          = "Amount"
	ColCategory        = "Category"
	ColNotes           = "Notes"
	ColAccountProvider = "Account Provider"
	ColAccountName     = "Account Name"
)

// StatementRow is one raw record from a decoded statement file: column name
// to text, untyped. Nothing past the normalizer ever sees one.
type StatementRow struct {
	// Line is the 1-based line number in the source file; the header row
	// is line 1, so the first data row is line 2.
	Line   int
	Fields map[string]string
}

// Get returns the trimmed value of a column, or "" when absent.
func (r StatementRow) Get(column string) string {
	return strings.TrimSpace(r.Fields[column])
}

// ImportRecord is the canonical normalized form of one statement row. It is
// ephemeral: it exists only while its row is being processed.
type ImportRecord struct {
	Line        int
	Date        time.Time
	Amount      decimal.Decimal // signed; the ledger writer interprets the sign
	Merchant    string
	Description string
	RawCategory string
	Provider    string
	AccountName string
	Notes       string
}
