package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account types form a closed set; anything the importer cannot infer
// defaults to AccountTypeChecking.
const (
	AccountTypeChecking   = "checking"
	AccountTypeSavings    = "savings"
	AccountTypeCredit     = "credit"
	AccountTypeCash       = "cash"
	AccountTypeInvestment = "investment"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// TransactionDateFormat is how calendar dates are persisted; transactions
// carry no time component.
const TransactionDateFormat = "2006-01-02"

// Account is a user's ledger account. Balance equals the net signed effect
// of every transaction ever applied to it.
type Account struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"-"`
	Name      string          `json:"name"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
}

// Category is user-scoped and identified by (name, type). Income and
// expense categories live in distinct keyspaces even when names overlap.
type Category struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"-"`
	Name   string `json:"name"`
	Type   string `json:"type"`
}

// Transaction stores a non-negative amount; the sign of its balance effect
// is carried by Type, not by the magnitude.
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"-"`
	AccountID   int64           `json:"account_id"`
	CategoryID  *int64          `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Notes       string          `json:"notes"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ImportProvenance records, per (user, external source), when the last
// import ran and how many transactions it has ever created. It is upserted
// once per batch, never per row.
type ImportProvenance struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"-"`
	Source         string     `json:"source"`
	LastSyncAt     *time.Time `json:"last_sync_at"`
	TotalImported  int        `json:"total_imported"`
	LastBatchCount int        `json:"last_batch_count"`
}

// TransactionTypeForAmount maps a signed amount to a transaction type: a
// negative amount is an expense, anything else (zero included) is income.
func TransactionTypeForAmount(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return TransactionTypeExpense
	}
	return TransactionTypeIncome
}

// SignedEffect returns the transaction's effect on its account balance:
// negative for expenses, positive for income.
func (t *Transaction) SignedEffect() decimal.Decimal {
	if t.Type == TransactionTypeExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
