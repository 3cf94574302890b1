package processors

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/store"
)

// The fixed Snoop taxonomy materialized for every user on first classifier
// use. Bootstrap is idempotent: existing (name, type) pairs are reused.
var (
	expenseTaxonomy = []string{
		"Eating Out", "Groceries", "Shopping", "Transport", "Entertainment",
		"Home & Family", "Health & Beauty", "Travel", "Insurances", "Childcare",
		"General", "Business", "Investment", "AI-IF expenses", "VTL T&S",
		"VTL Subscriptions", "Internal Transfers",
	}
	incomeTaxonomy = []string{"Income", "Salary", "Internal Transfers"}
)

const (
	defaultExpenseCategory = "general"
	defaultIncomeCategory  = "income"
)

type categoryKey struct {
	name    string // lower-cased label
	catType string
}

// CategoryClassifier maps raw statement category labels to ledger
// categories. Lookup is case-insensitive and scoped by transaction type, so
// an expense "Internal Transfers" never collides with the income one.
type CategoryClassifier struct {
	byKey          map[categoryKey]*models.Category
	defaultExpense *models.Category
	defaultIncome  *models.Category
}

// NewCategoryClassifier bootstraps the taxonomy for the user and builds the
// lookup table. Call once per import batch.
func NewCategoryClassifier(ctx context.Context, st store.Store, userID int64) (*CategoryClassifier, error) {
	c := &CategoryClassifier{byKey: make(map[categoryKey]*models.Category)}

	for _, name := range expenseTaxonomy {
		cat, err := st.GetOrCreateCategory(ctx, userID, name, models.TransactionTypeExpense)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping expense category %q: %w", name, err)
		}
		c.byKey[categoryKey{strings.ToLower(name), models.TransactionTypeExpense}] = cat
	}
	for _, name := range incomeTaxonomy {
		cat, err := st.GetOrCreateCategory(ctx, userID, name, models.TransactionTypeIncome)
		if err != nil {
			return nil, fmt.Errorf("bootstrapping income category %q: %w", name, err)
		}
		c.byKey[categoryKey{strings.ToLower(name), models.TransactionTypeIncome}] = cat
	}

	var err error
	c.defaultExpense, err = c.fallbackOfType(ctx, st, userID, defaultExpenseCategory, models.TransactionTypeExpense)
	if err != nil {
		return nil, err
	}
	c.defaultIncome, err = c.fallbackOfType(ctx, st, userID, defaultIncomeCategory, models.TransactionTypeIncome)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// fallbackOfType picks the default category for a type: the named default
// if bootstrapped, else any existing category of that type, else none.
func (c *CategoryClassifier) fallbackOfType(ctx context.Context, st store.Store, userID int64, name, catType string) (*models.Category, error) {
	if cat, ok := c.byKey[categoryKey{name, catType}]; ok {
		return cat, nil
	}
	cat, err := st.FirstCategoryOfType(ctx, userID, catType)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	return cat, err
}

// Classify resolves a raw label for the given transaction type. Unmatched
// labels fall back to the type's default category, which may be nil; a nil
// result leaves the transaction uncategorized.
func (c *CategoryClassifier) Classify(label, txType string) *models.Category {
	if cat, ok := c.byKey[categoryKey{strings.ToLower(strings.TrimSpace(label)), txType}]; ok {
		return cat
	}
	if txType == models.TransactionTypeIncome {
		return c.defaultIncome
	}
	return c.defaultExpense
}
