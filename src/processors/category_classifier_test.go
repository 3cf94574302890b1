package processors

import (
	"context"
	"testing"

	"github.com/username/homeledger/backend/src/models"
)

// seededMockStore returns categories with stable IDs keyed by (name, type)
// and records how often each pair was requested.
func seededMockStore(t *testing.T) (*MockStore, map[string]int) {
	t.Helper()
	requests := make(map[string]int)
	nextID := int64(1)
	byKey := make(map[string]*models.Category)

	mock := &MockStore{
		GetOrCreateCategoryFunc: func(ctx context.Context, userID int64, name, catType string) (*models.Category, error) {
			key := name + "|" + catType
			requests[key]++
			if cat, ok := byKey[key]; ok {
				return cat, nil
			}
			cat := &models.Category{ID: nextID, UserID: userID, Name: name, Type: catType}
			nextID++
			byKey[key] = cat
			return cat, nil
		},
	}
	return mock, requests
}

func TestClassifierBootstrapsTaxonomy(t *testing.T) {
	mock, requests := seededMockStore(t)

	_, err := NewCategoryClassifier(context.Background(), mock, 1)
	if err != nil {
		t.Fatalf("NewCategoryClassifier returned error: %v", err)
	}

	if n := requests["Groceries|"+models.TransactionTypeExpense]; n != 1 {
		t.Errorf("expected Groceries bootstrapped once, got %d", n)
	}
	if n := requests["Salary|"+models.TransactionTypeIncome]; n != 1 {
		t.Errorf("expected Salary bootstrapped once, got %d", n)
	}
	// Internal Transfers exists in both type keyspaces.
	if n := requests["Internal Transfers|"+models.TransactionTypeExpense]; n != 1 {
		t.Errorf("expected expense Internal Transfers, got %d requests", n)
	}
	if n := requests["Internal Transfers|"+models.TransactionTypeIncome]; n != 1 {
		t.Errorf("expected income Internal Transfers, got %d requests", n)
	}
}

func TestClassifyMatchesCaseInsensitive(t *testing.T) {
	mock, _ := seededMockStore(t)
	c, err := NewCategoryClassifier(context.Background(), mock, 1)
	if err != nil {
		t.Fatalf("NewCategoryClassifier returned error: %v", err)
	}

	cat := c.Classify("eating out", models.TransactionTypeExpense)
	if cat == nil || cat.Name != "Eating Out" {
		t.Fatalf("expected Eating Out, got %+v", cat)
	}
	cat = c.Classify("  SALARY ", models.TransactionTypeIncome)
	if cat == nil || cat.Name != "Salary" {
		t.Fatalf("expected Salary, got %+v", cat)
	}
}

func TestClassifyTypeKeyspacesAreDistinct(t *testing.T) {
	mock, _ := seededMockStore(t)
	c, err := NewCategoryClassifier(context.Background(), mock, 1)
	if err != nil {
		t.Fatalf("NewCategoryClassifier returned error: %v", err)
	}

	expense := c.Classify("Internal Transfers", models.TransactionTypeExpense)
	income := c.Classify("Internal Transfers", models.TransactionTypeIncome)
	if expense == nil || income == nil {
		t.Fatal("expected both keyspaces to resolve")
	}
	if expense.ID == income.ID {
		t.Errorf("expense and income Internal Transfers should be distinct categories")
	}
	if expense.Type != models.TransactionTypeExpense || income.Type != models.TransactionTypeIncome {
		t.Errorf("unexpected types: %q / %q", expense.Type, income.Type)
	}
}

func TestClassifyAmpersandNames(t *testing.T) {
	mock, _ := seededMockStore(t)
	c, err := NewCategoryClassifier(context.Background(), mock, 1)
	if err != nil {
		t.Fatalf("NewCategoryClassifier returned error: %v", err)
	}

	for _, name := range []string{"Home & Family", "Health & Beauty", "VTL T&S"} {
		cat := c.Classify(name, models.TransactionTypeExpense)
		if cat == nil || cat.Name != name {
			t.Errorf("Classify(%q) = %+v, want the taxonomy category itself", name, cat)
		}
	}

	// The cleaned form of a statement label must also match.
	cat := c.Classify("home & family", models.TransactionTypeExpense)
	if cat == nil || cat.Name != "Home & Family" {
		t.Errorf("lower-cased ampersand label missed, got %+v", cat)
	}
}

func TestClassifyFallsBackToTypeDefault(t *testing.T) {
	mock, _ := seededMockStore(t)
	c, err := NewCategoryClassifier(context.Background(), mock, 1)
	if err != nil {
		t.Fatalf("NewCategoryClassifier returned error: %v", err)
	}

	cat := c.Classify("Quantum Baking", models.TransactionTypeExpense)
	if cat == nil || cat.Name != "General" {
		t.Fatalf("expected General fallback for unmatched expense, got %+v", cat)
	}
	cat = c.Classify("Mystery Credit", models.TransactionTypeIncome)
	if cat == nil || cat.Name != "Income" {
		t.Fatalf("expected Income fallback for unmatched income, got %+v", cat)
	}
	// An empty label behaves the same as an unmatched one.
	cat = c.Classify("", models.TransactionTypeExpense)
	if cat == nil || cat.Name != "General" {
		t.Fatalf("expected General fallback for empty label, got %+v", cat)
	}
}
