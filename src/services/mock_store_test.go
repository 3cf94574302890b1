package services

import (
	"context"
	"testing"
	"time"

	"github.com/username/homeledger/backend/src/logger"
	"github.com/username/homeledger/backend/src/models"
	"github.com/username/homeledger/backend/src/store"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

// MockStore is a mock implementation of the store.Store interface.
type MockStore struct {
	GetOrCreateAccountFunc           func(ctx context.Context, acct *models.Account) (bool, error)
	GetAccountByIDFunc               func(ctx context.Context, userID, id int64) (*models.Account, error)
	GetAccountByNameFunc             func(ctx context.Context, userID int64, name string) (*models.Account, error)
	ListAccountsFunc                 func(ctx context.Context, userID int64) ([]models.Account, error)
	GetOrCreateCategoryFunc          func(ctx context.Context, userID int64, name, catType string) (*models.Category, error)
	FirstCategoryOfTypeFunc          func(ctx context.Context, userID int64, catType string) (*models.Category, error)
	ListCategoriesFunc               func(ctx context.Context, userID int64) ([]models.Category, error)
	CreateTransactionWithBalanceFunc func(ctx context.Context, tx *models.Transaction) error
	ListTransactionsFunc             func(ctx context.Context, userID int64, limit int) ([]models.Transaction, error)
	DeleteTransactionWithBalanceFunc func(ctx context.Context, userID, id int64) error
	GetProvenanceFunc                func(ctx context.Context, userID int64, source string) (*models.ImportProvenance, error)
	RecordImportBatchFunc            func(ctx context.Context, userID int64, source string, created int, syncedAt time.Time) error
	CreateUserFunc                   func(ctx context.Context, u *models.User) error
	GetUserByEmailFunc               func(ctx context.Context, email string) (*models.User, error)
	GetUserByIDFunc                  func(ctx context.Context, id int64) (*models.User, error)
}

func (m *MockStore) GetOrCreateAccount(ctx context.Context, acct *models.Account) (bool, error) {
	if m.GetOrCreateAccountFunc != nil {
		return m.GetOrCreateAccountFunc(ctx, acct)
	}
	return false, nil
}

func (m *MockStore) GetAccountByID(ctx context.Context, userID, id int64) (*models.Account, error) {
	if m.GetAccountByIDFunc != nil {
		return m.GetAccountByIDFunc(ctx, userID, id)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetAccountByName(ctx context.Context, userID int64, name string) (*models.Account, error) {
	if m.GetAccountByNameFunc != nil {
		return m.GetAccountByNameFunc(ctx, userID, name)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	if m.ListAccountsFunc != nil {
		return m.ListAccountsFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) GetOrCreateCategory(ctx context.Context, userID int64, name, catType string) (*models.Category, error) {
	if m.GetOrCreateCategoryFunc != nil {
		return m.GetOrCreateCategoryFunc(ctx, userID, name, catType)
	}
	return &models.Category{UserID: userID, Name: name, Type: catType}, nil
}

func (m *MockStore) FirstCategoryOfType(ctx context.Context, userID int64, catType string) (*models.Category, error) {
	if m.FirstCategoryOfTypeFunc != nil {
		return m.FirstCategoryOfTypeFunc(ctx, userID, catType)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	if m.ListCategoriesFunc != nil {
		return m.ListCategoriesFunc(ctx, userID)
	}
	return nil, nil
}

func (m *MockStore) CreateTransactionWithBalance(ctx context.Context, tx *models.Transaction) error {
	if m.CreateTransactionWithBalanceFunc != nil {
		return m.CreateTransactionWithBalanceFunc(ctx, tx)
	}
	return nil
}

func (m *MockStore) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, userID, limit)
	}
	return nil, nil
}

func (m *MockStore) DeleteTransactionWithBalance(ctx context.Context, userID, id int64) error {
	if m.DeleteTransactionWithBalanceFunc != nil {
		return m.DeleteTransactionWithBalanceFunc(ctx, userID, id)
	}
	return nil
}

func (m *MockStore) GetProvenance(ctx context.Context, userID int64, source string) (*models.ImportProvenance, error) {
	if m.GetProvenanceFunc != nil {
		return m.GetProvenanceFunc(ctx, userID, source)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) RecordImportBatch(ctx context.Context, userID int64, source string, created int, syncedAt time.Time) error {
	if m.RecordImportBatchFunc != nil {
		return m.RecordImportBatchFunc(ctx, userID, source, created, syncedAt)
	}
	return nil
}

func (m *MockStore) CreateUser(ctx context.Context, u *models.User) error {
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(ctx, u)
	}
	return nil
}

func (m *MockStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetUserByEmailFunc != nil {
		return m.GetUserByEmailFunc(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *MockStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	if m.GetUserByIDFunc != nil {
		return m.GetUserByIDFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}
