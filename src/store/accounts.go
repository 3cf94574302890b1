package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/homeledger/backend/src/models"
)

const accountColumns = "id, user_id, name, type, balance_minor, currency, is_active, created_at"

func scanAccount(row interface{ Scan(...any) error }) (*models.Account, error) {
	var a models.Account
	var balanceMinor int64
	if err := row.Scan(&a.ID, &a.UserID, &a.Name, &a.Type, &balanceMinor, &a.Currency, &a.IsActive, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.Balance = models.FromMinorUnits(balanceMinor)
	return &a, nil
}

// GetOrCreateAccount looks an account up by (user, name) and creates it if
// absent. When the account already exists it is returned as stored; the
// caller's type and balance are ignored.
func (s *SQLiteStore) GetOrCreateAccount(ctx context.Context, acct *models.Account) (bool, error) {
	existing, err := s.GetAccountByName(ctx, acct.UserID, acct.Name)
	if err == nil {
		*acct = *existing
		return false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return false, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO accounts (user_id, name, type, balance_minor, currency, is_active)
		 VALUES (?, ?, ?, ?, ?, 1)`,
		acct.UserID, acct.Name, acct.Type, models.ToMinorUnits(acct.Balance), acct.Currency,
	)
	if err != nil {
		return false, fmt.Errorf("creating account %q: %w", acct.Name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return false, err
	}
	acct.ID = id
	acct.IsActive = true
	return true, nil
}

func (s *SQLiteStore) GetAccountByID(ctx context.Context, userID, id int64) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE id = ? AND user_id = ?", id, userID)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return acct, err
}

func (s *SQLiteStore) GetAccountByName(ctx context.Context, userID int64, name string) (*models.Account, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE user_id = ? AND name = ?", userID, name)
	acct, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return acct, err
}

func (s *SQLiteStore) ListAccounts(ctx context.Context, userID int64) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+accountColumns+" FROM accounts WHERE user_id = ? ORDER BY name ASC", userID)
	if err != nil {
		return nil, fmt.Errorf("listing accounts for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account row for userID %d: %w", userID, err)
		}
		accounts = append(accounts, *acct)
	}
	return accounts, rows.Err()
}
