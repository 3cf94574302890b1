package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/homeledger/backend/src/models"
)

// CreateTransactionWithBalance inserts the transaction and applies its
// signed effect to the account balance in one database transaction. The
// balance write is a delta increment, never a read-modify-write, so rows
// from concurrent batches cannot clobber each other.
func (s *SQLiteStore) CreateTransactionWithBalance(ctx context.Context, tx *models.Transaction) error {
	if tx.Amount.IsNegative() {
		return fmt.Errorf("transaction amount must be non-negative, got %s", tx.Amount)
	}

	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	res, err := dbTx.ExecContext(ctx,
		`INSERT INTO transactions (user_id, account_id, category_id, amount_minor, type, description, date, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.AccountID, tx.CategoryID, models.ToMinorUnits(tx.Amount), tx.Type,
		tx.Description, tx.Date.Format(models.TransactionDateFormat), tx.Notes,
	)
	if err != nil {
		return fmt.Errorf("inserting transaction: %w", err)
	}

	delta := models.ToMinorUnits(tx.SignedEffect())
	result, err := dbTx.ExecContext(ctx,
		"UPDATE accounts SET balance_minor = balance_minor + ? WHERE id = ? AND user_id = ?",
		delta, tx.AccountID, tx.UserID,
	)
	if err != nil {
		return fmt.Errorf("applying balance delta: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("account %d not found for balance update: %w", tx.AccountID, ErrNotFound)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	tx.ID, _ = res.LastInsertId()
	return nil
}

func (s *SQLiteStore) ListTransactions(ctx context.Context, userID int64, limit int) ([]models.Transaction, error) {
	query := `SELECT id, user_id, account_id, category_id, amount_minor, type, description, date, notes, created_at
		FROM transactions WHERE user_id = ? ORDER BY date DESC, id DESC`
	args := []any{userID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction row for userID %d: %w", userID, err)
		}
		txs = append(txs, *tx)
	}
	return txs, rows.Err()
}

// DeleteTransactionWithBalance removes a transaction and reverses its
// effect on the account balance, atomically and with the same sign
// convention the import path uses.
func (s *SQLiteStore) DeleteTransactionWithBalance(ctx context.Context, userID, id int64) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	row := dbTx.QueryRowContext(ctx,
		`SELECT id, user_id, account_id, category_id, amount_minor, type, description, date, notes, created_at
		 FROM transactions WHERE id = ? AND user_id = ?`, id, userID)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	if _, err := dbTx.ExecContext(ctx, "DELETE FROM transactions WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting transaction %d: %w", id, err)
	}

	reversal := models.ToMinorUnits(tx.SignedEffect().Neg())
	if _, err := dbTx.ExecContext(ctx,
		"UPDATE accounts SET balance_minor = balance_minor + ? WHERE id = ? AND user_id = ?",
		reversal, tx.AccountID, userID,
	); err != nil {
		return fmt.Errorf("reversing balance delta: %w", err)
	}

	return dbTx.Commit()
}

func scanTransaction(row interface{ Scan(...any) error }) (*models.Transaction, error) {
	var tx models.Transaction
	var amountMinor int64
	var date string
	if err := row.Scan(&tx.ID, &tx.UserID, &tx.AccountID, &tx.CategoryID, &amountMinor,
		&tx.Type, &tx.Description, &date, &tx.Notes, &tx.CreatedAt); err != nil {
		return nil, err
	}
	tx.Amount = models.FromMinorUnits(amountMinor)
	parsed, err := time.Parse(models.TransactionDateFormat, date)
	if err != nil {
		return nil, fmt.Errorf("parsing stored date %q: %w", date, err)
	}
	tx.Date = parsed
	return &tx, nil
}
