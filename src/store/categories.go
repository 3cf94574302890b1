package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/homeledger/backend/src/models"
)

// GetOrCreateCategory returns the user's category for (name, type),
// creating it on first sight. Re-creating an existing pair is a no-op.
func (s *SQLiteStore) GetOrCreateCategory(ctx context.Context, userID int64, name, catType string) (*models.Category, error) {
	cat := &models.Category{UserID: userID, Name: name, Type: catType}

	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM categories WHERE user_id = ? AND name = ? AND type = ?",
		userID, name, catType,
	).Scan(&cat.ID)
	if err == nil {
		return cat, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("looking up category %q/%s: %w", name, catType, err)
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (user_id, name, type) VALUES (?, ?, ?)",
		userID, name, catType,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category %q/%s: %w", name, catType, err)
	}
	cat.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *SQLiteStore) FirstCategoryOfType(ctx context.Context, userID int64, catType string) (*models.Category, error) {
	cat := &models.Category{UserID: userID, Type: catType}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name FROM categories WHERE user_id = ? AND type = ? ORDER BY id ASC LIMIT 1",
		userID, catType,
	).Scan(&cat.ID, &cat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *SQLiteStore) ListCategories(ctx context.Context, userID int64) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY type, name", userID)
	if err != nil {
		return nil, fmt.Errorf("listing categories for userID %d: %w", userID, err)
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, fmt.Errorf("scanning category row for userID %d: %w", userID, err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
