package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/username/homeledger/backend/src/models"
)

func (s *SQLiteStore) GetProvenance(ctx context.Context, userID int64, source string) (*models.ImportProvenance, error) {
	p := &models.ImportProvenance{UserID: userID, Source: source}
	var lastSync sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, last_sync_at, total_imported, last_batch_count
		 FROM import_provenance WHERE user_id = ? AND source = ?`,
		userID, source,
	).Scan(&p.ID, &lastSync, &p.TotalImported, &p.LastBatchCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading provenance for source %q: %w", source, err)
	}
	if lastSync.Valid {
		p.LastSyncAt = &lastSync.Time
	}
	return p, nil
}

// RecordImportBatch upserts the provenance row for (user, source), adding
// this batch's created count to the cumulative total. The addition happens
// in SQL so the cumulative count stays monotonic under concurrent batches.
func (s *SQLiteStore) RecordImportBatch(ctx context.Context, userID int64, source string, created int, syncedAt time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_provenance (user_id, source, last_sync_at, total_imported, last_batch_count)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (user_id, source) DO UPDATE SET
			total_imported = total_imported + excluded.last_batch_count,
			last_batch_count = excluded.last_batch_count,
			last_sync_at = excluded.last_sync_at`,
		userID, source, syncedAt.UTC(), created, created,
	)
	if err != nil {
		return fmt.Errorf("recording import batch for source %q: %w", source, err)
	}
	return nil
}
