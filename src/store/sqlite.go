package store

import (
	"database/sql"
)

// SQLiteStore implements Store on top of a database/sql connection to
// SQLite (modernc.org/sqlite driver).
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}
