package model

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const testSchema = `
CREATE TABLE transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
    transaction_date DATE NOT NULL,
    asset_type TEXT NOT NULL,
    symbol TEXT NOT NULL,
    transaction_type TEXT NOT NULL,
    quantity REAL NOT NULL,
    price REAL NOT NULL,
    total_value REAL,
    fees REAL DEFAULT 0,
    currency TEXT DEFAULT 'TRY',
    broker TEXT,
    notes TEXT
);
CREATE TABLE assets (
    symbol TEXT PRIMARY KEY,
    name TEXT,
    asset_type TEXT,
    current_price REAL,
    day_change REAL DEFAULT 0,
    last_updated TIMESTAMP
);
CREATE TABLE portfolio_snapshots (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    snapshot_date DATE UNIQUE NOT NULL,
    total_value_tl REAL NOT NULL,
    total_value_usd REAL NOT NULL,
    created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}
