package services

import (
	"database/sql"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/model"
	"github.com/username/portfoy/src/models"
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

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

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

func seedTransaction(t *testing.T, db *sql.DB, date, symbol, kind string, qty, price float64) {
	t.Helper()
	_, err := model.InsertTransaction(db, models.Transaction{
		Date:      date,
		AssetType: models.AssetTypeEquity,
		Symbol:    symbol,
		Kind:      kind,
		Quantity:  qty,
		Price:     price,
		Currency:  "TRY",
	})
	require.NoError(t, err)
}

func seedAsset(t *testing.T, db *sql.DB, symbol, assetType string, price float64, lastUpdated string) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO assets (symbol, name, asset_type, current_price, day_change, last_updated)
		VALUES (?, ?, ?, ?, 0, ?)`,
		symbol, symbol, assetType, price, lastUpdated)
	require.NoError(t, err)
}

func seedSnapshot(t *testing.T, db *sql.DB, date string, valueTL float64) {
	t.Helper()
	err := model.UpsertSnapshot(db, models.Snapshot{Date: date, TotalValueTL: valueTL})
	require.NoError(t, err)
}
