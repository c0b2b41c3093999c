package model

import (
	"database/sql"
	"strings"

	"github.com/username/portfoy/src/models"
)

// GetAsset fetches one asset cache row by symbol, or (nil, nil) if absent.
func GetAsset(db *sql.DB, symbol string) (*models.Asset, error) {
	row := db.QueryRow(`
		SELECT symbol, COALESCE(name, ''), COALESCE(asset_type, ''),
		       COALESCE(current_price, 0), COALESCE(day_change, 0), COALESCE(last_updated, '')
		FROM assets WHERE symbol = ?`, strings.ToUpper(symbol))

	var a models.Asset
	err := row.Scan(&a.Symbol, &a.Name, &a.AssetType, &a.CurrentPrice, &a.DayChange, &a.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// GetAssetsBySymbols retrieves multiple cache rows in a single IN query.
// The returned map is keyed by symbol; missing symbols are simply absent.
func GetAssetsBySymbols(db *sql.DB, symbols []string) (map[string]models.Asset, error) {
	assets := make(map[string]models.Asset)
	if len(symbols) == 0 {
		return assets, nil
	}
	query := `SELECT symbol, COALESCE(name, ''), COALESCE(asset_type, ''),
	                 COALESCE(current_price, 0), COALESCE(day_change, 0), COALESCE(last_updated, '')
	          FROM assets WHERE symbol IN (?` + strings.Repeat(",?", len(symbols)-1) + `)`
	args := make([]interface{}, len(symbols))
	for i, s := range symbols {
		args[i] = s
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Symbol, &a.Name, &a.AssetType, &a.CurrentPrice, &a.DayChange, &a.LastUpdated); err != nil {
			return nil, err
		}
		assets[a.Symbol] = a
	}
	return assets, rows.Err()
}

// SearchAssets matches symbol, name or asset type with a LIKE query.
func SearchAssets(db *sql.DB, query string, limit int) ([]models.Asset, error) {
	pattern := "%" + strings.ToUpper(query) + "%"
	rows, err := db.Query(`
		SELECT symbol, COALESCE(name, ''), COALESCE(asset_type, ''),
		       COALESCE(current_price, 0), COALESCE(day_change, 0), COALESCE(last_updated, '')
		FROM assets
		WHERE symbol LIKE ? OR UPPER(name) LIKE ? OR UPPER(asset_type) LIKE ?
		LIMIT ?`, pattern, pattern, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assets []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Symbol, &a.Name, &a.AssetType, &a.CurrentPrice, &a.DayChange, &a.LastUpdated); err != nil {
			return nil, err
		}
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

// MaxLastUpdated returns the newest last_updated timestamp among assets of the
// given types (all types when none given). Returns "" when the cache holds no
// matching rows. The ingestion staleness gates key off this value.
func MaxLastUpdated(db *sql.DB, assetTypes ...string) (string, error) {
	var (
		query string
		args  []interface{}
	)
	if len(assetTypes) == 0 {
		query = `SELECT MAX(last_updated) FROM assets`
	} else {
		query = `SELECT MAX(last_updated) FROM assets WHERE asset_type IN (?` + strings.Repeat(",?", len(assetTypes)-1) + `)`
		for _, t := range assetTypes {
			args = append(args, t)
		}
	}
	var last sql.NullString
	if err := db.QueryRow(query, args...).Scan(&last); err != nil {
		return "", err
	}
	if !last.Valid {
		return "", nil
	}
	return last.String, nil
}

// MaxLastUpdatedExcept is MaxLastUpdated over every asset type but the given one.
func MaxLastUpdatedExcept(db *sql.DB, assetType string) (string, error) {
	var last sql.NullString
	if err := db.QueryRow(`SELECT MAX(last_updated) FROM assets WHERE asset_type != ?`, assetType).Scan(&last); err != nil {
		return "", err
	}
	if !last.Valid {
		return "", nil
	}
	return last.String, nil
}

// UpsertAssetQuotes writes one ingestion batch inside a single transaction.
// Every row is stamped with the same lastUpdated timestamp; on conflict by
// symbol the price, day change and timestamp are overwritten along with the
// ingested name and type. An empty batch performs no writes.
func UpsertAssetQuotes(db *sql.DB, quotes []models.AssetQuote, lastUpdated string) error {
	if len(quotes) == 0 {
		return nil
	}
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO assets (symbol, name, asset_type, current_price, day_change, last_updated)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			asset_type = excluded.asset_type,
			current_price = excluded.current_price,
			day_change = excluded.day_change,
			last_updated = excluded.last_updated`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, q := range quotes {
		if _, err := stmt.Exec(q.Symbol, q.Name, q.AssetType, q.Price, q.DayChange, lastUpdated); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// EnsureAsset registers an asset row from a manual ledger entry. On conflict
// only the display name is refreshed so ingested prices are preserved.
func EnsureAsset(db *sql.DB, symbol, name, assetType string, price float64) error {
	_, err := db.Exec(`
		INSERT INTO assets (symbol, name, asset_type, current_price, day_change, last_updated)
		VALUES (?, ?, ?, ?, 0, datetime('now'))
		ON CONFLICT(symbol) DO UPDATE SET name = excluded.name`,
		strings.ToUpper(symbol), name, assetType, price)
	return err
}
