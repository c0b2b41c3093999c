package model

import (
	"database/sql"

	"github.com/username/portfoy/src/models"
)

// UpsertSnapshot records the day's total portfolio value. Recomputing a
// summary on the same calendar day overwrites the earlier row.
func UpsertSnapshot(db *sql.DB, snap models.Snapshot) error {
	_, err := db.Exec(`
		INSERT INTO portfolio_snapshots (snapshot_date, total_value_tl, total_value_usd, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(snapshot_date) DO UPDATE SET
			total_value_tl = excluded.total_value_tl,
			total_value_usd = excluded.total_value_usd,
			created_at = CURRENT_TIMESTAMP`,
		snap.Date, snap.TotalValueTL, snap.TotalValueUSD)
	return err
}

// SnapshotValueOnOrBefore returns the most recent snapshot total on or before
// the given date. The second return reports whether such a snapshot exists.
func SnapshotValueOnOrBefore(db *sql.DB, date string) (float64, bool, error) {
	var value float64
	err := db.QueryRow(`
		SELECT total_value_tl FROM portfolio_snapshots
		WHERE snapshot_date <= ?
		ORDER BY snapshot_date DESC LIMIT 1`, date).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}

// LatestSnapshotValue returns the globally newest snapshot total, if any.
func LatestSnapshotValue(db *sql.DB) (float64, bool, error) {
	var value float64
	err := db.QueryRow(`
		SELECT total_value_tl FROM portfolio_snapshots
		ORDER BY snapshot_date DESC LIMIT 1`).Scan(&value)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return value, true, nil
}
