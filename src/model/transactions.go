package model

import (
	"database/sql"

	"github.com/username/portfoy/src/models"
)

// ListTransactionsOrdered returns the full ledger in replay order:
// transaction date ascending, then insertion order. This is the ordering the
// lot matcher depends on.
func ListTransactionsOrdered(db *sql.DB) ([]models.Transaction, error) {
	rows, err := db.Query(`
		SELECT id, transaction_date, asset_type, symbol, transaction_type, quantity, price
		FROM transactions
		ORDER BY transaction_date ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.AssetType, &tx.Symbol, &tx.Kind, &tx.Quantity, &tx.Price); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// ListTransactionsForDisplay returns ledger rows newest-first with the cached
// asset name joined in, for the consuming UI layer.
func ListTransactionsForDisplay(db *sql.DB) ([]models.TransactionWithName, error) {
	rows, err := db.Query(`
		SELECT t.id, t.transaction_date, t.asset_type, t.symbol, t.transaction_type,
		       t.quantity, t.price, COALESCE(t.total_value, t.quantity * t.price),
		       COALESCE(t.notes, ''), COALESCE(a.name, t.symbol)
		FROM transactions t
		LEFT JOIN assets a ON a.symbol = t.symbol
		ORDER BY t.transaction_date DESC, t.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.TransactionWithName
	for rows.Next() {
		var tx models.TransactionWithName
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.AssetType, &tx.Symbol, &tx.Kind,
			&tx.Quantity, &tx.Price, &tx.TotalValue, &tx.Notes, &tx.Name); err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

// InsertTransaction appends one ledger row and returns its id.
func InsertTransaction(db *sql.DB, tx models.Transaction) (int64, error) {
	res, err := db.Exec(`
		INSERT INTO transactions (transaction_date, asset_type, symbol, transaction_type, quantity, price, total_value, fees, currency, broker, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.Date, tx.AssetType, tx.Symbol, tx.Kind, tx.Quantity, tx.Price,
		tx.TotalValue, tx.Fees, tx.Currency, tx.Broker, tx.Notes)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateTransaction rewrites the mutable fields of one ledger row.
func UpdateTransaction(db *sql.DB, tx models.Transaction) error {
	_, err := db.Exec(`
		UPDATE transactions
		SET transaction_date = ?, transaction_type = ?, quantity = ?, price = ?, total_value = ?, notes = ?
		WHERE id = ?`,
		tx.Date, tx.Kind, tx.Quantity, tx.Price, tx.TotalValue, tx.Notes, tx.ID)
	return err
}

// DeleteTransaction removes one ledger row by id.
func DeleteTransaction(db *sql.DB, id int64) error {
	_, err := db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	return err
}
