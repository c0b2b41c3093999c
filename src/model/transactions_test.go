package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/portfoy/src/models"
)

func TestListTransactionsOrdered(t *testing.T) {
	db := newTestDB(t)

	// Inserted out of date order on purpose.
	_, err := InsertTransaction(db, models.Transaction{Date: "2024-02-01", AssetType: "hisse", Symbol: "ABC", Kind: "SELL", Quantity: 2, Price: 120})
	require.NoError(t, err)
	_, err = InsertTransaction(db, models.Transaction{Date: "2024-01-01", AssetType: "hisse", Symbol: "ABC", Kind: "BUY", Quantity: 10, Price: 100})
	require.NoError(t, err)
	_, err = InsertTransaction(db, models.Transaction{Date: "2024-01-01", AssetType: "hisse", Symbol: "XYZ", Kind: "BUY", Quantity: 5, Price: 50})
	require.NoError(t, err)

	txs, err := ListTransactionsOrdered(db)
	require.NoError(t, err)
	require.Len(t, txs, 3)

	// Replay order: date ascending, insertion order within a date.
	assert.Equal(t, "ABC", txs[0].Symbol)
	assert.Equal(t, "SELL", txs[2].Kind)
	assert.Equal(t, "2024-01-01", txs[0].Date)
	assert.Equal(t, "2024-01-01", txs[1].Date)
	assert.Equal(t, "2024-02-01", txs[2].Date)
	assert.Less(t, txs[0].ID, txs[1].ID)
}

func TestInsertUpdateDeleteTransaction(t *testing.T) {
	db := newTestDB(t)

	id, err := InsertTransaction(db, models.Transaction{Date: "2024-01-01", AssetType: "fon", Symbol: "AAK", Kind: "BUY", Quantity: 100, Price: 12.34, Notes: "ilk alım"})
	require.NoError(t, err)
	require.Positive(t, id)

	require.NoError(t, UpdateTransaction(db, models.Transaction{ID: id, Date: "2024-01-02", Kind: "BUY", Quantity: 150, Price: 12.5, TotalValue: 1875, Notes: "düzeltme"}))

	txs, err := ListTransactionsOrdered(db)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "2024-01-02", txs[0].Date)
	assert.InDelta(t, 150, txs[0].Quantity, 1e-9)
	assert.InDelta(t, 12.5, txs[0].Price, 1e-9)

	require.NoError(t, DeleteTransaction(db, id))
	txs, err = ListTransactionsOrdered(db)
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestListTransactionsForDisplay(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, EnsureAsset(db, "AAK", "Ak Portföy Fonu", "fon", 12.34))

	_, err := InsertTransaction(db, models.Transaction{Date: "2024-01-01", AssetType: "fon", Symbol: "AAK", Kind: "BUY", Quantity: 100, Price: 12, TotalValue: 1200})
	require.NoError(t, err)
	_, err = InsertTransaction(db, models.Transaction{Date: "2024-02-01", AssetType: "hisse", Symbol: "NEW", Kind: "BUY", Quantity: 1, Price: 5, TotalValue: 5})
	require.NoError(t, err)

	txs, err := ListTransactionsForDisplay(db)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	// Newest first; the cached name joins in, falling back to the symbol.
	assert.Equal(t, "NEW", txs[0].Symbol)
	assert.Equal(t, "NEW", txs[0].Name)
	assert.InDelta(t, 5, txs[0].TotalValue, 1e-9)
	assert.Equal(t, "Ak Portföy Fonu", txs[1].Name)
	assert.InDelta(t, 1200, txs[1].TotalValue, 1e-9)
}
