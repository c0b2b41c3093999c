package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/portfoy/src/models"
)

func TestUpsertAssetQuotes(t *testing.T) {
	db := newTestDB(t)

	batch := []models.AssetQuote{
		{Symbol: "USD", Name: "Amerikan Doları", AssetType: models.AssetTypeCurrency, Price: 41.23, DayChange: 0.1},
		{Symbol: "GA", Name: "Gram Altın", AssetType: models.AssetTypeCommodity, Price: 2950.4, DayChange: 1.05},
	}
	require.NoError(t, UpsertAssetQuotes(db, batch, "2024-01-05T10:00:00Z"))

	usd, err := GetAsset(db, "USD")
	require.NoError(t, err)
	require.NotNil(t, usd)
	assert.Equal(t, "Amerikan Doları", usd.Name)
	assert.InDelta(t, 41.23, usd.CurrentPrice, 1e-9)
	assert.Equal(t, "2024-01-05T10:00:00Z", usd.LastUpdated)

	// A later batch overwrites price, change and timestamp by symbol.
	require.NoError(t, UpsertAssetQuotes(db, []models.AssetQuote{
		{Symbol: "USD", Name: "Amerikan Doları", AssetType: models.AssetTypeCurrency, Price: 42, DayChange: -0.3},
	}, "2024-01-05T11:00:00Z"))

	usd, err = GetAsset(db, "USD")
	require.NoError(t, err)
	assert.InDelta(t, 42, usd.CurrentPrice, 1e-9)
	assert.InDelta(t, -0.3, usd.DayChange, 1e-9)
	assert.Equal(t, "2024-01-05T11:00:00Z", usd.LastUpdated)

	// The untouched row keeps its original stamp.
	ga, err := GetAsset(db, "GA")
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05T10:00:00Z", ga.LastUpdated)
}

func TestUpsertAssetQuotes_EmptyBatchIsNoop(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, UpsertAssetQuotes(db, nil, "2024-01-05T10:00:00Z"))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM assets`).Scan(&count))
	assert.Zero(t, count)
}

func TestGetAsset_AbsentSymbol(t *testing.T) {
	db := newTestDB(t)
	asset, err := GetAsset(db, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, asset)
}

func TestGetAssetsBySymbols(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, UpsertAssetQuotes(db, []models.AssetQuote{
		{Symbol: "USD", AssetType: models.AssetTypeCurrency, Price: 41},
		{Symbol: "EUR", AssetType: models.AssetTypeCurrency, Price: 45},
		{Symbol: "GA", AssetType: models.AssetTypeCommodity, Price: 2950},
	}, "2024-01-05T10:00:00Z"))

	assets, err := GetAssetsBySymbols(db, []string{"USD", "GA", "MISSING"})
	require.NoError(t, err)
	assert.Len(t, assets, 2)
	assert.Contains(t, assets, "USD")
	assert.Contains(t, assets, "GA")
	assert.NotContains(t, assets, "MISSING")

	empty, err := GetAssetsBySymbols(db, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSearchAssets(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, UpsertAssetQuotes(db, []models.AssetQuote{
		{Symbol: "USD", Name: "Amerikan Doları", AssetType: models.AssetTypeCurrency, Price: 41},
		{Symbol: "EUR", Name: "Euro", AssetType: models.AssetTypeCurrency, Price: 45},
		{Symbol: "GA", Name: "Gram Altın", AssetType: models.AssetTypeCommodity, Price: 2950},
	}, "2024-01-05T10:00:00Z"))

	bySymbol, err := SearchAssets(db, "usd", 20)
	require.NoError(t, err)
	require.Len(t, bySymbol, 1)
	assert.Equal(t, "USD", bySymbol[0].Symbol)

	byName, err := SearchAssets(db, "EURO", 20)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "EUR", byName[0].Symbol)

	byType, err := SearchAssets(db, models.AssetTypeCurrency, 20)
	require.NoError(t, err)
	assert.Len(t, byType, 2)

	limited, err := SearchAssets(db, models.AssetTypeCurrency, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestMaxLastUpdated(t *testing.T) {
	db := newTestDB(t)

	// Empty cache yields an empty stamp, not an error.
	last, err := MaxLastUpdated(db)
	require.NoError(t, err)
	assert.Empty(t, last)

	require.NoError(t, UpsertAssetQuotes(db, []models.AssetQuote{
		{Symbol: "USD", AssetType: models.AssetTypeCurrency, Price: 41},
	}, "2024-01-05T10:00:00Z"))
	require.NoError(t, UpsertAssetQuotes(db, []models.AssetQuote{
		{Symbol: "AAK", AssetType: models.AssetTypeFund, Price: 12},
	}, "2024-01-05T12:00:00Z"))

	last, err = MaxLastUpdated(db)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05T12:00:00Z", last)

	last, err = MaxLastUpdated(db, models.AssetTypeCurrency, models.AssetTypeCommodity)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05T10:00:00Z", last)

	last, err = MaxLastUpdatedExcept(db, models.AssetTypeFund)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-05T10:00:00Z", last)
}

func TestEnsureAsset(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, EnsureAsset(db, "thyao", "Türk Hava Yolları", models.AssetTypeEquity, 300))

	asset, err := GetAsset(db, "THYAO")
	require.NoError(t, err)
	require.NotNil(t, asset)
	assert.InDelta(t, 300, asset.CurrentPrice, 1e-9)

	// Ingested prices survive a re-registration; only the name refreshes.
	require.NoError(t, UpsertAssetQuotes(db, []models.AssetQuote{
		{Symbol: "THYAO", Name: "Türk Hava Yolları", AssetType: models.AssetTypeEquity, Price: 310},
	}, "2024-01-05T10:00:00Z"))
	require.NoError(t, EnsureAsset(db, "THYAO", "THY", models.AssetTypeEquity, 1))

	asset, err = GetAsset(db, "THYAO")
	require.NoError(t, err)
	assert.Equal(t, "THY", asset.Name)
	assert.InDelta(t, 310, asset.CurrentPrice, 1e-9)
}
