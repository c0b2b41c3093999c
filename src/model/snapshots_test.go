package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/portfoy/src/models"
)

func TestUpsertSnapshot_SameDayOverwrites(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, UpsertSnapshot(db, models.Snapshot{Date: "2024-01-05", TotalValueTL: 1000, TotalValueUSD: 25}))
	require.NoError(t, UpsertSnapshot(db, models.Snapshot{Date: "2024-01-05", TotalValueTL: 1100, TotalValueUSD: 27}))

	var count int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM portfolio_snapshots`).Scan(&count))
	assert.Equal(t, 1, count)

	value, ok, err := SnapshotValueOnOrBefore(db, "2024-01-05")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 1100, value, 1e-9)
}

func TestSnapshotValueOnOrBefore(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, UpsertSnapshot(db, models.Snapshot{Date: "2024-01-01", TotalValueTL: 900}))
	require.NoError(t, UpsertSnapshot(db, models.Snapshot{Date: "2024-01-10", TotalValueTL: 950}))

	// The newest snapshot at or before the cutoff wins.
	value, ok, err := SnapshotValueOnOrBefore(db, "2024-01-09")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 900, value, 1e-9)

	value, ok, err = SnapshotValueOnOrBefore(db, "2024-01-10")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 950, value, 1e-9)

	_, ok, err = SnapshotValueOnOrBefore(db, "2023-12-31")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLatestSnapshotValue(t *testing.T) {
	db := newTestDB(t)

	_, ok, err := LatestSnapshotValue(db)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, UpsertSnapshot(db, models.Snapshot{Date: "2024-01-01", TotalValueTL: 900}))
	require.NoError(t, UpsertSnapshot(db, models.Snapshot{Date: "2024-01-10", TotalValueTL: 950}))

	value, ok, err := LatestSnapshotValue(db)
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 950, value, 1e-9)
}
