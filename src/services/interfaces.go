// src/services/interfaces.go
package services

import (
	"context"

	"github.com/username/portfoy/src/models"
)

// PortfolioService exposes the valuation engine: pure read projections over
// the ledger and price cache, except that computing a summary also upserts
// today's snapshot.
type PortfolioService interface {
	GetCurrentHoldings() ([]models.Holding, float64, error)
	GetPortfolioSummary() (*models.PortfolioSummary, error)
	GetRealizedPnLInRange(startDate, endDate string) (float64, error)
	GetRangePerformance(startDate, endDate string) (models.RangePerformance, error)
}

// LastUpdates reports the freshest ingestion timestamp per pipeline.
type LastUpdates struct {
	Funds  string `json:"tefas,omitempty"`
	Market string `json:"market,omitempty"`
}

// MarketDataService drives the two price ingestion pipelines. Both are
// staleness-gated unless force is set, and both are best-effort: individual
// source failures are dropped, never fatal.
type MarketDataService interface {
	UpdateGeneralAssets(ctx context.Context, force bool) error
	UpdateFunds(ctx context.Context, force bool) error
	UpdateAll(ctx context.Context, force bool) error
	LastUpdates() (LastUpdates, error)
}
