package models

// Lot is an open purchase lot inside one symbol's FIFO queue.
// Quantity is always > 0; exhausted lots are removed from the queue.
type Lot struct {
	Quantity  float64 `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	AssetType string  `json:"asset_type"`
}

// Holding is the derived position for one symbol, recomputed from scratch on
// every request. It is never persisted.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	AssetType    string  `json:"asset_type"`
	Quantity     float64 `json:"quantity"`
	AvgCost      float64 `json:"avg_cost"`
	CurrentPrice float64 `json:"current_price"`
	Value        float64 `json:"value"`
	PnL          float64 `json:"pnl"`
	PnLPct       float64 `json:"pnl_pct"`
}

// PortfolioSummary aggregates holdings, realized PnL, USD conversion and
// period performance. Computing it also persists today's snapshot.
type PortfolioSummary struct {
	TotalValue     float64 `json:"total_value"`
	TotalValueUSD  float64 `json:"total_value_usd"`
	UnrealizedPnL  float64 `json:"unrealized_pnl"`
	RealizedPnL    float64 `json:"realized_pnl"`
	TotalReturn    float64 `json:"total_return"`
	ROIPct         float64 `json:"roi_pct"`
	HoldingsCount  int     `json:"holdings_count"`
	TopPerformer   string  `json:"top_performer"`
	WorstPerformer string  `json:"worst_performer"`
	LastUpdated    string  `json:"last_updated,omitempty"`

	DailyChange      float64 `json:"daily_change"`
	DailyChangePct   float64 `json:"daily_change_pct"`
	WeeklyChange     float64 `json:"weekly_change"`
	WeeklyChangePct  float64 `json:"weekly_change_pct"`
	MonthlyChange    float64 `json:"monthly_change"`
	MonthlyChangePct float64 `json:"monthly_change_pct"`
}

// Snapshot is the daily total-value record used as the baseline for period
// performance. One row per calendar day; same-day recomputation overwrites.
type Snapshot struct {
	Date          string  `json:"date"` // YYYY-MM-DD
	TotalValueTL  float64 `json:"total_value_tl"`
	TotalValueUSD float64 `json:"total_value_usd"`
}

// RangePerformance is the value delta between two snapshot baselines.
type RangePerformance struct {
	Change    float64 `json:"change"`
	ChangePct float64 `json:"change_pct"`
}
