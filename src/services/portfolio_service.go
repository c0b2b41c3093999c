// src/services/portfolio_service.go
package services

import (
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/model"
	"github.com/username/portfoy/src/models"
	"github.com/username/portfoy/src/processors"
)

// usdSymbol is the cache row consulted for the local-to-USD conversion rate.
const usdSymbol = "USD"

type portfolioServiceImpl struct {
	db           *sql.DB
	lotProcessor *processors.LotProcessor

	// Looked-up USD rates above this limit are replaced with 1.0. Garbage
	// rates from a misparsed page would otherwise corrupt every USD total.
	usdRateSanityLimit float64
}

func NewPortfolioService(db *sql.DB, usdRateSanityLimit float64) PortfolioService {
	return &portfolioServiceImpl{
		db:                 db,
		lotProcessor:       processors.NewLotProcessor(),
		usdRateSanityLimit: usdRateSanityLimit,
	}
}

// GetCurrentHoldings replays the ledger and joins open positions with the
// price cache. Symbols absent from the cache value at price 0; that is a
// degraded state, not an error.
func (s *portfolioServiceImpl) GetCurrentHoldings() ([]models.Holding, float64, error) {
	txs, err := model.ListTransactionsOrdered(s.db)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read transaction ledger: %w", err)
	}

	result := s.lotProcessor.MatchLots(txs)
	positions := result.OpenPositions()

	symbols := make([]string, 0, len(positions))
	for symbol := range positions {
		symbols = append(symbols, symbol)
	}
	assets, err := model.GetAssetsBySymbols(s.db, symbols)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read asset cache: %w", err)
	}

	holdings := make([]models.Holding, 0, len(positions))
	for symbol, pos := range positions {
		avgCost := pos.TotalCost / pos.Quantity

		currentPrice := 0.0
		name := symbol
		if asset, ok := assets[symbol]; ok {
			currentPrice = asset.CurrentPrice
			if asset.Name != "" {
				name = asset.Name
			}
		}

		value := pos.Quantity * currentPrice
		pnl := value - pos.TotalCost
		pnlPct := 0.0
		if pos.TotalCost > 0 {
			pnlPct = pnl / pos.TotalCost * 100
		}

		holdings = append(holdings, models.Holding{
			Symbol:       symbol,
			Name:         name,
			AssetType:    pos.AssetType,
			Quantity:     pos.Quantity,
			AvgCost:      avgCost,
			CurrentPrice: currentPrice,
			Value:        value,
			PnL:          pnl,
			PnLPct:       pnlPct,
		})
	}

	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Symbol < holdings[j].Symbol })
	return holdings, result.RealizedPnL, nil
}

// GetRealizedPnLInRange reports realized PnL recognized for sells inside the
// inclusive [startDate, endDate] window (empty bound = unbounded).
func (s *portfolioServiceImpl) GetRealizedPnLInRange(startDate, endDate string) (float64, error) {
	txs, err := model.ListTransactionsOrdered(s.db)
	if err != nil {
		return 0, fmt.Errorf("failed to read transaction ledger: %w", err)
	}
	return s.lotProcessor.RealizedPnLInRange(txs, startDate, endDate), nil
}

// GetPortfolioSummary builds the full summary projection. As a side effect it
// upserts today's snapshot, which the period performance figures read back.
func (s *portfolioServiceImpl) GetPortfolioSummary() (*models.PortfolioSummary, error) {
	holdings, realizedPnL, err := s.GetCurrentHoldings()
	if err != nil {
		return nil, err
	}

	var totalValue, totalPnL, totalCost float64
	for _, h := range holdings {
		totalValue += h.Value
		totalPnL += h.PnL
		totalCost += h.Quantity * h.AvgCost
	}

	usdRate := s.lookupUSDRate()
	totalValueUSD := 0.0
	if usdRate > 0 {
		totalValueUSD = totalValue / usdRate
	}

	roiPct := 0.0
	if totalCost > 0 {
		roiPct = totalPnL / totalCost * 100
	}

	top, worst := "-", "-"
	if len(holdings) > 0 {
		sorted := make([]models.Holding, len(holdings))
		copy(sorted, holdings)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].PnLPct > sorted[j].PnLPct })
		top = fmt.Sprintf("%s (%.1f%%)", sorted[0].Symbol, sorted[0].PnLPct)
		last := sorted[len(sorted)-1]
		worst = fmt.Sprintf("%s (%.1f%%)", last.Symbol, last.PnLPct)
	}

	lastUpdated, err := model.MaxLastUpdated(s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset freshness: %w", err)
	}

	today := time.Now().Format("2006-01-02")
	if err := model.UpsertSnapshot(s.db, models.Snapshot{
		Date:          today,
		TotalValueTL:  totalValue,
		TotalValueUSD: totalValueUSD,
	}); err != nil {
		return nil, fmt.Errorf("failed to save portfolio snapshot: %w", err)
	}

	daily, dailyPct, err := s.performanceChange(totalValue, 1)
	if err != nil {
		return nil, err
	}
	weekly, weeklyPct, err := s.performanceChange(totalValue, 7)
	if err != nil {
		return nil, err
	}
	monthly, monthlyPct, err := s.performanceChange(totalValue, 30)
	if err != nil {
		return nil, err
	}

	return &models.PortfolioSummary{
		TotalValue:     totalValue,
		TotalValueUSD:  totalValueUSD,
		UnrealizedPnL:  totalPnL,
		RealizedPnL:    realizedPnL,
		TotalReturn:    totalPnL + realizedPnL,
		ROIPct:         roiPct,
		HoldingsCount:  len(holdings),
		TopPerformer:   top,
		WorstPerformer: worst,
		LastUpdated:    lastUpdated,

		DailyChange:      daily,
		DailyChangePct:   dailyPct,
		WeeklyChange:     weekly,
		WeeklyChangePct:  weeklyPct,
		MonthlyChange:    monthly,
		MonthlyChangePct: monthlyPct,
	}, nil
}

// lookupUSDRate reads the cached USD price. Absent rows default to 1, and
// rates beyond the sanity limit are treated as a parse artifact and clamped
// back to 1 rather than poisoning every USD-denominated total.
func (s *portfolioServiceImpl) lookupUSDRate() float64 {
	asset, err := model.GetAsset(s.db, usdSymbol)
	if err != nil {
		logger.L.Warn("Failed to look up USD rate, defaulting to 1", "error", err)
		return 1
	}
	if asset == nil {
		return 1
	}
	rate := asset.CurrentPrice
	if rate > s.usdRateSanityLimit {
		logger.L.Warn("USD rate exceeds sanity limit, treating as 1", "rate", rate, "limit", s.usdRateSanityLimit)
		return 1
	}
	return rate
}

// performanceChange compares the current total against the latest snapshot at
// least daysAgo days old. Without a usable baseline it reports (0, 0).
func (s *portfolioServiceImpl) performanceChange(currentValue float64, daysAgo int) (float64, float64, error) {
	cutoff := time.Now().AddDate(0, 0, -daysAgo).Format("2006-01-02")
	oldValue, ok, err := model.SnapshotValueOnOrBefore(s.db, cutoff)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read snapshot history: %w", err)
	}
	if !ok || oldValue <= 0 {
		return 0, 0, nil
	}
	diff := currentValue - oldValue
	return diff, diff / oldValue * 100, nil
}

// GetRangePerformance compares snapshot baselines at two dates. An empty end
// resolves to the most recent snapshot; an empty start resolves to a zero
// baseline (not the earliest snapshot), which yields (0, 0).
func (s *portfolioServiceImpl) GetRangePerformance(startDate, endDate string) (models.RangePerformance, error) {
	var (
		endValue float64
		err      error
	)
	if strings.TrimSpace(endDate) != "" {
		endValue, _, err = model.SnapshotValueOnOrBefore(s.db, endDate)
	} else {
		endValue, _, err = model.LatestSnapshotValue(s.db)
	}
	if err != nil {
		return models.RangePerformance{}, fmt.Errorf("failed to read snapshot history: %w", err)
	}

	startValue := 0.0
	if strings.TrimSpace(startDate) != "" {
		startValue, _, err = model.SnapshotValueOnOrBefore(s.db, startDate)
		if err != nil {
			return models.RangePerformance{}, fmt.Errorf("failed to read snapshot history: %w", err)
		}
	}

	if startValue <= 0 {
		return models.RangePerformance{}, nil
	}
	diff := endValue - startValue
	return models.RangePerformance{Change: diff, ChangePct: diff / startValue * 100}, nil
}
