// src/services/market_service.go
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/model"
	"github.com/username/portfoy/src/models"
)

const (
	// cryptoSymbolSuffix tags crypto symbols so a coin cannot collide with a
	// currency or equity code in the shared assets table.
	cryptoSymbolSuffix = "-C"

	// derivedSymbolLen bounds symbols generated from instrument names when
	// the source page carries no explicit code.
	derivedSymbolLen = 5

	// fundProbeDays is how far back the fund pipeline walks looking for the
	// latest trading session with published NAVs.
	fundProbeDays = 5

	// referenceFundCategory is the partition queried during date probing.
	referenceFundCategory = "YAT"
)

// fundCategories are the partitions of the NAV history API. The reference
// category is probed first; the rest are fetched concurrently once a valid
// trading date is confirmed.
var fundCategories = []string{referenceFundCategory, "EMK", "BYF", "GYF", "GSYF"}

// PageSource is one scraped market page and the asset type its rows carry.
type PageSource struct {
	URL       string
	AssetType string
}

// MarketDataConfig carries the ingestion settings the service needs. It is
// populated from config.Cfg in main and built by hand in tests.
type MarketDataConfig struct {
	UserAgent              string
	GeneralRefreshInterval time.Duration
	FundRefreshInterval    time.Duration
	FundHistoryURL         string
	PageSources            []PageSource
}

type marketDataServiceImpl struct {
	db         *sql.DB
	httpClient *http.Client
	cfg        MarketDataConfig
	sanitizer  *bluemonday.Policy

	// One mutex per pipeline: concurrent invocations of the same pipeline
	// serialize, the two pipelines never block each other.
	generalMu sync.Mutex
	fundMu    sync.Mutex
}

// NewMarketDataService wires the ingestion pipelines around an injected HTTP
// client so tests can substitute a fake transport.
func NewMarketDataService(db *sql.DB, client *http.Client, cfg MarketDataConfig) MarketDataService {
	return &marketDataServiceImpl{
		db:         db,
		httpClient: client,
		cfg:        cfg,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

// UpdateAll runs the general pipeline first, then funds. The ordering is
// operational convention only; the pipelines are independent.
func (s *marketDataServiceImpl) UpdateAll(ctx context.Context, force bool) error {
	if err := s.UpdateGeneralAssets(ctx, force); err != nil {
		logger.L.Warn("General asset update failed, continuing with funds", "error", err)
	}
	return s.UpdateFunds(ctx, force)
}

// UpdateGeneralAssets refreshes currencies, commodities, equities and crypto
// from the market pages. Each page is fetched concurrently; a failed or
// unparsable page is dropped and the rest still commit.
func (s *marketDataServiceImpl) UpdateGeneralAssets(ctx context.Context, force bool) error {
	s.generalMu.Lock()
	defer s.generalMu.Unlock()

	if !force && s.isFresh(s.cfg.GeneralRefreshInterval,
		models.AssetTypeCurrency, models.AssetTypeCommodity, models.AssetTypeEquity, models.AssetTypeCrypto) {
		logger.L.Debug("General assets are fresh, skipping fetch")
		return nil
	}

	batchID := uuid.New().String()

	type pageResult struct {
		source PageSource
		body   string
	}
	results := make([]pageResult, len(s.cfg.PageSources))
	var wg sync.WaitGroup
	for i, src := range s.cfg.PageSources {
		wg.Add(1)
		go func(i int, src PageSource) {
			defer wg.Done()
			body, err := s.fetchPage(ctx, src.URL)
			if err != nil {
				logger.L.Warn("Market page fetch failed", "batchID", batchID, "url", src.URL, "error", err)
				return
			}
			results[i] = pageResult{source: src, body: body}
		}(i, src)
	}
	wg.Wait()

	var quotes []models.AssetQuote
	for _, res := range results {
		if res.body == "" {
			continue
		}
		rows, err := parseMarketPage(strings.NewReader(res.body))
		if err != nil {
			logger.L.Warn("Market page parse failed", "batchID", batchID, "url", res.source.URL, "error", err)
			continue
		}
		for _, row := range rows {
			if quote, ok := s.normalizePageRow(row, res.source.AssetType); ok {
				quotes = append(quotes, quote)
			}
		}
	}

	if len(quotes) == 0 {
		logger.L.Warn("No general asset quotes parsed, leaving cache untouched", "batchID", batchID)
		return nil
	}

	stamp := time.Now().Format(time.RFC3339)
	if err := model.UpsertAssetQuotes(s.db, quotes, stamp); err != nil {
		return fmt.Errorf("failed to upsert general asset batch: %w", err)
	}
	logger.L.Info("General assets updated", "batchID", batchID, "quotes", len(quotes))
	return nil
}

// normalizePageRow turns a raw scraped row into an upsertable quote. Rows
// whose price does not normalize to a positive number are discarded.
func (s *marketDataServiceImpl) normalizePageRow(row pageRow, assetType string) (models.AssetQuote, bool) {
	name := strings.TrimSpace(s.sanitizer.Sanitize(row.Name))
	if name == "" {
		return models.AssetQuote{}, false
	}

	symbol := row.Code
	if symbol == "" {
		symbol = deriveSymbol(name)
	}
	symbol = strings.ToUpper(symbol)
	if symbol == "" {
		return models.AssetQuote{}, false
	}

	if assetType == models.AssetTypeCrypto {
		symbol += cryptoSymbolSuffix
		// Re-tagging an already tagged symbol must stay idempotent.
		for strings.HasSuffix(symbol, cryptoSymbolSuffix+cryptoSymbolSuffix) {
			symbol = strings.TrimSuffix(symbol, cryptoSymbolSuffix)
		}
	}

	price := ParseLocaleFloat(cleanNumericText(row.Price))
	if price <= 0 {
		return models.AssetQuote{}, false
	}

	dayChange := 0.0
	if row.Percent != "" {
		dayChange = ParseLocaleFloat(cleanNumericText(row.Percent))
	}

	return models.AssetQuote{
		Symbol:    symbol,
		Name:      name,
		AssetType: assetType,
		Price:     price,
		DayChange: dayChange,
	}, true
}

// deriveSymbol builds a fallback code from an instrument name: the first
// alphanumeric runes, upper-cased.
func deriveSymbol(name string) string {
	var runes []rune
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			runes = append(runes, r)
			if len(runes) >= derivedSymbolLen {
				break
			}
		}
	}
	return strings.ToUpper(string(runes))
}

// UpdateFunds refreshes fund NAVs from the history API. Fund prices are keyed
// by trading date and not every calendar day has one, so the pipeline probes
// backward from today (skipping weekends) until the reference category
// returns data, then fetches the remaining categories for that date.
func (s *marketDataServiceImpl) UpdateFunds(ctx context.Context, force bool) error {
	s.fundMu.Lock()
	defer s.fundMu.Unlock()

	if !force && s.isFresh(s.cfg.FundRefreshInterval, models.AssetTypeFund) {
		logger.L.Debug("Fund NAVs are fresh, skipping fetch")
		return nil
	}

	batchID := uuid.New().String()

	var (
		validDate string
		records   []fundRecord
	)
	for i := 0; i < fundProbeDays; i++ {
		day := time.Now().AddDate(0, 0, -i)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		dateStr := day.Format("02.01.2006")
		recs, err := s.fetchFundCategory(ctx, referenceFundCategory, dateStr)
		if err != nil {
			logger.L.Warn("Fund date probe failed", "batchID", batchID, "date", dateStr, "error", err)
			continue
		}
		if len(recs) > 0 {
			validDate = dateStr
			records = recs
			break
		}
	}

	if validDate == "" {
		logger.L.Info("No trading date with fund data found in probe window", "batchID", batchID, "probeDays", fundProbeDays)
		return nil
	}

	// The remaining categories share the confirmed date and fetch in parallel.
	remaining := make([][]fundRecord, len(fundCategories))
	var wg sync.WaitGroup
	for i, category := range fundCategories {
		if category == referenceFundCategory {
			continue
		}
		wg.Add(1)
		go func(i int, category string) {
			defer wg.Done()
			recs, err := s.fetchFundCategory(ctx, category, validDate)
			if err != nil {
				logger.L.Warn("Fund category fetch failed", "batchID", batchID, "category", category, "error", err)
				return
			}
			remaining[i] = recs
		}(i, category)
	}
	wg.Wait()
	for _, recs := range remaining {
		records = append(records, recs...)
	}

	var quotes []models.AssetQuote
	for _, rec := range records {
		price, ok := rec.price()
		if !ok || price <= 0 {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(rec.Code))
		if symbol == "" {
			continue
		}
		quotes = append(quotes, models.AssetQuote{
			Symbol:    symbol,
			Name:      rec.Name,
			AssetType: models.AssetTypeFund,
			Price:     price,
			DayChange: rec.DailyReturn,
		})
	}

	if len(quotes) == 0 {
		logger.L.Warn("Fund fetch yielded no usable records, leaving cache untouched", "batchID", batchID, "date", validDate)
		return nil
	}

	stamp := time.Now().Format(time.RFC3339)
	if err := model.UpsertAssetQuotes(s.db, quotes, stamp); err != nil {
		return fmt.Errorf("failed to upsert fund batch: %w", err)
	}
	logger.L.Info("Fund NAVs updated", "batchID", batchID, "date", validDate, "quotes", len(quotes))
	return nil
}

// LastUpdates reports the freshest cache timestamp per pipeline.
func (s *marketDataServiceImpl) LastUpdates() (LastUpdates, error) {
	funds, err := model.MaxLastUpdated(s.db, models.AssetTypeFund)
	if err != nil {
		return LastUpdates{}, err
	}
	market, err := model.MaxLastUpdatedExcept(s.db, models.AssetTypeFund)
	if err != nil {
		return LastUpdates{}, err
	}
	return LastUpdates{Funds: funds, Market: market}, nil
}

// isFresh checks the staleness gate: true when the cache already holds a
// parseable timestamp newer than the threshold for the given asset types.
func (s *marketDataServiceImpl) isFresh(threshold time.Duration, assetTypes ...string) bool {
	last, err := model.MaxLastUpdated(s.db, assetTypes...)
	if err != nil || last == "" {
		return false
	}
	t, err := time.Parse(time.RFC3339, last)
	if err != nil {
		return false
	}
	return time.Since(t) < threshold
}

func (s *marketDataServiceImpl) fetchPage(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("page returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// --- Fund NAV wire contract ---

// fundRecord is one fund row from the history API. The price may live in any
// of three alternative fields depending on the fund category.
type fundRecord struct {
	Code          string   `json:"FONKODU"`
	Name          string   `json:"FONUNVAN"`
	Price         *float64 `json:"FIYAT"`
	LastPrice     *float64 `json:"SONFIYAT"`
	BulletinPrice *float64 `json:"BORSABULTENFIYAT"`
	DailyReturn   float64  `json:"GUNLUKGETIRI"`
}

// price returns the first present price field, in declaration order.
func (r fundRecord) price() (float64, bool) {
	for _, p := range []*float64{r.Price, r.LastPrice, r.BulletinPrice} {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

type fundHistoryResponse struct {
	Data []fundRecord `json:"data"`
}

// fetchFundCategory queries one fund category partition for a single trading
// date (dd.mm.yyyy, same date as both range bounds).
func (s *marketDataServiceImpl) fetchFundCategory(ctx context.Context, category, dateStr string) ([]fundRecord, error) {
	form := url.Values{
		"fontip":   {category},
		"bastarih": {dateStr},
		"bittarih": {dateStr},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.FundHistoryURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fund history request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fund history API returned status %d", resp.StatusCode)
	}

	var payload fundHistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode fund history response: %w", err)
	}
	return payload.Data, nil
}
