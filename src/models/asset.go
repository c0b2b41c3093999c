package models

// Asset type tags used across the ledger and the price cache. The market
// pages publish the first four; funds come from the NAV history API.
const (
	AssetTypeCurrency  = "doviz"
	AssetTypeCommodity = "emtia"
	AssetTypeEquity    = "hisse"
	AssetTypeCrypto    = "kripto"
	AssetTypeFund      = "fon"
)

// Asset is one row of the price cache, keyed by upper-cased symbol.
type Asset struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	AssetType    string  `json:"asset_type"`
	CurrentPrice float64 `json:"current_price"`
	DayChange    float64 `json:"day_change"`
	LastUpdated  string  `json:"last_updated"` // RFC3339
}

// AssetQuote is a normalized price observation produced by one of the
// ingestion pipelines, before it is upserted into the assets table.
type AssetQuote struct {
	Symbol    string
	Name      string
	AssetType string
	Price     float64
	DayChange float64
}

// AssetInfo is the lookup projection served to the consuming layer.
type AssetInfo struct {
	Name         string  `json:"name"`
	CurrentPrice float64 `json:"current_price"`
	AssetType    string  `json:"asset_type"`
}
