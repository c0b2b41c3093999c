package models

// Transaction represents a single row of the trade ledger. Rows are append-only
// from the engine's point of view; ordering is (transaction_date, id).
type Transaction struct {
	ID         int64   `json:"id,omitempty"`
	Date       string  `json:"date"` // YYYY-MM-DD
	AssetType  string  `json:"asset_type"`
	Symbol     string  `json:"symbol"`
	Kind       string  `json:"type"` // free text, normalized via processors.NormalizeTradeSide
	Quantity   float64 `json:"quantity"`
	Price      float64 `json:"price"`
	TotalValue float64 `json:"total"`
	Fees       float64 `json:"fees,omitempty"`
	Currency   string  `json:"currency,omitempty"`
	Broker     string  `json:"broker,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// TransactionWithName is a ledger row joined with the cached asset name,
// for display by the consuming UI layer.
type TransactionWithName struct {
	Transaction
	Name string `json:"name"`
}
