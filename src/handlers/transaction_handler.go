// src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/username/portfoy/src/database"
	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/model"
	"github.com/username/portfoy/src/models"
	"github.com/username/portfoy/src/processors"
	"github.com/username/portfoy/src/utils"
	"github.com/username/portfoy/src/validation"
)

// validateTransactionInput applies the field checks shared by manual entry.
func validateTransactionInput(date, symbol, assetType string, quantity, price float64, notes string) error {
	if err := validation.ValidateTransactionDate(date); err != nil {
		return err
	}
	if err := validation.ValidateSymbol(symbol); err != nil {
		return err
	}
	if err := validation.ValidateAssetType(assetType); err != nil {
		return err
	}
	if err := validation.ValidateAmount(quantity, "quantity"); err != nil {
		return err
	}
	if err := validation.ValidateAmount(price, "price"); err != nil {
		return err
	}
	return validation.ValidateTextLength(notes, validation.MaxNotesLength, "notes")
}

type TransactionHandler struct{}

func NewTransactionHandler() *TransactionHandler { return &TransactionHandler{} }

func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := model.ListTransactionsForDisplay(database.DB)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error querying transactions: %v", err), http.StatusInternalServerError)
		return
	}
	if txs == nil {
		txs = []models.TransactionWithName{}
	}
	utils.WriteJSON(w, http.StatusOK, txs)
}

// NewTransactionRequest is the manual-entry payload from the consuming layer.
type NewTransactionRequest struct {
	Date      string  `json:"date"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	AssetType string  `json:"asset_type"`
	Kind      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Notes     string  `json:"notes,omitempty"`
}

func (h *TransactionHandler) HandleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req NewTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if err := validateTransactionInput(req.Date, symbol, req.AssetType, req.Quantity, req.Price, req.Notes); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := models.Transaction{
		Date:       req.Date,
		AssetType:  req.AssetType,
		Symbol:     symbol,
		Kind:       processors.NormalizeTradeSide(req.Kind).String(),
		Quantity:   req.Quantity,
		Price:      req.Price,
		TotalValue: req.Quantity * req.Price,
		Currency:   "TRY",
		Notes:      validation.SanitizeText(req.Notes),
	}

	id, err := model.InsertTransaction(database.DB, tx)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to insert transaction", "symbol", tx.Symbol, "error", err)
		utils.SendJSONError(w, "Failed to save transaction", http.StatusInternalServerError)
		return
	}

	// Register the asset so the symbol resolves before any ingestion run;
	// EnsureAsset only refreshes the name if the row already exists.
	name := req.Name
	if name == "" {
		name = tx.Symbol
	}
	if err := model.EnsureAsset(database.DB, tx.Symbol, name, tx.AssetType, tx.Price); err != nil {
		logger.FromContext(r.Context()).Warn("Failed to register asset for manual entry", "symbol", tx.Symbol, "error", err)
	}

	utils.WriteJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	var req NewTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidateTransactionDate(req.Date); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateAmount(req.Quantity, "quantity"); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := validation.ValidateAmount(req.Price, "price"); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	tx := models.Transaction{
		ID:         id,
		Date:       req.Date,
		Kind:       processors.NormalizeTradeSide(req.Kind).String(),
		Quantity:   req.Quantity,
		Price:      req.Price,
		TotalValue: req.Quantity * req.Price,
		Notes:      validation.SanitizeText(req.Notes),
	}
	if err := model.UpdateTransaction(database.DB, tx); err != nil {
		logger.FromContext(r.Context()).Error("Failed to update transaction", "id", id, "error", err)
		utils.SendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.SendJSONError(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}
	if err := model.DeleteTransaction(database.DB, id); err != nil {
		logger.FromContext(r.Context()).Error("Failed to delete transaction", "id", id, "error", err)
		utils.SendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// exportedTransaction is the backup wire format. It mirrors the ledger row
// enriched with the cached asset name and type.
type exportedTransaction struct {
	Date      string  `json:"date"`
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	AssetType string  `json:"asset_type"`
	Kind      string  `json:"type"`
	Quantity  float64 `json:"quantity"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
	Fees      float64 `json:"fees"`
	Currency  string  `json:"currency"`
	Broker    string  `json:"broker,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

type exportEnvelope struct {
	Transactions []exportedTransaction `json:"transactions"`
	ExportedAt   int64                 `json:"exported_at"`
}

func (h *TransactionHandler) HandleExportTransactions(w http.ResponseWriter, r *http.Request) {
	rows, err := database.DB.Query(`
		SELECT t.transaction_date, t.symbol, COALESCE(a.name, t.symbol),
		       COALESCE(a.asset_type, t.asset_type), t.transaction_type, t.quantity, t.price,
		       COALESCE(t.total_value, t.quantity * t.price), COALESCE(t.fees, 0),
		       COALESCE(t.currency, 'TRY'), COALESCE(t.broker, ''), COALESCE(t.notes, '')
		FROM transactions t
		LEFT JOIN assets a ON a.symbol = t.symbol
		ORDER BY t.transaction_date ASC, t.id ASC`)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error exporting transactions: %v", err), http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	export := exportEnvelope{ExportedAt: time.Now().Unix()}
	for rows.Next() {
		var t exportedTransaction
		if err := rows.Scan(&t.Date, &t.Symbol, &t.Name, &t.AssetType, &t.Kind,
			&t.Quantity, &t.Price, &t.Total, &t.Fees, &t.Currency, &t.Broker, &t.Notes); err != nil {
			utils.SendJSONError(w, fmt.Sprintf("Error scanning transaction: %v", err), http.StatusInternalServerError)
			return
		}
		t.Kind = processors.NormalizeTradeSide(t.Kind).String()
		export.Transactions = append(export.Transactions, t)
	}
	if err := rows.Err(); err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error iterating transactions: %v", err), http.StatusInternalServerError)
		return
	}
	if export.Transactions == nil {
		export.Transactions = []exportedTransaction{}
	}
	utils.WriteJSON(w, http.StatusOK, export)
}

// HandleImportTransactions restores a backup. It accepts either the export
// envelope or a bare array of transactions, and imports everything inside a
// single store transaction.
func (h *TransactionHandler) HandleImportTransactions(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	var imported []exportedTransaction
	var envelope exportEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Transactions != nil {
		imported = envelope.Transactions
	} else if err := json.Unmarshal(body, &imported); err != nil {
		utils.SendJSONError(w, "Unrecognized backup format", http.StatusBadRequest)
		return
	}

	ctxLogger := logger.FromContext(r.Context())
	ctxLogger.Info("Importing transactions", "count", len(imported))

	dbTx, err := database.DB.Begin()
	if err != nil {
		ctxLogger.Error("Failed to begin import transaction", "error", err)
		utils.SendJSONError(w, "Failed to import data", http.StatusInternalServerError)
		return
	}
	defer dbTx.Rollback()

	for _, t := range imported {
		date := t.Date
		if date == "" || date == "-" {
			date = time.Now().Format("2006-01-02")
		}

		symbol := strings.ToUpper(strings.TrimSpace(t.Symbol))
		name := t.Name
		if name == "" {
			name = symbol
		}
		assetType := t.AssetType
		if assetType == "" {
			assetType = inferAssetType(symbol, name)
		}
		kind := processors.NormalizeTradeSide(t.Kind).String()
		currency := t.Currency
		if currency == "" {
			currency = "TRY"
		}
		total := t.Total
		if total == 0 {
			total = t.Quantity * t.Price
		}

		if _, err := dbTx.Exec(`
			INSERT INTO transactions (transaction_date, asset_type, symbol, transaction_type, quantity, price, total_value, fees, currency, broker, notes)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			date, assetType, symbol, kind, t.Quantity, t.Price, total, t.Fees, currency, t.Broker, t.Notes); err != nil {
			ctxLogger.Error("Failed to insert imported transaction", "symbol", symbol, "error", err)
			utils.SendJSONError(w, "Failed to import transactions", http.StatusInternalServerError)
			return
		}

		if _, err := dbTx.Exec(`
			INSERT INTO assets (symbol, name, asset_type, current_price, last_updated)
			VALUES (?, ?, ?, ?, datetime('now'))
			ON CONFLICT(symbol) DO UPDATE SET name = excluded.name, asset_type = excluded.asset_type`,
			symbol, name, assetType, t.Price); err != nil {
			ctxLogger.Error("Failed to register imported asset", "symbol", symbol, "error", err)
			utils.SendJSONError(w, "Failed to import transactions", http.StatusInternalServerError)
			return
		}
	}

	if err := dbTx.Commit(); err != nil {
		ctxLogger.Error("Failed to commit import", "error", err)
		utils.SendJSONError(w, "Failed to finalize import", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok", "imported": len(imported)})
}

// inferAssetType guesses a category for backups that predate the asset_type
// column. The heuristics come from the symbol conventions of the supported
// markets.
func inferAssetType(symbol, name string) string {
	lowerName := strings.ToLower(name)
	switch {
	case symbol == "USD" || symbol == "EUR" || symbol == "GBP" || symbol == "CHF":
		return models.AssetTypeCurrency
	case symbol == "GA" || symbol == "CE" || symbol == "ATA" || symbol == "RA5" || symbol == "22" || symbol == "YRG" ||
		strings.Contains(lowerName, "altın") || strings.Contains(lowerName, "bilezik"):
		return models.AssetTypeCommodity
	case strings.HasSuffix(symbol, "-C"):
		return models.AssetTypeCrypto
	case len(symbol) == 3 || (len(symbol) == 4 && strings.ContainsFunc(symbol, unicode.IsDigit)):
		return models.AssetTypeFund
	default:
		return models.AssetTypeEquity
	}
}
