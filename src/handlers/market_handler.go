// src/handlers/market_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/services"
	"github.com/username/portfoy/src/utils"
)

type MarketHandler struct {
	marketService services.MarketDataService
}

func NewMarketHandler(marketService services.MarketDataService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// HandleUpdateMarketData triggers an ingestion run. ?type=general|tefas|all
// selects the pipeline, ?force=true bypasses the staleness gates.
func (h *MarketHandler) HandleUpdateMarketData(w http.ResponseWriter, r *http.Request) {
	updateType := r.URL.Query().Get("type")
	if updateType == "" {
		updateType = "all"
	}
	force := r.URL.Query().Get("force") == "true"

	ctx := r.Context()
	ctxLogger := logger.FromContext(ctx)
	ctxLogger.Info("Handling market data update", "type", updateType, "force", force)

	var err error
	switch updateType {
	case "general":
		err = h.marketService.UpdateGeneralAssets(ctx, force)
	case "tefas":
		err = h.marketService.UpdateFunds(ctx, force)
	case "all":
		err = h.marketService.UpdateAll(ctx, force)
	default:
		utils.SendJSONError(w, fmt.Sprintf("Unknown update type: %s", updateType), http.StatusBadRequest)
		return
	}

	if err != nil {
		ctxLogger.Error("Market data update failed", "type", updateType, "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Market data update failed: %v", err), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *MarketHandler) HandleGetLastUpdates(w http.ResponseWriter, r *http.Request) {
	updates, err := h.marketService.LastUpdates()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error reading last update timestamps: %v", err), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, updates)
}
