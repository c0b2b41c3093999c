// src/handlers/portfolio_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/models"
	"github.com/username/portfoy/src/services"
	"github.com/username/portfoy/src/utils"
)

type PortfolioHandler struct {
	portfolioService services.PortfolioService
}

func NewPortfolioHandler(portfolioService services.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{portfolioService: portfolioService}
}

// HandleGetSummary computes the portfolio summary. This also persists today's
// snapshot, so calling it is what keeps the performance baselines current.
func (h *PortfolioHandler) HandleGetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.portfolioService.GetPortfolioSummary()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute portfolio summary", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error computing portfolio summary: %v", err), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, summary)
}

func (h *PortfolioHandler) HandleGetHoldings(w http.ResponseWriter, r *http.Request) {
	holdings, _, err := h.portfolioService.GetCurrentHoldings()
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute holdings", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error retrieving holdings: %v", err), http.StatusInternalServerError)
		return
	}
	if holdings == nil {
		holdings = []models.Holding{}
	}
	utils.WriteJSON(w, http.StatusOK, holdings)
}

// HandleGetRealizedPnL reports realized PnL recognized inside the optional
// ?start_date=&end_date= window (YYYY-MM-DD, inclusive).
func (h *PortfolioHandler) HandleGetRealizedPnL(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	pnl, err := h.portfolioService.GetRealizedPnLInRange(startDate, endDate)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute realized PnL", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error computing realized PnL: %v", err), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]float64{"realized_pnl": pnl})
}

func (h *PortfolioHandler) HandleGetRangePerformance(w http.ResponseWriter, r *http.Request) {
	startDate := r.URL.Query().Get("start_date")
	endDate := r.URL.Query().Get("end_date")

	perf, err := h.portfolioService.GetRangePerformance(startDate, endDate)
	if err != nil {
		logger.FromContext(r.Context()).Error("Failed to compute range performance", "error", err)
		utils.SendJSONError(w, fmt.Sprintf("Error computing range performance: %v", err), http.StatusInternalServerError)
		return
	}
	utils.WriteJSON(w, http.StatusOK, perf)
}
