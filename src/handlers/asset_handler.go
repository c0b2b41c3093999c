// src/handlers/asset_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patrickmn/go-cache"
	"github.com/username/portfoy/src/database"
	"github.com/username/portfoy/src/model"
	"github.com/username/portfoy/src/models"
	"github.com/username/portfoy/src/utils"
)

const searchResultLimit = 20

type AssetHandler struct {
	searchCache *cache.Cache
}

func NewAssetHandler() *AssetHandler {
	return &AssetHandler{
		// Search results only need to survive between keystrokes; ingestion
		// refreshes far less often than this expires.
		searchCache: cache.New(1*time.Minute, 5*time.Minute),
	}
}

func (h *AssetHandler) HandleGetAssetInfo(w http.ResponseWriter, r *http.Request) {
	symbol := strings.ToUpper(chi.URLParam(r, "symbol"))
	asset, err := model.GetAsset(database.DB, symbol)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error looking up asset %s: %v", symbol, err), http.StatusInternalServerError)
		return
	}
	if asset == nil {
		utils.SendJSONError(w, fmt.Sprintf("Asset %s not found", symbol), http.StatusNotFound)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.AssetInfo{
		Name:         asset.Name,
		CurrentPrice: asset.CurrentPrice,
		AssetType:    asset.AssetType,
	})
}

func (h *AssetHandler) HandleSearchAssets(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		utils.SendJSONError(w, "query parameter 'q' is required", http.StatusBadRequest)
		return
	}

	cacheKey := strings.ToUpper(query)
	if cached, found := h.searchCache.Get(cacheKey); found {
		utils.WriteJSON(w, http.StatusOK, cached)
		return
	}

	assets, err := model.SearchAssets(database.DB, query, searchResultLimit)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("Error searching assets: %v", err), http.StatusInternalServerError)
		return
	}
	if assets == nil {
		assets = []models.Asset{}
	}
	h.searchCache.Set(cacheKey, assets, cache.DefaultExpiration)
	utils.WriteJSON(w, http.StatusOK, assets)
}
