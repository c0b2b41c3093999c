package main

import (
	stdlog "log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/username/portfoy/src/config"
	"github.com/username/portfoy/src/database"
	"github.com/username/portfoy/src/handlers"
	"github.com/username/portfoy/src/logger"
	"github.com/username/portfoy/src/models"
	"github.com/username/portfoy/src/services"
	"github.com/username/portfoy/src/utils"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Portfoy backend server starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	httpClient := &http.Client{Timeout: config.Cfg.HTTPClientTimeout}

	portfolioService := services.NewPortfolioService(database.DB, config.Cfg.USDRateSanityLimit)
	marketService := services.NewMarketDataService(database.DB, httpClient, services.MarketDataConfig{
		UserAgent:              config.Cfg.UserAgent,
		GeneralRefreshInterval: config.Cfg.GeneralRefreshInterval,
		FundRefreshInterval:    config.Cfg.FundRefreshInterval,
		FundHistoryURL:         config.Cfg.FundHistoryURL,
		PageSources: []services.PageSource{
			{URL: config.Cfg.CurrencyPageURL, AssetType: models.AssetTypeCurrency},
			{URL: config.Cfg.CommodityPageURL, AssetType: models.AssetTypeCommodity},
			{URL: config.Cfg.EquityPageURL, AssetType: models.AssetTypeEquity},
			{URL: config.Cfg.CryptoPageURL, AssetType: models.AssetTypeCrypto},
		},
	})

	portfolioHandler := handlers.NewPortfolioHandler(portfolioService)
	transactionHandler := handlers.NewTransactionHandler()
	assetHandler := handlers.NewAssetHandler()
	marketHandler := handlers.NewMarketHandler(marketService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Portfoy Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio/summary", portfolioHandler.HandleGetSummary)
		r.Get("/portfolio/holdings", portfolioHandler.HandleGetHoldings)
		r.Get("/portfolio/realized-pnl", portfolioHandler.HandleGetRealizedPnL)
		r.Get("/portfolio/performance", portfolioHandler.HandleGetRangePerformance)

		r.Get("/transactions", transactionHandler.HandleListTransactions)
		r.Post("/transactions", transactionHandler.HandleAddTransaction)
		r.Put("/transactions/{id}", transactionHandler.HandleUpdateTransaction)
		r.Delete("/transactions/{id}", transactionHandler.HandleDeleteTransaction)
		r.Get("/transactions/export", transactionHandler.HandleExportTransactions)
		r.Post("/transactions/import", transactionHandler.HandleImportTransactions)

		r.Get("/assets/search", assetHandler.HandleSearchAssets)
		r.Get("/assets/{symbol}", assetHandler.HandleGetAssetInfo)

		r.Post("/market/update", marketHandler.HandleUpdateMarketData)
		r.Get("/market/last-updates", marketHandler.HandleGetLastUpdates)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
