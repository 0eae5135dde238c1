package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/imvigneshksb/invest/pkg/portfolio"
)

// NewRouter builds the HTTP API router.
func NewRouter(core *portfolio.Core, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recoveryLoggingMiddleware(logger))
	r.Use(requestLoggingMiddleware(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	h := &handler{core: core, logger: logger}

	r.Get("/api/health", h.health)

	// Portfolio views
	r.Get("/api/portfolio", h.getPortfolio)
	r.Get("/api/portfolio/raw", h.getPortfolioRaw)

	// Stocks
	r.Post("/api/stocks", h.addStock)
	r.Put("/api/stocks/{id}", h.updateStock)
	r.Delete("/api/stocks/{id}", h.deleteStock)

	// Mutual funds
	r.Post("/api/mutual-funds", h.addMutualFund)
	r.Put("/api/mutual-funds/{id}", h.updateMutualFund)
	r.Delete("/api/mutual-funds/{id}", h.deleteMutualFund)

	// Market data
	r.Post("/api/refresh", h.refresh)
	r.Get("/api/refresh-logs", h.getRefreshLogs)

	// Lookup
	r.Get("/api/search/stocks", h.searchStocks)
	r.Get("/api/search/mutual-funds", h.searchMutualFunds)

	// Backup
	r.Get("/api/export", h.exportDocument)
	r.Post("/api/import", h.importDocument)

	return r
}

type handler struct {
	core   *portfolio.Core
	logger *slog.Logger
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
