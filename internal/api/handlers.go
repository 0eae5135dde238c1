package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/imvigneshksb/invest/pkg/portfolio"
)

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) getPortfolio(w http.ResponseWriter, r *http.Request) {
	view, err := h.core.GetConsolidated()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if view.Stocks == nil {
		view.Stocks = []portfolio.StockPosition{}
	}
	if view.MutualFunds == nil {
		view.MutualFunds = []portfolio.MutualFundPosition{}
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *handler) getPortfolioRaw(w http.ResponseWriter, r *http.Request) {
	p, err := h.core.GetPortfolio()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if p.Stocks == nil {
		p.Stocks = []portfolio.Stock{}
	}
	if p.MutualFunds == nil {
		p.MutualFunds = []portfolio.MutualFund{}
	}
	writeJSON(w, http.StatusOK, p)
}

type stockPayload struct {
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Quantity     any    `json:"quantity"`
	Price        any    `json:"price"`
	PurchaseDate string `json:"purchaseDate"`
}

func (h *handler) addStock(w http.ResponseWriter, r *http.Request) {
	var payload stockPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stock, err := h.core.AddStock(r.Context(), portfolio.AddStockRequest{
		Symbol:       payload.Symbol,
		Name:         payload.Name,
		Quantity:     payload.Quantity,
		Price:        payload.Price,
		PurchaseDate: payload.PurchaseDate,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, stock)
}

type stockUpdatePayload struct {
	Name         *string `json:"name"`
	Quantity     any     `json:"quantity"`
	Price        any     `json:"price"`
	PurchaseDate *string `json:"purchaseDate"`
}

func (h *handler) updateStock(w http.ResponseWriter, r *http.Request) {
	var payload stockUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	stock, err := h.core.UpdateStock(chi.URLParam(r, "id"), portfolio.UpdateStockRequest{
		Name:         payload.Name,
		Quantity:     payload.Quantity,
		Price:        payload.Price,
		PurchaseDate: payload.PurchaseDate,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, stock)
}

func (h *handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	if err := h.core.DeleteStock(chi.URLParam(r, "id")); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type fundPayload struct {
	SchemeName   string `json:"schemeName"`
	SchemeCode   string `json:"schemeCode"`
	Units        any    `json:"units"`
	NAV          any    `json:"nav"`
	PurchaseDate string `json:"purchaseDate"`
}

func (h *handler) addMutualFund(w http.ResponseWriter, r *http.Request) {
	var payload fundPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fund, err := h.core.AddMutualFund(r.Context(), portfolio.AddMutualFundRequest{
		SchemeName:   payload.SchemeName,
		SchemeCode:   payload.SchemeCode,
		Units:        payload.Units,
		NAV:          payload.NAV,
		PurchaseDate: payload.PurchaseDate,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, fund)
}

type fundUpdatePayload struct {
	SchemeName   *string `json:"schemeName"`
	Units        any     `json:"units"`
	NAV          any     `json:"nav"`
	PurchaseDate *string `json:"purchaseDate"`
}

func (h *handler) updateMutualFund(w http.ResponseWriter, r *http.Request) {
	var payload fundUpdatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	fund, err := h.core.UpdateMutualFund(chi.URLParam(r, "id"), portfolio.UpdateMutualFundRequest{
		SchemeName:   payload.SchemeName,
		Units:        payload.Units,
		NAV:          payload.NAV,
		PurchaseDate: payload.PurchaseDate,
	})
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, fund)
}

func (h *handler) deleteMutualFund(w http.ResponseWriter, r *http.Request) {
	if err := h.core.DeleteMutualFund(chi.URLParam(r, "id")); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// refresh always answers 200 when the pass ran; individual lookup failures
// surface as per-holding flags and failure counts in the summary.
func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.core.RefreshAll(r.Context())
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *handler) getRefreshLogs(w http.ResponseWriter, r *http.Request) {
	limit := parseIntDefault(r.URL.Query().Get("limit"), 50)
	logs, err := h.core.RefreshLogs(limit)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	if logs == nil {
		logs = []portfolio.RefreshLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

func (h *handler) searchStocks(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	quote, err := h.core.SearchStocks(r.Context(), query)
	if err != nil {
		writeErrorResponse(w, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

func (h *handler) searchMutualFunds(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}
	schemes, err := h.core.SearchMutualFunds(r.Context(), query)
	if err != nil {
		writeErrorResponse(w, http.StatusBadGateway, err)
		return
	}
	if schemes == nil {
		schemes = []portfolio.FundScheme{}
	}
	writeJSON(w, http.StatusOK, schemes)
}

func (h *handler) exportDocument(w http.ResponseWriter, r *http.Request) {
	data, err := h.core.ExportDocument()
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="portfolio.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *handler) importDocument(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	p, err := h.core.ImportDocument(data)
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "imported",
		"stocks":      len(p.Stocks),
		"mutualFunds": len(p.MutualFunds),
	})
}

func decodeJSON(r *http.Request, out any) error {
	defer func() {
		_, _ = io.Copy(io.Discard, r.Body)
	}()
	decoder := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := decoder.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("empty request body")
		}
		return err
	}
	return nil
}

func parseIntDefault(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
