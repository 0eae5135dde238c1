package portfolio

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// RefreshAll runs one market-data pass over the whole portfolio: every stock
// gets a quote lookup, every fund a NAV lookup, one call in flight at a time.
// A failed lookup flags only its own holding and the pass continues; the pass
// itself only fails on load/save, never on market data. The document is saved
// once at the end, so persistence is all-or-nothing even though field updates
// within the pass are partial.
func (c *Core) RefreshAll(ctx context.Context) (RefreshSummary, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.loadPortfolio()
	if err != nil {
		return RefreshSummary{}, err
	}

	start := time.Now()
	var summary RefreshSummary
	var failures []string

	for i := range p.Stocks {
		s := &p.Stocks[i]
		if err := c.refreshStock(ctx, s); err != nil {
			// Prior valuation fields stay untouched; only the flag changes.
			s.PriceError = true
			summary.StocksFailed++
			failures = append(failures, fmt.Sprintf("%s: %v", s.Symbol, err))
			c.logger.Warn("stock refresh failed", "symbol", s.Symbol, "err", err)
			continue
		}
		summary.StocksUpdated++
	}

	for i := range p.MutualFunds {
		f := &p.MutualFunds[i]
		if err := c.refreshFund(ctx, f); err != nil {
			f.NAVError = true
			summary.FundsFailed++
			failures = append(failures, fmt.Sprintf("%s: %v", f.SchemeName, err))
			c.logger.Warn("fund refresh failed", "scheme", f.SchemeName, "err", err)
			continue
		}
		summary.FundsUpdated++
	}

	p.LastUpdated = NowRFC3339InIST()
	summary.LastUpdated = p.LastUpdated
	summary.DurationMS = time.Since(start).Milliseconds()

	if err := c.savePortfolio(p); err != nil {
		return RefreshSummary{}, err
	}
	c.cache.invalidate()
	c.addRefreshLog(summary, failures)
	c.logger.Info("refresh pass completed",
		"stocks_updated", summary.StocksUpdated, "stocks_failed", summary.StocksFailed,
		"funds_updated", summary.FundsUpdated, "funds_failed", summary.FundsFailed,
		"duration_ms", summary.DurationMS)
	return summary, nil
}

// refreshStock fetches a quote and rewrites the holding's valuation fields.
// Any error return means the holding was left exactly as it was.
func (c *Core) refreshStock(ctx context.Context, s *Stock) error {
	lctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	q, err := c.quotes.GetQuote(lctx, s.Symbol)
	if err != nil {
		return err
	}
	// A zero or negative price is as useless as no response.
	if q.Price <= 0 {
		return fmt.Errorf("non-positive price %.4f for %s: %w", q.Price, s.Symbol, ErrNoData)
	}
	applyQuote(s, q.Price)
	return nil
}

// refreshFund resolves the scheme code if needed, then applies the most
// recent NAV from the scheme's history.
func (c *Core) refreshFund(ctx context.Context, f *MutualFund) error {
	if f.SchemeCode == "" {
		code, house, err := c.resolveSchemeCode(ctx, f.SchemeName)
		if err != nil {
			return err
		}
		// Cached onto the holding so later passes skip the search.
		f.SchemeCode = code
		if f.FundHouse == "" {
			f.FundHouse = house
		}
	}

	lctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()
	history, err := c.funds.NAVHistory(lctx, f.SchemeCode)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		return fmt.Errorf("empty nav history for %s: %w", f.SchemeCode, ErrNoData)
	}

	latest := history[0]
	if latest.NAV <= 0 {
		return fmt.Errorf("non-positive nav %.4f for %s: %w", latest.NAV, f.SchemeCode, ErrNoData)
	}
	applyNAV(f, latest.NAV, latest.Date)
	return nil
}

// resolveSchemeCode searches by scheme name and accepts only an exact
// case-insensitive match; fuzzy hits would silently bind the wrong scheme.
func (c *Core) resolveSchemeCode(ctx context.Context, schemeName string) (code, house string, err error) {
	lctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()

	schemes, err := c.funds.Search(lctx, schemeName)
	if err != nil {
		return "", "", err
	}
	want := strings.TrimSpace(schemeName)
	for _, s := range schemes {
		if strings.EqualFold(strings.TrimSpace(s.Name), want) {
			return s.Code, s.House, nil
		}
	}
	return "", "", fmt.Errorf("no exact scheme match for %q: %w", schemeName, ErrNoData)
}

// applyQuote rewrites a stock's valuation fields from a fresh price and
// clears its error flag. Prices and derived fields are rounded to two
// decimals on the way in; they are presentation values, the engine recomputes
// aggregates from quantity and cost basis.
func applyQuote(s *Stock, price float64) {
	price = round2(price)
	change, pct := changeAndPercent(price, s.PurchasePrice)
	value := totalValue(s.Quantity, price)
	invested := s.Quantity * s.PurchasePrice
	gain := totalGain(value, invested)

	s.CurrentPrice = price
	s.Change = round2(change)
	s.ChangePercent = round2(pct)
	s.TotalValue = round2(value)
	s.TotalGain = round2(gain)
	s.GainPercent = round2(gainPercent(gain, invested))
	s.PriceError = false
	s.LastUpdated = NowRFC3339InIST()
}

// applyNAV is the fund analogue of applyQuote, with purchase NAV as basis.
func applyNAV(f *MutualFund, nav float64, navDate string) {
	nav = round2(nav)
	change, pct := changeAndPercent(nav, f.PurchaseNAV)
	value := totalValue(f.Units, nav)
	invested := f.Units * f.PurchaseNAV
	gain := totalGain(value, invested)

	f.CurrentNAV = nav
	f.Change = round2(change)
	f.ChangePercent = round2(pct)
	f.TotalValue = round2(value)
	f.TotalGain = round2(gain)
	f.GainPercent = round2(gainPercent(gain, invested))
	f.NAVError = false
	if navDate != "" {
		f.NAVDate = navDate
	}
	f.LastUpdated = NowRFC3339InIST()
}

// addRefreshLog records a pass summary; audit rows are best effort.
func (c *Core) addRefreshLog(summary RefreshSummary, failures []string) {
	var details any
	if len(failures) > 0 {
		details = strings.Join(failures, "; ")
	}
	if _, err := c.db.Exec(`
		INSERT INTO refresh_logs (stocks_updated, stocks_failed, funds_updated, funds_failed, duration_ms, details)
		VALUES (?, ?, ?, ?, ?, ?)
	`, summary.StocksUpdated, summary.StocksFailed, summary.FundsUpdated, summary.FundsFailed,
		summary.DurationMS, details); err != nil {
		c.logger.Warn("refresh log insert failed", "err", err)
	}
}

// RefreshLogs returns recent pass summaries, newest first.
func (c *Core) RefreshLogs(limit int) ([]RefreshLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := c.db.Query(`
		SELECT id, stocks_updated, stocks_failed, funds_updated, funds_failed, duration_ms, details, created_at
		FROM refresh_logs ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, WrapError(ErrCodeDatabase, "load refresh logs", err)
	}
	defer rows.Close()

	var logs []RefreshLog
	for rows.Next() {
		var l RefreshLog
		var details sql.NullString
		if err := rows.Scan(&l.ID, &l.StocksUpdated, &l.StocksFailed, &l.FundsUpdated,
			&l.FundsFailed, &l.DurationMS, &details, &l.CreatedAt); err != nil {
			return nil, WrapError(ErrCodeDatabase, "scan refresh log", err)
		}
		if details.Valid {
			l.Details = &details.String
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
