package portfolio

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// newID returns a unique, creation-ordered token. UUIDv7 encodes a timestamp
// in its high bits, so lexicographic id order equals insertion order.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// GetPortfolio returns the raw document as persisted.
func (c *Core) GetPortfolio() (Portfolio, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadPortfolio()
}

// GetConsolidated returns the merged position view, served from cache until a
// mutation invalidates it.
func (c *Core) GetConsolidated() (ConsolidatedPortfolio, error) {
	if view, ok := c.cache.get(); ok {
		return view, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return ConsolidatedPortfolio{}, err
	}
	view := ConsolidatedPortfolio{
		Stocks:      ConsolidateStocks(p.Stocks),
		MutualFunds: ConsolidateMutualFunds(p.MutualFunds),
		LastUpdated: p.LastUpdated,
	}
	c.cache.set(view)
	return view, nil
}

// AddStock appends a stock holding. When the request carries no display name,
// one is resolved from the quote lookup; the same quote seeds the valuation
// fields so a new holding is priced without waiting for the next refresh.
// Lookup failures are tolerated: the holding is stored with priceError set.
func (c *Core) AddStock(ctx context.Context, req AddStockRequest) (Stock, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return Stock{}, NewError(ErrCodeValidation, "symbol is required")
	}
	quantity := toFloat(req.Quantity, 0)
	price := toFloat(req.Price, 0)
	if quantity <= 0 {
		return Stock{}, NewError(ErrCodeValidation, "quantity must be positive")
	}
	if price < 0 {
		return Stock{}, NewError(ErrCodeValidation, "purchase price cannot be negative")
	}

	s := Stock{
		ID:            newID(),
		Symbol:        symbol,
		Name:          strings.TrimSpace(req.Name),
		Quantity:      quantity,
		PurchasePrice: price,
		PurchaseDate:  strings.TrimSpace(req.PurchaseDate),
	}

	lctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	q, err := c.quotes.GetQuote(lctx, symbol)
	cancel()
	if err != nil || q.Price <= 0 {
		c.logger.Warn("quote lookup failed on add", "symbol", symbol, "err", err)
		s.PriceError = true
	} else {
		if s.Name == "" {
			s.Name = q.Name
		}
		applyQuote(&s, q.Price)
	}
	if s.Name == "" {
		s.Name = symbol
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return Stock{}, err
	}
	p.Stocks = append(p.Stocks, s)
	if err := c.savePortfolio(p); err != nil {
		return Stock{}, err
	}
	c.cache.invalidate()
	c.logger.Info("stock added", "id", s.ID, "symbol", s.Symbol, "quantity", s.Quantity)
	return s, nil
}

// UpdateStock applies partial edits to a holding by id. Absent fields keep
// their prior values; valuations are recomputed against the stored current
// price. A missing id is a distinct not-found error with no mutation.
func (c *Core) UpdateStock(id string, req UpdateStockRequest) (Stock, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return Stock{}, err
	}
	i := findStock(p.Stocks, id)
	if i < 0 {
		return Stock{}, NewError(ErrCodeNotFound, "stock not found: "+id)
	}

	s := &p.Stocks[i]
	if req.Name != nil {
		s.Name = strings.TrimSpace(*req.Name)
	}
	if req.Quantity != nil {
		s.Quantity = toFloat(req.Quantity, s.Quantity)
	}
	if req.Price != nil {
		s.PurchasePrice = toFloat(req.Price, s.PurchasePrice)
	}
	if req.PurchaseDate != nil {
		s.PurchaseDate = strings.TrimSpace(*req.PurchaseDate)
	}
	if s.Quantity <= 0 {
		return Stock{}, NewError(ErrCodeValidation, "quantity must be positive")
	}
	if s.CurrentPrice > 0 {
		applyQuote(s, s.CurrentPrice)
	}

	if err := c.savePortfolio(p); err != nil {
		return Stock{}, err
	}
	c.cache.invalidate()
	c.logger.Info("stock updated", "id", id, "symbol", s.Symbol)
	return *s, nil
}

// DeleteStock removes a holding by id.
func (c *Core) DeleteStock(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return err
	}
	i := findStock(p.Stocks, id)
	if i < 0 {
		return NewError(ErrCodeNotFound, "stock not found: "+id)
	}
	symbol := p.Stocks[i].Symbol
	p.Stocks = append(p.Stocks[:i], p.Stocks[i+1:]...)
	if err := c.savePortfolio(p); err != nil {
		return err
	}
	c.cache.invalidate()
	c.logger.Info("stock deleted", "id", id, "symbol", symbol)
	return nil
}

// AddMutualFund appends a fund holding. The scheme code is resolved from the
// scheme name when absent, and the latest NAV seeds the valuation fields.
// Either lookup failing leaves the holding stored with navError set.
func (c *Core) AddMutualFund(ctx context.Context, req AddMutualFundRequest) (MutualFund, error) {
	schemeName := strings.TrimSpace(req.SchemeName)
	if schemeName == "" {
		return MutualFund{}, NewError(ErrCodeValidation, "scheme name is required")
	}
	units := toFloat(req.Units, 0)
	nav := toFloat(req.NAV, 0)
	if units <= 0 {
		return MutualFund{}, NewError(ErrCodeValidation, "units must be positive")
	}
	if nav < 0 {
		return MutualFund{}, NewError(ErrCodeValidation, "purchase NAV cannot be negative")
	}

	f := MutualFund{
		ID:           newID(),
		SchemeName:   schemeName,
		SchemeCode:   strings.TrimSpace(req.SchemeCode),
		Units:        units,
		PurchaseNAV:  nav,
		PurchaseDate: strings.TrimSpace(req.PurchaseDate),
	}

	if err := c.refreshFund(ctx, &f); err != nil {
		c.logger.Warn("nav lookup failed on add", "scheme", schemeName, "err", err)
		// Without a live NAV the holding values at cost.
		applyNAV(&f, f.PurchaseNAV, "")
		f.NAVError = true
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return MutualFund{}, err
	}
	p.MutualFunds = append(p.MutualFunds, f)
	if err := c.savePortfolio(p); err != nil {
		return MutualFund{}, err
	}
	c.cache.invalidate()
	c.logger.Info("mutual fund added", "id", f.ID, "scheme", f.SchemeName, "units", f.Units)
	return f, nil
}

// UpdateMutualFund applies partial edits to a fund holding by id.
func (c *Core) UpdateMutualFund(id string, req UpdateMutualFundRequest) (MutualFund, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return MutualFund{}, err
	}
	i := findFund(p.MutualFunds, id)
	if i < 0 {
		return MutualFund{}, NewError(ErrCodeNotFound, "mutual fund not found: "+id)
	}

	f := &p.MutualFunds[i]
	if req.SchemeName != nil {
		name := strings.TrimSpace(*req.SchemeName)
		if name != "" && !strings.EqualFold(name, f.SchemeName) {
			// A renamed scheme invalidates the cached code.
			f.SchemeName = name
			f.SchemeCode = ""
		}
	}
	if req.Units != nil {
		f.Units = toFloat(req.Units, f.Units)
	}
	if req.NAV != nil {
		f.PurchaseNAV = toFloat(req.NAV, f.PurchaseNAV)
	}
	if req.PurchaseDate != nil {
		f.PurchaseDate = strings.TrimSpace(*req.PurchaseDate)
	}
	if f.Units <= 0 {
		return MutualFund{}, NewError(ErrCodeValidation, "units must be positive")
	}
	if f.CurrentNAV > 0 {
		applyNAV(f, f.CurrentNAV, f.NAVDate)
	}

	if err := c.savePortfolio(p); err != nil {
		return MutualFund{}, err
	}
	c.cache.invalidate()
	c.logger.Info("mutual fund updated", "id", id, "scheme", f.SchemeName)
	return *f, nil
}

// DeleteMutualFund removes a fund holding by id.
func (c *Core) DeleteMutualFund(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return err
	}
	i := findFund(p.MutualFunds, id)
	if i < 0 {
		return NewError(ErrCodeNotFound, "mutual fund not found: "+id)
	}
	scheme := p.MutualFunds[i].SchemeName
	p.MutualFunds = append(p.MutualFunds[:i], p.MutualFunds[i+1:]...)
	if err := c.savePortfolio(p); err != nil {
		return err
	}
	c.cache.invalidate()
	c.logger.Info("mutual fund deleted", "id", id, "scheme", scheme)
	return nil
}

// SearchStocks looks up a symbol for the add flow: validates it against the
// quote source and returns its display name and latest price.
func (c *Core) SearchStocks(ctx context.Context, query string) (Quote, error) {
	lctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()
	q, err := c.quotes.GetQuote(lctx, query)
	if err != nil {
		return Quote{}, WrapError(ErrCodeLookup, "stock lookup failed", err)
	}
	q.Price = round2(q.Price)
	return q, nil
}

// SearchMutualFunds finds schemes matching a free-text query.
func (c *Core) SearchMutualFunds(ctx context.Context, query string) ([]FundScheme, error) {
	lctx, cancel := context.WithTimeout(ctx, c.lookupTimeout)
	defer cancel()
	schemes, err := c.funds.Search(lctx, query)
	if err != nil {
		return nil, WrapError(ErrCodeLookup, "scheme search failed", err)
	}
	return schemes, nil
}

func findStock(stocks []Stock, id string) int {
	for i := range stocks {
		if stocks[i].ID == id {
			return i
		}
	}
	return -1
}

func findFund(funds []MutualFund, id string) int {
	for i := range funds {
		if funds[i].ID == id {
			return i
		}
	}
	return -1
}
