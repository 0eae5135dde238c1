package portfolio

import (
	"encoding/json"
	"strings"
)

// The interchange document is `{stocks, mutualFunds, lastUpdated}`. Export
// emits the persisted document as-is; import replaces it atomically. Imported
// numerics pass through toFloat, so a document with quoted or junk numbers
// loads with defaults instead of failing wholesale.

// stockDoc mirrors Stock with loosely typed numerics for import.
type stockDoc struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Quantity      any    `json:"quantity"`
	PurchasePrice any    `json:"purchasePrice"`
	PurchaseDate  string `json:"purchaseDate"`
	CurrentPrice  any    `json:"currentPrice"`
	Change        any    `json:"change"`
	ChangePercent any    `json:"changePercent"`
	TotalValue    any    `json:"totalValue"`
	TotalGain     any    `json:"totalGain"`
	GainPercent   any    `json:"gainPercent"`
	PriceError    bool   `json:"priceError"`
	LastUpdated   string `json:"lastUpdated"`
}

type fundDoc struct {
	ID            string `json:"id"`
	SchemeName    string `json:"schemeName"`
	SchemeCode    string `json:"schemeCode"`
	FundHouse     string `json:"fundHouse"`
	Units         any    `json:"units"`
	PurchaseNAV   any    `json:"purchaseNav"`
	PurchaseDate  string `json:"purchaseDate"`
	CurrentNAV    any    `json:"currentNav"`
	Change        any    `json:"change"`
	ChangePercent any    `json:"changePercent"`
	TotalValue    any    `json:"totalValue"`
	TotalGain     any    `json:"totalGain"`
	GainPercent   any    `json:"gainPercent"`
	NAVError      bool   `json:"navError"`
	NAVDate       string `json:"navDate"`
	LastUpdated   string `json:"lastUpdated"`
}

type portfolioDoc struct {
	Stocks      []stockDoc `json:"stocks"`
	MutualFunds []fundDoc  `json:"mutualFunds"`
	LastUpdated string     `json:"lastUpdated"`
}

// ExportDocument serializes the persisted portfolio document.
func (c *Core) ExportDocument() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.loadPortfolio()
	if err != nil {
		return nil, err
	}
	if p.Stocks == nil {
		p.Stocks = []Stock{}
	}
	if p.MutualFunds == nil {
		p.MutualFunds = []MutualFund{}
	}
	return json.MarshalIndent(p, "", "  ")
}

// ImportDocument replaces the whole portfolio with the given document. The
// swap is a single save: either the full document lands or nothing changes.
func (c *Core) ImportDocument(data []byte) (Portfolio, error) {
	var doc portfolioDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return Portfolio{}, WrapError(ErrCodeInvalidInput, "malformed portfolio document", err)
	}

	p := Portfolio{LastUpdated: strings.TrimSpace(doc.LastUpdated)}
	for _, d := range doc.Stocks {
		symbol := strings.ToUpper(strings.TrimSpace(d.Symbol))
		if symbol == "" {
			return Portfolio{}, NewError(ErrCodeValidation, "stock entry without symbol")
		}
		s := Stock{
			ID:            strings.TrimSpace(d.ID),
			Symbol:        symbol,
			Name:          strings.TrimSpace(d.Name),
			Quantity:      toFloat(d.Quantity, 0),
			PurchasePrice: toFloat(d.PurchasePrice, 0),
			PurchaseDate:  strings.TrimSpace(d.PurchaseDate),
			CurrentPrice:  toFloat(d.CurrentPrice, 0),
			Change:        toFloat(d.Change, 0),
			ChangePercent: toFloat(d.ChangePercent, 0),
			TotalValue:    toFloat(d.TotalValue, 0),
			TotalGain:     toFloat(d.TotalGain, 0),
			GainPercent:   toFloat(d.GainPercent, 0),
			PriceError:    d.PriceError,
			LastUpdated:   strings.TrimSpace(d.LastUpdated),
		}
		if s.ID == "" {
			s.ID = newID()
		}
		p.Stocks = append(p.Stocks, s)
	}
	for _, d := range doc.MutualFunds {
		scheme := strings.TrimSpace(d.SchemeName)
		if scheme == "" {
			return Portfolio{}, NewError(ErrCodeValidation, "mutual fund entry without scheme name")
		}
		f := MutualFund{
			ID:            strings.TrimSpace(d.ID),
			SchemeName:    scheme,
			SchemeCode:    strings.TrimSpace(d.SchemeCode),
			FundHouse:     strings.TrimSpace(d.FundHouse),
			Units:         toFloat(d.Units, 0),
			PurchaseNAV:   toFloat(d.PurchaseNAV, 0),
			PurchaseDate:  strings.TrimSpace(d.PurchaseDate),
			CurrentNAV:    toFloat(d.CurrentNAV, 0),
			Change:        toFloat(d.Change, 0),
			ChangePercent: toFloat(d.ChangePercent, 0),
			TotalValue:    toFloat(d.TotalValue, 0),
			TotalGain:     toFloat(d.TotalGain, 0),
			GainPercent:   toFloat(d.GainPercent, 0),
			NAVError:      d.NAVError,
			NAVDate:       strings.TrimSpace(d.NAVDate),
			LastUpdated:   strings.TrimSpace(d.LastUpdated),
		}
		if f.ID == "" {
			f.ID = newID()
		}
		p.MutualFunds = append(p.MutualFunds, f)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.savePortfolio(p); err != nil {
		return Portfolio{}, err
	}
	c.cache.invalidate()
	c.logger.Info("portfolio imported", "stocks", len(p.Stocks), "mutual_funds", len(p.MutualFunds))
	return p, nil
}
