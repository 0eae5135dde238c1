package portfolio

import (
	"context"
	"net/http"
	"time"
)

// HTTPDoer is an interface for making HTTP requests. It enables dependency
// injection for testing without network calls.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Quote is a point-in-time market quote for one instrument.
type Quote struct {
	Symbol string    `json:"symbol"`
	Name   string    `json:"name,omitempty"`
	Price  float64   `json:"price"`
	AsOf   time.Time `json:"as_of"`
}

// QuoteProvider supplies equity quotes. Implementations own symbol
// normalization (market suffixing) and must honor ctx cancellation.
type QuoteProvider interface {
	GetQuote(ctx context.Context, symbol string) (Quote, error)
}

// FundScheme is one result from a scheme search.
type FundScheme struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	House string `json:"house,omitempty"`
	Type  string `json:"type,omitempty"`
}

// NAVEntry is one row of a fund's NAV history, most recent first.
type NAVEntry struct {
	NAV  float64 `json:"nav"`
	Date string  `json:"date"`
}

// FundDataProvider resolves scheme names to codes and serves NAV history.
type FundDataProvider interface {
	Search(ctx context.Context, query string) ([]FundScheme, error)
	NAVHistory(ctx context.Context, code string) ([]NAVEntry, error)
}
