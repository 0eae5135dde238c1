package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/piquette/finance-go/quote"
	"golang.org/x/time/rate"
)

const (
	// Bare symbols default to NSE; a symbol that already carries an exchange
	// suffix (RELIANCE.NS, VUSA.L, ...) is passed through untouched.
	defaultMarketSuffix = ".NS"

	quoteCacheTTL   = 30 * time.Second
	quoteCacheSweep = 5 * time.Minute
	quoteRatePerSec = 5
	quoteRateBurst  = 5
)

// YahooQuotes serves equity quotes from Yahoo Finance. Lookups are cached for
// a short TTL and rate limited to stay inside the unauthenticated quota.
type YahooQuotes struct {
	logger  *slog.Logger
	suffix  string
	cache   *gocache.Cache
	limiter *rate.Limiter
}

// NewYahooQuotes creates a quote provider with the default NSE suffix.
func NewYahooQuotes(logger *slog.Logger) *YahooQuotes {
	if logger == nil {
		logger = slog.Default()
	}
	return &YahooQuotes{
		logger:  logger,
		suffix:  defaultMarketSuffix,
		cache:   gocache.New(quoteCacheTTL, quoteCacheSweep),
		limiter: rate.NewLimiter(rate.Limit(quoteRatePerSec), quoteRateBurst),
	}
}

// MarketSymbol returns the exchange-qualified lookup symbol for a stored one.
func (y *YahooQuotes) MarketSymbol(symbol string) string {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return symbol
	}
	if !strings.Contains(symbol, ".") {
		symbol += y.suffix
	}
	return symbol
}

// GetQuote fetches the latest quote for symbol.
func (y *YahooQuotes) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	sym := y.MarketSymbol(symbol)
	if sym == "" {
		return Quote{}, NewError(ErrCodeValidation, "empty symbol")
	}
	if cached, ok := y.cache.Get(sym); ok {
		return cached.(Quote), nil
	}
	if err := y.limiter.Wait(ctx); err != nil {
		return Quote{}, err
	}

	y.logger.Debug("fetching quote", "symbol", sym)
	q, err := quote.Get(sym)
	if err != nil {
		return Quote{}, fmt.Errorf("quote %s: %w", sym, err)
	}
	if q == nil {
		return Quote{}, fmt.Errorf("quote %s: %w", sym, ErrNoData)
	}
	if err := ctx.Err(); err != nil {
		return Quote{}, err
	}

	result := Quote{
		Symbol: sym,
		Name:   strings.TrimSpace(q.ShortName),
		Price:  q.RegularMarketPrice,
		AsOf:   time.Unix(int64(q.RegularMarketTime), 0).In(kolkataLocation),
	}
	y.cache.Set(sym, result, gocache.DefaultExpiration)
	return result, nil
}
