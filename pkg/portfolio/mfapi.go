package portfolio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	defaultMFAPIBaseURL = "https://api.mfapi.in"

	schemeSearchTTL   = 12 * time.Hour
	schemeSearchSweep = time.Hour
	mfapiRatePerSec   = 2
	mfapiRateBurst    = 2
	mfapiHTTPTimeout  = 10 * time.Second
)

// MFAPIClient talks to the free mfapi.in mutual-fund API: scheme search and
// per-scheme NAV history (most recent first). Search results are memoized;
// requests are rate limited to be polite to an unauthenticated service.
type MFAPIClient struct {
	logger  *slog.Logger
	client  HTTPDoer
	baseURL string
	search  *gocache.Cache
	limiter *rate.Limiter
}

// NewMFAPIClient creates a fund data client. A nil httpClient gets a default
// one with a bounded timeout.
func NewMFAPIClient(logger *slog.Logger, httpClient HTTPDoer) *MFAPIClient {
	if logger == nil {
		logger = slog.Default()
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: mfapiHTTPTimeout}
	}
	return &MFAPIClient{
		logger:  logger,
		client:  httpClient,
		baseURL: defaultMFAPIBaseURL,
		search:  gocache.New(schemeSearchTTL, schemeSearchSweep),
		limiter: rate.NewLimiter(rate.Limit(mfapiRatePerSec), mfapiRateBurst),
	}
}

type mfapiSearchResult struct {
	SchemeCode int    `json:"schemeCode"`
	SchemeName string `json:"schemeName"`
}

type mfapiHistoryResponse struct {
	Meta struct {
		FundHouse  string `json:"fund_house"`
		SchemeType string `json:"scheme_type"`
		SchemeName string `json:"scheme_name"`
	} `json:"meta"`
	Data []struct {
		Date string `json:"date"`
		NAV  string `json:"nav"`
	} `json:"data"`
	Status string `json:"status"`
}

// Search finds schemes matching a free-text query.
func (m *MFAPIClient) Search(ctx context.Context, query string) ([]FundScheme, error) {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, NewError(ErrCodeValidation, "empty search query")
	}
	if cached, ok := m.search.Get(key); ok {
		return cached.([]FundScheme), nil
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/mf/search?q=%s", m.baseURL, url.QueryEscape(query))
	var results []mfapiSearchResult
	if err := m.getJSON(ctx, endpoint, &results); err != nil {
		return nil, fmt.Errorf("scheme search %q: %w", query, err)
	}

	schemes := make([]FundScheme, 0, len(results))
	for _, r := range results {
		schemes = append(schemes, FundScheme{
			Code: strconv.Itoa(r.SchemeCode),
			Name: r.SchemeName,
		})
	}
	m.search.Set(key, schemes, gocache.DefaultExpiration)
	return schemes, nil
}

// NAVHistory returns a scheme's NAV history, most recent entry first, as
// served by the API.
func (m *MFAPIClient) NAVHistory(ctx context.Context, code string) ([]NAVEntry, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, NewError(ErrCodeValidation, "empty scheme code")
	}
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/mf/%s", m.baseURL, url.PathEscape(code))
	var parsed mfapiHistoryResponse
	if err := m.getJSON(ctx, endpoint, &parsed); err != nil {
		return nil, fmt.Errorf("nav history %s: %w", code, err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("nav history %s: %w", code, ErrNoData)
	}

	entries := make([]NAVEntry, 0, len(parsed.Data))
	for _, row := range parsed.Data {
		// NAVs come over the wire as strings ("184.5932").
		nav, err := decimal.NewFromString(strings.TrimSpace(row.NAV))
		if err != nil {
			continue
		}
		entries = append(entries, NAVEntry{NAV: nav.InexactFloat64(), Date: row.Date})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("nav history %s: %w", code, ErrNoData)
	}
	return entries, nil
}

func (m *MFAPIClient) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
