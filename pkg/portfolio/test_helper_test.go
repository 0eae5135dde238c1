package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeQuotes is an in-memory QuoteProvider keyed by the stored symbol.
type fakeQuotes struct {
	mu     sync.Mutex
	quotes map[string]Quote
	errs   map[string]error
	calls  []string
}

func (f *fakeQuotes) GetQuote(ctx context.Context, symbol string) (Quote, error) {
	f.mu.Lock()
	f.calls = append(f.calls, symbol)
	f.mu.Unlock()
	if err, ok := f.errs[symbol]; ok {
		return Quote{}, err
	}
	q, ok := f.quotes[symbol]
	if !ok {
		return Quote{}, fmt.Errorf("quote %s: %w", symbol, ErrNoData)
	}
	return q, nil
}

func (f *fakeQuotes) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeFunds is an in-memory FundDataProvider.
type fakeFunds struct {
	mu          sync.Mutex
	schemes     []FundScheme
	nav         map[string][]NAVEntry
	searchErr   error
	navErrs     map[string]error
	searchCalls int
	navCalls    []string
}

func (f *fakeFunds) Search(ctx context.Context, query string) ([]FundScheme, error) {
	f.mu.Lock()
	f.searchCalls++
	f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.schemes, nil
}

func (f *fakeFunds) NAVHistory(ctx context.Context, code string) ([]NAVEntry, error) {
	f.mu.Lock()
	f.navCalls = append(f.navCalls, code)
	f.mu.Unlock()
	if err, ok := f.navErrs[code]; ok {
		return nil, err
	}
	entries, ok := f.nav[code]
	if !ok {
		return nil, fmt.Errorf("nav history %s: %w", code, ErrNoData)
	}
	return entries, nil
}

func (f *fakeFunds) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.searchCalls
}

// setupTestCore creates a Core on a temp database with fake providers.
// Nil providers get empty fakes, so no test ever touches the network.
func setupTestCore(t *testing.T, quotes QuoteProvider, funds FundDataProvider) (*Core, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "invest-test-*")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	if quotes == nil {
		quotes = &fakeQuotes{}
	}
	if funds == nil {
		funds = &fakeFunds{}
	}
	core, err := OpenWithOptions(Options{
		DBPath: filepath.Join(tmpDir, "test.db"),
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})),
		Quotes: quotes,
		Funds:  funds,
	})
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("failed to open test core: %v", err)
	}

	cleanup := func() {
		core.Close()
		os.RemoveAll(tmpDir)
	}
	return core, cleanup
}

// importTestDocument seeds the document directly, bypassing provider lookups.
func importTestDocument(t *testing.T, core *Core, doc string) {
	t.Helper()
	if _, err := core.ImportDocument([]byte(doc)); err != nil {
		t.Fatalf("failed to import test document: %v", err)
	}
}

func assertFloatEquals(t *testing.T, got, want float64, msg string) {
	t.Helper()
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

func assertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", msg, err)
	}
}

func assertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected error, got nil", msg)
	}
}

func assertErrorCode(t *testing.T, err error, code ErrorCode, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected %s error, got nil", msg, code)
	}
	if !IsErrorCode(err, code) {
		t.Errorf("%s: expected code %s, got %v", msg, code, err)
	}
}
