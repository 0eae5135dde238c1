package portfolio

import (
	"context"
	"errors"
	"testing"
)

func TestAddStock(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]Quote{
		"TCS": {Symbol: "TCS.NS", Name: "Tata Consultancy Services", Price: 3500.505},
	}}
	core, cleanup := setupTestCore(t, quotes, nil)
	defer cleanup()

	s, err := core.AddStock(context.Background(), AddStockRequest{
		Symbol:       " tcs ",
		Quantity:     10,
		Price:        3000,
		PurchaseDate: "2026-01-15",
	})
	assertNoError(t, err, "add stock")

	if s.ID == "" {
		t.Error("missing id")
	}
	if s.Symbol != "TCS" {
		t.Errorf("symbol not normalized: %q", s.Symbol)
	}
	if s.Name != "Tata Consultancy Services" {
		t.Errorf("name not seeded from quote: %q", s.Name)
	}
	assertFloatEquals(t, s.CurrentPrice, 3500.51, "quote price applied rounded")
	assertFloatEquals(t, s.TotalValue, 35005.1, "value seeded")
	if s.PriceError {
		t.Error("price error set on successful lookup")
	}

	p, err := core.GetPortfolio()
	assertNoError(t, err, "reload")
	if len(p.Stocks) != 1 || p.Stocks[0].ID != s.ID {
		t.Errorf("stock not persisted: %+v", p.Stocks)
	}
}

func TestAddStock_LookupFailureTolerated(t *testing.T) {
	quotes := &fakeQuotes{errs: map[string]error{"TCS": errors.New("offline")}}
	core, cleanup := setupTestCore(t, quotes, nil)
	defer cleanup()

	s, err := core.AddStock(context.Background(), AddStockRequest{Symbol: "TCS", Quantity: 10, Price: 3000})
	assertNoError(t, err, "add must succeed without a quote")
	if !s.PriceError {
		t.Error("expected price error flag")
	}
	if s.Name != "TCS" {
		t.Errorf("expected symbol fallback name, got %q", s.Name)
	}
	assertFloatEquals(t, s.CurrentPrice, 0, "no price applied")
}

func TestAddStock_Validation(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	ctx := context.Background()

	_, err := core.AddStock(ctx, AddStockRequest{Symbol: "  ", Quantity: 1, Price: 1})
	assertErrorCode(t, err, ErrCodeValidation, "blank symbol")

	_, err = core.AddStock(ctx, AddStockRequest{Symbol: "TCS", Quantity: 0, Price: 1})
	assertErrorCode(t, err, ErrCodeValidation, "zero quantity")

	_, err = core.AddStock(ctx, AddStockRequest{Symbol: "TCS", Quantity: "junk", Price: 1})
	assertErrorCode(t, err, ErrCodeValidation, "junk quantity degrades to zero")

	_, err = core.AddStock(ctx, AddStockRequest{Symbol: "TCS", Quantity: 1, Price: -5})
	assertErrorCode(t, err, ErrCodeValidation, "negative price")
}

func TestAddStock_StringNumerics(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]Quote{"TCS": {Price: 3500}}}
	core, cleanup := setupTestCore(t, quotes, nil)
	defer cleanup()

	s, err := core.AddStock(context.Background(), AddStockRequest{Symbol: "TCS", Quantity: "10", Price: " 3000.5 "})
	assertNoError(t, err, "string numerics coerce")
	assertFloatEquals(t, s.Quantity, 10, "quantity coerced")
	assertFloatEquals(t, s.PurchasePrice, 3000.5, "price coerced")
}

func TestUpdateStock(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	importTestDocument(t, core, `{"stocks":[{"id":"s1","symbol":"TCS","name":"Old","quantity":10,"purchasePrice":100,"currentPrice":120}],"mutualFunds":[]}`)

	name := "Tata Consultancy"
	s, err := core.UpdateStock("s1", UpdateStockRequest{Name: &name, Quantity: 20})
	assertNoError(t, err, "update")
	if s.Name != "Tata Consultancy" {
		t.Errorf("name: %q", s.Name)
	}
	assertFloatEquals(t, s.Quantity, 20, "quantity")
	assertFloatEquals(t, s.PurchasePrice, 100, "absent price kept")
	// Valuations recomputed against the stored current price.
	assertFloatEquals(t, s.TotalValue, 2400, "value recomputed")
	assertFloatEquals(t, s.TotalGain, 400, "gain recomputed")

	_, err = core.UpdateStock("nope", UpdateStockRequest{Quantity: 1})
	assertErrorCode(t, err, ErrCodeNotFound, "unknown id")

	_, err = core.UpdateStock("s1", UpdateStockRequest{Quantity: -3})
	assertErrorCode(t, err, ErrCodeValidation, "non-positive quantity")
}

func TestDeleteStock(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	importTestDocument(t, core, `{"stocks":[{"id":"s1","symbol":"TCS","quantity":1,"purchasePrice":1},{"id":"s2","symbol":"INFY","quantity":1,"purchasePrice":1}],"mutualFunds":[]}`)

	assertNoError(t, core.DeleteStock("s1"), "delete")
	p, _ := core.GetPortfolio()
	if len(p.Stocks) != 1 || p.Stocks[0].ID != "s2" {
		t.Errorf("unexpected remainder: %+v", p.Stocks)
	}

	assertErrorCode(t, core.DeleteStock("s1"), ErrCodeNotFound, "already deleted")
}

func TestAddMutualFund(t *testing.T) {
	funds := &fakeFunds{
		schemes: []FundScheme{{Code: "120465", Name: "Axis Bluechip Fund Direct Growth", House: "Axis Mutual Fund"}},
		nav:     map[string][]NAVEntry{"120465": {{NAV: 52.5, Date: "28-08-2026"}}},
	}
	core, cleanup := setupTestCore(t, nil, funds)
	defer cleanup()

	f, err := core.AddMutualFund(context.Background(), AddMutualFundRequest{
		SchemeName: "Axis Bluechip Fund Direct Growth",
		Units:      100,
		NAV:        40,
	})
	assertNoError(t, err, "add fund")
	if f.SchemeCode != "120465" {
		t.Errorf("code not resolved: %q", f.SchemeCode)
	}
	assertFloatEquals(t, f.CurrentNAV, 52.5, "nav seeded")
	assertFloatEquals(t, f.TotalValue, 5250, "value seeded")
	if f.NAVDate != "28-08-2026" {
		t.Errorf("nav date: %q", f.NAVDate)
	}
	if f.NAVError {
		t.Error("nav error on successful lookup")
	}
}

func TestAddMutualFund_LookupFailureValuesAtCost(t *testing.T) {
	funds := &fakeFunds{searchErr: errors.New("offline")}
	core, cleanup := setupTestCore(t, nil, funds)
	defer cleanup()

	f, err := core.AddMutualFund(context.Background(), AddMutualFundRequest{
		SchemeName: "Axis Bluechip Fund Direct Growth",
		Units:      100,
		NAV:        40,
	})
	assertNoError(t, err, "add must succeed without a NAV")
	if !f.NAVError {
		t.Error("expected nav error flag")
	}
	assertFloatEquals(t, f.CurrentNAV, 40, "valued at cost")
	assertFloatEquals(t, f.TotalValue, 4000, "value at cost")
	assertFloatEquals(t, f.TotalGain, 0, "no gain at cost")
}

func TestAddMutualFund_Validation(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	ctx := context.Background()

	_, err := core.AddMutualFund(ctx, AddMutualFundRequest{SchemeName: "", Units: 1, NAV: 1})
	assertErrorCode(t, err, ErrCodeValidation, "blank scheme")

	_, err = core.AddMutualFund(ctx, AddMutualFundRequest{SchemeName: "X", Units: 0, NAV: 1})
	assertErrorCode(t, err, ErrCodeValidation, "zero units")

	_, err = core.AddMutualFund(ctx, AddMutualFundRequest{SchemeName: "X", Units: 1, NAV: -1})
	assertErrorCode(t, err, ErrCodeValidation, "negative nav")
}

func TestUpdateMutualFund_RenameClearsCode(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	importTestDocument(t, core, `{"stocks":[],"mutualFunds":[{"id":"f1","schemeName":"Axis Bluechip Fund","schemeCode":"120465","units":100,"purchaseNav":40,"currentNav":50}]}`)

	rename := "HDFC Flexi Cap Fund"
	f, err := core.UpdateMutualFund("f1", UpdateMutualFundRequest{SchemeName: &rename})
	assertNoError(t, err, "rename")
	if f.SchemeName != rename {
		t.Errorf("name: %q", f.SchemeName)
	}
	if f.SchemeCode != "" {
		t.Errorf("stale code survived rename: %q", f.SchemeCode)
	}

	// A case-only change is not a rename and keeps the code.
	importTestDocument(t, core, `{"stocks":[],"mutualFunds":[{"id":"f1","schemeName":"Axis Bluechip Fund","schemeCode":"120465","units":100,"purchaseNav":40,"currentNav":50}]}`)
	same := "AXIS BLUECHIP FUND"
	f, err = core.UpdateMutualFund("f1", UpdateMutualFundRequest{SchemeName: &same})
	assertNoError(t, err, "case-only rename")
	if f.SchemeCode != "120465" {
		t.Errorf("code lost on case-only change: %q", f.SchemeCode)
	}
}

func TestDeleteMutualFund(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	importTestDocument(t, core, `{"stocks":[],"mutualFunds":[{"id":"f1","schemeName":"X","units":1,"purchaseNav":1}]}`)

	assertNoError(t, core.DeleteMutualFund("f1"), "delete")
	assertErrorCode(t, core.DeleteMutualFund("f1"), ErrCodeNotFound, "already deleted")
}

func TestGetConsolidated_CachesUntilMutation(t *testing.T) {
	core, cleanup := setupTestCore(t, nil, nil)
	defer cleanup()
	importTestDocument(t, core, `{"stocks":[{"id":"s1","symbol":"TCS","quantity":10,"purchasePrice":100}],"mutualFunds":[]}`)

	view, err := core.GetConsolidated()
	assertNoError(t, err, "first view")
	if len(view.Stocks) != 1 {
		t.Fatalf("expected 1 position, got %d", len(view.Stocks))
	}

	// Second read returns the same view without hitting the store.
	again, err := core.GetConsolidated()
	assertNoError(t, err, "cached view")
	if len(again.Stocks) != 1 || again.Stocks[0].Symbol != "TCS" {
		t.Errorf("cached view diverged: %+v", again.Stocks)
	}

	// A mutation invalidates and the next view reflects it.
	assertNoError(t, core.DeleteStock("s1"), "delete")
	view, err = core.GetConsolidated()
	assertNoError(t, err, "view after mutation")
	if len(view.Stocks) != 0 {
		t.Errorf("stale view after mutation: %+v", view.Stocks)
	}
}

func TestNewID_CreationOrdered(t *testing.T) {
	prev := newID()
	for i := 0; i < 50; i++ {
		next := newID()
		if next <= prev {
			t.Fatalf("ids not increasing: %s then %s", prev, next)
		}
		prev = next
	}
}

func TestSearchStocks(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]Quote{"TCS": {Symbol: "TCS.NS", Name: "Tata Consultancy Services", Price: 3500.456}}}
	core, cleanup := setupTestCore(t, quotes, nil)
	defer cleanup()

	q, err := core.SearchStocks(context.Background(), "TCS")
	assertNoError(t, err, "search")
	if q.Name != "Tata Consultancy Services" {
		t.Errorf("name: %q", q.Name)
	}
	assertFloatEquals(t, q.Price, 3500.46, "price rounded")

	_, err = core.SearchStocks(context.Background(), "MISSING")
	assertErrorCode(t, err, ErrCodeLookup, "unknown symbol")
}

func TestSearchMutualFunds(t *testing.T) {
	funds := &fakeFunds{schemes: []FundScheme{{Code: "1", Name: "A"}, {Code: "2", Name: "B"}}}
	core, cleanup := setupTestCore(t, nil, funds)
	defer cleanup()

	schemes, err := core.SearchMutualFunds(context.Background(), "axis")
	assertNoError(t, err, "search")
	if len(schemes) != 2 {
		t.Errorf("expected 2 schemes, got %d", len(schemes))
	}

	funds.searchErr = errors.New("offline")
	_, err = core.SearchMutualFunds(context.Background(), "axis")
	assertErrorCode(t, err, ErrCodeLookup, "provider failure")
}
