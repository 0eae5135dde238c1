package portfolio

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestMFAPIClient(t *testing.T, handler http.HandlerFunc) *MFAPIClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewMFAPIClient(nil, server.Client())
	client.baseURL = server.URL
	return client
}

func TestMFAPISearch(t *testing.T) {
	var hits int
	client := newTestMFAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if r.URL.Path != "/mf/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "axis bluechip" {
			t.Errorf("unexpected query %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"schemeCode": 120465, "schemeName": "Axis Bluechip Fund Direct Growth"},
			{"schemeCode": 120464, "schemeName": "Axis Bluechip Fund Regular Growth"}
		]`))
	})

	schemes, err := client.Search(context.Background(), "axis bluechip")
	assertNoError(t, err, "search")
	if len(schemes) != 2 {
		t.Fatalf("expected 2 schemes, got %d", len(schemes))
	}
	if schemes[0].Code != "120465" {
		t.Errorf("numeric code not stringified: %q", schemes[0].Code)
	}
	if schemes[0].Name != "Axis Bluechip Fund Direct Growth" {
		t.Errorf("name: %q", schemes[0].Name)
	}

	// Same query again is served from the memo, case-insensitively.
	_, err = client.Search(context.Background(), "  AXIS BLUECHIP ")
	assertNoError(t, err, "cached search")
	if hits != 1 {
		t.Errorf("expected 1 upstream hit, got %d", hits)
	}
}

func TestMFAPISearch_EmptyQuery(t *testing.T) {
	client := NewMFAPIClient(nil, nil)
	_, err := client.Search(context.Background(), "   ")
	assertErrorCode(t, err, ErrCodeValidation, "blank query")
}

func TestMFAPINAVHistory(t *testing.T) {
	client := newTestMFAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/mf/120465" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meta": {"fund_house": "Axis Mutual Fund", "scheme_name": "Axis Bluechip Fund Direct Growth"},
			"data": [
				{"date": "28-08-2026", "nav": "52.1234"},
				{"date": "27-08-2026", "nav": "51.9000"},
				{"date": "26-08-2026", "nav": "garbage"}
			],
			"status": "SUCCESS"
		}`))
	})

	entries, err := client.NAVHistory(context.Background(), "120465")
	assertNoError(t, err, "nav history")
	if len(entries) != 2 {
		t.Fatalf("expected 2 parseable entries, got %d", len(entries))
	}
	assertFloatEquals(t, entries[0].NAV, 52.1234, "latest nav first")
	if entries[0].Date != "28-08-2026" {
		t.Errorf("date: %q", entries[0].Date)
	}
	assertFloatEquals(t, entries[1].NAV, 51.9, "second nav")
}

func TestMFAPINAVHistory_Empty(t *testing.T) {
	client := newTestMFAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}, "data": [], "status": "SUCCESS"}`))
	})
	_, err := client.NAVHistory(context.Background(), "99999")
	assertError(t, err, "empty history")
	if !errors.Is(err, ErrNoData) {
		t.Errorf("expected no-data sentinel, got %v", err)
	}
}

func TestMFAPINAVHistory_UpstreamError(t *testing.T) {
	client := newTestMFAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	_, err := client.NAVHistory(context.Background(), "120465")
	assertError(t, err, "upstream 404")
}
