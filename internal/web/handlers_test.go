package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"CandleViewer/internal/analyzer"
	"CandleViewer/internal/collector"
	"CandleViewer/internal/importer"
	"CandleViewer/internal/model"
	"CandleViewer/internal/store"
)

func newTestServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "osakedata.db"), filepath.Join(dir, "analysis.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	csvPath := filepath.Join(dir, "osakedata.csv")
	csvContent := "NVDA,2024-01-15,550.00,560.00,545.00,555.00,40000000\n"
	if err := os.WriteFile(csvPath, []byte(csvContent), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	fetcher := &collector.MockFetcher{
		Bars: map[string][]model.Bar{
			"TSLA": collector.GenerateBars("TSLA", 200.0, 12, end),
		},
	}
	from, _ := time.Parse("2006-01-02", "2023-07-01")
	to, _ := time.Parse("2006-01-02", "2025-09-30")
	im := importer.New(st, fetcher, csvPath, filepath.Join(dir, "tickers.txt"), from, to)
	im.Sleep = func(time.Duration) {}

	return NewServer(st, im, analyzer.New(st)), st
}

func seedPrices(t *testing.T, st *store.Store) {
	t.Helper()
	bars := []model.Bar{
		{Symbol: "AAPL", Date: "2024-01-15", Open: 185.50, High: 187.25, Low: 184.00, Close: 186.75, Volume: 50000000},
		{Symbol: "AAPL", Date: "2024-01-16", Open: 186.75, High: 188.50, Low: 185.25, Close: 187.90, Volume: 52000000},
		{Symbol: "MSFT", Date: "2024-01-15", Open: 375.25, High: 378.90, Low: 374.50, Close: 377.80, Volume: 30000000},
	}
	if _, err := st.InsertBars(bars); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	return rr
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.Routes().ServeHTTP(rr, req)
	return rr
}

func TestIndex(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := get(t, s, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "AAPL") || !strings.Contains(body, "MSFT") {
		t.Error("available symbols missing from index page")
	}
}

func TestIndex_UnknownPath(t *testing.T) {
	s, _ := newTestServer(t)
	if rr := get(t, s, "/nope"); rr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rr.Code)
	}
}

func TestSearch_RendersTable(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := postForm(t, s, "/search", url.Values{
		"tickers": {"AAPL"},
		"db_type": {"osakedata"},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "186.75") {
		t.Error("close price missing from table")
	}
	if !strings.Contains(body, "50,000,000") {
		t.Error("volume not rendered with thousands separators")
	}
	if !strings.Contains(body, "found 2 rows") {
		t.Error("record count missing")
	}
}

func TestSearch_PrefixCaseInsensitive(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := postForm(t, s, "/search", url.Values{
		"tickers": {"aap"},
		"db_type": {"osakedata"},
	})
	if !strings.Contains(rr.Body.String(), "AAPL") {
		t.Error("lowercase prefix search found nothing")
	}
}

func TestSearch_EmptyInput(t *testing.T) {
	s, _ := newTestServer(t)

	rr := postForm(t, s, "/search", url.Values{
		"tickers": {"   "},
		"db_type": {"osakedata"},
	})
	if !strings.Contains(rr.Body.String(), "alert-error") {
		t.Error("expected error flash for empty input")
	}
}

func TestSearch_NoResults(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := postForm(t, s, "/search", url.Values{
		"tickers": {"ZZZZ"},
		"db_type": {"osakedata"},
	})
	if !strings.Contains(rr.Body.String(), "No data found") {
		t.Error("expected no-data flash")
	}
}

func TestSearch_AnalysisDatabase(t *testing.T) {
	s, st := newTestServer(t)
	if _, err := st.InsertFindings([]model.Finding{
		{Ticker: "AAPL", Date: "2024-01-15", Pattern: "Hammer"},
	}); err != nil {
		t.Fatalf("seed findings: %v", err)
	}

	rr := postForm(t, s, "/search", url.Values{
		"tickers": {"AAPL"},
		"db_type": {"analysis"},
	})
	if !strings.Contains(rr.Body.String(), "Hammer") {
		t.Error("pattern missing from analysis table")
	}
}

func TestSearch_MethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	if rr := get(t, s, "/search"); rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", rr.Code)
	}
}

func TestDelete_RequiresConfirmation(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := postForm(t, s, "/delete", url.Values{
		"delete_tickers": {"AAPL"},
		"db_type":        {"osakedata"},
		"confirm_delete": {"no"},
	})
	if !strings.Contains(rr.Body.String(), "Delete cancelled") {
		t.Error("expected cancellation flash")
	}

	bars, _ := st.SearchPrices([]string{"AAPL"})
	if len(bars) != 2 {
		t.Errorf("rows deleted without confirmation: %d left", len(bars))
	}
}

func TestDelete_Confirmed(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	for _, confirm := range []string{"yes", "kyllä", "KYLLA"} {
		seedPrices(t, st)
		rr := postForm(t, s, "/delete", url.Values{
			"delete_tickers": {"AAPL"},
			"db_type":        {"osakedata"},
			"confirm_delete": {confirm},
		})
		if !strings.Contains(rr.Body.String(), "Deleted 2 rows") {
			t.Errorf("confirm %q: expected success flash, got %s", confirm, rr.Body.String()[:200])
		}
	}
}

func TestDelete_NoMatchingRows(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := postForm(t, s, "/delete", url.Values{
		"delete_tickers": {"NOPE"},
		"db_type":        {"osakedata"},
		"confirm_delete": {"yes"},
	})
	if !strings.Contains(rr.Body.String(), "No rows to delete") {
		t.Error("expected no-rows flash")
	}
}

func TestAPISymbols(t *testing.T) {
	s, st := newTestServer(t)
	seedPrices(t, st)

	rr := get(t, s, "/api/symbols?db_type=osakedata")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("unexpected content type %s", ct)
	}

	var symbols []string
	if err := json.Unmarshal(rr.Body.Bytes(), &symbols); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(symbols) != 2 || symbols[0] != "AAPL" || symbols[1] != "MSFT" {
		t.Errorf("unexpected symbols %v", symbols)
	}
}

func TestAPISymbols_UnknownKind(t *testing.T) {
	s, _ := newTestServer(t)

	rr := get(t, s, "/api/symbols?db_type=bogus")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var symbols []string
	if err := json.Unmarshal(rr.Body.Bytes(), &symbols); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(symbols) != 0 {
		t.Errorf("expected empty list, got %v", symbols)
	}
}

func TestFetchCSV(t *testing.T) {
	s, st := newTestServer(t)

	rr := postForm(t, s, "/fetch_csv", url.Values{"tickers": {"NVDA"}})
	if !strings.Contains(rr.Body.String(), "Saved 1 rows from CSV") {
		t.Errorf("expected success flash, got %s", rr.Body.String()[:200])
	}

	bars, _ := st.SearchPrices([]string{"NVDA"})
	if len(bars) != 1 {
		t.Errorf("expected 1 NVDA row, got %d", len(bars))
	}
}

func TestFetchCSV_MassImport(t *testing.T) {
	s, _ := newTestServer(t)

	rr := postForm(t, s, "/fetch_csv", url.Values{"tickers": {""}})
	if !strings.Contains(rr.Body.String(), "Mass import") {
		t.Error("expected mass import flash")
	}
}

func TestFetchYahoo(t *testing.T) {
	s, st := newTestServer(t)

	rr := postForm(t, s, "/fetch_yfinance", url.Values{"tickers": {"TSLA"}})
	if !strings.Contains(rr.Body.String(), "Saved 12 rows from Yahoo Finance") {
		t.Errorf("expected success flash, got %s", rr.Body.String()[:200])
	}

	bars, _ := st.SearchPrices([]string{"TSLA"})
	if len(bars) != 12 {
		t.Errorf("expected 12 TSLA rows, got %d", len(bars))
	}
}

func TestFetchYahoo_AllFail(t *testing.T) {
	s, _ := newTestServer(t)

	rr := postForm(t, s, "/fetch_yfinance", url.Values{"tickers": {"UNKNOWN"}})
	if !strings.Contains(rr.Body.String(), "alert-error") {
		t.Error("expected error flash when nothing imports")
	}
}

func TestFetchTickers_MissingFile(t *testing.T) {
	s, _ := newTestServer(t)

	rr := postForm(t, s, "/fetch_tickers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("expected failure for missing tickers file")
	}
	if !strings.Contains(resp.Message, "not found") {
		t.Errorf("unexpected message %q", resp.Message)
	}
}

func TestFetchTickers_Run(t *testing.T) {
	s, _ := newTestServer(t)
	if err := os.WriteFile(s.Importer.TickersFile, []byte("TSLA\n"), 0o644); err != nil {
		t.Fatalf("write tickers file: %v", err)
	}

	rr := postForm(t, s, "/fetch_tickers", nil)
	var resp struct {
		Success bool `json:"success"`
		Stats   struct {
			Processed  int   `json:"processed"`
			Success    int   `json:"success_count"`
			Errors     int   `json:"error_count"`
			TotalSaved int64 `json:"total_saved"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success {
		t.Fatal("expected success")
	}
	if resp.Stats.Processed != 1 || resp.Stats.Success != 1 || resp.Stats.TotalSaved != 12 {
		t.Errorf("unexpected stats %+v", resp.Stats)
	}
}

func TestAnalyze(t *testing.T) {
	s, st := newTestServer(t)
	if _, err := st.InsertBars([]model.Bar{
		{Symbol: "AAPL", Date: "2024-01-14", Open: 10.50, High: 10.55, Low: 9.95, Close: 10.00, Volume: 1000},
		{Symbol: "AAPL", Date: "2024-01-15", Open: 9.90, High: 10.75, Low: 9.85, Close: 10.70, Volume: 1000},
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rr := postForm(t, s, "/analyze", url.Values{"tickers": {"AAPL"}})
	if !strings.Contains(rr.Body.String(), "pattern findings") {
		t.Errorf("expected success flash, got %s", rr.Body.String()[:200])
	}

	findings, _ := st.SearchFindings([]string{"AAPL"})
	if len(findings) == 0 {
		t.Error("no findings recorded")
	}
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)

	rr := get(t, s, "/health")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %s", resp.Status)
	}
}
