package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"CandleViewer/internal/importer"
	"CandleViewer/internal/store"
)

// pageData is everything the index template can render.
type pageData struct {
	Error            string
	Success          string
	DBType           string
	AvailableSymbols []string
	Table            template.HTML
	SearchedTerms    []string
	FoundSymbols     []string
	RecordCount      int
}

// render fills in the symbol list for the selected database and executes the
// page template.
func (s *Server) render(w http.ResponseWriter, kind store.Kind, data pageData) {
	data.DBType = string(kind)
	symbols, err := s.Store.Symbols(kind)
	if err != nil {
		log.Printf("[ERROR] list symbols: %v", err)
		if data.Error == "" {
			data.Error = fmt.Sprintf("Failed to list symbols: %v", err)
		}
	}
	data.AvailableSymbols = symbols

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, data); err != nil {
		log.Printf("[ERROR] render page: %v", err)
	}
}

// requestKind resolves the db_type field of a request, falling back to the
// prices database on unknown values.
func requestKind(r *http.Request) (store.Kind, error) {
	v := r.FormValue("db_type")
	kind, err := store.ParseKind(v)
	if err != nil {
		return store.KindPrices, err
	}
	return kind, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	kind, err := store.ParseKind(r.URL.Query().Get("db_type"))
	if err != nil {
		s.render(w, store.KindPrices, pageData{Error: err.Error()})
		return
	}
	s.render(w, kind, pageData{})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	kind, err := requestKind(r)
	if err != nil {
		s.render(w, kind, pageData{Error: err.Error()})
		return
	}

	input := strings.TrimSpace(r.FormValue("tickers"))
	if input == "" {
		s.render(w, kind, pageData{Error: "Give at least one search term (a symbol or its beginning)"})
		return
	}
	terms := importer.SplitTickers(input)
	if len(terms) == 0 {
		s.render(w, kind, pageData{Error: "Give at least one valid search term"})
		return
	}

	var (
		table template.HTML
		found []string
		count int
	)
	switch kind {
	case store.KindAnalysis:
		findings, err := s.Store.SearchFindings(terms)
		if err != nil {
			s.render(w, kind, pageData{Error: fmt.Sprintf("Database search failed: %v", err)})
			return
		}
		count = len(findings)
		table = findingsTable(findings)
		seen := map[string]bool{}
		for _, f := range findings {
			if !seen[f.Ticker] {
				seen[f.Ticker] = true
				found = append(found, f.Ticker)
			}
		}
	default:
		bars, err := s.Store.SearchPrices(terms)
		if err != nil {
			s.render(w, kind, pageData{Error: fmt.Sprintf("Database search failed: %v", err)})
			return
		}
		count = len(bars)
		table = barsTable(bars)
		seen := map[string]bool{}
		for _, b := range bars {
			if !seen[b.Symbol] {
				seen[b.Symbol] = true
				found = append(found, b.Symbol)
			}
		}
	}

	if count == 0 {
		s.render(w, kind, pageData{
			Error:         fmt.Sprintf("No data found for: %s", strings.Join(terms, ", ")),
			SearchedTerms: terms,
		})
		return
	}
	s.render(w, kind, pageData{
		Table:         table,
		SearchedTerms: terms,
		FoundSymbols:  found,
		RecordCount:   count,
	})
}

// confirmWords are the accepted delete confirmations (Finnish or English).
var confirmWords = map[string]bool{"kyllä": true, "kylla": true, "yes": true}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	kind, err := requestKind(r)
	if err != nil {
		s.render(w, kind, pageData{Error: err.Error()})
		return
	}

	input := strings.TrimSpace(r.FormValue("delete_tickers"))
	if input == "" {
		s.render(w, kind, pageData{Error: "Give the symbols whose data should be deleted"})
		return
	}
	symbols := importer.SplitTickers(input)
	if len(symbols) == 0 {
		s.render(w, kind, pageData{Error: "Give at least one valid symbol to delete"})
		return
	}

	confirm := strings.ToLower(strings.TrimSpace(r.FormValue("confirm_delete")))
	if !confirmWords[confirm] {
		s.render(w, kind, pageData{Error: "Delete cancelled: confirmation missing or wrong"})
		return
	}

	n, err := s.Store.DeleteSymbols(kind, symbols)
	if err != nil {
		s.render(w, kind, pageData{Error: fmt.Sprintf("Delete failed: %v", err)})
		return
	}
	if n == 0 {
		s.render(w, kind, pageData{Error: fmt.Sprintf("No rows to delete for: %s", strings.Join(symbols, ", "))})
		return
	}
	log.Printf("[INFO] deleted %d rows from %s for %s", n, kind.Label(), strings.Join(symbols, ", "))
	s.render(w, kind, pageData{
		Success: fmt.Sprintf("Deleted %d rows for: %s", n, strings.Join(symbols, ", ")),
	})
}

func (s *Server) handleAPISymbols(w http.ResponseWriter, r *http.Request) {
	kind, err := store.ParseKind(r.URL.Query().Get("db_type"))
	w.Header().Set("Content-Type", "application/json")
	if err != nil {
		// Unknown database kinds answer with an empty list, not an error.
		json.NewEncoder(w).Encode([]string{})
		return
	}
	symbols, err := s.Store.Symbols(kind)
	if err != nil {
		log.Printf("[ERROR] api symbols: %v", err)
		json.NewEncoder(w).Encode([]string{})
		return
	}
	if symbols == nil {
		symbols = []string{}
	}
	json.NewEncoder(w).Encode(symbols)
}

func (s *Server) handleFetchCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var requested []string
	if input := strings.TrimSpace(r.FormValue("tickers")); input != "" {
		requested = strings.Split(input, ",")
	}
	res, err := s.Importer.ImportCSV(requested)
	if err != nil {
		s.render(w, store.KindPrices, pageData{Error: fmt.Sprintf("CSV import failed: %v", err)})
		return
	}
	var msg string
	if res.Mass {
		msg = fmt.Sprintf("Mass import: saved %d rows for %d tickers from CSV", res.Saved, len(res.Tickers))
	} else {
		msg = fmt.Sprintf("Saved %d rows from CSV for: %s", res.Saved, strings.Join(res.Tickers, ", "))
	}
	log.Printf("[INFO] %s", msg)
	s.render(w, store.KindPrices, pageData{Success: msg})
}

func (s *Server) handleFetchYahoo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	requested := strings.Split(r.FormValue("tickers"), ",")
	res, err := s.Importer.ImportYahoo(requested)
	if err != nil {
		s.render(w, store.KindPrices, pageData{Error: fmt.Sprintf("Yahoo Finance import failed: %v", err)})
		return
	}
	msg := fmt.Sprintf("Saved %d rows from Yahoo Finance for: %s", res.Saved, strings.Join(res.Imported, ", "))
	if len(res.Failed) > 0 {
		msg += fmt.Sprintf("; skipped: %s", strings.Join(res.Failed, ", "))
	}
	log.Printf("[INFO] %s", msg)
	s.render(w, store.KindPrices, pageData{Success: msg})
}

// fetchTickersResponse is the JSON payload of the tickers-file mass run.
type fetchTickersResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Stats   *importer.TickerStats `json:"stats"`
}

func (s *Server) handleFetchTickers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")

	stats, err := s.Importer.ImportTickersFile()
	resp := fetchTickersResponse{Stats: stats}
	if err != nil {
		resp.Message = err.Error()
	} else {
		resp.Success = true
		resp.Message = fmt.Sprintf("Processed %d tickers: %d ok, %d failed, %d rows saved",
			stats.Processed, stats.Success, stats.Errors, stats.TotalSaved)
	}
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var symbols []string
	if input := strings.TrimSpace(r.FormValue("tickers")); input != "" {
		symbols = importer.SplitTickers(input)
		if len(symbols) == 0 {
			s.render(w, store.KindAnalysis, pageData{Error: "Give at least one valid symbol to analyze"})
			return
		}
	}
	n, err := s.Analyzer.AnalyzeSymbols(symbols)
	if err != nil {
		s.render(w, store.KindAnalysis, pageData{Error: fmt.Sprintf("Analysis failed: %v", err)})
		return
	}
	log.Printf("[INFO] analysis recorded %d new findings", n)
	s.render(w, store.KindAnalysis, pageData{
		Success: fmt.Sprintf("Recorded %d new pattern findings", n),
	})
}

// healthResponse reports database reachability.
type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{Status: "ok", Checks: map[string]string{}}

	if err := s.Store.Ping(); err != nil {
		resp.Status = "error"
		resp.Checks["database"] = err.Error()
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		resp.Checks["database"] = "ok"
	}
	json.NewEncoder(w).Encode(resp)
}
