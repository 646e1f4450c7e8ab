// Package web provides the HTTP front end for browsing, searching, importing,
// and deleting stock data.
package web

import (
	"html/template"
	"log"
	"net/http"
	"time"

	"CandleViewer/internal/analyzer"
	"CandleViewer/internal/importer"
	"CandleViewer/internal/store"
)

// Server holds all dependencies for the HTTP handlers.
type Server struct {
	Store    *store.Store
	Importer *importer.Importer
	Analyzer *analyzer.Analyzer

	tmpl *template.Template
}

// NewServer creates a Server with the page template parsed.
func NewServer(st *store.Store, im *importer.Importer, an *analyzer.Analyzer) *Server {
	return &Server{
		Store:    st,
		Importer: im,
		Analyzer: an,
		tmpl:     template.Must(template.New("index").Parse(indexTemplate)),
	}
}

// Routes returns the route table.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/search", s.handleSearch)
	mux.HandleFunc("/delete", s.handleDelete)
	mux.HandleFunc("/api/symbols", s.handleAPISymbols)
	mux.HandleFunc("/fetch_csv", s.handleFetchCSV)
	mux.HandleFunc("/fetch_yfinance", s.handleFetchYahoo)
	mux.HandleFunc("/fetch_tickers", s.handleFetchTickers)
	mux.HandleFunc("/analyze", s.handleAnalyze)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // tickers-file runs block the response
	}
	log.Printf("[INFO] http server listening on %s", addr)
	return srv.ListenAndServe()
}
