package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"CandleViewer/internal/analyzer"
	"CandleViewer/internal/importer"
	"CandleViewer/internal/store"
)

// Scheduler periodically refreshes every symbol already in the prices
// database from Yahoo Finance and re-runs pattern analysis. Duplicate
// prevention in the store makes each refresh incremental.
type Scheduler struct {
	Cron     *cron.Cron
	Store    *store.Store
	Importer *importer.Importer
	Analyzer *analyzer.Analyzer
}

// NewScheduler creates a new Scheduler.
func NewScheduler(st *store.Store, im *importer.Importer, an *analyzer.Analyzer) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Store:    st,
		Importer: im,
		Analyzer: an,
	}
}

// Register adds the refresh task under the given cron spec.
func (s *Scheduler) Register(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.RefreshNow); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RefreshNow executes the refresh task immediately.
func (s *Scheduler) RefreshNow() {
	log.Println("[INFO] running data refresh")
	symbols, err := s.Store.Symbols(store.KindPrices)
	if err != nil {
		log.Printf("[ERROR] refresh: list symbols: %v", err)
		return
	}
	if len(symbols) == 0 {
		log.Println("[INFO] refresh: no symbols tracked yet")
		return
	}

	res, err := s.Importer.ImportYahoo(symbols)
	if err != nil {
		log.Printf("[ERROR] refresh: %v", err)
		return
	}
	log.Printf("[INFO] refresh: %d symbols updated, %d new rows", len(res.Imported), res.Saved)

	n, err := s.Analyzer.AnalyzeSymbols(res.Imported)
	if err != nil {
		log.Printf("[ERROR] refresh analysis: %v", err)
		return
	}
	log.Printf("[INFO] refresh: %d new findings", n)
}
