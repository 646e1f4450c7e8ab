package importer

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"
	"time"
)

// YahooResult reports the outcome of a Yahoo Finance import.
type YahooResult struct {
	Saved    int64
	Imported []string
	Failed   []string // "SYMBOL (reason)" entries
}

// ImportYahoo fetches daily bars for the requested tickers over the
// configured date window and stores them, skipping penny stocks and rows
// already present. Returns an error only when nothing was imported.
func (im *Importer) ImportYahoo(requested []string) (*YahooResult, error) {
	tickers := NormalizeTickers(requested)
	if len(tickers) == 0 {
		return nil, fmt.Errorf("no valid tickers given")
	}

	res := &YahooResult{}
	for _, ticker := range tickers {
		n, err := im.fetchOne(ticker)
		if err != nil {
			res.Failed = append(res.Failed, fmt.Sprintf("%s (%s)", ticker, err))
			continue
		}
		res.Saved += n
		res.Imported = append(res.Imported, ticker)
	}

	if len(res.Imported) == 0 {
		return nil, fmt.Errorf("nothing imported: %s", strings.Join(res.Failed, ", "))
	}
	if len(res.Failed) > 0 {
		log.Printf("[WARN] yahoo import skipped: %s", strings.Join(res.Failed, ", "))
	}
	return res, nil
}

// fetchOne fetches and stores one symbol, returning the rows inserted.
func (im *Importer) fetchOne(ticker string) (int64, error) {
	bars, err := im.Fetcher.FetchDailyBars(ticker, im.From, im.To)
	if err != nil {
		return 0, fmt.Errorf("no data")
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no data")
	}
	if IsPennyStock(bars) {
		return 0, fmt.Errorf("penny stock, avg close < $%.2f", pennyThreshold)
	}
	return im.Store.InsertBars(bars)
}

// TickerStats accumulates counters for a tickers-file mass run.
type TickerStats struct {
	Processed  int   `json:"processed"`
	Success    int   `json:"success_count"`
	Errors     int   `json:"error_count"`
	TotalSaved int64 `json:"total_saved"`
}

// ImportTickersFile reads the configured tickers file (one symbol per line,
// '#' starts a comment) and fetches each via Yahoo Finance, pausing one
// second between symbols to stay under rate limits.
func (im *Importer) ImportTickersFile() (*TickerStats, error) {
	stats := &TickerStats{}

	if _, err := os.Stat(im.TickersFile); os.IsNotExist(err) {
		return stats, fmt.Errorf("tickers file not found: %s", im.TickersFile)
	}
	f, err := os.Open(im.TickersFile)
	if err != nil {
		return stats, fmt.Errorf("open tickers file: %w", err)
	}
	defer f.Close()

	var tickers []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tickers = append(tickers, line)
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("read tickers file: %w", err)
	}
	tickers = NormalizeTickers(tickers)
	if len(tickers) == 0 {
		return stats, fmt.Errorf("tickers file is empty: %s", im.TickersFile)
	}

	log.Printf("[INFO] tickers file run started: %d symbols", len(tickers))
	for i, ticker := range tickers {
		if i > 0 {
			im.Sleep(1 * time.Second)
		}
		stats.Processed++
		n, err := im.fetchOne(ticker)
		if err != nil {
			stats.Errors++
			log.Printf("[WARN] %s: %v", ticker, err)
			continue
		}
		stats.Success++
		stats.TotalSaved += n
		log.Printf("[INFO] %s: saved %d rows", ticker, n)
	}
	log.Printf("[INFO] tickers file run finished: %d processed, %d ok, %d failed, %d rows",
		stats.Processed, stats.Success, stats.Errors, stats.TotalSaved)
	return stats, nil
}
