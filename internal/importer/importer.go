package importer

import (
	"regexp"
	"strings"
	"time"

	"CandleViewer/internal/collector"
	"CandleViewer/internal/store"
)

// Importer loads OHLCV rows into the prices database from CSV files and
// Yahoo Finance.
type Importer struct {
	Store       *store.Store
	Fetcher     collector.Fetcher
	CSVPath     string
	TickersFile string
	From        time.Time
	To          time.Time

	// Sleep is the delay applied between symbols during a tickers-file run.
	// Replaceable in tests.
	Sleep func(time.Duration)
}

// New creates an Importer with the given data sources and import window.
func New(st *store.Store, fetcher collector.Fetcher, csvPath, tickersFile string, from, to time.Time) *Importer {
	return &Importer{
		Store:       st,
		Fetcher:     fetcher,
		CSVPath:     csvPath,
		TickersFile: tickersFile,
		From:        from,
		To:          to,
		Sleep:       time.Sleep,
	}
}

var tickerRe = regexp.MustCompile(`^\^?[A-Z0-9][A-Z0-9.\-=]*$`)

// NormalizeTickers trims, uppercases, and validates a list of ticker symbols,
// dropping anything that is not a plausible symbol.
func NormalizeTickers(raw []string) []string {
	var out []string
	for _, t := range raw {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t == "" || !tickerRe.MatchString(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SplitTickers splits a comma-separated ticker input into normalized symbols.
func SplitTickers(input string) []string {
	return NormalizeTickers(strings.Split(input, ","))
}
