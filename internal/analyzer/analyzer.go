// Package analyzer scans stored OHLCV history for candlestick patterns and
// records the hits in the analysis findings table.
package analyzer

import (
	"fmt"
	"log"

	"CandleViewer/internal/store"
)

// Analyzer runs pattern detection over symbols in the prices database.
type Analyzer struct {
	Store *store.Store
}

func New(st *store.Store) *Analyzer {
	return &Analyzer{Store: st}
}

// AnalyzeSymbols detects patterns for the given symbols and stores the
// findings. An empty list analyzes every symbol in the prices database.
// Returns the number of new findings recorded.
func (a *Analyzer) AnalyzeSymbols(symbols []string) (int64, error) {
	if len(symbols) == 0 {
		all, err := a.Store.Symbols(store.KindPrices)
		if err != nil {
			return 0, fmt.Errorf("list symbols: %w", err)
		}
		symbols = all
	}
	if len(symbols) == 0 {
		return 0, fmt.Errorf("no symbols to analyze")
	}

	var total int64
	for _, sym := range symbols {
		bars, err := a.Store.BarsForSymbol(sym)
		if err != nil {
			return total, fmt.Errorf("load %s: %w", sym, err)
		}
		if len(bars) == 0 {
			log.Printf("[WARN] analyze %s: no bars", sym)
			continue
		}
		findings := DetectPatterns(bars)
		if len(findings) == 0 {
			continue
		}
		n, err := a.Store.InsertFindings(findings)
		if err != nil {
			return total, fmt.Errorf("save findings for %s: %w", sym, err)
		}
		total += n
	}
	return total, nil
}
