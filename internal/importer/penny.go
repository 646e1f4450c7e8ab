package importer

import "CandleViewer/internal/model"

// pennyThreshold is the average close price below which a symbol is treated
// as a penny stock and excluded from imports.
const pennyThreshold = 1.00

// minBarsForFilter is the minimum history needed to trust the average; with
// less data the symbol is conservatively treated as a penny stock.
const minBarsForFilter = 10

// IsPennyStock reports whether the fetched history describes a penny stock.
// Too little data counts as penny (safe default).
func IsPennyStock(bars []model.Bar) bool {
	if len(bars) < minBarsForFilter {
		return true
	}
	return averageClose(bars) < pennyThreshold
}

// belowPennyAverage applies only the average-close rule, without the minimum
// history requirement. Used for CSV imports, which may legitimately carry a
// handful of rows per symbol.
func belowPennyAverage(bars []model.Bar) bool {
	if len(bars) == 0 {
		return true
	}
	return averageClose(bars) < pennyThreshold
}

func averageClose(bars []model.Bar) float64 {
	if len(bars) == 0 {
		return 0
	}
	sum := 0.0
	for _, b := range bars {
		sum += b.Close
	}
	return sum / float64(len(bars))
}
