package collector

import (
	"fmt"
	"time"

	"CandleViewer/internal/model"
)

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	// FetchDailyBars returns daily bars for symbol within [from, to].
	FetchDailyBars(symbol string, from, to time.Time) ([]model.Bar, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.Bar
	Errs map[string]error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(symbol string, _, _ time.Time) ([]model.Bar, error) {
	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	if bars, ok := m.Bars[symbol]; ok {
		return bars, nil
	}
	return nil, fmt.Errorf("%s: no data returned", symbol)
}

// GenerateBars builds count synthetic daily bars ending at end, with closes
// around basePrice. Used by the mock fetcher and tests.
func GenerateBars(symbol string, basePrice float64, count int, end time.Time) []model.Bar {
	bars := make([]model.Bar, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.Bar{
			Symbol: symbol,
			Date:   end.AddDate(0, 0, -(count - 1 - i)).Format("2006-01-02"),
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}
