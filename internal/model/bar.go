package model

// Bar represents a single daily OHLCV row for a stock symbol.
type Bar struct {
	ID     int64
	Symbol string
	Date   string // YYYY-MM-DD
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// Finding is one candlestick pattern detected for a ticker on a date.
type Finding struct {
	ID      int64
	Ticker  string
	Date    string // YYYY-MM-DD
	Pattern string
}
