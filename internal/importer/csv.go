package importer

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"CandleViewer/internal/model"
)

// CSVResult reports the outcome of a CSV import.
type CSVResult struct {
	Saved   int64
	Tickers []string
	Mass    bool // true when no tickers were requested and the whole file was imported
}

// ImportCSV loads OHLCV rows from the configured CSV file. Each line holds a
// ticker followed by one or more (date, open, high, low, close, volume)
// groups. An empty requested list imports every ticker in the file.
func (im *Importer) ImportCSV(requested []string) (*CSVResult, error) {
	mass := len(requested) == 0
	wanted := NormalizeTickers(requested)
	if !mass && len(wanted) == 0 {
		return nil, fmt.Errorf("no valid tickers given")
	}

	byTicker, err := im.readCSV()
	if err != nil {
		return nil, err
	}
	if len(byTicker) == 0 {
		return nil, fmt.Errorf("CSV file %s contains no data", im.CSVPath)
	}

	if mass {
		wanted = make([]string, 0, len(byTicker))
		for t := range byTicker {
			wanted = append(wanted, t)
		}
		sort.Strings(wanted)
	}

	var (
		saved    int64
		imported []string
		failed   []string
	)
	for _, ticker := range wanted {
		bars, ok := byTicker[ticker]
		if !ok {
			failed = append(failed, fmt.Sprintf("%s (not found in CSV)", ticker))
			continue
		}
		if belowPennyAverage(bars) {
			failed = append(failed, fmt.Sprintf("%s (penny stock, avg close < $%.2f)", ticker, pennyThreshold))
			continue
		}
		n, err := im.Store.InsertBars(bars)
		if err != nil {
			return nil, fmt.Errorf("save %s: %w", ticker, err)
		}
		saved += n
		imported = append(imported, ticker)
	}

	if len(imported) == 0 {
		return nil, fmt.Errorf("nothing imported: %s", strings.Join(failed, ", "))
	}
	if len(failed) > 0 {
		log.Printf("[WARN] csv import skipped: %s", strings.Join(failed, ", "))
	}
	return &CSVResult{Saved: saved, Tickers: imported, Mass: mass}, nil
}

// readCSV parses the CSV file into bars grouped by ticker.
func (im *Importer) readCSV() (map[string][]model.Bar, error) {
	if _, err := os.Stat(im.CSVPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("CSV file not found: %s", im.CSVPath)
	}
	f, err := os.Open(im.CSVPath)
	if err != nil {
		return nil, fmt.Errorf("open CSV: %w", err)
	}
	defer f.Close()

	byTicker := make(map[string][]model.Bar)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		ticker := strings.ToUpper(strings.TrimSpace(fields[0]))
		if ticker == "" {
			return nil, fmt.Errorf("line %d: missing ticker", lineNo)
		}
		groups := fields[1:]
		if len(groups) == 0 || len(groups)%6 != 0 {
			return nil, fmt.Errorf("line %d: %s: expected groups of 6 fields, got %d fields", lineNo, ticker, len(groups))
		}
		for i := 0; i < len(groups); i += 6 {
			bar, err := parseGroup(ticker, groups[i:i+6])
			if err != nil {
				return nil, fmt.Errorf("line %d: %s: %w", lineNo, ticker, err)
			}
			byTicker[ticker] = append(byTicker[ticker], bar)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read CSV: %w", err)
	}
	return byTicker, nil
}

// parseGroup parses one (date, open, high, low, close, volume) field group.
func parseGroup(ticker string, fields []string) (model.Bar, error) {
	date := strings.TrimSpace(fields[0])
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return model.Bar{}, fmt.Errorf("bad date %q", date)
	}
	vals := make([]float64, 5)
	for i, name := range []string{"open", "high", "low", "close", "volume"} {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i+1]), 64)
		if err != nil {
			return model.Bar{}, fmt.Errorf("bad %s %q", name, fields[i+1])
		}
		vals[i] = v
	}
	return model.Bar{
		Symbol: ticker,
		Date:   date,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: int64(vals[4]),
	}, nil
}
