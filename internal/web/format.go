package web

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/dustin/go-humanize"

	"CandleViewer/internal/model"
)

// barsTable renders OHLCV rows as an HTML table. Prices are shown with two
// decimals and volumes with thousands separators.
func barsTable(bars []model.Bar) template.HTML {
	if len(bars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<table class="table" id="stockTable">`)
	b.WriteString("<thead><tr><th>id</th><th>osake</th><th>pvm</th><th>open</th><th>high</th><th>low</th><th>close</th><th>volume</th></tr></thead>\n<tbody>\n")
	for _, bar := range bars {
		b.WriteString("<tr>")
		cell(&b, fmt.Sprintf("%d", bar.ID))
		cell(&b, bar.Symbol)
		cell(&b, bar.Date)
		cell(&b, fmt.Sprintf("%.2f", bar.Open))
		cell(&b, fmt.Sprintf("%.2f", bar.High))
		cell(&b, fmt.Sprintf("%.2f", bar.Low))
		cell(&b, fmt.Sprintf("%.2f", bar.Close))
		cell(&b, humanize.Comma(bar.Volume))
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table>")
	return template.HTML(b.String())
}

// findingsTable renders pattern findings as an HTML table.
func findingsTable(findings []model.Finding) template.HTML {
	if len(findings) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<table class="table" id="stockTable">`)
	b.WriteString("<thead><tr><th>id</th><th>ticker</th><th>date</th><th>pattern</th></tr></thead>\n<tbody>\n")
	for _, f := range findings {
		b.WriteString("<tr>")
		cell(&b, fmt.Sprintf("%d", f.ID))
		cell(&b, f.Ticker)
		cell(&b, f.Date)
		cell(&b, f.Pattern)
		b.WriteString("</tr>\n")
	}
	b.WriteString("</tbody></table>")
	return template.HTML(b.String())
}

func cell(b *strings.Builder, v string) {
	b.WriteString("<td>")
	b.WriteString(template.HTMLEscapeString(v))
	b.WriteString("</td>")
}
