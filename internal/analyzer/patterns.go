package analyzer

import "CandleViewer/internal/model"

// Candle geometry helpers. All thresholds are proportions of the high-low
// range of the bar they apply to.

func body(b model.Bar) float64 { return abs(b.Close - b.Open) }

func rng(b model.Bar) float64 { return b.High - b.Low }

func upperShadow(b model.Bar) float64 { return b.High - max(b.Open, b.Close) }

func lowerShadow(b model.Bar) float64 { return min(b.Open, b.Close) - b.Low }

func bullish(b model.Bar) bool { return b.Close > b.Open }

func bearish(b model.Bar) bool { return b.Close < b.Open }

func midpoint(b model.Bar) float64 { return (b.Open + b.Close) / 2 }

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func isDoji(b model.Bar) bool {
	r := rng(b)
	return r > 0 && body(b) <= 0.1*r
}

func isDragonflyDoji(b model.Bar) bool {
	r := rng(b)
	return isDoji(b) && upperShadow(b) <= 0.1*r && lowerShadow(b) >= 0.6*r
}

func isGravestoneDoji(b model.Bar) bool {
	r := rng(b)
	return isDoji(b) && lowerShadow(b) <= 0.1*r && upperShadow(b) >= 0.6*r
}

// hammerShape: small body near the top of the range with a long lower shadow.
func hammerShape(b model.Bar) bool {
	r := rng(b)
	bd := body(b)
	return r > 0 && bd > 0.1*r && lowerShadow(b) >= 2*bd && upperShadow(b) <= 0.15*r
}

// shootingStarShape: small body near the bottom with a long upper shadow.
func shootingStarShape(b model.Bar) bool {
	r := rng(b)
	bd := body(b)
	return r > 0 && bd > 0.1*r && upperShadow(b) >= 2*bd && lowerShadow(b) <= 0.15*r
}

func isSpinningTop(b model.Bar) bool {
	r := rng(b)
	return r > 0 && !isDoji(b) && body(b) <= 0.3*r &&
		upperShadow(b) >= 0.2*r && lowerShadow(b) >= 0.2*r
}

func isBullishEngulfing(prev, cur model.Bar) bool {
	return bearish(prev) && bullish(cur) &&
		cur.Open <= prev.Close && cur.Close >= prev.Open &&
		body(cur) > body(prev)
}

func isBearishEngulfing(prev, cur model.Bar) bool {
	return bullish(prev) && bearish(cur) &&
		cur.Open >= prev.Close && cur.Close <= prev.Open &&
		body(cur) > body(prev)
}

func isPiercing(prev, cur model.Bar) bool {
	return bearish(prev) && bullish(cur) &&
		cur.Open < prev.Close &&
		cur.Close > midpoint(prev) && cur.Close < prev.Open
}

func isDarkCloudCover(prev, cur model.Bar) bool {
	return bullish(prev) && bearish(cur) &&
		cur.Open > prev.Close &&
		cur.Close < midpoint(prev) && cur.Close > prev.Open
}

// isMorningStar: long bearish bar, a small-bodied bar below it, then a bullish
// bar closing above the midpoint of the first.
func isMorningStar(a, b, c model.Bar) bool {
	return bearish(a) && body(a) > 0 &&
		body(b) < 0.5*body(a) && max(b.Open, b.Close) < a.Close &&
		bullish(c) && c.Close > midpoint(a)
}

func isEveningStar(a, b, c model.Bar) bool {
	return bullish(a) && body(a) > 0 &&
		body(b) < 0.5*body(a) && min(b.Open, b.Close) > a.Close &&
		bearish(c) && c.Close < midpoint(a)
}

func isThreeWhiteSoldiers(a, b, c model.Bar) bool {
	return bullish(a) && bullish(b) && bullish(c) &&
		b.Close > a.Close && c.Close > b.Close &&
		b.Open > a.Open && b.Open < a.Close &&
		c.Open > b.Open && c.Open < b.Close
}

func isThreeBlackCrows(a, b, c model.Bar) bool {
	return bearish(a) && bearish(b) && bearish(c) &&
		b.Close < a.Close && c.Close < b.Close &&
		b.Open < a.Open && b.Open > a.Close &&
		c.Open < b.Open && c.Open > b.Close
}

// DetectPatterns scans bars (sorted ascending by date) and returns one finding
// per pattern occurrence, dated at the last bar of the pattern.
func DetectPatterns(bars []model.Bar) []model.Finding {
	var findings []model.Finding
	add := func(b model.Bar, pattern string) {
		findings = append(findings, model.Finding{Ticker: b.Symbol, Date: b.Date, Pattern: pattern})
	}

	for i, b := range bars {
		switch {
		case isDragonflyDoji(b):
			add(b, "Dragonfly Doji")
		case isGravestoneDoji(b):
			add(b, "Gravestone Doji")
		case isDoji(b):
			add(b, "Doji")
		}

		if hammerShape(b) {
			// The same shape is a hammer after a down close and a hanging man
			// after an up close.
			if i > 0 && bars[i-1].Close > b.Open {
				add(b, "Hammer")
			} else if i > 0 {
				add(b, "Hanging Man")
			} else {
				add(b, "Hammer")
			}
		}
		if shootingStarShape(b) {
			add(b, "Shooting Star")
		}
		if isSpinningTop(b) {
			add(b, "Spinning Top")
		}

		if i >= 1 {
			prev := bars[i-1]
			if isBullishEngulfing(prev, b) {
				add(b, "Bullish Engulfing")
			}
			if isBearishEngulfing(prev, b) {
				add(b, "Bearish Engulfing")
			}
			if isPiercing(prev, b) {
				add(b, "Piercing Pattern")
			}
			if isDarkCloudCover(prev, b) {
				add(b, "Dark Cloud Cover")
			}
		}

		if i >= 2 {
			a, mid := bars[i-2], bars[i-1]
			if isMorningStar(a, mid, b) {
				add(b, "Morning Star")
			}
			if isEveningStar(a, mid, b) {
				add(b, "Evening Star")
			}
			if isThreeWhiteSoldiers(a, mid, b) {
				add(b, "Three White Soldiers")
			}
			if isThreeBlackCrows(a, mid, b) {
				add(b, "Three Black Crows")
			}
		}
	}
	return findings
}
