package shared

import (
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"
)

const (
	// DateLayout is the format layout for parsing bar dates.
	DateLayout = "2006-01-02 15:04:05"
)

// Sentiment represents the bar sentiment.
type Sentiment int

const (
	Neutral Sentiment = iota
	Bullish
	Bearish
)

// String stringifies the provided sentiment.
func (s Sentiment) String() string {
	switch s {
	case Bullish:
		return "bullish"
	case Bearish:
		return "bearish"
	default:
		return "neutral"
	}
}

// Bar represents a unit price bar for a fixed time interval.
type Bar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64

	// Metadata, not used for rendering.
	Volume float64
	Date   time.Time
}

// FetchSentiment returns the provided bar's sentiment.
func (b *Bar) FetchSentiment() Sentiment {
	sentiment := b.Close - b.Open
	switch {
	case sentiment < 0:
		return Bearish
	case sentiment > 0:
		return Bullish
	default:
		return Neutral
	}
}

// Validate asserts the bar prices are finite and its high and low bound the open and close.
func (b *Bar) Validate() error {
	for _, v := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("bar prices must be finite, got o:%v h:%v l:%v c:%v",
				b.Open, b.High, b.Low, b.Close)
		}
	}

	if b.High < math.Max(b.Open, math.Max(b.Close, b.Low)) {
		return fmt.Errorf("bar high %v is below its open, close or low", b.High)
	}
	if b.Low > math.Min(b.Open, math.Min(b.Close, b.High)) {
		return fmt.Errorf("bar low %v is above its open, close or high", b.Low)
	}

	return nil
}

// PriceExtremes returns the highest high and lowest low of the provided bars.
// The bars are expected to be non-empty.
func PriceExtremes(bars []Bar) (float64, float64) {
	high := bars[0].High
	low := bars[0].Low
	for idx := 1; idx < len(bars); idx++ {
		if bars[idx].High > high {
			high = bars[idx].High
		}
		if bars[idx].Low < low {
			low = bars[idx].Low
		}
	}

	return high, low
}

// ParseBars parses bars from the provided json data.
func ParseBars(data []gjson.Result, loc *time.Location) ([]Bar, error) {
	if loc == nil {
		loc = time.UTC
	}

	bars := make([]Bar, 0, len(data))
	for idx := range data {
		var bar Bar

		bar.Open = data[idx].Get("open").Float()
		bar.High = data[idx].Get("high").Float()
		bar.Low = data[idx].Get("low").Float()
		bar.Close = data[idx].Get("close").Float()
		bar.Volume = data[idx].Get("volume").Float()

		date := data[idx].Get("date")
		if date.Exists() {
			dt, err := time.ParseInLocation(DateLayout, date.String(), loc)
			if err != nil {
				return nil, fmt.Errorf("parsing bar date at index %d: %w", idx, err)
			}
			bar.Date = dt
		}

		bars = append(bars, bar)
	}

	return bars, nil
}
