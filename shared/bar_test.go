package shared

import (
	"math"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/tidwall/gjson"
)

func TestFetchSentiment(t *testing.T) {
	tests := []struct {
		name string
		bar  Bar
		want Sentiment
	}{
		{
			name: "neutral bar",
			bar: Bar{
				Open:  5,
				Close: 5,
				High:  9,
				Low:   1,
			},
			want: Neutral,
		},
		{
			name: "bullish bar",
			bar: Bar{
				Open:  5,
				Close: 15,
				High:  20,
				Low:   1,
			},
			want: Bullish,
		},
		{
			name: "bearish bar",
			bar: Bar{
				Open:  15,
				Close: 5,
				High:  20,
				Low:   1,
			},
			want: Bearish,
		},
	}

	for _, test := range tests {
		sentiment := test.bar.FetchSentiment()
		if sentiment != test.want {
			t.Errorf("%s: expected %s sentiment, got %s",
				test.name, test.want.String(), sentiment.String())
		}
	}
}

func TestSentimentString(t *testing.T) {
	tests := []struct {
		name      string
		sentiment Sentiment
		want      string
	}{
		{
			"neutral sentiment",
			Neutral,
			"neutral",
		},
		{
			"bullish sentiment",
			Bullish,
			"bullish",
		},
		{
			"bearish sentiment",
			Bearish,
			"bearish",
		},
		{
			"unknown sentiment",
			Sentiment(999),
			"neutral",
		},
	}

	for _, test := range tests {
		str := test.sentiment.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}

func TestBarValidate(t *testing.T) {
	tests := []struct {
		name    string
		bar     Bar
		wantErr bool
	}{
		{
			name:    "valid bar",
			bar:     Bar{Open: 10, High: 12, Low: 9, Close: 11},
			wantErr: false,
		},
		{
			name:    "flat bar",
			bar:     Bar{Open: 10, High: 10, Low: 10, Close: 10},
			wantErr: false,
		},
		{
			name:    "high below close",
			bar:     Bar{Open: 10, High: 10.5, Low: 9, Close: 11},
			wantErr: true,
		},
		{
			name:    "low above open",
			bar:     Bar{Open: 10, High: 12, Low: 10.5, Close: 11},
			wantErr: true,
		},
		{
			name:    "nan price",
			bar:     Bar{Open: math.NaN(), High: 12, Low: 9, Close: 11},
			wantErr: true,
		},
		{
			name:    "infinite price",
			bar:     Bar{Open: 10, High: math.Inf(1), Low: 9, Close: 11},
			wantErr: true,
		},
	}

	for _, test := range tests {
		err := test.bar.Validate()
		if (err != nil) != test.wantErr {
			t.Errorf("%s: expected error %v, got %v", test.name, test.wantErr, err)
		}
	}
}

func TestPriceExtremes(t *testing.T) {
	bars := []Bar{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 11.5, Low: 10, Close: 10.5},
		{Open: 8, High: 16, Low: 8, Close: 15},
	}

	// Ensure the price extremes can be fetched.
	high, low := PriceExtremes(bars)
	assert.Equal(t, high, float64(16))
	assert.Equal(t, low, float64(8))

	// Ensure a single bar is its own range.
	high, low = PriceExtremes(bars[:1])
	assert.Equal(t, high, float64(12))
	assert.Equal(t, low, float64(9))
}

func TestParseBars(t *testing.T) {
	data := `[{"open":10,"close":12,"high":15,"low":8,"volume":5,"date":"2025-02-04 15:05:00"},
		{"open":12,"close":11,"high":13,"low":10}]`
	gjd := gjson.Parse(data).Array()

	// Ensure bars data can be parsed.
	bars, err := ParseBars(gjd, time.UTC)
	assert.NoError(t, err)
	assert.Equal(t, len(bars), 2)
	assert.Equal(t, bars[0].Open, float64(10))
	assert.Equal(t, bars[0].Close, float64(12))
	assert.Equal(t, bars[0].High, float64(15))
	assert.Equal(t, bars[0].Low, float64(8))
	assert.Equal(t, bars[0].Volume, float64(5))
	assert.Equal(t, bars[0].Date.Year(), 2025)
	assert.Equal(t, bars[0].Date.Month(), time.February)
	assert.Equal(t, bars[0].Date.Day(), 4)

	// Ensure a bar without a date parses with a zero date.
	assert.True(t, bars[1].Date.IsZero())
	assert.Equal(t, bars[1].Close, float64(11))

	// Ensure a malformed date errors.
	gjd = gjson.Parse(`[{"open":1,"close":1,"high":1,"low":1,"date":"yesterday"}]`).Array()
	_, err = ParseBars(gjd, nil)
	assert.Error(t, err)
}

func TestParseGestures(t *testing.T) {
	data := `[{"zoom":1.5,"pan":-20},{"pan":35.5},{"zoom":0.5}]`
	gestures := ParseGestures(gjson.Parse(data).Array())

	assert.Equal(t, len(gestures), 3)
	assert.Equal(t, gestures[0], Gesture{Zoom: 1.5, PanX: -20})
	assert.Equal(t, gestures[1], NewPanGesture(35.5))
	assert.Equal(t, gestures[2], Gesture{Zoom: 0.5})
	assert.Equal(t, NewZoomGesture(2), Gesture{Zoom: 2})
}
