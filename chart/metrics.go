package chart

import (
	"math"

	"github.com/dnldd/terminal/shared"
)

// VisibleRange represents the half-open index window [Start, End) of bars in view.
type VisibleRange struct {
	Start int
	End   int
}

// Len returns the number of bars in the range.
func (r VisibleRange) Len() int {
	return r.End - r.Start
}

// Empty asserts whether the range holds no bars.
func (r VisibleRange) Empty() bool {
	return r.End <= r.Start
}

// PriceScale represents the affine mapping from price to vertical pixel coordinate.
type PriceScale struct {
	Min        float64
	Max        float64
	Height     float64
	PxPerPoint float64
}

// NewPriceScale initializes a price scale spanning the provided extremes over
// the provided pixel height. A flat range (high == low) yields a zero scale.
func NewPriceScale(low float64, high float64, height float64) PriceScale {
	scale := PriceScale{
		Min:    low,
		Max:    high,
		Height: height,
	}

	if high > low && height > 0 {
		scale.PxPerPoint = height / (high - low)
	}

	return scale
}

// Flat asserts whether the scale has no vertical extent.
func (s PriceScale) Flat() bool {
	return s.PxPerPoint == 0
}

// Y projects the provided price to a vertical pixel coordinate. Prices on a
// flat scale project to the vertical centre.
func (s PriceScale) Y(price float64) float64 {
	if s.Flat() {
		return s.Height / 2
	}

	return s.Height - (price-s.Min)*s.PxPerPoint
}

// ViewMetrics represents the per-frame values derived from the view state.
type ViewMetrics struct {
	BarWidth float64
	Range    VisibleRange
	Scale    PriceScale
}

// clampVisibleBarsCount clamps the provided count to
// [min(MinVisibleBarsCount, total), total] so the bounds never invert.
func clampVisibleBarsCount(count int, total int) int {
	lower := min(MinVisibleBarsCount, total)
	return max(lower, min(count, total))
}

// maxScrollOffset returns the largest scroll offset that keeps the data
// covering the viewport.
func maxScrollOffset(state ViewState, total int) float64 {
	return math.Max(0, float64(total)*state.BarWidth()-state.ViewportWidth)
}

// computeVisibleRange returns the window of bars in view for the provided state.
func computeVisibleRange(state ViewState, total int) VisibleRange {
	var start int
	barWidth := state.BarWidth()
	if barWidth > 0 {
		start = int(math.Round(state.ScrollOffset / barWidth))
	}
	start = max(0, min(start, total))
	end := min(start+state.VisibleBarsCount, total)

	return VisibleRange{Start: start, End: end}
}

// DeriveViewMetrics computes the bar width, visible range and price scale for
// the provided state. The price scale tracks the visible window only.
func DeriveViewMetrics(state ViewState, bars []shared.Bar, height float64) ViewMetrics {
	metrics := ViewMetrics{
		BarWidth: state.BarWidth(),
		Range:    computeVisibleRange(state, len(bars)),
	}

	if metrics.Range.Empty() {
		metrics.Scale = PriceScale{Height: height}
		return metrics
	}

	high, low := shared.PriceExtremes(bars[metrics.Range.Start:metrics.Range.End])
	metrics.Scale = NewPriceScale(low, high, height)

	return metrics
}
