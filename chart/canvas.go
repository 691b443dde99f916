package chart

import (
	"github.com/dnldd/terminal/shared"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	// BackgroundColor is the chart background colour.
	BackgroundColor = drawing.Color{R: 0, G: 0, B: 0, A: 255}
	// WickColor is the neutral colour of a bar's high-low line.
	WickColor = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	// UpColor is the body colour of bullish bars.
	UpColor = drawing.Color{R: 0, G: 255, B: 0, A: 255}
	// DownColor is the body colour of bearish and neutral bars.
	DownColor = drawing.Color{R: 255, G: 0, B: 0, A: 255}
)

// BodyColor returns the body colour for the provided bar.
func BodyColor(bar *shared.Bar) drawing.Color {
	if bar.FetchSentiment() == shared.Bullish {
		return UpColor
	}

	return DownColor
}

// Point represents a pixel position on a canvas, y growing downwards.
type Point struct {
	X float64
	Y float64
}

// Line represents a straight line draw command.
type Line struct {
	Start Point
	End   Point
	Color drawing.Color
	Width float64
}

// Canvas defines the requirements for a drawing surface. A canvas is borrowed
// for a single frame.
type Canvas interface {
	// Size returns the pixel width and height of the canvas.
	Size() (float64, float64)
	// DrawLine draws the provided line.
	DrawLine(line Line)
}

// Recorder represents a canvas that records draw commands instead of drawing them.
type Recorder struct {
	Width  float64
	Height float64
	Lines  []Line
}

// Ensure the recorder implements the Canvas interface.
var _ Canvas = (*Recorder)(nil)

// NewRecorder initializes a new recording canvas of the provided size.
func NewRecorder(width float64, height float64) *Recorder {
	return &Recorder{
		Width:  width,
		Height: height,
	}
}

// Size returns the pixel width and height of the canvas.
func (r *Recorder) Size() (float64, float64) {
	return r.Width, r.Height
}

// DrawLine records the provided line.
func (r *Recorder) DrawLine(line Line) {
	r.Lines = append(r.Lines, line)
}

// Reset clears the recorded lines.
func (r *Recorder) Reset() {
	r.Lines = r.Lines[:0]
}
