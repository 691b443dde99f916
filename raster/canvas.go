package raster

import (
	"fmt"
	"io"
	"math"

	"github.com/dnldd/terminal/chart"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Canvas represents a raster drawing surface that encodes to PNG.
type Canvas struct {
	width    int
	height   int
	renderer gochart.Renderer
}

// Ensure the canvas implements the chart Canvas interface.
var _ chart.Canvas = (*Canvas)(nil)

// NewCanvas initializes a new raster canvas of the provided pixel size filled
// with the chart background colour.
func NewCanvas(width int, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas dimensions must be positive, got %dx%d", width, height)
	}

	renderer, err := gochart.PNG(width, height)
	if err != nil {
		return nil, fmt.Errorf("creating png renderer: %w", err)
	}

	canvas := &Canvas{
		width:    width,
		height:   height,
		renderer: renderer,
	}
	canvas.fill(chart.BackgroundColor)

	return canvas, nil
}

// fill paints the whole canvas with the provided colour.
func (c *Canvas) fill(color drawing.Color) {
	c.renderer.SetFillColor(color)
	c.renderer.MoveTo(0, 0)
	c.renderer.LineTo(c.width, 0)
	c.renderer.LineTo(c.width, c.height)
	c.renderer.LineTo(0, c.height)
	c.renderer.LineTo(0, 0)
	c.renderer.Close()
	c.renderer.Fill()
}

// Size returns the pixel width and height of the canvas.
func (c *Canvas) Size() (float64, float64) {
	return float64(c.width), float64(c.height)
}

// DrawLine draws the provided line onto the canvas as a filled quad with
// square ends. A zero length line still covers a single pixel along y.
func (c *Canvas) DrawLine(line chart.Line) {
	if line.Width <= 0 {
		return
	}

	start, end := line.Start, line.End
	dx, dy := end.X-start.X, end.Y-start.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		start.Y -= 0.5
		end.Y += 0.5
		dx, dy, length = 0, 1, 1
	}

	// Offset perpendicular to the line by half its width.
	half := line.Width / 2
	ox, oy := -dy/length*half, dx/length*half

	c.renderer.SetFillColor(line.Color)
	c.renderer.MoveTo(toPixel(start.X+ox), toPixel(start.Y+oy))
	c.renderer.LineTo(toPixel(end.X+ox), toPixel(end.Y+oy))
	c.renderer.LineTo(toPixel(end.X-ox), toPixel(end.Y-oy))
	c.renderer.LineTo(toPixel(start.X-ox), toPixel(start.Y-oy))
	c.renderer.Close()
	c.renderer.Fill()
}

// Save encodes the canvas as PNG to the provided writer.
func (c *Canvas) Save(w io.Writer) error {
	err := c.renderer.Save(w)
	if err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}

	return nil
}

// toPixel rounds the provided coordinate to the nearest pixel.
func toPixel(v float64) int {
	return int(math.Round(v))
}
