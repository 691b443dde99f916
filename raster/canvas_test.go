package raster

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/dnldd/terminal/chart"
	"github.com/dnldd/terminal/shared"
	"github.com/peterldowns/testy/assert"
	"github.com/rs/zerolog/log"
)

// rgb returns the 8-bit colour channels of the pixel at the provided position.
func rgb(img image.Image, x int, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

func TestNewCanvas(t *testing.T) {
	// Ensure invalid dimensions error.
	_, err := NewCanvas(0, 100)
	assert.Error(t, err)
	_, err = NewCanvas(100, -1)
	assert.Error(t, err)

	// Ensure a valid canvas reports its size.
	canvas, err := NewCanvas(320, 240)
	assert.NoError(t, err)
	width, height := canvas.Size()
	assert.Equal(t, width, float64(320))
	assert.Equal(t, height, float64(240))
}

func TestCanvasRender(t *testing.T) {
	bars := []shared.Bar{
		{Open: 10, High: 12, Low: 9, Close: 11},
		{Open: 11, High: 11.5, Low: 10, Close: 10.5},
	}
	view := chart.NewView(&chart.ViewConfig{
		Bars:   bars,
		Logger: &log.Logger,
	})

	canvas, err := NewCanvas(200, 300)
	assert.NoError(t, err)
	view.Render(canvas)

	var buf bytes.Buffer
	err = canvas.Save(&buf)
	assert.NoError(t, err)

	img, err := png.Decode(&buf)
	assert.NoError(t, err)
	assert.Equal(t, img.Bounds().Dx(), 200)
	assert.Equal(t, img.Bounds().Dy(), 300)

	// The bullish body of the most recent bar spans x 175-225, y 100-200.
	r, g, b := rgb(img, 190, 150)
	if g < 200 || r > 60 || b > 60 {
		t.Errorf("expected a green body pixel, got (%d, %d, %d)", r, g, b)
	}

	// The bearish body of the previous bar spans x 75-125, y 100-150.
	r, g, b = rgb(img, 90, 125)
	if r < 200 || g > 60 || b > 60 {
		t.Errorf("expected a red body pixel, got (%d, %d, %d)", r, g, b)
	}

	// Ensure untouched areas keep the background colour.
	r, g, b = rgb(img, 30, 20)
	if r > 10 || g > 10 || b > 10 {
		t.Errorf("expected a background pixel, got (%d, %d, %d)", r, g, b)
	}
}
