package shared

import (
	"github.com/tidwall/gjson"
)

const (
	// IdentityZoom is the zoom factor that leaves the visible bar count unchanged.
	IdentityZoom = 1.0
)

// Gesture represents a combined pan and zoom input event.
type Gesture struct {
	// Zoom is the multiplicative scale change, values above 1 zoom in.
	Zoom float64
	// PanX is the horizontal drag delta in pixels.
	PanX float64
}

// NewPanGesture initializes a pan-only gesture.
func NewPanGesture(panX float64) Gesture {
	return Gesture{Zoom: IdentityZoom, PanX: panX}
}

// NewZoomGesture initializes a zoom-only gesture.
func NewZoomGesture(zoom float64) Gesture {
	return Gesture{Zoom: zoom}
}

// ParseGestures parses gestures from the provided json data. A missing zoom
// factor defaults to the identity zoom.
func ParseGestures(data []gjson.Result) []Gesture {
	gestures := make([]Gesture, 0, len(data))
	for idx := range data {
		gesture := Gesture{Zoom: IdentityZoom}

		zoom := data[idx].Get("zoom")
		if zoom.Exists() {
			gesture.Zoom = zoom.Float()
		}
		gesture.PanX = data[idx].Get("pan").Float()

		gestures = append(gestures, gesture)
	}

	return gestures
}
