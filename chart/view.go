package chart

import (
	"math"

	"github.com/davecgh/go-spew/spew"
	"github.com/dnldd/terminal/shared"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// MinVisibleBarsCount is the minimum number of bars kept in view when enough bars exist.
	MinVisibleBarsCount = 20
	// InitialVisibleBarsCount is the number of bars in view before any zoom.
	InitialVisibleBarsCount = 100
	// wickWidth is the stroke width of a bar's high-low line.
	wickWidth = 1.0
)

// ViewState represents the mutable pan and zoom state of a chart view.
type ViewState struct {
	// VisibleBarsCount is the number of bars spanning the viewport.
	VisibleBarsCount int
	// ViewportWidth is the pixel width of the drawing surface.
	ViewportWidth float64
	// ScrollOffset is the horizontal pixel offset into the bar history.
	ScrollOffset float64
}

// BarWidth returns the pixel width allotted to a single bar.
func (s ViewState) BarWidth() float64 {
	if s.VisibleBarsCount <= 0 {
		return 0
	}

	return s.ViewportWidth / float64(s.VisibleBarsCount)
}

// ViewConfig represents the chart view configuration.
type ViewConfig struct {
	// Bars is the ordered bar history, index 0 being the most recent.
	// The view never mutates it.
	Bars []shared.Bar
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// View represents an interactive candlestick chart view. A view is not safe for
// concurrent use; all gestures and renders are expected on one goroutine.
type View struct {
	cfg    *ViewConfig
	id     string
	state  ViewState
	logger zerolog.Logger
}

// NewView initializes a new chart view.
func NewView(cfg *ViewConfig) *View {
	id := uuid.New().String()
	logger := cfg.Logger.With().Str("view", id).Logger()

	view := &View{
		cfg:    cfg,
		id:     id,
		logger: logger,
		state: ViewState{
			VisibleBarsCount: clampVisibleBarsCount(InitialVisibleBarsCount, len(cfg.Bars)),
		},
	}

	if len(cfg.Bars) == 0 {
		view.logger.Warn().Msg("chart view created without bars, nothing will be drawn")
	}

	return view
}

// ID returns the unique identifier of the view.
func (v *View) ID() string {
	return v.id
}

// State returns a copy of the current view state.
func (v *View) State() ViewState {
	return v.state
}

// OnGesture applies the provided zoom factor and horizontal pan delta to the view.
func (v *View) OnGesture(zoom float64, panX float64) {
	total := len(v.cfg.Bars)

	if math.IsNaN(zoom) || math.IsInf(zoom, 0) || zoom <= 0 {
		v.logger.Warn().Msgf("ignoring invalid zoom factor %v", zoom)
		zoom = shared.IdentityZoom
	}
	if math.IsNaN(panX) || math.IsInf(panX, 0) {
		v.logger.Warn().Msgf("ignoring invalid pan delta %v", panX)
		panX = 0
	}

	current := v.state.VisibleBarsCount
	count := int(math.Round(float64(current) / zoom))
	switch {
	case zoom > shared.IdentityZoom && count >= current:
		// Any zoom in drops at least one bar.
		count = current - 1
	case zoom < shared.IdentityZoom && count <= current:
		// Any zoom out adds at least one bar.
		count = current + 1
	}
	v.state.VisibleBarsCount = clampVisibleBarsCount(count, total)

	v.state.ScrollOffset = clampScrollOffset(v.state.ScrollOffset+panX, v.state, total)
}

// ApplyGesture applies the provided gesture to the view.
func (v *View) ApplyGesture(gesture shared.Gesture) {
	v.OnGesture(gesture.Zoom, gesture.PanX)
}

// SetViewport records the drawing surface width and keeps the scroll offset
// within the data bounds for it.
func (v *View) SetViewport(width float64) {
	if width < 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		width = 0
	}

	v.state.ViewportWidth = width
	v.state.ScrollOffset = clampScrollOffset(v.state.ScrollOffset, v.state, len(v.cfg.Bars))
}

// ComputeVisibleRange returns the window of bars currently in view.
func (v *View) ComputeVisibleRange() VisibleRange {
	return computeVisibleRange(v.state, len(v.cfg.Bars))
}

// Metrics derives the view metrics for the provided viewport height.
func (v *View) Metrics(height float64) ViewMetrics {
	return DeriveViewMetrics(v.state, v.cfg.Bars, height)
}

// clampScrollOffset bounds the provided offset to [0, max scroll offset].
func clampScrollOffset(offset float64, state ViewState, total int) float64 {
	return math.Max(0, math.Min(offset, maxScrollOffset(state, total)))
}

// Render draws the bars in view onto the provided canvas and returns the
// metrics the frame was drawn with.
func (v *View) Render(canvas Canvas) ViewMetrics {
	width, height := canvas.Size()
	v.SetViewport(width)

	metrics := v.Metrics(height)
	switch {
	case metrics.Range.Empty():
		v.logger.Debug().Msgf("nothing to draw for view state: %s", spew.Sdump(v.state))
		return metrics
	case width <= 0 || height <= 0:
		v.logger.Debug().Msgf("nothing to draw on a %vx%v canvas", width, height)
		return metrics
	case metrics.Scale.Flat():
		v.logger.Debug().Msgf("flat price scale at %v, drawing bars at the vertical centre",
			metrics.Scale.Min)
	}

	for idx := metrics.Range.Start; idx < metrics.Range.End; idx++ {
		bar := &v.cfg.Bars[idx]
		x := v.state.ViewportWidth - float64(idx)*metrics.BarWidth + v.state.ScrollOffset

		canvas.DrawLine(Line{
			Start: Point{X: x, Y: metrics.Scale.Y(bar.Low)},
			End:   Point{X: x, Y: metrics.Scale.Y(bar.High)},
			Color: WickColor,
			Width: wickWidth,
		})

		canvas.DrawLine(Line{
			Start: Point{X: x, Y: metrics.Scale.Y(bar.Open)},
			End:   Point{X: x, Y: metrics.Scale.Y(bar.Close)},
			Color: BodyColor(bar),
			Width: metrics.BarWidth / 2,
		})
	}

	return metrics
}
