package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/dnldd/terminal/chart"
	"github.com/dnldd/terminal/shared"
	"github.com/rs/zerolog"
)

const (
	// bufferSize is the default buffer size for channels.
	bufferSize = 64
)

// FrameRequest represents a request to draw a frame of the chart onto a canvas.
type FrameRequest struct {
	Canvas   chart.Canvas
	Response chan chart.ViewMetrics
}

// NewFrameRequest initializes a new frame request for the provided canvas.
func NewFrameRequest(canvas chart.Canvas) *FrameRequest {
	return &FrameRequest{
		Canvas:   canvas,
		Response: make(chan chart.ViewMetrics, 1),
	}
}

// StateRequest represents a request to fetch the current view state.
type StateRequest struct {
	Response chan chart.ViewState
}

// NewStateRequest initializes a new view state request.
func NewStateRequest() *StateRequest {
	return &StateRequest{
		Response: make(chan chart.ViewState, 1),
	}
}

// event represents a single unit of work for the session loop.
type event struct {
	gesture *shared.Gesture
	frame   *FrameRequest
	state   *StateRequest
}

// SessionConfig represents the chart session configuration.
type SessionConfig struct {
	// Bars is the ordered bar history, index 0 being the most recent.
	Bars []shared.Bar
	// ViewportWidth is the expected canvas width, applied before the first frame.
	ViewportWidth float64
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *SessionConfig) Validate() error {
	var errs error

	if len(cfg.Bars) == 0 {
		errs = errors.Join(errs, fmt.Errorf("no bars provided for chart session"))
	}
	if cfg.ViewportWidth < 0 {
		errs = errors.Join(errs, fmt.Errorf("viewport width cannot be negative"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("session logger cannot be nil"))
	}

	return errs
}

// Session owns a chart view and applies gestures and frame requests to it on a
// single goroutine, strictly in the order they were sent.
type Session struct {
	cfg    *SessionConfig
	view   *chart.View
	events chan event
}

// NewSession initializes a new chart session.
func NewSession(cfg *SessionConfig) (*Session, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	view := chart.NewView(&chart.ViewConfig{
		Bars:   cfg.Bars,
		Logger: cfg.Logger,
	})
	view.SetViewport(cfg.ViewportWidth)

	return &Session{
		cfg:    cfg,
		view:   view,
		events: make(chan event, bufferSize),
	}, nil
}

// ViewID returns the identifier of the view owned by the session.
func (s *Session) ViewID() string {
	return s.view.ID()
}

// send queues the provided event, waiting for capacity until the context is done.
func (s *Session) send(ctx context.Context, evt event) error {
	select {
	case s.events <- evt:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("queueing session event: %w", ctx.Err())
	}
}

// SendGesture relays the provided gesture for processing.
func (s *Session) SendGesture(ctx context.Context, gesture shared.Gesture) error {
	return s.send(ctx, event{gesture: &gesture})
}

// SendFrameRequest relays the provided frame request for processing.
func (s *Session) SendFrameRequest(ctx context.Context, req *FrameRequest) error {
	return s.send(ctx, event{frame: req})
}

// SendStateRequest relays the provided view state request for processing.
func (s *Session) SendStateRequest(ctx context.Context, req *StateRequest) error {
	return s.send(ctx, event{state: req})
}

// handleEvent processes the provided session event.
func (s *Session) handleEvent(evt *event) {
	switch {
	case evt.gesture != nil:
		s.view.ApplyGesture(*evt.gesture)
		state := s.view.State()
		s.cfg.Logger.Debug().Msgf("applied gesture (zoom %.3f, pan %.1f): %d bars visible, scrolled by %.1f",
			evt.gesture.Zoom, evt.gesture.PanX, state.VisibleBarsCount, state.ScrollOffset)
	case evt.frame != nil:
		metrics := s.view.Render(evt.frame.Canvas)
		evt.frame.Response <- metrics
	case evt.state != nil:
		evt.state.Response <- s.view.State()
	default:
		s.cfg.Logger.Error().Msg("received an empty session event")
	}
}

// Run manages the lifecycle processes of the chart session.
func (s *Session) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-s.events:
			s.handleEvent(&evt)
		}
	}
}
