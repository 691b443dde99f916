package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dnldd/terminal/fetch"
	"github.com/dnldd/terminal/raster"
	"github.com/dnldd/terminal/session"
	"github.com/dnldd/terminal/shared"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"
)

const (
	// TimeoutDuration is the maximum time to wait for a frame before timing out.
	TimeoutDuration = time.Second * 4
)

// TerminalConfig represents the configuration struct for the terminal service.
type TerminalConfig struct {
	// BarsFilepath is the filepath to the bar data (json or parquet).
	BarsFilepath string
	// GesturesFilepath is the filepath to the gesture script, optional.
	GesturesFilepath string
	// OutputFilepath is the filepath the final frame is written to as PNG.
	OutputFilepath string
	// FramesDir is the directory a frame per gesture is written to, optional.
	FramesDir string
	// Width is the canvas width in pixels.
	Width int
	// Height is the canvas height in pixels.
	Height int
	// OldestFirst signals the bar data lists bars from oldest to most recent.
	OldestFirst bool
	// Cancel is the context cancellation function.
	Cancel context.CancelFunc
}

// Validate asserts the config sane inputs.
func (cfg *TerminalConfig) Validate() error {
	var errs error

	if cfg.BarsFilepath == "" {
		errs = errors.Join(errs, fmt.Errorf("bars filepath cannot be an empty string"))
	}
	if cfg.OutputFilepath == "" {
		errs = errors.Join(errs, fmt.Errorf("output filepath cannot be an empty string"))
	}
	if cfg.Width <= 0 {
		errs = errors.Join(errs, fmt.Errorf("canvas width must be positive"))
	}
	if cfg.Height <= 0 {
		errs = errors.Join(errs, fmt.Errorf("canvas height must be positive"))
	}
	if cfg.Cancel == nil {
		errs = errors.Join(errs, fmt.Errorf("context cancellation function cannot be nil"))
	}

	return errs
}

// Terminal represents a service that replays gestures against a chart view and
// renders the resulting frames.
type Terminal struct {
	cfg      *TerminalConfig
	session  *session.Session
	gestures []shared.Gesture
	logger   *zerolog.Logger
	wg       sync.WaitGroup
}

// NewTerminal initializes a new terminal service.
func NewTerminal(cfg *TerminalConfig) (*Terminal, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack

	logger := log.With().Str("service", "terminal").Logger()

	fetchLogger := logger.With().Str("component", "fetch").Logger()
	bars, err := fetch.LoadBars(&fetch.BarsConfig{
		FilePath:    cfg.BarsFilepath,
		OldestFirst: cfg.OldestFirst,
		Logger:      &fetchLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("loading bars: %w", err)
	}

	var gestures []shared.Gesture
	if cfg.GesturesFilepath != "" {
		gestures, err = fetch.LoadGestures(cfg.GesturesFilepath)
		if err != nil {
			return nil, fmt.Errorf("loading gestures: %w", err)
		}
	}

	sessionLogger := logger.With().Str("component", "session").Logger()
	sess, err := session.NewSession(&session.SessionConfig{
		Bars:          bars,
		ViewportWidth: float64(cfg.Width),
		Logger:        &sessionLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating chart session: %w", err)
	}

	return &Terminal{
		cfg:      cfg,
		session:  sess,
		gestures: gestures,
		logger:   &logger,
	}, nil
}

// renderFrame draws the current chart frame and writes it as PNG to the provided path.
func (t *Terminal) renderFrame(ctx context.Context, path string) error {
	canvas, err := raster.NewCanvas(t.cfg.Width, t.cfg.Height)
	if err != nil {
		return fmt.Errorf("creating canvas: %w", err)
	}

	req := session.NewFrameRequest(canvas)
	err = t.session.SendFrameRequest(ctx, req)
	if err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return fmt.Errorf("waiting for frame: %w", ctx.Err())
	case <-time.After(TimeoutDuration):
		return fmt.Errorf("timed out waiting for frame after %v", TimeoutDuration)
	case metrics := <-req.Response:
		t.logger.Info().Msgf("drew bars %d to %d (bar width %.2fpx, prices %.2f to %.2f) to %s",
			metrics.Range.Start, metrics.Range.End, metrics.BarWidth,
			metrics.Scale.Min, metrics.Scale.Max, path)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating frame file '%s': %w", path, err)
	}

	err = canvas.Save(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("writing frame file '%s': %w", path, err)
	}

	return f.Close()
}

// replay applies the gesture script to the chart session and draws the final frame.
func (t *Terminal) replay(ctx context.Context) error {
	if t.cfg.FramesDir != "" {
		err := os.MkdirAll(t.cfg.FramesDir, 0o755)
		if err != nil {
			return fmt.Errorf("creating frames directory: %w", err)
		}
	}

	for idx := range t.gestures {
		err := t.session.SendGesture(ctx, t.gestures[idx])
		if err != nil {
			return err
		}

		if t.cfg.FramesDir != "" {
			path := filepath.Join(t.cfg.FramesDir, fmt.Sprintf("frame-%04d.png", idx+1))
			err := t.renderFrame(ctx, path)
			if err != nil {
				return fmt.Errorf("rendering frame %d: %w", idx+1, err)
			}
		}
	}

	return t.renderFrame(ctx, t.cfg.OutputFilepath)
}

// Run handles the lifecycle processes of the terminal service.
func (t *Terminal) Run(ctx context.Context) error {
	sessionCtx, cancelSession := context.WithCancel(ctx)

	t.wg.Add(1)
	go func() {
		t.session.Run(sessionCtx)
		t.wg.Done()
	}()

	t.logger.Info().Msgf("replaying %d gestures against view %s", len(t.gestures), t.session.ViewID())

	err := t.replay(ctx)
	if err != nil {
		t.logger.Error().Msgf("replaying gestures: %v", err)
	}

	cancelSession()
	t.wg.Wait()
	t.cfg.Cancel()

	return err
}
