// Package app runs the gesture recognition loop: read a frame, detect a hand,
// recognize a gesture, dispatch its key press and show feedback.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/overlay"
)

// Config holds the collaborators of an App.
type Config struct {
	Camera   capture.Camera
	Detector detector.Detector
	Pipeline *Pipeline
	// Display defaults to a headless display.
	Display overlay.Display
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// App owns the frame loop.
type App struct {
	camera   capture.Camera
	detector detector.Detector
	pipeline *Pipeline
	display  overlay.Display
	clock    func() time.Time

	enabled atomic.Bool
	frames  atomic.Int64

	closeOnce sync.Once
}

// New creates an App. Gesture dispatch starts enabled.
func New(cfg Config) *App {
	a := &App{
		camera:   cfg.Camera,
		detector: cfg.Detector,
		pipeline: cfg.Pipeline,
		display:  cfg.Display,
		clock:    cfg.Clock,
	}
	if a.display == nil {
		a.display = &overlay.Headless{}
	}
	if a.clock == nil {
		a.clock = time.Now
	}
	a.enabled.Store(true)
	return a
}

// SetEnabled turns gesture dispatch on or off. Disabled cycles still show
// frames but skip detection and recognition.
func (a *App) SetEnabled(enabled bool) {
	if a.enabled.Swap(enabled) != enabled {
		logger.WithField("enabled", enabled).Info("Gesture control toggled")
	}
}

// IsEnabled reports whether gesture dispatch is on.
func (a *App) IsEnabled() bool {
	return a.enabled.Load()
}

// Frames returns how many frames have been read.
func (a *App) Frames() int64 {
	return a.frames.Load()
}

// Pipeline returns the recognition pipeline.
func (a *App) Pipeline() *Pipeline {
	return a.pipeline
}

// Run opens the camera and processes frames until ctx is done, the user quits
// from the display, or a frame cannot be read. Quitting and cancellation return
// nil. A failed read returns an error wrapping capture.ErrFrameRead.
func (a *App) Run(ctx context.Context) error {
	if err := a.camera.Open(); err != nil {
		return err
	}
	defer func() {
		if err := a.camera.Close(); err != nil {
			logger.WithError(err).Warn("Error closing camera")
		}
	}()

	logger.Info("Detection loop started")
	defer logger.Info("Detection loop stopped")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		quit, err := a.step(ctx)
		if err != nil {
			return err
		}
		if quit {
			logger.Info("Quit requested")
			return nil
		}
	}
}

// step handles one frame and reports whether the user asked to quit.
func (a *App) step(ctx context.Context) (bool, error) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		if errors.Is(err, capture.ErrFrameRead) {
			return false, err
		}
		return false, fmt.Errorf("%w: %v", capture.ErrFrameRead, err)
	}
	defer frame.Close()
	a.frames.Add(1)

	info := overlay.Info{Paused: !a.IsEnabled()}

	if a.IsEnabled() {
		hands, err := a.detector.Detect(frame)
		if err != nil {
			logger.WithError(err).Warn("Hand detection failed")
		} else {
			hand := detector.First(hands)
			res := a.pipeline.Process(ctx, hand, a.clock())
			info.Hand = hand
			info.Gesture = res.Gesture
			info.Fingers = res.Fingers
		}
	}

	return a.display.Show(frame, info), nil
}

// Close releases the detector and the display and stops pipeline listeners.
func (a *App) Close() error {
	var errs []error
	a.closeOnce.Do(func() {
		if a.pipeline != nil {
			a.pipeline.Close()
		}
		if a.detector != nil {
			if err := a.detector.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close detector: %w", err))
			}
		}
		if err := a.display.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close display: %w", err))
		}
	})
	return errors.Join(errs...)
}
