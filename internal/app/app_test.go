package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/overlay"
)

// fakeClock advances one second per call.
func fakeClock() func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return epoch.Add(time.Duration(n) * time.Second)
	}
}

type loopFixture struct {
	app      *App
	camera   *capture.MockCamera
	detector *detector.MockDetector
	injector *action.RecordingInjector
	display  *overlay.Headless
}

func newLoopFixture(t *testing.T, frames int, display overlay.Display) *loopFixture {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping OpenCV-backed loop test in short mode")
	}

	mats := capture.BlankFrames(frames)
	t.Cleanup(func() {
		for _, m := range mats {
			m.Close()
		}
	})

	p, rec := newTestPipeline(t, gesture.StrategyGeometry)
	f := &loopFixture{
		camera:   capture.NewMockCamera(mats, false),
		detector: detector.NewMockDetector(),
		injector: rec,
	}
	if display == nil {
		f.display = &overlay.Headless{}
		display = f.display
	}
	f.app = New(Config{
		Camera:   f.camera,
		Detector: f.detector,
		Pipeline: p,
		Display:  display,
		Clock:    fakeClock(),
	})
	return f
}

func TestApp_Run_DispatchesUntilFramesRunOut(t *testing.T) {
	f := newLoopFixture(t, 6, nil)
	fist := detector.FistLandmarks()
	peace := detector.PeaceLandmarks()
	f.detector.SetSequence([][]detector.HandLandmarks{
		{fist},  // t=1 accepted
		{fist},  // t=2 cooldown
		nil,     // t=3 reset
		{peace}, // t=4 accepted
		{fist},  // t=5 cooldown
	})

	err := f.app.Run(context.Background())
	if !errors.Is(err, capture.ErrFrameRead) {
		t.Fatalf("Run() error = %v, want ErrFrameRead", err)
	}

	if got := keys(f.injector.Pressed()); !equalKeys(got, action.KeySpace, action.KeyRight) {
		t.Errorf("pressed = %v, want [space right]", got)
	}
	if f.app.Frames() != 6 || f.display.Shown() != 6 {
		t.Errorf("frames = %d, shown = %d, want 6", f.app.Frames(), f.display.Shown())
	}
	if f.camera.IsOpen() {
		t.Error("camera left open")
	}
}

func TestApp_Run_Disabled(t *testing.T) {
	f := newLoopFixture(t, 3, nil)
	f.detector.SetHands([]detector.HandLandmarks{detector.FistLandmarks()})
	f.app.SetEnabled(false)

	if err := f.app.Run(context.Background()); !errors.Is(err, capture.ErrFrameRead) {
		t.Fatalf("Run() error = %v", err)
	}
	if f.detector.Calls() != 0 {
		t.Errorf("detector called %d times while disabled", f.detector.Calls())
	}
	if n := len(f.injector.Pressed()); n != 0 {
		t.Errorf("pressed %d keys while disabled", n)
	}
	if f.display.Shown() != 3 {
		t.Errorf("shown = %d, frames must still be displayed", f.display.Shown())
	}
}

func TestApp_Run_DetectorErrorContinues(t *testing.T) {
	f := newLoopFixture(t, 4, nil)
	f.detector.SetError(errors.New("service crashed"))

	if err := f.app.Run(context.Background()); !errors.Is(err, capture.ErrFrameRead) {
		t.Fatalf("Run() error = %v", err)
	}
	if f.detector.Calls() != 4 {
		t.Errorf("detector calls = %d, want 4", f.detector.Calls())
	}
	if stats := f.app.Pipeline().Stats(); stats.Cycles != 0 {
		t.Errorf("pipeline ran %d cycles on failed detections", stats.Cycles)
	}
}

func TestApp_Run_CancelledContext(t *testing.T) {
	f := newLoopFixture(t, 2, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := f.app.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if f.camera.Reads() != 0 {
		t.Errorf("read %d frames after cancel", f.camera.Reads())
	}
}

// quitAfter asks to quit on the n-th frame.
type quitAfter struct {
	n, shown int
}

func (q *quitAfter) Show(*gocv.Mat, overlay.Info) bool {
	q.shown++
	return q.shown >= q.n
}

func (q *quitAfter) Close() error { return nil }

func TestApp_Run_QuitFromDisplay(t *testing.T) {
	f := newLoopFixture(t, 5, &quitAfter{n: 2})
	f.camera.SetLoop(true)

	if err := f.app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v, want nil", err)
	}
	if f.app.Frames() != 2 {
		t.Errorf("frames = %d, want 2", f.app.Frames())
	}
}

// brokenCamera cannot be opened.
type brokenCamera struct{}

func (brokenCamera) Open() error                   { return capture.ErrCameraNotOpen }
func (brokenCamera) Close() error                  { return nil }
func (brokenCamera) ReadFrame() (*gocv.Mat, error) { return nil, capture.ErrCameraNotOpen }
func (brokenCamera) SetFPS(int)                    {}
func (brokenCamera) FPS() int                      { return 0 }
func (brokenCamera) IsOpen() bool                  { return false }

func TestApp_Run_CameraUnavailable(t *testing.T) {
	p, _ := newTestPipeline(t, gesture.StrategyCounting)
	a := New(Config{Camera: brokenCamera{}, Detector: detector.NewMockDetector(), Pipeline: p})

	if err := a.Run(context.Background()); !errors.Is(err, capture.ErrCameraNotOpen) {
		t.Errorf("Run() error = %v, want ErrCameraNotOpen", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestApp_SetEnabled(t *testing.T) {
	p, _ := newTestPipeline(t, gesture.StrategyCounting)
	a := New(Config{Camera: brokenCamera{}, Pipeline: p})

	if !a.IsEnabled() {
		t.Error("App should start enabled")
	}
	a.SetEnabled(false)
	if a.IsEnabled() {
		t.Error("SetEnabled(false) had no effect")
	}
	a.SetEnabled(true)
	if !a.IsEnabled() {
		t.Error("SetEnabled(true) had no effect")
	}
}

func TestBanner(t *testing.T) {
	text := Banner(gesture.StrategyGeometry)
	for _, want := range []string{"geometry strategy", "Thumbs down", "Volume -", "Pinch", "Fullscreen", overlay.QuitHint} {
		if !strings.Contains(text, want) {
			t.Errorf("banner missing %q:\n%s", want, text)
		}
	}
	if !strings.Contains(Banner(gesture.StrategyCounting), "4 fingers (no thumb)") {
		t.Error("counting banner should list counting poses")
	}
}
