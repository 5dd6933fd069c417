// Command mudra controls media playback with hand gestures seen by the webcam.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/action"
	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/debounce"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/logger"
	"github.com/ayusman/mudra/internal/overlay"
	"github.com/ayusman/mudra/internal/plugin"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/tray"
)

// The preview window and the tray both need the main OS thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to the YAML config file (default ~/.mudra/config.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		return 1
	}
	if err := logger.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		return 1
	}

	session := uuid.NewString()
	logger.SetSession(session)

	classifier, err := gesture.NewClassifier(cfg.Strategy(), cfg.Thresholds())
	if err != nil {
		fmt.Fprintf(os.Stderr, "mudra: %v\n", err)
		return 1
	}

	pipeline := app.NewPipeline(
		classifier,
		debounce.New(cfg.Debounce.Cooldown),
		action.NewDispatcher(newInjector(cfg)),
	)

	det, err := detector.NewMediaPipeDetector(cfg.DetectorConfig())
	if err != nil {
		fmt.Println("Hand detection is not available:", err)
		fmt.Println("  Install the detector with: pip install mediapipe opencv-python numpy")
		fmt.Println("  and place mediapipe_service.py in ./scripts or ~/.mudra/scripts")
		return 0
	}

	var display overlay.Display = &overlay.Headless{}
	if cfg.Display.Enabled {
		display = overlay.NewWindow()
	}

	a := app.New(app.Config{
		Camera:   capture.NewCamera(cfg.CameraOptions()),
		Detector: det,
		Pipeline: pipeline,
		Display:  display,
	})
	defer a.Close()

	fmt.Print(app.Banner(cfg.Strategy()))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	statusURL := ""
	if cfg.Server.Addr != "" {
		srv := server.New(server.Config{App: a, Session: session})
		pipeline.OnAccepted(srv.Hub().Publish)
		statusURL = "http://" + localAddr(cfg.Server.Addr) + "/api/status"
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Server.Addr); err != nil {
				logger.WithError(err).Error("Status server failed")
			}
		}()
	}

	if !cfg.Tray.Enabled {
		return report(a.Run(ctx))
	}

	t := tray.New(a.IsEnabled())
	t.OnToggle(a.SetEnabled)
	t.OnQuit(stop)
	if statusURL != "" {
		t.OnOpenStatus(func() { openBrowser(statusURL) })
	}
	pipeline.OnAccepted(func(r app.Result) { t.SetLastGesture(r.Gesture.String()) })

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		t.Quit()
	}()
	t.Run()
	stop()

	return report(<-done)
}

// newInjector builds the configured key injector, falling back to robotgo
// when the plugin cannot be loaded.
func newInjector(cfg *config.Config) action.Injector {
	if cfg.Injector.Kind != config.InjectorPlugin {
		return action.RobotgoInjector{}
	}

	mgr := plugin.NewManager(cfg.Injector.PluginDir)
	if err := mgr.Discover(); err != nil {
		logger.WithError(err).Warn("Plugin discovery failed, using robotgo")
		return action.RobotgoInjector{}
	}

	inj, err := action.NewPluginInjector(mgr, cfg.Injector.PluginName, plugin.NewExecutor(cfg.Injector.Timeout))
	if err != nil {
		logger.WithError(err).WithField("dir", mgr.PluginDir()).Warn("Keyboard plugin unavailable, using robotgo")
		return action.RobotgoInjector{}
	}
	return inj
}

// report prints a diagnostic for err. Camera failures are not crashes, so the
// exit code stays 0.
func report(err error) int {
	switch {
	case err == nil:
	case errors.Is(err, capture.ErrCameraNotOpen):
		fmt.Println("Cannot open the camera:", err)
		fmt.Println("  Check that the webcam is connected and that camera access is allowed.")
	case errors.Is(err, capture.ErrFrameRead):
		fmt.Println("The camera stopped delivering frames:", err)
	default:
		fmt.Println("mudra stopped:", err)
	}
	fmt.Println("Bye.")
	return 0
}

func localAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

func openBrowser(url string) {
	name := "xdg-open"
	if runtime.GOOS == "darwin" {
		name = "open"
	}
	if err := exec.Command(name, url).Start(); err != nil {
		logger.WithError(err).Warn("Could not open browser")
	}
}
