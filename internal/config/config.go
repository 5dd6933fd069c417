// Package config loads the YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/debounce"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/gesture"
	"github.com/ayusman/mudra/internal/plugin"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Injector kinds.
const (
	InjectorRobotgo = "robotgo"
	InjectorPlugin  = "plugin"
)

type Camera struct {
	Device int  `yaml:"device"`
	Mirror bool `yaml:"mirror"`
	Width  int  `yaml:"width"`
	Height int  `yaml:"height"`
}

type Detector struct {
	MaxHands               int     `yaml:"max_hands"`
	MinDetectionConfidence float64 `yaml:"min_detection_confidence"`
	MinTrackingConfidence  float64 `yaml:"min_tracking_confidence"`
}

type Classifier struct {
	Strategy       string  `yaml:"strategy"`
	FistThreshold  float64 `yaml:"fist_threshold"`
	PinchThreshold float64 `yaml:"pinch_threshold"`
}

type Debounce struct {
	Cooldown time.Duration `yaml:"cooldown"`
}

type Injector struct {
	Kind       string        `yaml:"kind"`
	PluginDir  string        `yaml:"plugin_dir"`
	PluginName string        `yaml:"plugin_name"`
	Timeout    time.Duration `yaml:"timeout"`
}

type Display struct {
	Enabled bool `yaml:"enabled"`
}

type Tray struct {
	Enabled bool `yaml:"enabled"`
}

type Server struct {
	// Addr is the listen address. Empty disables the server.
	Addr string `yaml:"addr"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root of the configuration file.
type Config struct {
	Camera     Camera     `yaml:"camera"`
	Detector   Detector   `yaml:"detector"`
	Classifier Classifier `yaml:"classifier"`
	Debounce   Debounce   `yaml:"debounce"`
	Injector   Injector   `yaml:"injector"`
	Display    Display    `yaml:"display"`
	Tray       Tray       `yaml:"tray"`
	Server     Server     `yaml:"server"`
	Log        Log        `yaml:"log"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	det := detector.DefaultConfig()
	th := gesture.DefaultThresholds()
	return &Config{
		Camera: Camera{
			Device: 0,
			Mirror: true,
			Width:  capture.DefaultWidth,
			Height: capture.DefaultHeight,
		},
		Detector: Detector{
			MaxHands:               det.MaxHands,
			MinDetectionConfidence: det.MinConfidence,
			MinTrackingConfidence:  det.MinTrackingConf,
		},
		Classifier: Classifier{
			Strategy:       string(gesture.StrategyGeometry),
			FistThreshold:  th.Fist,
			PinchThreshold: th.Pinch,
		},
		Debounce: Debounce{Cooldown: debounce.DefaultCooldown},
		Injector: Injector{
			Kind:       InjectorRobotgo,
			PluginDir:  defaultPluginDir(),
			PluginName: "keyboard",
			Timeout:    plugin.DefaultTimeout,
		},
		Display: Display{Enabled: true},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Dir returns ~/.mudra, or .mudra when the home directory is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".mudra"
	}
	return filepath.Join(home, ".mudra")
}

// DefaultPath is the file read when Load is given no path.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func defaultPluginDir() string {
	return filepath.Join(Dir(), "plugins")
}

// Load reads the file at path over the defaults and validates the result.
// With an empty path DefaultPath is used if it exists, otherwise the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return cfg, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks ranges and combinations. Errors wrap ErrInvalid.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
	}

	if _, err := gesture.ParseStrategy(c.Classifier.Strategy); err != nil {
		return invalid("classifier.strategy %q must be counting or geometry", c.Classifier.Strategy)
	}
	if c.Classifier.FistThreshold <= 0 {
		return invalid("classifier.fist_threshold must be positive")
	}
	if c.Classifier.PinchThreshold <= 0 {
		return invalid("classifier.pinch_threshold must be positive")
	}
	if c.Debounce.Cooldown <= 0 {
		return invalid("debounce.cooldown must be positive")
	}

	for _, conf := range []struct {
		name string
		v    float64
	}{
		{"detector.min_detection_confidence", c.Detector.MinDetectionConfidence},
		{"detector.min_tracking_confidence", c.Detector.MinTrackingConfidence},
	} {
		if conf.v < 0 || conf.v > 1 {
			return invalid("%s %v must be within [0, 1]", conf.name, conf.v)
		}
	}
	if c.Detector.MaxHands < 1 {
		return invalid("detector.max_hands must be at least 1")
	}

	if c.Camera.Device < 0 {
		return invalid("camera.device must not be negative")
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		return invalid("camera.width and camera.height must be positive")
	}

	switch c.Injector.Kind {
	case InjectorRobotgo:
	case InjectorPlugin:
		if c.Injector.PluginName == "" {
			return invalid("injector.plugin_name is required for the plugin injector")
		}
	default:
		return invalid("injector.kind %q must be robotgo or plugin", c.Injector.Kind)
	}

	if c.Display.Enabled && c.Tray.Enabled {
		return invalid("display and tray cannot both be enabled; both need the main thread")
	}

	return nil
}

// Thresholds returns the classifier thresholds.
func (c *Config) Thresholds() gesture.Thresholds {
	return gesture.Thresholds{Fist: c.Classifier.FistThreshold, Pinch: c.Classifier.PinchThreshold}
}

// Strategy returns the validated classifier strategy.
func (c *Config) Strategy() gesture.Strategy {
	s, _ := gesture.ParseStrategy(c.Classifier.Strategy)
	return s
}

// CameraOptions returns the capture options.
func (c *Config) CameraOptions() capture.Options {
	return capture.Options{
		Device: c.Camera.Device,
		Width:  c.Camera.Width,
		Height: c.Camera.Height,
		FPS:    capture.DefaultFPS,
		Mirror: c.Camera.Mirror,
	}
}

// DetectorConfig returns the detector settings.
func (c *Config) DetectorConfig() detector.Config {
	return detector.Config{
		MaxHands:        c.Detector.MaxHands,
		MinConfidence:   c.Detector.MinDetectionConfidence,
		MinTrackingConf: c.Detector.MinTrackingConfidence,
	}
}
