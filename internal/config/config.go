// Package config loads runtime settings for handsign.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
)

const maxFileSize = 1 << 20

// Config holds the settings of a handsign process. Fields omitted from a
// config file keep their defaults.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `json:"addr"`
	// DataDir holds the database. Empty means ~/.handsign.
	DataDir  string `json:"data_dir"`
	CameraID int    `json:"camera_id"`
	// Interval is the detection period as a duration string like "100ms".
	Interval string `json:"interval"`
	// Tolerance is the direction tolerance in degrees.
	Tolerance       float64 `json:"tolerance"`
	AcceptThreshold float64 `json:"accept_threshold"`
	NoiseFloor      float64 `json:"noise_floor"`
	// Smoothing enables Kalman filtering of landmarks between frames.
	Smoothing bool `json:"smoothing"`
	// MotionGate skips detection on frames without visible motion.
	MotionGate bool `json:"motion_gate"`
	// Tray shows the current sign in the system tray.
	Tray bool `json:"tray"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:            ":8080",
		CameraID:        0,
		Interval:        "100ms",
		Tolerance:       45,
		AcceptThreshold: 0.85,
		NoiseFloor:      0,
		Smoothing:       false,
		MotionGate:      false,
		Tray:            false,
	}
}

// Load reads a JSON config file over the defaults. The file must have a
// .json extension and be at most 1MB.
func Load(path string) (Config, error) {
	cfg := Default()

	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return cfg, errors.Errorf("config file must have .json extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "stat config file")
	}
	if info.Size() > maxFileSize {
		return cfg, errors.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, errors.Wrap(err, "read config file")
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config JSON")
	}
	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	d, err := time.ParseDuration(c.Interval)
	if err != nil {
		return errors.Wrapf(err, "interval %q", c.Interval)
	}
	if d <= 0 {
		return errors.Errorf("interval must be positive, got %s", d)
	}
	if c.Tolerance < 0 {
		return errors.Errorf("tolerance must be non-negative, got %v", c.Tolerance)
	}
	if c.AcceptThreshold <= 0 || c.AcceptThreshold > 1 {
		return errors.Errorf("accept_threshold must be in (0, 1], got %v", c.AcceptThreshold)
	}
	if c.NoiseFloor < 0 || c.NoiseFloor > 1 {
		return errors.Errorf("noise_floor must be in [0, 1], got %v", c.NoiseFloor)
	}
	if c.CameraID < 0 {
		return errors.Errorf("camera_id must be non-negative, got %d", c.CameraID)
	}
	return nil
}

// IntervalDuration returns the parsed detection period, falling back to
// 100ms when Interval is unparsable.
func (c Config) IntervalDuration() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

// ResolveDataDir returns DataDir, or ~/.handsign when it is empty.
func (c Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "get home directory")
	}
	return filepath.Join(home, ".handsign"), nil
}
