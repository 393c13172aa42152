// Package config holds runtime configuration: defaults, CLI flag parsing,
// the optional YAML config file, and validation.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// MaxWorkers caps --workers. Each worker may hold its own exiftool process.
const MaxWorkers = 64

// Config holds all runtime settings. It is populated by [DefaultConfig],
// optionally overlaid by a YAML file, and then by [ParseFlags] before being
// passed (by pointer) to packages that need it.
type Config struct {
	// Paths (set from positional args).
	WorkDir string

	// Behavior flags.
	DryRun   bool
	Manual   bool   // Prompt for dates of unresolved files after the automatic pass.
	Workers  int    // Default: runtime.NumCPU(), capped at MaxWorkers.
	TimeZone string // Location for embedded wall-clock times and manual entry. Default: "Local".

	// External tools.
	ExiftoolPath string // Empty means look up "exiftool" on PATH.

	// Display and logging.
	Debug      bool
	ColorMode  ColorMode // Default: "auto".
	LogFile    string    // Optional log file path.
	ConfigFile string    // Optional YAML config file.
	CheckOnly  bool      // Run --check diagnostics and exit.

	location *time.Location
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// the config file and [ParseFlags] apply overrides.
func DefaultConfig() Config {
	workers := runtime.NumCPU()
	if workers > MaxWorkers {
		workers = MaxWorkers
	}
	return Config{
		DryRun:    false,
		Manual:    false,
		Workers:   workers,
		TimeZone:  "Local",
		Debug:     false,
		ColorMode: ColorAuto,
		CheckOnly: false,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum and range fields and resolves the time zone. When
// not in CheckOnly mode, it also requires a working directory.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	if c.Workers < 1 || c.Workers > MaxWorkers {
		return fmt.Errorf("invalid workers %d (use 1-%d)", c.Workers, MaxWorkers)
	}

	loc, err := loadLocation(c.TimeZone)
	if err != nil {
		return err
	}
	c.location = loc

	if c.CheckOnly {
		return nil
	}
	if c.WorkDir == "" {
		return errors.New("need exactly one work_dir")
	}
	return nil
}

// Location returns the resolved time zone. Before [Config.Validate] has run
// it falls back to time.Local.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func loadLocation(name string) (*time.Location, error) {
	switch strings.TrimSpace(name) {
	case "", "Local", "local":
		return time.Local, nil
	case "UTC", "utc":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", name, err)
	}
	return loc, nil
}
