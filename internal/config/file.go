package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// FileConfig mirrors the subset of [Config] that may be set from a YAML
// file. Pointer fields distinguish "absent" from zero values.
type FileConfig struct {
	DryRun   *bool   `yaml:"dry_run"`
	Manual   *bool   `yaml:"manual"`
	Workers  *int    `yaml:"workers"`
	TimeZone *string `yaml:"timezone"`
	Exiftool *string `yaml:"exiftool"`
	Debug    *bool   `yaml:"debug"`
	Color    *string `yaml:"color"`
	LogFile  *string `yaml:"log_file"`
}

// LoadFile reads and decodes a YAML config file. Unknown keys are an error
// so typos do not silently fall back to defaults.
func LoadFile(path string) (*FileConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	var fc FileConfig
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &fc, nil
}

// applyTo copies every value present in fc into cfg unless the matching
// flag was set on the command line (changed reports that by flag name).
func (fc *FileConfig) applyTo(cfg *Config, changed func(name string) bool) error {
	if fc.DryRun != nil && !changed("dry-run") {
		cfg.DryRun = *fc.DryRun
	}
	if fc.Manual != nil && !changed("manual") {
		cfg.Manual = *fc.Manual
	}
	if fc.Workers != nil && !changed("workers") {
		cfg.Workers = *fc.Workers
	}
	if fc.TimeZone != nil && !changed("tz") {
		cfg.TimeZone = *fc.TimeZone
	}
	if fc.Exiftool != nil && !changed("exiftool") {
		cfg.ExiftoolPath = *fc.Exiftool
	}
	if fc.Debug != nil && !changed("debug") {
		cfg.Debug = *fc.Debug
	}
	if fc.LogFile != nil && !changed("log") {
		cfg.LogFile = *fc.LogFile
	}
	if fc.Color != nil && !changed("color") && !changed("no-color") {
		switch mode := ColorMode(*fc.Color); mode {
		case ColorAuto, ColorAlways, ColorNever:
			cfg.ColorMode = mode
		default:
			return fmt.Errorf("invalid color %q in config (use 'auto', 'always' or 'never')", *fc.Color)
		}
	}
	return nil
}
