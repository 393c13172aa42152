package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into behavior, display, and utility. Values from the
// optional --config file are applied first; flags the user passed
// explicitly win over the file.

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/pflag"
)

// ErrHelp is returned by [ParseArgs] after --help or --version output has
// been printed. Callers should exit successfully.
var ErrHelp = errors.New("help requested")

// ParseFlags parses os.Args into cfg.
func ParseFlags(cfg *Config, version string) error {
	return ParseArgs(cfg, os.Args[1:], version, os.Stderr)
}

// ParseArgs parses args into cfg. Help and version text go to out. On error
// it returns non-nil (e.g. unknown flag, missing positional arg, unreadable
// config file).
func ParseArgs(cfg *Config, args []string, version string, out io.Writer) error {
	fs := pflag.NewFlagSet("photostamp", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	var u utilityFlags
	var color colorFlags

	defineBehaviorFlags(fs, cfg)
	defineDisplayFlags(fs, cfg, &color)
	defineUtilityFlags(fs, cfg, &u)

	if err := fs.Parse(args); err != nil {
		return err
	}

	if u.showHelp {
		printUsage(out, version)
		return ErrHelp
	}
	if u.showVersion {
		fmt.Fprintln(out, "photostamp v"+version)
		return ErrHelp
	}

	if cfg.ConfigFile != "" {
		fc, err := LoadFile(cfg.ConfigFile)
		if err != nil {
			return err
		}
		if err := fc.applyTo(cfg, fs.Changed); err != nil {
			return err
		}
	}

	applyColorFlags(cfg, &color)
	return parsePositionalArgs(fs, cfg)
}

// utilityFlags trigger output and an early return instead of a run.
type utilityFlags struct {
	showVersion bool
	showHelp    bool
}

// colorFlags are applied after Parse so --no-color beats --color.
type colorFlags struct {
	forceColor bool
	noColor    bool
}

// defineBehaviorFlags registers dry-run, manual, workers, tz, exiftool.
func defineBehaviorFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.BoolVarP(&cfg.DryRun, "dry-run", "n", cfg.DryRun, "Report what would change without writing files")
	fs.BoolVar(&cfg.Manual, "manual", cfg.Manual, "Prompt for dates of unresolved files after the run")
	fs.IntVarP(&cfg.Workers, "workers", "w", cfg.Workers, "Number of files processed in parallel")
	fs.StringVar(&cfg.TimeZone, "tz", cfg.TimeZone, "Time zone for embedded capture times and manual entry")
	fs.StringVar(&cfg.ExiftoolPath, "exiftool", cfg.ExiftoolPath, "Path to the exiftool binary")
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
}

// defineDisplayFlags registers --debug, --color, --no-color, --log.
func defineDisplayFlags(fs *pflag.FlagSet, cfg *Config, c *colorFlags) {
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Log every lookup rule evaluated per file")
	fs.BoolVar(&c.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&c.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&cfg.LogFile, "log", "l", cfg.LogFile, "Append logs to file")
}

// defineUtilityFlags registers --check, --version and --help.
func defineUtilityFlags(fs *pflag.FlagSet, cfg *Config, u *utilityFlags) {
	fs.BoolVarP(&cfg.CheckOnly, "check", "c", cfg.CheckOnly, "Run system diagnostics and exit")
	fs.BoolVarP(&u.showVersion, "version", "V", false, "Print version and exit")
	fs.BoolVarP(&u.showHelp, "help", "h", false, "Show this help and exit")
}

func applyColorFlags(cfg *Config, c *colorFlags) {
	if c.noColor {
		cfg.ColorMode = ColorNever
	} else if c.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets WorkDir from the single positional arg when not
// in CheckOnly mode.
func parsePositionalArgs(fs *pflag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		return nil
	}
	if len(args) != 1 {
		return fmt.Errorf("need exactly one work_dir, got %d arguments", len(args))
	}
	cfg.WorkDir = NormalizeDirArg(args[0])
	return nil
}

// printUsage writes the help text to out. Column-aligned for readability.
func printUsage(out io.Writer, version string) {
	const col1 = 28 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "photostamp v" + version + " - restore Takeout dates and locations into media files"},
		{"", ""},
		{"  photostamp [OPTIONS] <work_dir>", ""},
		{"", ""},
		{"Behavior", ""},
		{"  -n, --dry-run", "Report outcomes without writing files"},
		{"  -w, --workers <n>", "Files processed in parallel (default: CPU count)"},
		{"  --manual", "Prompt for dates of unresolved files"},
		{"  --tz <zone>", "Zone for capture times (default: Local)"},
		{"  --exiftool <path>", "exiftool binary (default: from PATH)"},
		{"  --config <file>", "YAML config file (flags override it)"},
		{"", ""},
		{"Display", ""},
		{"  --debug", "Log every lookup rule evaluated per file"},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check", "System diagnostics (exiftool)"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(out)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(out, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(out, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(out, "%s%*s%s\n", l.flags, padding, "", strings.TrimSpace(l.desc))
	}
}
