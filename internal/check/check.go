// Package check provides system diagnostics (--check mode) and pre-pipeline
// dependency validation (CheckDeps) for exiftool and the time zone database.
package check

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/media"
)

// Sentinel errors returned by CheckDeps.
var (
	ErrExiftoolNotFound = errors.New("exiftool not found")
	ErrExiftoolBroken   = errors.New("exiftool found but -ver failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the --check flow: exiftool availability and version, the
// configured time zone and the supported extensions. Informational only.
func RunCheck(cfg *config.Config, log Logger) {
	log.Info("=== System Check ===")

	checkExiftool(cfg, log)
	checkTimeZone(cfg, log)
	checkFormats(log)
}

// Binary returns the exiftool binary that will be used.
func Binary(cfg *config.Config) string {
	if cfg.ExiftoolPath != "" {
		return cfg.ExiftoolPath
	}
	return "exiftool"
}

func checkExiftool(cfg *config.Config, log Logger) {
	ver, err := exiftoolVersion(Binary(cfg))
	if err != nil {
		log.Error("%v", err)
		log.Warn("Embedded metadata cannot be written; files will end as partial")
		return
	}
	log.Success("exiftool: %s", ver)
}

func checkTimeZone(cfg *config.Config, log Logger) {
	loc := cfg.Location()
	log.Success("Time zone: %s (now %s)", loc, time.Now().In(loc).Format("-07:00"))
	if _, err := time.LoadLocation("Europe/Paris"); err != nil {
		log.Warn("No time zone database; only Local and UTC are usable with --tz")
	}
}

func checkFormats(log Logger) {
	var embedded, other []string
	for _, ext := range media.Extensions() {
		if f, _ := media.FormatOf("x" + ext); f.Embedded {
			embedded = append(embedded, ext)
		} else {
			other = append(other, ext)
		}
	}
	log.Info("Embedded metadata: %s", strings.Join(embedded, " "))
	log.Info("File times only:   %s", strings.Join(other, " "))
}

// CheckDeps is the pre-pipeline validation: exiftool must resolve and
// answer -ver. Returns a sentinel error on failure. Callers treat this as a
// warning since timestamps can still be applied without it.
func CheckDeps(cfg *config.Config) error {
	_, err := exiftoolVersion(Binary(cfg))
	return err
}

// --- internal helpers ---

// exiftoolVersion resolves bin and returns its -ver output.
func exiftoolVersion(bin string) (string, error) {
	path, err := exec.LookPath(bin)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrExiftoolNotFound, bin)
	}
	out, err := exec.Command(path, "-ver").Output()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExiftoolBroken, err)
	}
	return strings.TrimSpace(string(out)) + " (" + path + ")", nil
}
