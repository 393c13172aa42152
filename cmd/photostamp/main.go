// Command photostamp restores capture dates and locations from Google
// Takeout metadata records into the media files they describe.
//
// It parses flags, validates configuration and the working directory, and
// either runs system diagnostics (--check) or the reconcile pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/backmassage/photostamp/internal/apply"
	"github.com/backmassage/photostamp/internal/check"
	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/display"
	"github.com/backmassage/photostamp/internal/exiftool"
	"github.com/backmassage/photostamp/internal/logging"
	"github.com/backmassage/photostamp/internal/pipeline"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

const (
	exitOK          = 0
	exitUsage       = 1
	exitInterrupted = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. Errors go to stderr until the logger exists.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, version); err != nil {
		if errors.Is(err, config.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(os.Stderr, "photostamp: %v\n", err)
		return exitUsage
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "photostamp: %v\n", err)
		return exitUsage
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "photostamp: %v\n", err)
		return exitUsage
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(os.Stdout, version)

	if cfg.CheckOnly {
		check.RunCheck(&cfg, log)
		return exitOK
	}

	if fi, err := os.Stat(cfg.WorkDir); err != nil || !fi.IsDir() {
		log.Error("Not a directory: %s", cfg.WorkDir)
		return exitUsage
	}

	log.Debug(cfg.Debug, "photostamp v%s (%s)", version, commit)
	if err := check.CheckDeps(&cfg); err != nil {
		log.Warn("%v", err)
		log.Warn("Only file times will be set; embedded writes will end as partial")
	}

	// Phase 3: Signal handling. Workers stop between files.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool := exiftool.NewPool(check.Binary(&cfg), cfg.Workers)
	defer func() {
		if err := pool.Close(); err != nil {
			log.Debug(cfg.Debug, "Closing exiftool: %v", err)
		}
	}()

	// Phase 4: Run pipeline (discover → locate → parse → apply).
	summary, err := pipeline.Run(ctx, &cfg, log, pipeline.Options{
		Writer: apply.NewWriter(&cfg, pool),
	})
	if err != nil {
		log.Error("%v", err)
		return exitUsage
	}
	if summary.Interrupted {
		return exitInterrupted
	}
	return exitOK
}
