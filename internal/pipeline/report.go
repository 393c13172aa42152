package pipeline

import (
	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/display"
	"github.com/backmassage/photostamp/internal/logging"
)

func logBatchHeader(cfg *config.Config, log *logging.Logger, runID string, files, records int) {
	log.Info("Run %s", runID)
	log.Info("Found %d media files and %d metadata records in %s", files, records, cfg.WorkDir)
	log.Info("Workers: %d, time zone: %s", cfg.Workers, cfg.Location())
	if cfg.DryRun {
		log.Info("Dry run: no file will be modified")
	}
	if cfg.Manual {
		log.Info("Manual date entry after the automatic pass")
	}
}

func logSummary(log *logging.Logger, s RunSummary) {
	log.Info("==============================")
	if s.DryRun {
		log.Info("Dry run summary (%s):", display.FormatDuration(s.Elapsed))
	} else {
		log.Info("Summary (%s):", display.FormatDuration(s.Elapsed))
	}
	log.Info("  Processed:            %d of %d (%s)", s.Processed, s.Total, display.FormatRate(s.Processed, s.Elapsed))
	log.Success("  Success:              %d", s.Success)
	log.Info("  Partial (warnings):   %d", s.PartialSuccess)
	log.Info("  Record elsewhere:     %d", s.ResolvedElsewhere)
	log.Info("  Unresolved:           %d", s.Unresolved)
	log.Info("  Failed:               %d", s.Failed)
	if s.ManuallyAssigned > 0 {
		log.Info("  Manually assigned:    %d", s.ManuallyAssigned)
	}
	if s.ParseWarnings > 0 {
		log.Info("  Record warnings:      %d", s.ParseWarnings)
	}
	if s.Interrupted {
		log.Warn("Run interrupted; %d file(s) not processed", s.Total-s.Processed)
	}

	if len(s.Partials) > 0 {
		log.Warn("Partially applied:")
		for _, p := range s.Partials {
			log.Warn("  - %s: %s", p.Path, p.Reason)
		}
	}
	if len(s.Failures) > 0 {
		log.Error("Failed:")
		for _, f := range s.Failures {
			log.Error("  - %s: %s", f.Path, f.Reason)
		}
	}
	if len(s.UnresolvedPaths) > 0 {
		log.Warn("No metadata record:")
		for _, p := range s.UnresolvedPaths {
			log.Warn("  - %s", p)
		}
	}
}
