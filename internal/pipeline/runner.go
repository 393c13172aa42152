package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/backmassage/photostamp/internal/apply"
	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/locate"
	"github.com/backmassage/photostamp/internal/logging"
	"github.com/backmassage/photostamp/internal/media"
	"github.com/backmassage/photostamp/internal/sidecar"
)

// Applier applies a record to one media file. *apply.Writer implements it.
type Applier interface {
	Apply(ctx context.Context, f media.File, rec sidecar.Record, dryRun bool) apply.Outcome
}

// Options carries the collaborators of a run.
type Options struct {
	Writer Applier

	// Manual-phase terminal. Default to os.Stdin and os.Stdout.
	Input  io.Reader
	Output io.Writer
}

type job struct {
	n    int
	file media.File
}

// Run is the top-level entry point. It discovers files, indexes records,
// processes every file on a bounded worker pool, runs the manual phase when
// enabled, and returns the summary. Errors are invocation errors (the work
// directory cannot be walked); per-file problems only show in the summary.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, opts Options) (RunSummary, error) {
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	files, err := Discover(cfg.WorkDir)
	if err != nil {
		return RunSummary{}, fmt.Errorf("discover %s: %w", cfg.WorkDir, err)
	}
	ix, err := locate.NewIndex(cfg.WorkDir)
	if err != nil {
		return RunSummary{}, fmt.Errorf("index %s: %w", cfg.WorkDir, err)
	}

	runID := uuid.NewString()
	c := NewCollector(runID, cfg.DryRun, len(files))
	logBatchHeader(cfg, log, runID, len(files), ix.Records())

	p := &processor{
		cfg:     cfg,
		log:     log,
		loc:     locate.New(ix),
		writer:  opts.Writer,
		c:       c,
		total:   len(files),
		workDir: filepath.Clean(cfg.WorkDir),
	}
	p.runPool(ctx, files)

	if ctx.Err() != nil {
		c.SetInterrupted()
		log.Warn("Interrupted")
	} else if cfg.Manual {
		byPath := make(map[string]media.File, len(files))
		for _, f := range files {
			byPath[f.Path] = f
		}
		m := &manualPhase{cfg: cfg, log: log, writer: opts.Writer, c: c, files: byPath}
		m.run(ctx, opts.Input, opts.Output)
	}

	s := c.Summary()
	logSummary(log, s)
	return s, nil
}

// processor holds what every worker shares. Only c is mutable.
type processor struct {
	cfg     *config.Config
	log     *logging.Logger
	loc     *locate.Locator
	writer  Applier
	c       *Collector
	total   int
	workDir string
	done    atomic.Int64
}

// runPool feeds files to cfg.Workers workers and waits for them. Workers
// check for cancellation before taking each file.
func (p *processor) runPool(ctx context.Context, files []media.File) {
	jobs := make(chan job)
	var g errgroup.Group
	for i := 0; i < p.cfg.Workers; i++ {
		g.Go(func() error {
			for j := range jobs {
				if ctx.Err() != nil {
					return nil
				}
				p.processFile(ctx, j)
			}
			return nil
		})
	}

feed:
	for i, f := range files {
		select {
		case jobs <- job{n: i + 1, file: f}:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	g.Wait()
}

// processFile handles one media file: locate → parse → apply → record.
func (p *processor) processFile(ctx context.Context, j job) {
	f := j.file
	rel := p.rel(f.Path)

	// --- Locate ---
	res := p.loc.Locate(f)
	p.logTrail(rel, res)
	if res.Kind == locate.Unresolved {
		p.c.RecordUnresolved(f.Path)
		p.log.Warn("[%d/%d] No metadata record: %s", p.progress(), p.total, rel)
		return
	}

	// --- Parse ---
	rec, err := sidecar.Parse(res.Record)
	if err != nil {
		p.c.ParseWarning()
		p.log.Warn("%s: %v", rel, err)
	} else if len(rec.Warnings) > 0 {
		p.c.ParseWarning()
		for _, w := range rec.Warnings {
			p.log.Warn("%s: %s: %s", rel, p.rel(res.Record), w)
		}
	}

	// --- Apply ---
	out := p.writer.Apply(ctx, f, rec, p.cfg.DryRun)
	p.c.RecordOutcome(f.Path, res, out)

	n := p.progress()
	where := ""
	if res.Kind == locate.ResolvedElsewhere {
		where = " (record in " + p.rel(filepath.Dir(res.Record)) + ")"
	}
	prefix := ""
	if p.cfg.DryRun {
		prefix = "[DRY] "
	}
	switch out.Kind {
	case apply.Success:
		p.log.Success("[%d/%d] %s%s%s", n, p.total, prefix, rel, where)
	case apply.PartialSuccess:
		p.log.Warn("[%d/%d] %s%s: timestamps set, embedded write failed: %s", n, p.total, prefix, rel, out.Reason)
	case apply.Failed:
		p.log.Error("[%d/%d] %s%s: %s", n, p.total, prefix, rel, out.Reason)
	}
	for _, s := range out.Steps {
		p.log.Debug(p.cfg.Debug, "  %s", s)
	}
}

func (p *processor) progress() int64 { return p.done.Add(1) }

// logTrail logs every rule evaluated for a file when --debug is set.
func (p *processor) logTrail(rel string, res locate.Result) {
	if !p.cfg.Debug {
		return
	}
	p.log.Debug(true, "%s [%s]", rel, res.Kind)
	for _, a := range res.Trail {
		if a.Note != "" {
			p.log.Debug(true, "  %-14s %s", a.Rule, a.Note)
			continue
		}
		hit := "miss"
		if a.Record != "" {
			hit = "hit " + p.rel(a.Record)
		}
		via := ""
		if a.Via != "" {
			via = " via " + filepath.Base(a.Via)
		}
		p.log.Debug(true, "  %-14s %-9s %q%s: %s", a.Rule, a.Candidate.Rule, a.Candidate.Name, via, hit)
	}
}

// rel shortens path for logs; it falls back to path itself.
func (p *processor) rel(path string) string {
	if r, err := filepath.Rel(p.workDir, path); err == nil {
		return r
	}
	return path
}
