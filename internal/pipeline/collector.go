package pipeline

import (
	"sort"
	"sync"
	"time"

	"github.com/backmassage/photostamp/internal/apply"
	"github.com/backmassage/photostamp/internal/locate"
)

// FileIssue pairs a file with the reason it did not fully succeed.
type FileIssue struct {
	Path   string
	Reason string
}

// RunSummary is the immutable result of a run. ResolvedElsewhere overlaps
// the outcome counts: a file resolved elsewhere is also applied.
type RunSummary struct {
	RunID       string
	DryRun      bool
	Interrupted bool

	Total     int // Media files discovered.
	Processed int // Files that reached Recorded.

	Success           int
	PartialSuccess    int
	ResolvedElsewhere int
	Unresolved        int
	Failed            int
	ManuallyAssigned  int
	ParseWarnings     int

	UnresolvedPaths []string // Sorted.
	Partials        []FileIssue
	Failures        []FileIssue

	Elapsed time.Duration
}

// Collector is the single accumulation point for per-file results. Safe
// for concurrent use.
type Collector struct {
	mu         sync.Mutex
	s          RunSummary
	unresolved map[string]bool
	start      time.Time
}

// NewCollector starts the run clock.
func NewCollector(runID string, dryRun bool, total int) *Collector {
	return &Collector{
		s:          RunSummary{RunID: runID, DryRun: dryRun, Total: total},
		unresolved: make(map[string]bool),
		start:      time.Now(),
	}
}

// RecordUnresolved records a file for which no record was found.
func (c *Collector) RecordUnresolved(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Processed++
	c.unresolved[path] = true
}

// RecordOutcome records a located file and the outcome of applying it.
func (c *Collector) RecordOutcome(path string, res locate.Result, out apply.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.Processed++
	if res.Kind == locate.ResolvedElsewhere {
		c.s.ResolvedElsewhere++
	}
	c.addOutcome(path, out)
}

// RecordManual records the outcome of applying an operator-entered date to
// a previously unresolved file.
func (c *Collector) RecordManual(path string, out apply.Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.unresolved, path)
	c.s.ManuallyAssigned++
	c.addOutcome(path, out)
}

// ParseWarning counts one record that decoded with warnings or not at all.
func (c *Collector) ParseWarning() {
	c.mu.Lock()
	c.s.ParseWarnings++
	c.mu.Unlock()
}

// SetInterrupted marks the run as cancelled before every file was processed.
func (c *Collector) SetInterrupted() {
	c.mu.Lock()
	c.s.Interrupted = true
	c.mu.Unlock()
}

// UnresolvedPaths returns the currently unresolved paths, sorted.
func (c *Collector) UnresolvedPaths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sortedUnresolved()
}

// Summary returns a snapshot. Slices in the result are not shared with the
// collector.
func (c *Collector) Summary() RunSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.s
	s.UnresolvedPaths = c.sortedUnresolved()
	s.Unresolved = len(s.UnresolvedPaths)
	s.Partials = sortedIssues(c.s.Partials)
	s.Failures = sortedIssues(c.s.Failures)
	s.Elapsed = time.Since(c.start)
	return s
}

func (c *Collector) addOutcome(path string, out apply.Outcome) {
	switch out.Kind {
	case apply.Success:
		c.s.Success++
	case apply.PartialSuccess:
		c.s.PartialSuccess++
		c.s.Partials = append(c.s.Partials, FileIssue{Path: path, Reason: out.Reason})
	case apply.Failed:
		c.s.Failed++
		c.s.Failures = append(c.s.Failures, FileIssue{Path: path, Reason: out.Reason})
	}
}

func (c *Collector) sortedUnresolved() []string {
	out := make([]string, 0, len(c.unresolved))
	for p := range c.unresolved {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func sortedIssues(in []FileIssue) []FileIssue {
	out := append([]FileIssue(nil), in...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
