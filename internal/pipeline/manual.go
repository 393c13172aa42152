package pipeline

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/backmassage/photostamp/internal/apply"
	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/logging"
	"github.com/backmassage/photostamp/internal/media"
	"github.com/backmassage/photostamp/internal/sidecar"
)

// ManualLayout is the accepted manual date format.
const ManualLayout = "2006-01-02 15:04"

// manualRecord is the Record.Path given to operator-entered dates.
const manualRecord = "(manual entry)"

// manualPhase prompts for a date per unresolved file. It runs on the
// coordinating goroutine after the worker pool has stopped.
type manualPhase struct {
	cfg    *config.Config
	log    *logging.Logger
	writer Applier
	c      *Collector
	files  map[string]media.File
}

func (m *manualPhase) run(ctx context.Context, in io.Reader, out io.Writer) {
	paths := m.c.UnresolvedPaths()
	if len(paths) == 0 {
		return
	}
	sc := bufio.NewScanner(in)

	fmt.Fprintf(out, "\n%d file(s) have no metadata record:\n", len(paths))
	for _, p := range paths {
		fmt.Fprintf(out, "- %s\n", p)
	}
	fmt.Fprint(out, "\nSet dates manually for these files? (y/n) ")
	answer, ok := readLine(sc)
	if !ok || !isYes(answer) {
		return
	}

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(out, "\nDate for %s\nFormat YYYY-MM-DD HH:MM (Enter to skip): ", path)
		line, ok := readLine(sc)
		if !ok {
			return
		}
		if line == "" {
			continue
		}
		ts, err := time.ParseInLocation(ManualLayout, line, m.cfg.Location())
		if err != nil {
			m.log.Warn("Invalid date %q for %s, skipped", line, path)
			continue
		}

		f, known := m.files[path]
		if !known {
			continue
		}
		o := m.writer.Apply(ctx, f, sidecar.Record{Path: manualRecord, Taken: ts}, m.cfg.DryRun)
		m.c.RecordManual(path, o)
		switch o.Kind {
		case apply.Success:
			m.log.Success("Set %s to %s", path, ts.Format(ManualLayout))
		case apply.PartialSuccess:
			m.log.Warn("Set %s to %s, embedded write failed: %s", path, ts.Format(ManualLayout), o.Reason)
		default:
			m.log.Error("Could not set %s: %s", path, o.Reason)
		}
	}
}

func readLine(sc *bufio.Scanner) (string, bool) {
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func isYes(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes":
		return true
	}
	return false
}
