package apply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/exiftool"
	"github.com/backmassage/photostamp/internal/media"
	"github.com/backmassage/photostamp/internal/planner"
	"github.com/backmassage/photostamp/internal/probe"
	"github.com/backmassage/photostamp/internal/sidecar"
)

// ReasonCancelled is the PartialSuccess reason when the run is cancelled
// between the timestamp and embedded steps.
const ReasonCancelled = "cancelled before embedded write"

// EmbeddedWriter writes capture time and optional GPS into path in place.
// *exiftool.Pool implements it.
type EmbeddedWriter interface {
	Write(ctx context.Context, path string, ts time.Time, gps *sidecar.Coordinate) error
}

// Prober reads the metadata currently embedded in path.
type Prober func(path string) (*probe.Embedded, error)

// Writer applies records to media files. Safe for concurrent use on
// distinct files when its EmbeddedWriter is.
type Writer struct {
	cfg      *config.Config
	embedded EmbeddedWriter
	probe    Prober
	setTimes func(path string, t time.Time) error
}

// NewWriter returns a Writer that embeds through ew and probes with goexif.
func NewWriter(cfg *config.Config, ew EmbeddedWriter) *Writer {
	return &Writer{cfg: cfg, embedded: ew, probe: probe.Probe, setTimes: setFileTimes}
}

// Apply runs the timestamp and embedded steps for f. With dryRun set no
// file is persistently modified but the outcome kind is the one a live run
// would report.
func (w *Writer) Apply(ctx context.Context, f media.File, rec sidecar.Record, dryRun bool) Outcome {
	var current *probe.Embedded
	if f.SupportsEmbedded() {
		// Unreadable or absent EXIF just means "write it".
		current, _ = w.probe(f.Path)
	}
	plan := planner.BuildPlan(w.cfg, f, rec, current)
	if plan.Action == planner.ActionSkip {
		return failed(plan, plan.SkipReason)
	}

	// --- Step 1: filesystem timestamps ---
	var err error
	if dryRun {
		err = rewriteModTime(f.Path)
	} else {
		err = w.setTimes(f.Path, plan.Time)
	}
	if err != nil {
		return failed(plan, "set file times: "+describe(err))
	}

	if plan.Embed != planner.EmbedWrite {
		return Outcome{Kind: Success, Steps: plan.Steps(), Plan: plan}
	}

	// --- Step 2: embedded metadata ---
	if ctx.Err() != nil {
		return partial(plan, ReasonCancelled)
	}
	if err := checkImageContent(f.Path); err != nil {
		return partial(plan, err.Error())
	}
	if dryRun {
		err = w.writeScratch(ctx, plan)
	} else {
		err = w.embedded.Write(ctx, f.Path, plan.Time, plan.GPS)
	}
	if err != nil {
		return partial(plan, embeddedReason(err))
	}

	// The embedded write rewrote the file and its mtime.
	if !dryRun {
		if err := w.setTimes(f.Path, plan.Time); err != nil {
			return failed(plan, "set file times after embedded write: "+describe(err))
		}
	}
	return Outcome{Kind: Success, Steps: plan.Steps(), Plan: plan}
}

// rewriteModTime writes the current mtime back onto path. It exercises the
// same permission path as a real update and changes nothing.
func rewriteModTime(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chtimes(path, time.Time{}, fi.ModTime())
}

// checkImageContent rejects files whose bytes are not an image whatever
// their extension says; exiftool would refuse them anyway.
func checkImageContent(path string) error {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("read content: %s", describe(err))
	}
	if !strings.HasPrefix(m.String(), "image/") {
		return fmt.Errorf("%s: content is %s, not an image", exiftool.ReasonCorrupt, m.String())
	}
	return nil
}

// writeScratch runs the embedded write against a temporary copy placed next
// to the original, so a directory exiftool could not write to fails here too.
func (w *Writer) writeScratch(ctx context.Context, plan *planner.FilePlan) error {
	tmp, err := os.CreateTemp(filepath.Dir(plan.Path), ".photostamp-dry-*"+filepath.Ext(plan.Path))
	if err != nil {
		return scratchError(plan.Path, err)
	}
	scratch := tmp.Name()
	defer os.Remove(scratch)

	err = copyInto(tmp, plan.Path)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return scratchError(plan.Path, err)
	}
	return w.embedded.Write(ctx, scratch, plan.Time, plan.GPS)
}

func copyInto(dst *os.File, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(dst, in)
	return err
}

// scratchError reports a permission failure the way exiftool's own write
// would classify it.
func scratchError(path string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return &exiftool.WriteError{Path: path, Reason: exiftool.ReasonPermission, Err: err}
	}
	return fmt.Errorf("dry-run scratch: %w", err)
}

func embeddedReason(err error) string {
	var we *exiftool.WriteError
	switch {
	case errors.As(err, &we):
		return string(we.Reason) + ": " + firstLine(we.Err.Error())
	case errors.Is(err, exiftool.ErrUnavailable):
		return "exiftool unavailable"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ReasonCancelled
	}
	return describe(err)
}

// describe returns the bare errno text of a *PathError.
func describe(err error) string {
	var pe *os.PathError
	if errors.As(err, &pe) {
		return pe.Err.Error()
	}
	return err.Error()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
