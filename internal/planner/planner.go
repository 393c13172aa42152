package planner

import (
	"fmt"

	"github.com/backmassage/photostamp/internal/config"
	"github.com/backmassage/photostamp/internal/media"
	"github.com/backmassage/photostamp/internal/probe"
	"github.com/backmassage/photostamp/internal/sidecar"
)

// BuildPlan produces the FilePlan for f from its record and, for images,
// the embedded metadata currently in the file (nil when unknown).
func BuildPlan(cfg *config.Config, f media.File, rec sidecar.Record, current *probe.Embedded) *FilePlan {
	plan := &FilePlan{Path: f.Path, GPS: rec.GPS}

	ts, ok := rec.Timestamp()
	if !ok {
		plan.Action = ActionSkip
		plan.SkipReason = "record has no timestamp"
		return plan
	}
	plan.Time = ts.In(cfg.Location())

	switch {
	case !f.SupportsEmbedded():
		plan.Embed = EmbedNone
		plan.EmbedNote = fmt.Sprintf("%s %s has no embedded metadata block", f.Kind, f.Format.Name)
	case current.HasTime(plan.Time) && (plan.GPS == nil || current.HasPosition(plan.GPS.Latitude, plan.GPS.Longitude)):
		plan.Embed = EmbedCurrent
		plan.EmbedNote = "embedded metadata already current"
	default:
		plan.Embed = EmbedWrite
	}
	return plan
}

// Steps describes the mutations the plan performs, for logs and dry runs.
func (p *FilePlan) Steps() []string {
	if p.Action == ActionSkip {
		return nil
	}
	steps := []string{"set file times to " + p.Time.Format("2006-01-02 15:04:05 -0700")}
	switch p.Embed {
	case EmbedWrite:
		s := "write capture time " + p.Time.Format(probe.ExifTimeLayout)
		if p.GPS != nil {
			s += " and GPS " + p.GPS.String()
		}
		steps = append(steps, s)
	default:
		steps = append(steps, "skip embedded write: "+p.EmbedNote)
	}
	return steps
}
