package planner

import (
	"time"

	"github.com/backmassage/photostamp/internal/sidecar"
)

// Action describes the per-file decision.
type Action int

const (
	ActionApply Action = iota
	ActionSkip
)

// EmbedAction describes the embedded metadata step.
type EmbedAction int

const (
	EmbedNone    EmbedAction = iota // Format carries no embedded block.
	EmbedWrite                      // Write capture time (and GPS).
	EmbedCurrent                    // Image already holds the same values.
)

func (e EmbedAction) String() string {
	switch e {
	case EmbedWrite:
		return "write"
	case EmbedCurrent:
		return "current"
	}
	return "none"
}

// FilePlan holds the decisions for one media file. It is produced by
// BuildPlan and consumed by apply.Writer.
type FilePlan struct {
	Action     Action
	SkipReason string

	Path string

	// Time is the resolved timestamp in the configured location. Embedded
	// wall-clock fields are rendered from it.
	Time time.Time
	GPS  *sidecar.Coordinate

	Embed     EmbedAction
	EmbedNote string
}
