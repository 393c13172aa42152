package apply

import "github.com/backmassage/photostamp/internal/planner"

// OutcomeKind is the result of applying a record to one file.
type OutcomeKind int

const (
	Success OutcomeKind = iota
	PartialSuccess
	Failed
)

func (k OutcomeKind) String() string {
	switch k {
	case Success:
		return "success"
	case PartialSuccess:
		return "partial"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Outcome reports what happened (or would happen, in a dry run) to one
// file. Reason is set for PartialSuccess and Failed.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Steps  []string
	Plan   *planner.FilePlan
}

func failed(plan *planner.FilePlan, reason string) Outcome {
	o := Outcome{Kind: Failed, Reason: reason, Plan: plan}
	if plan != nil {
		o.Steps = plan.Steps()
	}
	return o
}

func partial(plan *planner.FilePlan, reason string) Outcome {
	return Outcome{Kind: PartialSuccess, Reason: reason, Steps: plan.Steps(), Plan: plan}
}
