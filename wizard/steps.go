// Package wizard holds the organizer wizard's state: the ordered step
// machine, the in-memory working set being edited, and the finalize driver
// that reconciles the working set against the backend.
package wizard

import "errors"

type StepKind int

const (
	StepBasicInfo StepKind = iota
	StepPricing
	StepSessions
	StepPolicies
	StepMedia
	StepSponsors
	StepReview
)

func (k StepKind) String() string {
	switch k {
	case StepBasicInfo:
		return "basic info"
	case StepPricing:
		return "pricing"
	case StepSessions:
		return "sessions"
	case StepPolicies:
		return "policies"
	case StepMedia:
		return "media"
	case StepSponsors:
		return "sponsors"
	case StepReview:
		return "review"
	default:
		return "unknown"
	}
}

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

var ErrStepIncomplete = errors.New("complete the current step first")

// StepOrder is the fixed wizard sequence.
var StepOrder = []StepKind{StepBasicInfo, StepPricing, StepSessions, StepPolicies, StepMedia, StepSponsors, StepReview}

// Steps tracks wizard progress. Values are passed and returned by value;
// there is no ambient mutable wizard state.
type Steps struct {
	Mode      Mode
	Current   StepKind
	completed map[StepKind]bool
}

func NewSteps(mode Mode) Steps {
	return Steps{Mode: mode, Current: StepBasicInfo, completed: map[StepKind]bool{}}
}

func (s Steps) Completed(step StepKind) bool {
	return s.completed[step]
}

// Advance marks the current step completed and moves to the next one.
func (s Steps) Advance() Steps {
	next := s.clone()
	next.completed[s.Current] = true
	for i, step := range StepOrder {
		if step == s.Current && i+1 < len(StepOrder) {
			next.Current = StepOrder[i+1]
			break
		}
	}
	return next
}

// Back moves to the previous step without touching the completed set.
func (s Steps) Back() Steps {
	next := s.clone()
	for i, step := range StepOrder {
		if step == s.Current && i > 0 {
			next.Current = StepOrder[i-1]
			break
		}
	}
	return next
}

// Goto jumps to an already-completed step (or the first incomplete one).
func (s Steps) Goto(step StepKind) (Steps, error) {
	if step != s.firstIncomplete() && !s.completed[step] {
		return s, ErrStepIncomplete
	}
	next := s.clone()
	next.Current = step
	return next, nil
}

// CanFinalize reports whether every step before review is completed.
func (s Steps) CanFinalize() bool {
	for _, step := range StepOrder[:len(StepOrder)-1] {
		if !s.completed[step] {
			return false
		}
	}
	return true
}

func (s Steps) firstIncomplete() StepKind {
	for _, step := range StepOrder {
		if !s.completed[step] {
			return step
		}
	}
	return StepReview
}

func (s Steps) clone() Steps {
	completed := make(map[StepKind]bool, len(s.completed))
	for step, done := range s.completed {
		completed[step] = done
	}
	return Steps{Mode: s.Mode, Current: s.Current, completed: completed}
}
