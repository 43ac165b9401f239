package ledger

import (
	"errors"
	"fmt"
)

// Validation failures are surfaced to the caller and never unwind past the
// ledger boundary; the working set stays as it was.
var (
	ErrEmptyName                = errors.New("name is required")
	ErrMissingStartDate         = errors.New("start date is required")
	ErrInvalidQuota             = errors.New("slot quota must be greater than zero")
	ErrInvalidUnitPrice         = errors.New("unit price must be greater than zero")
	ErrMissingSaleWindow        = errors.New("set the ticket sale window first")
	ErrOutOfSaleWindow          = errors.New("phase dates fall outside the ticket sale window")
	ErrPhaseOverlap             = errors.New("phase dates overlap another phase")
	ErrMissingTitleOrSpeaker    = errors.New("session needs a title and at least one speaker")
	ErrMissingSchedule          = errors.New("session date, start time and end time are required")
	ErrSessionOutsideConference = errors.New("session date falls outside the conference dates")
	ErrSessionTooShort          = errors.New("sessions run for at least 30 minutes")
	ErrInvertedTimeRange        = errors.New("session end time must be after its start time")
	ErrMissingBoundarySession   = errors.New("schedule at least one session on the first and on the last conference day")
	ErrRefundDeadlineLate       = errors.New("refund deadline must precede the conference start")
	ErrRefundOrderTaken         = errors.New("refund order is already in use")
)

// QuotaExceededError reports the attempted phase quota total against the
// ticket's cap.
type QuotaExceededError struct {
	Attempted int
	Cap       int
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("phase quotas total %d but the ticket caps at %d slots", e.Attempted, e.Cap)
}

// PhaseQuotaMismatchError reports a ticket whose attached phases do not
// allocate exactly its total quota. Unlike the running phase-add check this
// is strict equality, applied when the ticket itself is saved.
type PhaseQuotaMismatchError struct {
	Sum   int
	Total int
}

func (e *PhaseQuotaMismatchError) Error() string {
	return fmt.Sprintf("phase quotas total %d but the ticket sells %d slots", e.Sum, e.Total)
}
