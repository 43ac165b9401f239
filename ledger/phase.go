package ledger

import (
	"strings"

	"confdesk-cli/model"
)

// AddOrUpdatePhase validates candidate against the owning ticket and its
// sibling phases, then returns a new phase list with the candidate
// appended, or replaced in place when editIndex is in range. The candidate's
// EndDate is derived from StartDate and DurationDays before any range
// check. Checks run in a fixed order and the first violation wins.
func AddOrUpdatePhase(phases []model.Record[model.PricePhase], ticket model.TicketType, candidate model.PricePhase, editIndex int) ([]model.Record[model.PricePhase], error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return phases, ErrEmptyName
	}
	if candidate.StartDate.IsZero() {
		return phases, ErrMissingStartDate
	}
	if candidate.SlotQuota <= 0 {
		return phases, ErrInvalidQuota
	}
	if ticket.SaleStart.IsZero() || ticket.SaleEnd.IsZero() {
		return phases, ErrMissingSaleWindow
	}

	if candidate.DurationDays < 1 {
		candidate.DurationDays = 1
	}
	end, err := EndDateFromDuration(candidate.StartDate, candidate.DurationDays)
	if err != nil {
		return phases, err
	}
	candidate.EndDate = end

	if candidate.StartDate.Before(ticket.SaleStart) || candidate.EndDate.After(ticket.SaleEnd) {
		return phases, ErrOutOfSaleWindow
	}

	editing := editIndex >= 0 && editIndex < len(phases)
	total := candidate.SlotQuota
	for i, phase := range phases {
		if editing && i == editIndex {
			continue
		}
		total += phase.Value.SlotQuota
	}
	if total > ticket.TotalSlotQuota {
		return phases, &QuotaExceededError{Attempted: total, Cap: ticket.TotalSlotQuota}
	}

	for i, phase := range phases {
		if editing && i == editIndex {
			continue
		}
		if IntervalsOverlap(candidate.StartDate, candidate.EndDate, phase.Value.StartDate, phase.Value.EndDate) {
			return phases, ErrPhaseOverlap
		}
	}

	next := append([]model.Record[model.PricePhase]{}, phases...)
	if editing {
		next[editIndex].Value = candidate
		return next, nil
	}
	return append(next, model.NewRecord(candidate)), nil
}

// RemovePhase drops the phase at index and returns the removed record so
// the caller can queue its remote id for deletion.
func RemovePhase(phases []model.Record[model.PricePhase], index int) ([]model.Record[model.PricePhase], model.Record[model.PricePhase]) {
	if index < 0 || index >= len(phases) {
		return phases, model.Record[model.PricePhase]{}
	}
	removed := phases[index]
	next := append([]model.Record[model.PricePhase]{}, phases[:index]...)
	next = append(next, phases[index+1:]...)
	return next, removed
}

// PhaseQuotaSum totals the slot quotas allocated across phases.
func PhaseQuotaSum(phases []model.Record[model.PricePhase]) int {
	total := 0
	for _, phase := range phases {
		total += phase.Value.SlotQuota
	}
	return total
}
