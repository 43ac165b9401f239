package ledger

import (
	"strings"

	"confdesk-cli/model"
)

// AddOrUpdateTicket validates candidate and returns a new ticket list with
// it appended, or replaced in place when editIndex is in range. When the
// candidate already carries phases their quotas must allocate its total
// exactly; the looser running bound only applies while phases are being
// added one by one.
func AddOrUpdateTicket(tickets []model.Record[model.TicketType], candidate model.TicketType, editIndex int) ([]model.Record[model.TicketType], error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return tickets, ErrEmptyName
	}
	if candidate.UnitPrice <= 0 {
		return tickets, ErrInvalidUnitPrice
	}
	if candidate.TotalSlotQuota <= 0 {
		return tickets, ErrInvalidQuota
	}
	if len(candidate.Phases) > 0 {
		sum := 0
		for _, phase := range candidate.Phases {
			sum += phase.SlotQuota
		}
		if sum != candidate.TotalSlotQuota {
			return tickets, &PhaseQuotaMismatchError{Sum: sum, Total: candidate.TotalSlotQuota}
		}
	}

	next := append([]model.Record[model.TicketType]{}, tickets...)
	if editIndex >= 0 && editIndex < len(tickets) {
		next[editIndex].Value = candidate
		return next, nil
	}
	return append(next, model.NewRecord(candidate)), nil
}

// RemoveTicket drops the ticket at index and returns the removed record.
// The caller drops the ticket's phases from the working set and queues
// persisted ids for deletion.
func RemoveTicket(tickets []model.Record[model.TicketType], index int) ([]model.Record[model.TicketType], model.Record[model.TicketType]) {
	if index < 0 || index >= len(tickets) {
		return tickets, model.Record[model.TicketType]{}
	}
	removed := tickets[index]
	next := append([]model.Record[model.TicketType]{}, tickets[:index]...)
	next = append(next, tickets[index+1:]...)
	return next, removed
}
