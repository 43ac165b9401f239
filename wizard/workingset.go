package wizard

import (
	"strings"

	"confdesk-cli/ledger"
	"confdesk-cli/model"
)

// DeleteQueue accumulates remote ids marked for deletion, by entity kind.
// Phases and refund policies have no delete endpoint: removed phases
// disappear through the parent price update, removed refund policies are
// simply dropped from the working set.
type DeleteQueue struct {
	Tickets  []string
	Sessions []string
	Policies []string
	Media    []string
	Sponsors []string
}

// WorkingSet is the volatile form state of one wizard session. Everything
// here lives in memory until Submit; there is no autosave.
type WorkingSet struct {
	Conference model.Record[model.Conference]

	Tickets []model.Record[model.TicketType]
	// Phases are keyed by the owning ticket's LocalKey so re-ordering or
	// renaming tickets never orphans them.
	Phases map[string][]model.Record[model.PricePhase]

	Sessions       []model.Record[model.Session]
	Policies       []model.Record[model.Policy]
	RefundPolicies []model.Record[model.RefundPolicy]
	Media          []model.Record[model.MediaItem]
	Sponsors       []model.Record[model.Sponsor]

	Deleted DeleteQueue
}

// NewWorkingSet starts a blank create-mode working set.
func NewWorkingSet(kind model.ConferenceKind) *WorkingSet {
	return &WorkingSet{
		Conference: model.NewRecord(model.Conference{Kind: kind}),
		Phases:     map[string][]model.Record[model.PricePhase]{},
	}
}

// Hydrate builds an edit-mode working set from a backend snapshot. Every
// nested entity becomes a persisted record, so a plan computed with no
// edits creates nothing and deletes nothing.
func Hydrate(conf model.Conference) *WorkingSet {
	ws := &WorkingSet{
		Conference: model.PersistedRecord(conf.Id, conf),
		Phases:     map[string][]model.Record[model.PricePhase]{},
	}
	ws.Conference.Value.Tickets = nil
	ws.Conference.Value.Sessions = nil
	ws.Conference.Value.Policies = nil
	ws.Conference.Value.RefundPolicies = nil
	ws.Conference.Value.Media = nil
	ws.Conference.Value.Sponsors = nil

	for _, ticket := range conf.Tickets {
		phases := ticket.Phases
		ticket.Phases = nil
		record := model.PersistedRecord(ticket.Id, ticket)
		ws.Tickets = append(ws.Tickets, record)
		for _, phase := range phases {
			ws.Phases[record.LocalKey] = append(ws.Phases[record.LocalKey], model.PersistedRecord(phase.Id, phase))
		}
	}
	for _, session := range conf.Sessions {
		ws.Sessions = append(ws.Sessions, model.PersistedRecord(session.Id, session))
	}
	for _, policy := range conf.Policies {
		ws.Policies = append(ws.Policies, model.PersistedRecord(policy.Id, policy))
	}
	for _, policy := range conf.RefundPolicies {
		ws.RefundPolicies = append(ws.RefundPolicies, model.PersistedRecord(policy.Id, policy))
	}
	for _, item := range conf.Media {
		ws.Media = append(ws.Media, model.PersistedRecord(item.Id, item))
	}
	for _, sponsor := range conf.Sponsors {
		ws.Sponsors = append(ws.Sponsors, model.PersistedRecord(sponsor.Id, sponsor))
	}
	return ws
}

// UpsertTicket validates and stores a ticket via the ticket ledger.
func (ws *WorkingSet) UpsertTicket(candidate model.TicketType, editIndex int) error {
	next, err := ledger.AddOrUpdateTicket(ws.Tickets, candidate, editIndex)
	if err != nil {
		return err
	}
	ws.Tickets = next
	return nil
}

// DeleteTicket removes a ticket, drops its phases from the working set and
// queues its remote id. Phase ids are not queued: the backend drops them
// with their price.
func (ws *WorkingSet) DeleteTicket(index int) {
	next, removed := ledger.RemoveTicket(ws.Tickets, index)
	if removed.LocalKey == "" {
		return
	}
	ws.Tickets = next
	delete(ws.Phases, removed.LocalKey)
	if removed.Persisted() {
		ws.Deleted.Tickets = append(ws.Deleted.Tickets, removed.RemoteID)
	}
}

// UpsertPhase validates and stores a phase under the ticket at ticketIndex.
func (ws *WorkingSet) UpsertPhase(ticketIndex int, candidate model.PricePhase, editIndex int) error {
	if ticketIndex < 0 || ticketIndex >= len(ws.Tickets) {
		return ledger.ErrMissingSaleWindow
	}
	ticket := ws.Tickets[ticketIndex]
	next, err := ledger.AddOrUpdatePhase(ws.Phases[ticket.LocalKey], ticket.Value, candidate, editIndex)
	if err != nil {
		return err
	}
	ws.Phases[ticket.LocalKey] = next
	return nil
}

// DeletePhase removes a phase from the ticket at ticketIndex.
func (ws *WorkingSet) DeletePhase(ticketIndex, phaseIndex int) {
	if ticketIndex < 0 || ticketIndex >= len(ws.Tickets) {
		return
	}
	key := ws.Tickets[ticketIndex].LocalKey
	next, removed := ledger.RemovePhase(ws.Phases[key], phaseIndex)
	if removed.LocalKey == "" {
		return
	}
	ws.Phases[key] = next
}

// TicketPhases returns the phases owned by the ticket at index.
func (ws *WorkingSet) TicketPhases(index int) []model.Record[model.PricePhase] {
	if index < 0 || index >= len(ws.Tickets) {
		return nil
	}
	return ws.Phases[ws.Tickets[index].LocalKey]
}

// AddSession validates and appends a session via the session ledger.
func (ws *WorkingSet) AddSession(candidate model.Session) error {
	conf := ws.Conference.Value
	next, err := ledger.AddSession(ws.Sessions, candidate, conf.StartDate, conf.EndDate)
	if err != nil {
		return err
	}
	ws.Sessions = next
	return nil
}

// UpdateSession revalidates and replaces the session at index.
func (ws *WorkingSet) UpdateSession(candidate model.Session, index int) error {
	conf := ws.Conference.Value
	next, err := ledger.UpdateSession(ws.Sessions, candidate, index, conf.StartDate, conf.EndDate)
	if err != nil {
		return err
	}
	ws.Sessions = next
	return nil
}

// DeleteSession removes a session with its speakers and media, queueing
// its remote id.
func (ws *WorkingSet) DeleteSession(index int) {
	next, removed := ledger.RemoveSession(ws.Sessions, index)
	if removed.LocalKey == "" {
		return
	}
	ws.Sessions = next
	if removed.Persisted() {
		ws.Deleted.Sessions = append(ws.Deleted.Sessions, removed.RemoteID)
	}
}

// FinalizeSessions gates leaving the sessions step.
func (ws *WorkingSet) FinalizeSessions() error {
	conf := ws.Conference.Value
	return ledger.FinalizeSessionSet(ws.Sessions, conf.StartDate, conf.EndDate)
}

// UpsertPolicy validates and stores a policy.
func (ws *WorkingSet) UpsertPolicy(candidate model.Policy, editIndex int) error {
	next, err := ledger.AddOrUpdatePolicy(ws.Policies, candidate, editIndex)
	if err != nil {
		return err
	}
	ws.Policies = next
	return nil
}

// DeletePolicy removes a policy and queues its remote id.
func (ws *WorkingSet) DeletePolicy(index int) {
	next, removed := ledger.RemovePolicy(ws.Policies, index)
	if removed.LocalKey == "" {
		return
	}
	ws.Policies = next
	if removed.Persisted() {
		ws.Deleted.Policies = append(ws.Deleted.Policies, removed.RemoteID)
	}
}

// UpsertRefundPolicy validates and stores a refund policy.
func (ws *WorkingSet) UpsertRefundPolicy(candidate model.RefundPolicy, editIndex int) error {
	next, err := ledger.AddOrUpdateRefundPolicy(ws.RefundPolicies, candidate, ws.Conference.Value.StartDate, editIndex)
	if err != nil {
		return err
	}
	ws.RefundPolicies = next
	return nil
}

// DeleteRefundPolicy drops a refund policy from the working set.
func (ws *WorkingSet) DeleteRefundPolicy(index int) {
	next, removed := ledger.RemoveRefundPolicy(ws.RefundPolicies, index)
	if removed.LocalKey == "" {
		return
	}
	ws.RefundPolicies = next
}

// AddMedia appends a media item; a caption and an image are required.
func (ws *WorkingSet) AddMedia(candidate model.MediaItem) error {
	if strings.TrimSpace(candidate.Caption) == "" || candidate.Image.IsZero() {
		return ledger.ErrEmptyName
	}
	ws.Media = append(ws.Media, model.NewRecord(candidate))
	return nil
}

// DeleteMedia removes a media item and queues its remote id.
func (ws *WorkingSet) DeleteMedia(index int) {
	if index < 0 || index >= len(ws.Media) {
		return
	}
	removed := ws.Media[index]
	ws.Media = append(ws.Media[:index:index], ws.Media[index+1:]...)
	if removed.Persisted() {
		ws.Deleted.Media = append(ws.Deleted.Media, removed.RemoteID)
	}
}

// AddSponsor appends a sponsor; a name is required.
func (ws *WorkingSet) AddSponsor(candidate model.Sponsor) error {
	if strings.TrimSpace(candidate.Name) == "" {
		return ledger.ErrEmptyName
	}
	ws.Sponsors = append(ws.Sponsors, model.NewRecord(candidate))
	return nil
}

// DeleteSponsor removes a sponsor and queues its remote id.
func (ws *WorkingSet) DeleteSponsor(index int) {
	if index < 0 || index >= len(ws.Sponsors) {
		return
	}
	removed := ws.Sponsors[index]
	ws.Sponsors = append(ws.Sponsors[:index:index], ws.Sponsors[index+1:]...)
	if removed.Persisted() {
		ws.Deleted.Sponsors = append(ws.Deleted.Sponsors, removed.RemoteID)
	}
}

// ValidateForSubmit runs the cross-step checks that gate finalization:
// boundary-day session coverage and strict phase quota equality on every
// ticket that carries phases.
func (ws *WorkingSet) ValidateForSubmit() error {
	if err := ws.FinalizeSessions(); err != nil {
		return err
	}
	for i, ticket := range ws.Tickets {
		phases := ws.TicketPhases(i)
		if len(phases) == 0 {
			continue
		}
		if sum := ledger.PhaseQuotaSum(phases); sum != ticket.Value.TotalSlotQuota {
			return &ledger.PhaseQuotaMismatchError{Sum: sum, Total: ticket.Value.TotalSlotQuota}
		}
	}
	return nil
}

// ticketWithPhases rebuilds the wire shape of a ticket: its phase records
// folded back into the Phases field.
func (ws *WorkingSet) ticketWithPhases(record model.Record[model.TicketType]) model.TicketType {
	ticket := record.Value
	ticket.Phases = nil
	for _, phase := range ws.Phases[record.LocalKey] {
		value := phase.Value
		value.Id = phase.RemoteID
		value.TicketTypeId = record.RemoteID
		ticket.Phases = append(ticket.Phases, value)
	}
	return ticket
}

// Clone deep-copies the working set so Submit can operate on a draft.
func (ws *WorkingSet) Clone() *WorkingSet {
	clone := &WorkingSet{
		Conference:     ws.Conference,
		Tickets:        append([]model.Record[model.TicketType]{}, ws.Tickets...),
		Sessions:       append([]model.Record[model.Session]{}, ws.Sessions...),
		Policies:       append([]model.Record[model.Policy]{}, ws.Policies...),
		RefundPolicies: append([]model.Record[model.RefundPolicy]{}, ws.RefundPolicies...),
		Media:          append([]model.Record[model.MediaItem]{}, ws.Media...),
		Sponsors:       append([]model.Record[model.Sponsor]{}, ws.Sponsors...),
		Phases:         map[string][]model.Record[model.PricePhase]{},
		Deleted: DeleteQueue{
			Tickets:  append([]string{}, ws.Deleted.Tickets...),
			Sessions: append([]string{}, ws.Deleted.Sessions...),
			Policies: append([]string{}, ws.Deleted.Policies...),
			Media:    append([]string{}, ws.Deleted.Media...),
			Sponsors: append([]string{}, ws.Deleted.Sponsors...),
		},
	}
	for key, phases := range ws.Phases {
		clone.Phases[key] = append([]model.Record[model.PricePhase]{}, phases...)
	}
	return clone
}
