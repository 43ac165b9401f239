package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"confdesk-cli/model"
	"confdesk-cli/reconcile"
	"confdesk-cli/service"
)

// Backend is the slice of the conference service the finalize driver
// talks to. *service.Client implements it; tests substitute a fake.
type Backend interface {
	CreateConference(ctx context.Context, conf model.Conference) (model.Conference, error)
	UpdateConference(ctx context.Context, id string, conf model.Conference) error

	CreatePrices(ctx context.Context, conferenceID string, tickets []model.TicketType) ([]model.TicketType, error)
	UpdatePrice(ctx context.Context, id string, ticket model.TicketType) error
	DeletePrice(ctx context.Context, id string) error
	UpdatePricePhase(ctx context.Context, id string, phase model.PricePhase) error

	CreateSessions(ctx context.Context, conferenceID string, sessions []model.Session) ([]model.Session, error)
	UpdateSession(ctx context.Context, id string, session model.Session) error
	DeleteSession(ctx context.Context, id string) error
	UpdateSessionSpeakers(ctx context.Context, sessionID string, speakers []model.Speaker) error

	CreatePolicies(ctx context.Context, conferenceID string, policies []model.Policy) ([]model.Policy, error)
	UpdatePolicy(ctx context.Context, id string, policy model.Policy) error
	DeletePolicy(ctx context.Context, id string) error

	CreateRefundPolicies(ctx context.Context, conferenceID string, policies []model.RefundPolicy) ([]model.RefundPolicy, error)
	UpdateRefundPolicy(ctx context.Context, id string, policy model.RefundPolicy) error

	CreateMedia(ctx context.Context, conferenceID string, item model.MediaItem) (model.MediaItem, error)
	UpdateMedia(ctx context.Context, id string, item model.MediaItem) error
	DeleteMedia(ctx context.Context, id string) error

	CreateSponsor(ctx context.Context, conferenceID string, sponsor model.Sponsor) (model.Sponsor, error)
	UpdateSponsor(ctx context.Context, id string, sponsor model.Sponsor) error
	DeleteSponsor(ctx context.Context, id string) error
}

// Failure records one section that did not save, with the backend's
// message when it sent one.
type Failure struct {
	Section string
	Message string
}

// Result is the outcome of one finalize run. A partial failure is a
// warning, not an error: completed sections stay committed server-side.
type Result struct {
	ConferenceID string
	Failures     []Failure
}

func (r Result) AllSaved() bool {
	return len(r.Failures) == 0
}

// Warning renders the aggregate partial-failure message.
func (r Result) Warning() string {
	if r.AllSaved() {
		return ""
	}
	sections := make([]string, 0, len(r.Failures))
	for _, failure := range r.Failures {
		sections = append(sections, failure.Section)
	}
	return "some sections did not save: " + strings.Join(sections, ", ")
}

// Submitter executes a working set's reconciliation plans against the
// backend: creates and updates grouped by entity kind in a fixed order,
// deletes last. Within a batch items run concurrently; one item failing
// never cancels or rolls back its siblings.
type Submitter struct {
	backend Backend
	log     zerolog.Logger
	limit   int
}

func NewSubmitter(backend Backend, log zerolog.Logger) *Submitter {
	return &Submitter{backend: backend, log: log, limit: 6}
}

// Submit runs the full finalize sequence, assigning remote ids to created
// records as their batches succeed. Per-kind deleted-id queues are cleared
// only after every delete of that kind went through.
func (s *Submitter) Submit(ctx context.Context, ws *WorkingSet) Result {
	result := Result{}
	fail := func(section string, err error) {
		s.log.Error().Err(err).Str("section", section).Msg("section failed to save")
		result.Failures = append(result.Failures, Failure{Section: section, Message: failureMessage(err)})
	}

	confID := ws.Conference.RemoteID
	if confID == "" {
		created, err := s.backend.CreateConference(ctx, ws.Conference.Value)
		if err != nil {
			// Nothing below can attach to a conference that does not exist.
			fail("basic info", err)
			return result
		}
		confID = created.Id
		ws.Conference.RemoteID = confID
		ws.Conference.Value.Id = confID
	} else if err := s.backend.UpdateConference(ctx, confID, ws.Conference.Value); err != nil {
		fail("basic info", err)
	}
	result.ConferenceID = confID

	// Snapshot phase updates before the ticket batch: phases created
	// bundled inside a new price must not be patched again right after.
	phaseUpdates := s.phaseUpdateTasks(ws)
	s.submitTickets(ctx, ws, confID, fail)
	if err := s.runBatch(ctx, phaseUpdates); err != nil {
		fail("price phases", err)
	}
	s.submitSessions(ctx, ws, confID, fail)
	s.submitSpeakers(ctx, ws, fail)
	s.submitPolicies(ctx, ws, confID, fail)
	s.submitRefundPolicies(ctx, ws, confID, fail)
	s.submitMedia(ctx, ws, confID, fail)
	s.submitSponsors(ctx, ws, confID, fail)
	s.submitDeletes(ctx, ws, fail)

	if result.AllSaved() {
		s.log.Info().Str("conference_id", confID).Msg("finalize completed")
	}
	return result
}

func (s *Submitter) submitTickets(ctx context.Context, ws *WorkingSet, confID string, fail func(string, error)) {
	plan := reconcile.PlanReconciliation(ws.Tickets, nil)
	s.log.Debug().Str("section", "tickets").Str("plan", describePlan(plan)).Msg("submitting batch")

	if len(plan.ToCreate) > 0 {
		payload := make([]model.TicketType, len(plan.ToCreate))
		for i, record := range plan.ToCreate {
			payload[i] = ws.ticketWithPhases(record)
		}
		created, err := s.backend.CreatePrices(ctx, confID, payload)
		if err != nil {
			fail("tickets", err)
		} else {
			for i, record := range plan.ToCreate {
				s.assignTicketIDs(ws, record.LocalKey, created[i])
			}
		}
	}

	tasks := make([]func(context.Context) error, 0, len(plan.ToUpdate))
	for _, record := range plan.ToUpdate {
		id := record.RemoteID
		payload := ws.ticketWithPhases(record)
		tasks = append(tasks, func(ctx context.Context) error {
			return s.backend.UpdatePrice(ctx, id, payload)
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("tickets", err)
	}
}

// phaseUpdateTasks builds a patch per already persisted phase; new phases
// are created bundled inside their price call instead.
func (s *Submitter) phaseUpdateTasks(ws *WorkingSet) []func(context.Context) error {
	var tasks []func(context.Context) error
	for _, ticket := range ws.Tickets {
		for _, phase := range ws.Phases[ticket.LocalKey] {
			if !phase.Persisted() {
				continue
			}
			id := phase.RemoteID
			payload := phase.Value
			payload.Id = id
			payload.TicketTypeId = ticket.RemoteID
			tasks = append(tasks, func(ctx context.Context) error {
				return s.backend.UpdatePricePhase(ctx, id, payload)
			})
		}
	}
	return tasks
}

func (s *Submitter) submitSessions(ctx context.Context, ws *WorkingSet, confID string, fail func(string, error)) {
	plan := reconcile.PlanReconciliation(ws.Sessions, nil)
	s.log.Debug().Str("section", "sessions").Str("plan", describePlan(plan)).Msg("submitting batch")

	if len(plan.ToCreate) > 0 {
		payload := make([]model.Session, len(plan.ToCreate))
		for i, record := range plan.ToCreate {
			payload[i] = record.Value
		}
		created, err := s.backend.CreateSessions(ctx, confID, payload)
		if err != nil {
			fail("sessions", err)
		} else {
			for i, record := range plan.ToCreate {
				if index := indexByLocalKey(ws.Sessions, record.LocalKey); index >= 0 {
					ws.Sessions[index].RemoteID = created[i].Id
					ws.Sessions[index].Value.Id = created[i].Id
				}
			}
		}
	}

	tasks := make([]func(context.Context) error, 0, len(plan.ToUpdate))
	for _, record := range plan.ToUpdate {
		id := record.RemoteID
		payload := record.Value
		tasks = append(tasks, func(ctx context.Context) error {
			return s.backend.UpdateSession(ctx, id, payload)
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("sessions", err)
	}
}

// submitSpeakers syncs the speaker list of every persisted session.
func (s *Submitter) submitSpeakers(ctx context.Context, ws *WorkingSet, fail func(string, error)) {
	var tasks []func(context.Context) error
	for _, session := range ws.Sessions {
		if !session.Persisted() {
			continue
		}
		id := session.RemoteID
		speakers := session.Value.Speakers
		tasks = append(tasks, func(ctx context.Context) error {
			return s.backend.UpdateSessionSpeakers(ctx, id, speakers)
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("speakers", err)
	}
}

func (s *Submitter) submitPolicies(ctx context.Context, ws *WorkingSet, confID string, fail func(string, error)) {
	plan := reconcile.PlanReconciliation(ws.Policies, nil)

	if len(plan.ToCreate) > 0 {
		payload := make([]model.Policy, len(plan.ToCreate))
		for i, record := range plan.ToCreate {
			payload[i] = record.Value
		}
		created, err := s.backend.CreatePolicies(ctx, confID, payload)
		if err != nil {
			fail("policies", err)
		} else {
			for i, record := range plan.ToCreate {
				if index := indexByLocalKey(ws.Policies, record.LocalKey); index >= 0 {
					ws.Policies[index].RemoteID = created[i].Id
					ws.Policies[index].Value.Id = created[i].Id
				}
			}
		}
	}

	tasks := make([]func(context.Context) error, 0, len(plan.ToUpdate))
	for _, record := range plan.ToUpdate {
		id := record.RemoteID
		payload := record.Value
		tasks = append(tasks, func(ctx context.Context) error {
			return s.backend.UpdatePolicy(ctx, id, payload)
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("policies", err)
	}
}

func (s *Submitter) submitRefundPolicies(ctx context.Context, ws *WorkingSet, confID string, fail func(string, error)) {
	plan := reconcile.PlanReconciliation(ws.RefundPolicies, nil)

	if len(plan.ToCreate) > 0 {
		payload := make([]model.RefundPolicy, len(plan.ToCreate))
		for i, record := range plan.ToCreate {
			payload[i] = record.Value
		}
		created, err := s.backend.CreateRefundPolicies(ctx, confID, payload)
		if err != nil {
			fail("refund policies", err)
		} else {
			for i, record := range plan.ToCreate {
				if index := indexByLocalKey(ws.RefundPolicies, record.LocalKey); index >= 0 {
					ws.RefundPolicies[index].RemoteID = created[i].Id
					ws.RefundPolicies[index].Value.Id = created[i].Id
				}
			}
		}
	}

	tasks := make([]func(context.Context) error, 0, len(plan.ToUpdate))
	for _, record := range plan.ToUpdate {
		id := record.RemoteID
		payload := record.Value
		tasks = append(tasks, func(ctx context.Context) error {
			return s.backend.UpdateRefundPolicy(ctx, id, payload)
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("refund policies", err)
	}
}

func (s *Submitter) submitMedia(ctx context.Context, ws *WorkingSet, confID string, fail func(string, error)) {
	var tasks []func(context.Context) error
	for i := range ws.Media {
		index := i
		record := ws.Media[index]
		if record.Persisted() {
			tasks = append(tasks, func(ctx context.Context) error {
				return s.backend.UpdateMedia(ctx, record.RemoteID, record.Value)
			})
			continue
		}
		tasks = append(tasks, func(ctx context.Context) error {
			created, err := s.backend.CreateMedia(ctx, confID, record.Value)
			if err != nil {
				return err
			}
			ws.Media[index].RemoteID = created.Id
			ws.Media[index].Value.Id = created.Id
			return nil
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("media", err)
	}
}

func (s *Submitter) submitSponsors(ctx context.Context, ws *WorkingSet, confID string, fail func(string, error)) {
	var tasks []func(context.Context) error
	for i := range ws.Sponsors {
		index := i
		record := ws.Sponsors[index]
		if record.Persisted() {
			tasks = append(tasks, func(ctx context.Context) error {
				return s.backend.UpdateSponsor(ctx, record.RemoteID, record.Value)
			})
			continue
		}
		tasks = append(tasks, func(ctx context.Context) error {
			created, err := s.backend.CreateSponsor(ctx, confID, record.Value)
			if err != nil {
				return err
			}
			ws.Sponsors[index].RemoteID = created.Id
			ws.Sponsors[index].Value.Id = created.Id
			return nil
		})
	}
	if err := s.runBatch(ctx, tasks); err != nil {
		fail("sponsors", err)
	}
}

// submitDeletes runs all queued deletions last. Each kind's queue is
// cleared only when every delete in it succeeded, so a failed delete is
// retried on the next finalize.
func (s *Submitter) submitDeletes(ctx context.Context, ws *WorkingSet, fail func(string, error)) {
	kinds := []struct {
		ids    *[]string
		delete func(context.Context, string) error
	}{
		{&ws.Deleted.Tickets, s.backend.DeletePrice},
		{&ws.Deleted.Sessions, s.backend.DeleteSession},
		{&ws.Deleted.Policies, s.backend.DeletePolicy},
		{&ws.Deleted.Media, s.backend.DeleteMedia},
		{&ws.Deleted.Sponsors, s.backend.DeleteSponsor},
	}

	for _, kind := range kinds {
		tasks := make([]func(context.Context) error, 0, len(*kind.ids))
		for _, id := range *kind.ids {
			id := id
			call := kind.delete
			tasks = append(tasks, func(ctx context.Context) error {
				return call(ctx, id)
			})
		}
		if err := s.runBatch(ctx, tasks); err != nil {
			fail("deletions", err)
			continue
		}
		*kind.ids = nil
	}
}

// assignTicketIDs writes a created price's ids back onto the ticket record
// and its phase records, matched by index.
func (s *Submitter) assignTicketIDs(ws *WorkingSet, localKey string, created model.TicketType) {
	index := indexByLocalKey(ws.Tickets, localKey)
	if index < 0 {
		return
	}
	ws.Tickets[index].RemoteID = created.Id
	ws.Tickets[index].Value.Id = created.Id
	phases := ws.Phases[localKey]
	for i := range phases {
		if i < len(created.Phases) {
			phases[i].RemoteID = created.Phases[i].Id
			phases[i].Value.Id = created.Phases[i].Id
			phases[i].Value.TicketTypeId = created.Id
		}
	}
}

// runBatch fans tasks out on a bounded pool and joins every error; a nil
// return means the whole batch succeeded.
func (s *Submitter) runBatch(ctx context.Context, tasks []func(context.Context) error) error {
	if len(tasks) == 0 {
		return nil
	}
	errs := make([]error, len(tasks))
	sem := make(chan struct{}, s.limit)
	var wg sync.WaitGroup

	for i, task := range tasks {
		wg.Add(1)
		go func(i int, task func(context.Context) error) {
			defer wg.Done()
			sem <- struct{}{}
			errs[i] = task(ctx)
			<-sem
		}(i, task)
	}
	wg.Wait()

	return errors.Join(errs...)
}

func failureMessage(err error) string {
	var apiErr *service.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	return "request failed"
}

func indexByLocalKey[T any](records []model.Record[T], key string) int {
	for i, record := range records {
		if record.LocalKey == key {
			return i
		}
	}
	return -1
}

// describePlan is a debug aid logged before each finalize.
func describePlan[T any](plan reconcile.Plan[T]) string {
	return fmt.Sprintf("create=%d update=%d delete=%d", len(plan.ToCreate), len(plan.ToUpdate), len(plan.ToDelete))
}
