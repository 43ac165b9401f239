package wizard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confdesk-cli/ledger"
	"confdesk-cli/model"
	"confdesk-cli/reconcile"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func snapshotConference() model.Conference {
	return model.Conference{
		Id:        "conf-1",
		Name:      "GopherDays",
		Kind:      model.ConferenceTechnical,
		City:      "Lisbon",
		StartDate: day(1),
		EndDate:   day(3),
		Tickets: []model.TicketType{
			{
				Id:             "price-1",
				Name:           "Standard",
				UnitPrice:      120,
				TotalSlotQuota: 100,
				SaleStart:      day(1),
				SaleEnd:        day(3),
				Phases: []model.PricePhase{
					{Id: "phase-1", Name: "Early", PercentOfBase: 80, StartDate: day(1), DurationDays: 1, EndDate: day(1), SlotQuota: 40},
					{Id: "phase-2", Name: "Late", PercentOfBase: 100, StartDate: day(2), DurationDays: 2, EndDate: day(3), SlotQuota: 60},
				},
			},
		},
		Sessions: []model.Session{
			{Id: "session-1", Kind: model.SessionTech, Title: "Opening", Date: day(1),
				StartTime: day(1).Add(9 * time.Hour), EndTime: day(1).Add(10 * time.Hour),
				Speakers: []model.Speaker{{Id: "speaker-1", Name: "Ana"}}},
		},
		Policies:       []model.Policy{{Id: "policy-1", Name: "Code of Conduct", Order: 1}},
		RefundPolicies: []model.RefundPolicy{{Id: "refund-1", PercentRefund: 50, Deadline: day(1).AddDate(0, 0, -10), Order: 1}},
		Media:          []model.MediaItem{{Id: "media-1", Caption: "Venue", Image: model.RemoteImage("https://cdn.example/venue.png")}},
		Sponsors:       []model.Sponsor{{Id: "sponsor-1", Name: "Acme", Tier: "gold"}},
	}
}

func TestHydrateProducesUpdateOnlyPlan(t *testing.T) {
	ws := Hydrate(snapshotConference())

	require.True(t, ws.Conference.Persisted())
	require.Len(t, ws.Tickets, 1)
	require.Len(t, ws.TicketPhases(0), 2)
	assert.Nil(t, ws.Conference.Value.Tickets)

	plan := reconcile.PlanReconciliation(ws.Tickets, ws.Deleted.Tickets)
	assert.Empty(t, plan.ToCreate)
	assert.Empty(t, plan.ToDelete)
	require.Len(t, plan.ToUpdate, 1)
	assert.Equal(t, "price-1", plan.ToUpdate[0].RemoteID)

	sessions := reconcile.PlanReconciliation(ws.Sessions, ws.Deleted.Sessions)
	assert.Empty(t, sessions.ToCreate)
	require.Len(t, sessions.ToUpdate, 1)
}

func TestDeleteTicketQueuesIdAndDropsPhases(t *testing.T) {
	ws := Hydrate(snapshotConference())
	key := ws.Tickets[0].LocalKey

	ws.DeleteTicket(0)

	assert.Empty(t, ws.Tickets)
	assert.NotContains(t, ws.Phases, key)
	assert.Equal(t, []string{"price-1"}, ws.Deleted.Tickets)
}

func TestDeleteUnsavedSessionQueuesNothing(t *testing.T) {
	ws := Hydrate(snapshotConference())
	require.NoError(t, ws.AddSession(model.Session{
		Kind: model.SessionTech, Title: "Lightning", Date: day(2),
		StartTime: day(2).Add(14 * time.Hour), EndTime: day(2).Add(15 * time.Hour),
		Speakers: []model.Speaker{{Name: "Ben"}},
	}))
	require.Len(t, ws.Sessions, 2)

	ws.DeleteSession(1)

	assert.Len(t, ws.Sessions, 1)
	assert.Empty(t, ws.Deleted.Sessions)
}

func TestUpsertTicketKeepsIdentityOnEdit(t *testing.T) {
	ws := Hydrate(snapshotConference())
	edited := ws.Tickets[0].Value
	edited.UnitPrice = 150

	require.NoError(t, ws.UpsertTicket(edited, 0))

	assert.Equal(t, "price-1", ws.Tickets[0].RemoteID)
	assert.Equal(t, float64(150), ws.Tickets[0].Value.UnitPrice)
	// Phases stay attached through the unchanged local key.
	assert.Len(t, ws.TicketPhases(0), 2)
}

func TestValidateForSubmitRejectsQuotaMismatch(t *testing.T) {
	conf := snapshotConference()
	conf.Tickets[0].TotalSlotQuota = 120
	ws := Hydrate(conf)

	err := ws.ValidateForSubmit()

	var mismatch *ledger.PhaseQuotaMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, 100, mismatch.Sum)
	assert.Equal(t, 120, mismatch.Total)
}

func TestValidateForSubmitRequiresBoundarySessions(t *testing.T) {
	ws := Hydrate(snapshotConference())

	// Only day 1 is covered; the closing day has no session yet.
	assert.ErrorIs(t, ws.ValidateForSubmit(), ledger.ErrMissingBoundarySession)

	require.NoError(t, ws.AddSession(model.Session{
		Kind: model.SessionTech, Title: "Closing", Date: day(3),
		StartTime: day(3).Add(17 * time.Hour), EndTime: day(3).Add(18 * time.Hour),
		Speakers: []model.Speaker{{Name: "Ana"}},
	}))

	assert.NoError(t, ws.ValidateForSubmit())
}

func TestTicketWithPhasesRebuildsWireShape(t *testing.T) {
	ws := Hydrate(snapshotConference())

	ticket := ws.ticketWithPhases(ws.Tickets[0])

	require.Len(t, ticket.Phases, 2)
	assert.Equal(t, "phase-1", ticket.Phases[0].Id)
	assert.Equal(t, "price-1", ticket.Phases[0].TicketTypeId)
	assert.Equal(t, "phase-2", ticket.Phases[1].Id)
}

func TestCloneIsIndependent(t *testing.T) {
	ws := Hydrate(snapshotConference())
	clone := ws.Clone()

	clone.DeleteTicket(0)
	require.NoError(t, clone.UpsertPolicy(model.Policy{Name: "Recording"}, -1))

	assert.Len(t, ws.Tickets, 1)
	assert.Len(t, ws.TicketPhases(0), 2)
	assert.Len(t, ws.Policies, 1)
	assert.Empty(t, ws.Deleted.Tickets)
}
