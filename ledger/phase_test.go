package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confdesk-cli/model"
)

func saleTicket(quota int) model.TicketType {
	return model.TicketType{
		Name:           "General",
		UnitPrice:      120,
		TotalSlotQuota: quota,
		SaleStart:      date(2026, 3, 1),
		SaleEnd:        date(2026, 3, 31),
	}
}

func phase(name string, start time.Time, days, quota int) model.PricePhase {
	return model.PricePhase{Name: name, PercentOfBase: 100, StartDate: start, DurationDays: days, SlotQuota: quota}
}

func TestAddOrUpdatePhase_ValidationOrder(t *testing.T) {
	ticket := saleTicket(100)
	tests := []struct {
		name      string
		ticket    model.TicketType
		candidate model.PricePhase
		want      error
	}{
		{"empty name", ticket, phase("", date(2026, 3, 1), 5, 10), ErrEmptyName},
		{"missing start date", ticket, phase("Early", time.Time{}, 5, 10), ErrMissingStartDate},
		{"zero quota", ticket, phase("Early", date(2026, 3, 1), 5, 0), ErrInvalidQuota},
		{"no sale window", model.TicketType{TotalSlotQuota: 100}, phase("Early", date(2026, 3, 1), 5, 10), ErrMissingSaleWindow},
		{"starts before window", ticket, phase("Early", date(2026, 2, 20), 5, 10), ErrOutOfSaleWindow},
		{"runs past window", ticket, phase("Late", date(2026, 3, 30), 5, 10), ErrOutOfSaleWindow},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := AddOrUpdatePhase(nil, test.ticket, test.candidate, -1)
			assert.ErrorIs(t, err, test.want)
			assert.Empty(t, got)
		})
	}
}

func TestAddOrUpdatePhase_QuotaBeatsOverlap(t *testing.T) {
	// Phase B both overlaps A and pushes the quota total over the cap;
	// the quota check runs first and must win.
	ticket := saleTicket(100)
	phases, err := AddOrUpdatePhase(nil, ticket, phase("A", date(2026, 3, 1), 10, 60), -1)
	require.NoError(t, err)

	_, err = AddOrUpdatePhase(phases, ticket, phase("B", date(2026, 3, 5), 11, 50), -1)
	var quotaErr *QuotaExceededError
	require.ErrorAs(t, err, &quotaErr)
	assert.Equal(t, 110, quotaErr.Attempted)
	assert.Equal(t, 100, quotaErr.Cap)
}

func TestAddOrUpdatePhase_OverlapRejected(t *testing.T) {
	ticket := saleTicket(100)
	phases, err := AddOrUpdatePhase(nil, ticket, phase("A", date(2026, 3, 1), 10, 60), -1)
	require.NoError(t, err)

	got, err := AddOrUpdatePhase(phases, ticket, phase("B", date(2026, 3, 5), 11, 30), -1)
	assert.ErrorIs(t, err, ErrPhaseOverlap)
	assert.Len(t, got, 1, "failed add must leave the list unchanged")
}

func TestAddOrUpdatePhase_QuotaBoundaryEquality(t *testing.T) {
	ticket := saleTicket(100)
	phases, err := AddOrUpdatePhase(nil, ticket, phase("A", date(2026, 3, 1), 10, 60), -1)
	require.NoError(t, err)

	phases, err = AddOrUpdatePhase(phases, ticket, phase("C", date(2026, 3, 11), 10, 40), -1)
	require.NoError(t, err)
	assert.Len(t, phases, 2)
	assert.Equal(t, 100, PhaseQuotaSum(phases))
}

func TestAddOrUpdatePhase_DerivesEndDate(t *testing.T) {
	ticket := saleTicket(100)
	phases, err := AddOrUpdatePhase(nil, ticket, phase("A", date(2026, 3, 1), 10, 60), -1)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 3, 10), phases[0].Value.EndDate)
}

func TestAddOrUpdatePhase_EditKeepsIdentityAndExcludesSelf(t *testing.T) {
	ticket := saleTicket(100)
	phases := []model.Record[model.PricePhase]{
		model.PersistedRecord("phase-1", phase("A", date(2026, 3, 1), 10, 60)),
	}
	phases[0].Value.EndDate = date(2026, 3, 10)

	// Re-dating the phase over its own interval is not an overlap, and the
	// quota check must not double-count the edited phase.
	edited := phase("A+", date(2026, 3, 2), 9, 100)
	next, err := AddOrUpdatePhase(phases, ticket, edited, 0)
	require.NoError(t, err)
	assert.Equal(t, "phase-1", next[0].RemoteID)
	assert.Equal(t, phases[0].LocalKey, next[0].LocalKey)
	assert.Equal(t, "A+", next[0].Value.Name)
}

func TestRemovePhase(t *testing.T) {
	phases := []model.Record[model.PricePhase]{
		model.PersistedRecord("phase-1", phase("A", date(2026, 3, 1), 10, 60)),
		model.NewRecord(phase("B", date(2026, 3, 11), 10, 40)),
	}

	next, removed := RemovePhase(phases, 0)
	assert.Len(t, next, 1)
	assert.Equal(t, "phase-1", removed.RemoteID)
	assert.Equal(t, "B", next[0].Value.Name)

	next, removed = RemovePhase(next, 5)
	assert.Len(t, next, 1)
	assert.Empty(t, removed.LocalKey)
}
