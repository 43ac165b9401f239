package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confdesk-cli/model"
)

func TestPlanReconciliation_Partition(t *testing.T) {
	// Three persisted tickets loaded; #2 deleted, #1 renamed, #4 added.
	first := model.PersistedRecord("ticket-1", model.TicketType{Name: "General (renamed)"})
	third := model.PersistedRecord("ticket-3", model.TicketType{Name: "Student"})
	fourth := model.NewRecord(model.TicketType{Name: "Workshop"})
	workingSet := []model.Record[model.TicketType]{first, third, fourth}

	plan := PlanReconciliation(workingSet, []string{"ticket-2"})

	require.Len(t, plan.ToCreate, 1)
	assert.Equal(t, "Workshop", plan.ToCreate[0].Value.Name)

	// The unedited #3 is still updated: any persisted record is always
	// included, with no dirty check.
	require.Len(t, plan.ToUpdate, 2)
	assert.Equal(t, "ticket-1", plan.ToUpdate[0].RemoteID)
	assert.Equal(t, "ticket-3", plan.ToUpdate[1].RemoteID)

	assert.Equal(t, []string{"ticket-2"}, plan.ToDelete)
}

func TestPlanReconciliation_BatchesAreDisjointAndCoverWorkingSet(t *testing.T) {
	workingSet := []model.Record[model.TicketType]{
		model.PersistedRecord("ticket-1", model.TicketType{}),
		model.NewRecord(model.TicketType{}),
		model.PersistedRecord("ticket-3", model.TicketType{}),
	}
	deleted := []string{"ticket-9"}

	plan := PlanReconciliation(workingSet, deleted)

	seen := map[string]bool{}
	for _, record := range plan.ToCreate {
		assert.False(t, seen[record.LocalKey])
		seen[record.LocalKey] = true
	}
	for _, record := range plan.ToUpdate {
		assert.False(t, seen[record.LocalKey])
		seen[record.LocalKey] = true
	}
	assert.Len(t, seen, len(workingSet))

	for _, id := range plan.ToDelete {
		for _, record := range plan.ToUpdate {
			assert.NotEqual(t, id, record.RemoteID)
		}
	}
}

func TestPlanReconciliation_Empty(t *testing.T) {
	plan := PlanReconciliation[model.Session](nil, nil)
	assert.True(t, plan.IsEmpty())
	assert.Empty(t, plan.ToDelete)
}

func TestPlanReconciliation_CopiesDeletedIDs(t *testing.T) {
	deleted := []string{"a", "b"}
	plan := PlanReconciliation[model.Policy](nil, deleted)
	plan.ToDelete[0] = "mutated"
	assert.Equal(t, "a", deleted[0])
}
