// Package reconcile partitions a wizard working set into the operation
// batches the finalize driver submits. Planning is a pure function over
// the working set and the running deleted-id list; sequencing the network
// calls and clearing the deleted ids after the deletes succeed is the
// caller's job.
package reconcile

import "confdesk-cli/model"

// Plan holds the three disjoint operation batches for one entity kind.
// Every record with a remote id lands in ToUpdate regardless of whether it
// changed; the backend treats redundant updates as no-ops.
type Plan[T any] struct {
	ToCreate []model.Record[T]
	ToUpdate []model.Record[T]
	ToDelete []string
}

// PlanReconciliation splits workingSet by persistence state and copies
// deletedIDs into the delete batch.
func PlanReconciliation[T any](workingSet []model.Record[T], deletedIDs []string) Plan[T] {
	plan := Plan[T]{ToDelete: append([]string{}, deletedIDs...)}
	for _, record := range workingSet {
		if record.Persisted() {
			plan.ToUpdate = append(plan.ToUpdate, record)
		} else {
			plan.ToCreate = append(plan.ToCreate, record)
		}
	}
	return plan
}

// IsEmpty reports whether the plan requires no network calls.
func (p Plan[T]) IsEmpty() bool {
	return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0 && len(p.ToDelete) == 0
}
