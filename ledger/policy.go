package ledger

import (
	"strings"
	"time"

	"confdesk-cli/model"
)

// AddOrUpdatePolicy appends candidate, or replaces in place when editIndex
// is in range. Policies only require a name.
func AddOrUpdatePolicy(policies []model.Record[model.Policy], candidate model.Policy, editIndex int) ([]model.Record[model.Policy], error) {
	if strings.TrimSpace(candidate.Name) == "" {
		return policies, ErrEmptyName
	}
	next := append([]model.Record[model.Policy]{}, policies...)
	if editIndex >= 0 && editIndex < len(policies) {
		next[editIndex].Value = candidate
		return next, nil
	}
	candidate.Order = len(policies) + 1
	return append(next, model.NewRecord(candidate)), nil
}

// AddOrUpdateRefundPolicy enforces that the deadline precedes the
// conference start and that the refund order is unique.
func AddOrUpdateRefundPolicy(policies []model.Record[model.RefundPolicy], candidate model.RefundPolicy, confStart time.Time, editIndex int) ([]model.Record[model.RefundPolicy], error) {
	if candidate.Deadline.IsZero() || !candidate.Deadline.Before(confStart) {
		return policies, ErrRefundDeadlineLate
	}
	editing := editIndex >= 0 && editIndex < len(policies)
	for i, policy := range policies {
		if editing && i == editIndex {
			continue
		}
		if policy.Value.Order == candidate.Order {
			return policies, ErrRefundOrderTaken
		}
	}
	next := append([]model.Record[model.RefundPolicy]{}, policies...)
	if editing {
		next[editIndex].Value = candidate
		return next, nil
	}
	return append(next, model.NewRecord(candidate)), nil
}

// RemovePolicy drops the policy at index and returns the removed record.
func RemovePolicy(policies []model.Record[model.Policy], index int) ([]model.Record[model.Policy], model.Record[model.Policy]) {
	if index < 0 || index >= len(policies) {
		return policies, model.Record[model.Policy]{}
	}
	removed := policies[index]
	next := append([]model.Record[model.Policy]{}, policies[:index]...)
	next = append(next, policies[index+1:]...)
	return next, removed
}

// RemoveRefundPolicy drops the refund policy at index.
func RemoveRefundPolicy(policies []model.Record[model.RefundPolicy], index int) ([]model.Record[model.RefundPolicy], model.Record[model.RefundPolicy]) {
	if index < 0 || index >= len(policies) {
		return policies, model.Record[model.RefundPolicy]{}
	}
	removed := policies[index]
	next := append([]model.Record[model.RefundPolicy]{}, policies[:index]...)
	next = append(next, policies[index+1:]...)
	return next, removed
}
