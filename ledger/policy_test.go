package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"confdesk-cli/model"
)

func TestAddOrUpdatePolicy(t *testing.T) {
	_, err := AddOrUpdatePolicy(nil, model.Policy{Description: "no name"}, -1)
	assert.ErrorIs(t, err, ErrEmptyName)

	policies, err := AddOrUpdatePolicy(nil, model.Policy{Name: "Code of Conduct"}, -1)
	require.NoError(t, err)
	policies, err = AddOrUpdatePolicy(policies, model.Policy{Name: "Recording"}, -1)
	require.NoError(t, err)
	assert.Equal(t, 1, policies[0].Value.Order)
	assert.Equal(t, 2, policies[1].Value.Order)
}

func TestAddOrUpdateRefundPolicy(t *testing.T) {
	start := date(2026, 3, 1)

	_, err := AddOrUpdateRefundPolicy(nil, model.RefundPolicy{PercentRefund: 100, Deadline: date(2026, 3, 1), Order: 1}, start, -1)
	assert.ErrorIs(t, err, ErrRefundDeadlineLate)

	policies, err := AddOrUpdateRefundPolicy(nil, model.RefundPolicy{PercentRefund: 100, Deadline: date(2026, 2, 1), Order: 1}, start, -1)
	require.NoError(t, err)

	_, err = AddOrUpdateRefundPolicy(policies, model.RefundPolicy{PercentRefund: 50, Deadline: date(2026, 2, 15), Order: 1}, start, -1)
	assert.ErrorIs(t, err, ErrRefundOrderTaken)

	policies, err = AddOrUpdateRefundPolicy(policies, model.RefundPolicy{PercentRefund: 50, Deadline: date(2026, 2, 15), Order: 2}, start, -1)
	require.NoError(t, err)
	assert.Len(t, policies, 2)

	// Editing a policy must not collide with its own order.
	edited := policies[0].Value
	edited.PercentRefund = 90
	next, err := AddOrUpdateRefundPolicy(policies, edited, start, 0)
	require.NoError(t, err)
	assert.Equal(t, 90, next[0].Value.PercentRefund)
}
