package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceMarksCurrentCompleted(t *testing.T) {
	steps := NewSteps(ModeCreate)
	require.Equal(t, StepBasicInfo, steps.Current)

	steps = steps.Advance()

	assert.Equal(t, StepPricing, steps.Current)
	assert.True(t, steps.Completed(StepBasicInfo))
	assert.False(t, steps.Completed(StepPricing))
}

func TestBackKeepsCompletedSet(t *testing.T) {
	steps := NewSteps(ModeCreate).Advance().Advance()
	require.Equal(t, StepSessions, steps.Current)

	steps = steps.Back()

	assert.Equal(t, StepPricing, steps.Current)
	assert.True(t, steps.Completed(StepBasicInfo))
	assert.True(t, steps.Completed(StepPricing))
}

func TestGotoRejectsUnvisitedStep(t *testing.T) {
	steps := NewSteps(ModeCreate).Advance()

	_, err := steps.Goto(StepMedia)

	assert.ErrorIs(t, err, ErrStepIncomplete)
	assert.Equal(t, StepPricing, steps.Current)
}

func TestGotoAllowsCompletedAndFirstIncomplete(t *testing.T) {
	steps := NewSteps(ModeEdit).Advance().Advance().Back()

	back, err := steps.Goto(StepBasicInfo)
	require.NoError(t, err)
	assert.Equal(t, StepBasicInfo, back.Current)

	// Sessions is the first incomplete step, so jumping there is allowed
	// even though it was never finished.
	forward, err := back.Goto(StepSessions)
	require.NoError(t, err)
	assert.Equal(t, StepSessions, forward.Current)
}

func TestCanFinalizeRequiresEveryStepBeforeReview(t *testing.T) {
	steps := NewSteps(ModeCreate)
	for range StepOrder[:len(StepOrder)-2] {
		steps = steps.Advance()
		assert.False(t, steps.CanFinalize())
	}

	steps = steps.Advance()
	assert.Equal(t, StepReview, steps.Current)
	assert.True(t, steps.CanFinalize())
}

func TestStepsValueSemantics(t *testing.T) {
	original := NewSteps(ModeCreate)
	advanced := original.Advance()

	assert.False(t, original.Completed(StepBasicInfo))
	assert.True(t, advanced.Completed(StepBasicInfo))
}
