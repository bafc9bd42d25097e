package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisibleSteps(t *testing.T) {
	snap := testSnapshot()

	d := NewDraft(SessionContext{TheaterName: testTheater})
	assert.Equal(t, []StepID{StepOverview, StepOccasion, StepTerms}, VisibleSteps(d, snap))

	d.Services["Cakes"] = Yes
	d.Services["Gifts"] = Yes
	d.Services["Movies"] = Yes
	assert.Equal(t, []StepID{StepOverview, StepOccasion, ServiceStep("Gifts"), ServiceStep("Cakes"), StepTerms}, VisibleSteps(d, snap),
		"service steps follow catalog order and the movie picker never gets a step")
}

func TestVisibleSteps_DecorationOnlyOccasions(t *testing.T) {
	snap := testSnapshot()
	snap.Occasions = snap.Occasions[:1]

	d := NewDraft(SessionContext{})
	assert.NotContains(t, VisibleSteps(d, snap), StepOccasion)

	syncDecoration(d, snap, true)
	assert.Equal(t, []StepID{StepOverview, StepOccasion, ServiceStep("Decoration Extras"), StepTerms}, VisibleSteps(d, snap))
}

func TestStepID_Service(t *testing.T) {
	name, ok := ServiceStep("Gifts").Service()
	assert.True(t, ok)
	assert.Equal(t, "Gifts", name)

	_, ok = StepTerms.Service()
	assert.False(t, ok)
}

func TestSession_ContinueRequiresServiceItems(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	fillContact(t, s)
	require.NoError(t, s.SetService("Gifts", true))

	step, err := s.Continue()
	require.NoError(t, err)
	assert.Equal(t, StepOccasion, step)

	step, err = s.Continue()
	require.NoError(t, err)
	assert.Equal(t, ServiceStep("Gifts"), step)

	_, err = s.Continue()
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Gifts Selection Required", fe.Title)
	assert.Equal(t, "Please select at least one item from Gifts or choose No.", fe.Message)
	assert.Equal(t, ServiceStep("Gifts"), s.ActiveStep())

	applied, err := s.ToggleItem("Gifts", "g1")
	require.NoError(t, err)
	assert.True(t, applied)

	step, err = s.Continue()
	require.NoError(t, err)
	assert.Equal(t, StepTerms, step)

	// the last step only validates
	step, err = s.Continue()
	require.NoError(t, err)
	assert.Equal(t, StepTerms, step)
}

func TestSession_ActiveStepFallsBackWhenRemoved(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)
	fillContact(t, s)
	require.NoError(t, s.SetService("Cakes", true))

	step, err := s.GoTo(ServiceStep("Cakes"))
	require.NoError(t, err)
	assert.Equal(t, ServiceStep("Cakes"), step)

	require.NoError(t, s.SetService("Cakes", false))
	assert.Equal(t, StepOverview, s.ActiveStep())
}

func TestSession_GoToValidatesSkippedSteps(t *testing.T) {
	env := newTestEnv(t)
	s := env.open(t)

	step, err := s.GoTo(StepTerms)
	var fe *FormValidationError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "Name Required", fe.Title)
	assert.Equal(t, StepOverview, step)

	_, err = s.GoTo(ServiceStep("Cakes"))
	assert.ErrorIs(t, err, ErrUnknownStep)

	fillContact(t, s)
	step, err = s.GoTo(StepTerms)
	require.NoError(t, err)
	assert.Equal(t, StepTerms, step)

	step, err = s.Back()
	require.NoError(t, err)
	assert.Equal(t, StepOccasion, step)
}
