package statemachine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlow() *StateMachine[string] {
	sm := New("verifying")
	sm.Allow("verifying", "accepting", "error", "timeout")
	sm.Allow("accepting", "preparing", "error", "timeout")
	sm.Allow("preparing", "complete", "error", "timeout")
	sm.Terminal("complete", "error", "timeout")
	return sm
}

func TestTransitTo_FollowsTable(t *testing.T) {
	sm := newFlow()

	require.NoError(t, sm.TransitTo("accepting"))
	require.NoError(t, sm.TransitTo("preparing"))
	require.NoError(t, sm.TransitTo("complete"))

	assert.Equal(t, "complete", sm.Current())
	assert.True(t, sm.Done())
}

func TestTransitTo_RejectsUnknownTransition(t *testing.T) {
	sm := newFlow()
	err := sm.TransitTo("complete")
	assert.Error(t, err)
	assert.Equal(t, "verifying", sm.Current())
}

func TestTerminalLatch_RejectsLateTransitions(t *testing.T) {
	sm := newFlow()
	require.NoError(t, sm.TransitTo("accepting"))
	require.NoError(t, sm.ForceTo("timeout"))

	// A slow step finishing after the deadline fired must not win.
	assert.Error(t, sm.TransitTo("preparing"))
	assert.Error(t, sm.ForceTo("complete"))
	assert.Equal(t, "timeout", sm.Current())
}

func TestForceTo_PreemptsFromAnyState(t *testing.T) {
	sm := newFlow()
	require.NoError(t, sm.TransitTo("accepting"))
	require.NoError(t, sm.TransitTo("preparing"))
	require.NoError(t, sm.ForceTo("error"))
	assert.True(t, sm.Done())
}

func TestOnEnterHooks(t *testing.T) {
	sm := newFlow()
	var entered []string
	sm.OnEnter("accepting", func(s string) { entered = append(entered, s) })
	sm.OnEnter("complete", func(s string) { entered = append(entered, s) })

	require.NoError(t, sm.TransitTo("accepting"))
	require.NoError(t, sm.TransitTo("preparing"))
	require.NoError(t, sm.TransitTo("complete"))

	assert.Equal(t, []string{"accepting", "complete"}, entered)
}

func TestReset_ClearsLatchAndHistory(t *testing.T) {
	sm := newFlow()
	require.NoError(t, sm.TransitTo("accepting"))
	require.NoError(t, sm.ForceTo("error"))
	require.True(t, sm.Done())

	sm.Reset()

	assert.Equal(t, "verifying", sm.Current())
	assert.False(t, sm.Done())
	assert.Empty(t, sm.History())
	require.NoError(t, sm.TransitTo("accepting"))
}

func TestHistory_RecordsForcedFlag(t *testing.T) {
	sm := newFlow()
	require.NoError(t, sm.TransitTo("accepting"))
	require.NoError(t, sm.ForceTo("timeout"))

	h := sm.History()
	require.Len(t, h, 2)
	assert.False(t, h[0].Forced)
	assert.True(t, h[1].Forced)
	assert.Equal(t, "accepting", h[1].From)
	assert.Equal(t, "timeout", h[1].To)
}
