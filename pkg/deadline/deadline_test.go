package deadline

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArm_FiresAfterTimeout(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSupervisor(15*time.Second, clock)

	fired := make(chan struct{})
	s.Arm(func() { close(fired) })

	clock.BlockUntil(1)
	clock.Advance(15 * time.Second)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("deadline did not fire")
	}
}

func TestCancel_PreventsFiring(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSupervisor(15*time.Second, clock)

	fired := make(chan struct{})
	s.Arm(func() { close(fired) })
	clock.BlockUntil(1)

	s.Cancel()
	clock.Advance(time.Hour)

	select {
	case <-fired:
		t.Fatal("canceled deadline fired")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancel_BeforeExpiryAtBoundary(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSupervisor(15*time.Second, clock)

	fired := make(chan struct{})
	s.Arm(func() { close(fired) })
	clock.BlockUntil(1)

	// Terminal outcome lands just under the wire.
	clock.Advance(14*time.Second + 900*time.Millisecond)
	s.Cancel()
	clock.Advance(time.Hour)

	select {
	case <-fired:
		t.Fatal("deadline fired after cancel at 14.9s")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRearm_SupersedesPreviousWatch(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSupervisor(10*time.Second, clock)

	firstFired := false
	s.Arm(func() { firstFired = true })
	clock.BlockUntil(1)

	fired := make(chan struct{})
	s.Arm(func() { close(fired) })
	clock.BlockUntil(2)

	clock.Advance(10 * time.Second)

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("re-armed deadline did not fire")
	}
	assert.False(t, firstFired, "superseded watch must not fire")
}

func TestCancel_WithoutArmIsNoop(t *testing.T) {
	s := NewSupervisor(time.Second, clockwork.NewFakeClock())
	s.Cancel()
	s.Cancel()
}

func TestSleep_FullDuration(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSupervisor(time.Minute, clock)

	done := make(chan struct{})
	res := make(chan bool, 1)
	go func() { res <- s.Sleep(300*time.Millisecond, done) }()

	clock.BlockUntil(1)
	clock.Advance(300 * time.Millisecond)
	require.True(t, <-res)
}

func TestSleep_InterruptedByDone(t *testing.T) {
	clock := clockwork.NewFakeClock()
	s := NewSupervisor(time.Minute, clock)

	done := make(chan struct{})
	res := make(chan bool, 1)
	go func() { res <- s.Sleep(time.Hour, done) }()

	clock.BlockUntil(1)
	close(done)
	require.False(t, <-res)
}
