package battle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fourSpeeds() []Unit {
	return []Unit{
		newProbe("S50", SidePlayer, 50),
		newProbe("S100", SidePlayer, 100),
		newProbe("S150", SidePlayer, 150),
		newProbe("S200", SidePlayer, 200),
	}
}

func TestScheduler_Peek_FastestFirst(t *testing.T) {
	s := NewScheduler(DefaultLapDistance, fourSpeeds())

	u, tm := s.Peek()
	require.NotNil(t, u)
	assert.Equal(t, "S200", u.Name())
	assert.InDelta(t, 50, tm, 1e-9)
}

func TestScheduler_Pass_DistanceBookkeeping(t *testing.T) {
	units := fourSpeeds()
	s := NewScheduler(DefaultLapDistance, units)

	_, tm := s.Peek()
	s.Pass(tm)

	assert.InDelta(t, 50, s.Elapsed(), 1e-9)
	assert.InDelta(t, 7500, s.Distance(units[0]), 1e-9)
	assert.InDelta(t, 5000, s.Distance(units[1]), 1e-9)
	assert.InDelta(t, 2500, s.Distance(units[2]), 1e-9)
	assert.InDelta(t, 0, s.Distance(units[3]), 1e-9)

	s.Reset(units[3])
	s.Resort()
	next, tm := s.Peek()
	assert.Equal(t, "S150", next.Name())
	assert.InDelta(t, 2500.0/150, tm, 1e-9)
}

func TestScheduler_Resort_StableTieBreak(t *testing.T) {
	a := newProbe("A", SideEnemy, 100)
	b := newProbe("B", SidePlayer, 100)
	s := NewScheduler(DefaultLapDistance, []Unit{a, b})

	first, _ := s.Peek()
	assert.Equal(t, "A", first.Name())

	// B is reinserted at the same distance and still loses the tie.
	s.Reset(b)
	s.Resort()
	first, _ = s.Peek()
	assert.Equal(t, "A", first.Name())
}

func TestScheduler_AdvanceUnit_FloorsAtZero(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	s := NewScheduler(DefaultLapDistance, []Unit{u})

	s.AdvanceUnit(u, 0.3)
	assert.InDelta(t, 7000, s.Distance(u), 1e-9)
	s.AdvanceUnit(u, 1.5)
	assert.Equal(t, 0.0, s.Distance(u))
}

func TestScheduler_DelayUnit_Unbounded(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	s := NewScheduler(DefaultLapDistance, []Unit{u})

	s.DelayUnit(u, 0.55)
	s.DelayUnit(u, 1)
	assert.InDelta(t, 25500, s.Distance(u), 1e-9)
}

func TestScheduler_Resort_FollowsSpeedChanges(t *testing.T) {
	slow := newProbe("Slow", SidePlayer, 90)
	fast := newProbe("Fast", SidePlayer, 100)
	s := NewScheduler(DefaultLapDistance, []Unit{slow, fast})

	first, _ := s.Peek()
	assert.Equal(t, "Fast", first.Name())

	fast.AddDebuff(imprisoned(20))
	s.Resort()
	first, _ = s.Peek()
	assert.Equal(t, "Slow", first.Name())
}

func TestScheduler_UnknownUnit_IsProtocolViolation(t *testing.T) {
	s := NewScheduler(DefaultLapDistance, []Unit{newProbe("A", SidePlayer, 100)})
	stranger := newProbe("B", SidePlayer, 100)

	pe := catchProtocol(func() { s.AdvanceUnit(stranger, 0.1) })
	require.NotNil(t, pe)
	assert.Equal(t, "Advance", pe.Op)
}
