package battle

import (
	"sort"

	"github.com/kasuganosora/railsim/game/stats"
)

// DefaultLapDistance is the distance a unit covers between two turns.
const DefaultLapDistance = 10000

type slot struct {
	unit     Unit
	distance float64
	time     float64
	seq      int
}

// Scheduler is the distance/speed action queue. The head is the unit with
// the smallest time to its next turn; ties go to the unit inserted first.
type Scheduler struct {
	lap     float64
	elapsed float64
	entries []*slot
	index   map[Unit]*slot
}

// NewScheduler queues units in the given order, each a full lap away.
func NewScheduler(lap float64, units []Unit) *Scheduler {
	if lap <= 0 {
		lap = DefaultLapDistance
	}
	s := &Scheduler{lap: lap, index: make(map[Unit]*slot, len(units))}
	for i, u := range units {
		e := &slot{unit: u, distance: lap, seq: i}
		s.entries = append(s.entries, e)
		s.index[u] = e
	}
	s.Resort()
	return s
}

// Peek returns the next unit to act and its time to act.
func (s *Scheduler) Peek() (Unit, float64) {
	if len(s.entries) == 0 {
		return nil, 0
	}
	e := s.entries[0]
	return e.unit, e.time
}

// Pass advances the clock by t and moves every unit forward.
func (s *Scheduler) Pass(t float64) {
	s.elapsed += t
	for _, e := range s.entries {
		e.distance -= speedOf(e.unit) * t
	}
}

// Reset puts u a full lap away.
func (s *Scheduler) Reset(u Unit) {
	s.slot("Reset", u).distance = s.lap
}

// AdvanceUnit moves u forward by frac of a lap, never past zero.
func (s *Scheduler) AdvanceUnit(u Unit, frac float64) {
	e := s.slot("Advance", u)
	e.distance = max(e.distance-frac*s.lap, 0)
}

// DelayUnit pushes u back by frac of a lap.
func (s *Scheduler) DelayUnit(u Unit, frac float64) {
	s.slot("Delay", u).distance += frac * s.lap
}

// Resort recomputes every unit's time to act from its runtime SPD and
// reorders the queue.
func (s *Scheduler) Resort() {
	for _, e := range s.entries {
		e.time = e.distance / speedOf(e.unit)
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		if s.entries[i].time != s.entries[j].time {
			return s.entries[i].time < s.entries[j].time
		}
		return s.entries[i].seq < s.entries[j].seq
	})
}

// Units returns the queue order. Reactive scans walk it front to back.
func (s *Scheduler) Units() []Unit {
	out := make([]Unit, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.unit
	}
	return out
}

// Distance returns u's remaining distance.
func (s *Scheduler) Distance(u Unit) float64 { return s.slot("Distance", u).distance }

func (s *Scheduler) Elapsed() float64 { return s.elapsed }

func (s *Scheduler) Lap() float64 { return s.lap }

func (s *Scheduler) slot(op string, u Unit) *slot {
	e, ok := s.index[u]
	if !ok {
		violate(op, "unit %q is not in the action queue", nameOf(u))
	}
	return e
}

func speedOf(u Unit) float64 {
	return max(u.Stats().Get(stats.SPD), stats.MinSPD)
}

func nameOf(u Unit) string {
	if u == nil {
		return "<nil>"
	}
	return u.Name()
}
