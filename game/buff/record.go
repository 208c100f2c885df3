package buff

import "github.com/kasuganosora/railsim/game/stats"

// Phase is a turn phase at which records unlock or decay.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseStart
	PhaseAction
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "Start"
	case PhaseAction:
		return "Action"
	case PhaseEnd:
		return "End"
	}
	return "None"
}

// Status is a crowd-control state.
type Status string

const (
	Frozen       Status = "Frozen"
	Entanglement Status = "Entanglement"
	Imprisoned   Status = "Imprisoned"
)

// Source is the unit a percentage magnitude reads its stat from.
type Source interface {
	Name() string
	Stats() *stats.Sheet
}

// Magnitude is a per-stack amount, either flat or a fraction of a stat of
// the source unit at resolution time.
type Magnitude struct {
	Value  float64
	Stat   stats.Stat
	Source Source
}

// Flat returns a flat magnitude.
func Flat(v float64) Magnitude { return Magnitude{Value: v} }

// Percent returns a magnitude of v times src's runtime stat.
func Percent(v float64, stat stats.Stat, src Source) Magnitude {
	return Magnitude{Value: v, Stat: stat, Source: src}
}

// IsPercent reports whether the magnitude scales with a source stat.
func (m Magnitude) IsPercent() bool { return m.Source != nil && m.Stat != "" }

// Resolve returns the total amount for the given number of stacks.
func (m Magnitude) Resolve(stack int) float64 {
	v := float64(stack) * m.Value
	if m.IsPercent() {
		v *= m.Source.Stats().Get(m.Stat)
	}
	return v
}

// Effect is the category-specific payload of a record. The set of variants is
// closed; Fold switches over all of them.
type Effect interface {
	effect()
}

// StatDelta changes a scalar stat by Value per stack.
type StatDelta struct {
	Stat  stats.Stat
	Value float64
}

// KeyedDelta changes one key of a keyed stat by Value per stack.
type KeyedDelta struct {
	Stat  stats.Stat
	Key   string
	Value float64
}

// Crit changes CRIT Rate and CRIT DMG per stack.
type Crit struct {
	Rate float64
	DMG  float64
}

// DoT deals damage of its type at the owner's turn start.
type DoT struct {
	Type      stats.DamageType
	Magnitude Magnitude
}

// HealOverTime heals the owner at turn start.
type HealOverTime struct {
	Magnitude Magnitude
}

// CrowdControl puts the owner in Status. SPDCut per stack is subtracted from
// runtime SPD.
type CrowdControl struct {
	Status Status
	SPDCut float64
}

func (StatDelta) effect()    {}
func (KeyedDelta) effect()   {}
func (Crit) effect()         {}
func (DoT) effect()          {}
func (HealOverTime) effect() {}
func (CrowdControl) effect() {}

// DMGBoost is shorthand for a DMG Boost keyed delta.
func DMGBoost(key string, v float64) KeyedDelta {
	return KeyedDelta{Stat: stats.DMGBoost, Key: key, Value: v}
}

// Record is one buff or debuff instance.
type Record struct {
	ID       string
	Effect   Effect
	MaxStack int
	Stack    int
	Decay    Phase
	Turns    int
	Unlock   Phase
	Locked   bool
}

// merge folds a re-application of the same ID into r. Stacks are summed and
// capped at r's MaxStack; Effect, Turns and Locked take the incoming values.
func (r *Record) merge(in Record) {
	stack := r.Stack + in.Stack
	if stack > r.MaxStack {
		stack = r.MaxStack
	}
	r.Stack = stack
	r.Effect = in.Effect
	r.Turns = in.Turns
	r.Locked = in.Locked
}

// normalized fixes up the stack fields of a freshly added record.
func (r Record) normalized() Record {
	if r.MaxStack < 1 {
		r.MaxStack = 1
	}
	if r.Stack < 1 {
		r.Stack = 1
	}
	if r.Stack > r.MaxStack {
		r.Stack = r.MaxStack
	}
	return r
}
