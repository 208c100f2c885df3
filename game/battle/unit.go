package battle

import (
	"math/rand"

	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// Side tells players and enemies apart.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

func (s Side) String() string {
	if s == SidePlayer {
		return "player"
	}
	return "enemy"
}

// Field is the shared battle state handed to every unit hook.
type Field struct {
	Enemies []Unit
	Players []Unit
	SP      int
	RNG     *rand.Rand
}

var fallbackRNG = rand.New(rand.NewSource(1))

// Rand returns the battle RNG, or a fixed-seed one for hooks called outside a
// battle.
func (f *Field) Rand() *rand.Rand {
	if f == nil || f.RNG == nil {
		return fallbackRNG
	}
	return f.RNG
}

// Opponents returns the units on the other side of u.
func (f *Field) Opponents(u Unit) []Unit {
	if u.Side() == SidePlayer {
		return f.Enemies
	}
	return f.Players
}

// Allies returns the units on u's side, u included.
func (f *Field) Allies(u Unit) []Unit {
	if u.Side() == SidePlayer {
		return f.Players
	}
	return f.Enemies
}

// Damage is a (damage, toughness damage) pair.
type Damage struct {
	DMG   float64
	Break float64
}

// Scale multiplies the damage part only.
func (d Damage) Scale(m float64) Damage {
	return Damage{DMG: d.DMG * m, Break: d.Break}
}

// Unit is the capability interface the engine drives. Combatants implement
// it by embedding *Base; loadout modifiers implement it by embedding the next
// Unit and overriding only what they change.
type Unit interface {
	Name() string
	Side() Side
	Level() int
	DamageType() stats.DamageType
	IsBoss() bool

	// Stats returns the runtime sheet. It is replaced on every Refresh.
	Stats() *stats.Sheet
	// BaseStats returns the base sheet including modifier contributions.
	BaseStats() *stats.Sheet

	HP() float64
	SetHP(v float64)
	Energy() float64
	SetEnergy(v float64)
	MaxEnergy() float64
	RegenerateEnergy(amount float64)
	Toughness() float64
	MaxToughness() float64
	HasWeakness(t stats.DamageType) bool
	Weaknesses() []stats.DamageType
	CrowdControlled() bool
	HasStatus(s buff.Status) bool
	Buffs() *buff.Ledger
	Debuffs() *buff.Ledger
	Tally() *Tally

	// Bind records the outermost handle of the modifier chain. Every hook
	// Base calls on itself goes through this handle.
	Bind(self Unit)
	Refresh()
	// ContributeStats lets each layer add its base stats and extra stats
	// before buffs are folded in.
	ContributeStats(base *stats.Sheet, extra *stats.Extra)

	ChooseAction(f *Field) Action
	TryActivateUlt(f *Field) *Action
	TakeAction(f *Field) Action
	// TurnsLeft is the number of mini-turns still owed this turn. Units that
	// act once per turn return 0.
	TurnsLeft() int

	BasicATK(targets []Unit, step int) ([]Command, bool)
	Skill(targets []Unit, step int) ([]Command, bool)
	Ultimate(targets []Unit, step int) ([]Command, bool)
	Talent(targets []Unit, step int) ([]Command, bool)
	ExtraMove(targets []Unit, step int) ([]Command, bool)

	StartTurn() []Command
	EndTurn() []Command

	CheckExtraCommands(f *Field, bb *Blackboard) []Command
	CheckExtraAction(f *Field, bb *Blackboard) *Action
	CheckExtraTurn(f *Field, bb *Blackboard) *Action
	LowExtraTurnPriority() bool
	InExtraTurn() bool
	SetInExtraTurn(v bool)

	StartATK(targets []Unit, f *Field) []Command
	EndATK(targets []Unit, f *Field) []Command
	EndDMG(hits []Hit, f *Field) []Command

	AmendOutgoingDMG(d Damage, target Unit, tags stats.Tags, f *Field) Damage
	CritDMG(d Damage, target Unit, tags stats.Tags, f *Field, expected bool) (Damage, bool)
	ReduceIncomingDMG(d Damage, source Unit, tags stats.Tags, f *Field) Damage
	AmendOutgoingHealing(hp float64, target Unit, f *Field) float64
	AmendIncomingHealing(hp float64, source Unit, f *Field) float64
	AmendOutgoingEffectChance(chance float64, target Unit, f *Field) float64
	AmendIncomingEffectChance(chance float64, debuff buff.Record, source Unit, f *Field) float64

	TakeDMG(d Damage, source Unit, tags stats.Tags, f *Field) []Command
	TakeHealing(hp float64, source Unit, f *Field) float64
	ConsumeHP(hp float64, source Unit, f *Field) float64
	WeaknessBreak(t stats.DamageType, source Unit, f *Field) []Command

	AddBuff(r buff.Record)
	AddDebuff(r buff.Record)
	DispelBuff(id string) bool
	DispelDebuff(id string) bool
	MaybeAddDebuff(chance float64, r buff.Record, f *Field) bool
}

// Tally accumulates damage and toughness damage dealt, keyed by the joined
// tag list.
type Tally struct {
	DMG   map[string]float64
	Break map[string]float64
}

func NewTally() *Tally {
	return &Tally{DMG: make(map[string]float64), Break: make(map[string]float64)}
}

// Record adds one resolved hit.
func (t *Tally) Record(tags stats.Tags, d Damage) {
	key := tags.Key()
	t.DMG[key] += d.DMG
	t.Break[key] += d.Break
}

// Total is the sum of all damage dealt.
func (t *Tally) Total() float64 {
	sum := 0.0
	for _, v := range t.DMG {
		sum += v
	}
	return sum
}
