package battle

import (
	"slices"

	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// Level defaults.
const (
	DefaultPlayerLevel = 80
	DefaultEnemyLevel  = 90
	// playerToughness fills the inert gauge of player units.
	playerToughness = 100
)

// UnitConfig holds the construction parameters of a Base.
type UnitConfig struct {
	Name         string
	Side         Side
	Level        int
	DamageType   stats.DamageType
	Profile      stats.Profile
	Extra        stats.Extra
	MaxEnergy    float64
	MaxToughness float64
	Weaknesses   []stats.DamageType
	Boss         bool
}

// Base is the shared implementation of Unit. Concrete units embed *Base and
// override the hooks they need; Base reaches every overridable hook through
// the handle set by Bind so that overrides and modifiers are honoured.
type Base struct {
	self Unit

	name       string
	side       Side
	level      int
	damageType stats.DamageType
	boss       bool

	profile *stats.Sheet
	extra   stats.Extra
	layered *stats.Sheet
	runtime *stats.Sheet
	status  buff.StatusSet

	hp           float64
	energy       float64
	maxEnergy    float64
	toughness    float64
	maxToughness float64
	weaknesses   []stats.DamageType

	buffs   buff.Ledger
	debuffs buff.Ledger
	tally   *Tally

	lowExtraTurnPriority bool
	inExtraTurn          bool
}

// NewBase builds a Base bound to itself. Embedding types must call Bind with
// their own handle after construction.
func NewBase(cfg UnitConfig) *Base {
	if cfg.Level == 0 {
		cfg.Level = DefaultPlayerLevel
		if cfg.Side == SideEnemy {
			cfg.Level = DefaultEnemyLevel
		}
	}
	if cfg.Side == SidePlayer && cfg.MaxToughness == 0 {
		cfg.MaxToughness = playerToughness
	}
	b := &Base{
		name:                 cfg.Name,
		side:                 cfg.Side,
		level:                cfg.Level,
		damageType:           cfg.DamageType,
		boss:                 cfg.Boss,
		profile:              cfg.Profile.Sheet(),
		extra:                cfg.Extra,
		maxEnergy:            cfg.MaxEnergy,
		energy:               cfg.MaxEnergy / 2,
		maxToughness:         cfg.MaxToughness,
		weaknesses:           slices.Clone(cfg.Weaknesses),
		tally:                NewTally(),
		lowExtraTurnPriority: true,
	}
	for _, w := range b.weaknesses {
		b.profile.SetKeyed(stats.RESBoost, string(w), 0)
	}
	b.Bind(b)
	return b
}

// Bind sets the outermost handle, rebuilds runtime stats and fills HP and
// toughness.
func (b *Base) Bind(self Unit) {
	b.self = self
	b.Refresh()
	b.hp = b.runtime.Get(stats.HP)
	b.toughness = b.maxToughness
}

// Self returns the outermost handle. Abilities use it as the acting unit.
func (b *Base) Self() Unit { return b.self }

// Refresh rebuilds the runtime sheet from scratch.
func (b *Base) Refresh() {
	base := b.profile.Clone()
	extra := b.extra
	b.self.ContributeStats(base, &extra)
	rt := base.Clone()
	b.status = buff.Fold(rt, b.buffs.All(), b.debuffs.All())
	extra.Apply(rt, base)
	if rt.Get(stats.SPD) < stats.MinSPD {
		rt.Set(stats.SPD, stats.MinSPD)
	}
	b.layered = base
	b.runtime = rt
}

func (b *Base) ContributeStats(*stats.Sheet, *stats.Extra) {}

func (b *Base) Name() string                   { return b.name }
func (b *Base) Side() Side                     { return b.side }
func (b *Base) Level() int                     { return b.level }
func (b *Base) DamageType() stats.DamageType   { return b.damageType }
func (b *Base) IsBoss() bool                   { return b.boss }
func (b *Base) Stats() *stats.Sheet            { return b.runtime }
func (b *Base) BaseStats() *stats.Sheet        { return b.layered }
func (b *Base) HP() float64                    { return b.hp }
func (b *Base) Energy() float64                { return b.energy }
func (b *Base) MaxEnergy() float64             { return b.maxEnergy }
func (b *Base) Toughness() float64             { return b.toughness }
func (b *Base) MaxToughness() float64          { return b.maxToughness }
func (b *Base) Weaknesses() []stats.DamageType { return slices.Clone(b.weaknesses) }
func (b *Base) Buffs() *buff.Ledger            { return &b.buffs }
func (b *Base) Debuffs() *buff.Ledger          { return &b.debuffs }
func (b *Base) Tally() *Tally                  { return b.tally }
func (b *Base) TurnsLeft() int                 { return 0 }
func (b *Base) LowExtraTurnPriority() bool     { return b.lowExtraTurnPriority }
func (b *Base) InExtraTurn() bool              { return b.inExtraTurn }
func (b *Base) SetInExtraTurn(v bool)          { b.inExtraTurn = v }

// SetLowExtraTurnPriority controls whether ultimates may be cast before this
// unit's extra-turn action.
func (b *Base) SetLowExtraTurnPriority(v bool) { b.lowExtraTurnPriority = v }

// SetHP sets HP directly, clamped to [0, max HP]. It is not healing.
func (b *Base) SetHP(v float64) {
	b.hp = min(max(v, 0), b.runtime.Get(stats.HP))
}

func (b *Base) SetEnergy(v float64) { b.energy = max(v, 0) }

// RegenerateEnergy adds energy without capping it at the maximum.
func (b *Base) RegenerateEnergy(amount float64) { b.SetEnergy(b.energy + amount) }

func (b *Base) HasWeakness(t stats.DamageType) bool { return slices.Contains(b.weaknesses, t) }

func (b *Base) CrowdControlled() bool { return len(b.status) > 0 }

func (b *Base) HasStatus(s buff.Status) bool { return b.status.Has(s) }

func (b *Base) ChooseAction(*Field) Action { return NewAction(ActionPass, b.self) }

func (b *Base) TryActivateUlt(*Field) *Action { return nil }

// TakeAction unlocks Action-phase records, refills toughness and asks the
// unit for its action. A frozen unit passes.
func (b *Base) TakeAction(f *Field) Action {
	b.buffs.Unlock(buff.PhaseAction)
	b.debuffs.Unlock(buff.PhaseAction)
	b.toughness = b.maxToughness
	if b.HasStatus(buff.Frozen) {
		return NewAction(ActionPass, b.self)
	}
	return b.self.ChooseAction(f)
}

func (b *Base) BasicATK([]Unit, int) ([]Command, bool)  { return nil, true }
func (b *Base) Skill([]Unit, int) ([]Command, bool)     { return nil, true }
func (b *Base) Ultimate([]Unit, int) ([]Command, bool)  { return nil, true }
func (b *Base) Talent([]Unit, int) ([]Command, bool)    { return nil, true }
func (b *Base) ExtraMove([]Unit, int) ([]Command, bool) { return nil, true }

// StartTurn resolves heal-over-time buffs and DoT debuffs into commands,
// then counts down Start-phase records.
func (b *Base) StartTurn() []Command {
	b.buffs.Unlock(buff.PhaseStart)
	b.debuffs.Unlock(buff.PhaseStart)

	var cmds []Command
	for _, r := range b.buffs.All() {
		if hot, ok := r.Effect.(buff.HealOverTime); ok {
			src := sourceUnit(hot.Magnitude.Source, b.self)
			cmds = append(cmds, Heal(src, Amount{Target: b.self, Value: hot.Magnitude.Resolve(r.Stack)}))
		}
	}
	for _, r := range b.debuffs.All() {
		if dot, ok := r.Effect.(buff.DoT); ok {
			src := sourceUnit(dot.Magnitude.Source, b.self)
			tags := stats.Tags{r.ID, stats.TagDoT, string(dot.Type)}
			cmds = append(cmds, DMG(src, HitOn(b.self, dot.Magnitude.Resolve(r.Stack), 0, tags)))
		}
	}

	removedBuffs := b.buffs.Tick(buff.PhaseStart)
	removedDebuffs := b.debuffs.Tick(buff.PhaseStart)
	if removedBuffs || removedDebuffs {
		b.self.Refresh()
	}
	return cmds
}

// EndTurn counts down End-phase records. A unit that spent the turn frozen
// gets its next turn advanced by half a lap.
func (b *Base) EndTurn() []Command {
	frozen := b.HasStatus(buff.Frozen)
	b.buffs.Unlock(buff.PhaseEnd)
	b.debuffs.Unlock(buff.PhaseEnd)
	removedBuffs := b.buffs.Tick(buff.PhaseEnd)
	removedDebuffs := b.debuffs.Tick(buff.PhaseEnd)

	var cmds []Command
	if frozen {
		cmds = append(cmds, Advance(b.self, b.self, 0.5))
	}
	if removedBuffs || removedDebuffs {
		b.self.Refresh()
	}
	return cmds
}

func (b *Base) CheckExtraCommands(*Field, *Blackboard) []Command { return nil }
func (b *Base) CheckExtraAction(*Field, *Blackboard) *Action     { return nil }
func (b *Base) CheckExtraTurn(*Field, *Blackboard) *Action       { return nil }

func (b *Base) StartATK([]Unit, *Field) []Command { return nil }
func (b *Base) EndATK([]Unit, *Field) []Command   { return nil }
func (b *Base) EndDMG([]Hit, *Field) []Command    { return nil }

// AmendOutgoingDMG applies DMG Boost (or Break Effect for break damage) and
// Weaken.
func (b *Base) AmendOutgoingDMG(d Damage, _ Unit, tags stats.Tags, _ *Field) Damage {
	return d.Scale(OutgoingMultiplier(b.runtime, tags))
}

// CritDMG applies the unit's crit stats. DoT and break damage never crit.
func (b *Base) CritDMG(d Damage, _ Unit, tags stats.Tags, f *Field, expected bool) (Damage, bool) {
	if !CanCrit(tags) {
		return d, false
	}
	return ApplyCrit(d, b.runtime.Get(stats.CritRate), b.runtime.Get(stats.CritDMG), f.Rand(), expected)
}

// ReduceIncomingDMG applies DEF, RES, DMG Taken Increase and DMG Taken
// Decrease.
func (b *Base) ReduceIncomingDMG(d Damage, source Unit, tags stats.Tags, _ *Field) Damage {
	return d.Scale(IncomingMultiplier(b.runtime, source.Stats(), source.Level(), tags))
}

func (b *Base) AmendOutgoingHealing(hp float64, _ Unit, _ *Field) float64 {
	return (1 + b.runtime.Get(stats.OutgoingHealingBoost)) * hp
}

func (b *Base) AmendIncomingHealing(hp float64, _ Unit, _ *Field) float64 {
	return (1 + b.runtime.Get(stats.IncomingHealingBoost)) * hp
}

func (b *Base) AmendOutgoingEffectChance(chance float64, _ Unit, _ *Field) float64 {
	return (1 + b.runtime.Get(stats.EffectHitRate)) * chance
}

// AmendIncomingEffectChance applies Effect RES and clamps to [0, 1].
func (b *Base) AmendIncomingEffectChance(chance float64, _ buff.Record, _ Unit, _ *Field) float64 {
	return clamp((1-b.runtime.Get(stats.EffectRES))*chance, 0, 1)
}

// TakeDMG applies damage, and toughness damage if the type is a weakness. A
// hit that empties the gauge returns a Break command.
func (b *Base) TakeDMG(d Damage, source Unit, tags stats.Tags, _ *Field) []Command {
	t := tags.Type()
	brk := d.Break
	if !b.HasWeakness(t) {
		brk = 0
	}
	b.hp = max(b.hp-d.DMG, 0)
	before := b.toughness
	b.toughness -= brk
	if brk > 0 && b.maxToughness > 0 && before > 0 && b.toughness <= 0 {
		return []Command{Break(source, b.self, t)}
	}
	return nil
}

// TakeHealing restores HP up to the runtime maximum and returns the amount
// actually restored.
func (b *Base) TakeHealing(hp float64, _ Unit, _ *Field) float64 {
	limit := b.runtime.Get(stats.HP)
	// Max HP may have dropped below current HP since the last change.
	b.hp = min(b.hp, limit)
	if b.hp >= limit || hp <= 0 {
		return 0
	}
	before := b.hp
	b.hp = min(b.hp+hp, limit)
	return b.hp - before
}

// ConsumeHP removes HP without going below 1 and returns the amount actually
// removed. A unit already below 1 HP is left as it is.
func (b *Base) ConsumeHP(hp float64, _ Unit, _ *Field) float64 {
	before := b.hp
	if before < 1 || hp <= 0 {
		return 0
	}
	b.hp = max(before-hp, 1)
	return before - b.hp
}

func (b *Base) AddBuff(r buff.Record) {
	b.buffs.Add(r)
	b.self.Refresh()
}

func (b *Base) AddDebuff(r buff.Record) {
	b.debuffs.Add(r)
	b.self.Refresh()
}

func (b *Base) DispelBuff(id string) bool {
	if !b.buffs.Remove(id) {
		return false
	}
	b.self.Refresh()
	return true
}

func (b *Base) DispelDebuff(id string) bool {
	if !b.debuffs.Remove(id) {
		return false
	}
	b.self.Refresh()
	return true
}

// MaybeAddDebuff applies r with the given probability.
func (b *Base) MaybeAddDebuff(chance float64, r buff.Record, f *Field) bool {
	if f.Rand().Float64() >= chance {
		return false
	}
	b.self.AddDebuff(r)
	return true
}

// sourceUnit recovers the unit behind a magnitude source.
func sourceUnit(src buff.Source, fallback Unit) Unit {
	if u, ok := src.(Unit); ok && u != nil {
		return u
	}
	return fallback
}

func clamp(v, lo, hi float64) float64 {
	return min(max(v, lo), hi)
}
