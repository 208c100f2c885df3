package battle

import (
	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// breakTypeCoef scales break damage per damage type.
var breakTypeCoef = map[stats.DamageType]float64{
	stats.Physical:  2,
	stats.Fire:      2,
	stats.Ice:       1,
	stats.Lightning: 1,
	stats.Wind:      1.5,
	stats.Quantum:   0.5,
	stats.Imaginary: 0.5,
}

// breakDelay is the action delay applied on break, as a fraction of a lap.
var breakDelay = map[stats.DamageType]float64{
	stats.Quantum:   0.45,
	stats.Imaginary: 0.55,
}

const (
	defaultBreakDelay = 0.25
	// breakChance is above 1 so Effect RES still matters.
	breakChance = 1.5
	levelCoef80 = 3767.5533
)

// Break debuff identifiers.
const (
	DebuffBleed        = "Bleed"
	DebuffBurn         = "Burn"
	DebuffShock        = "Shock"
	DebuffWindShear    = "Wind Shear"
	DebuffFrozen       = "Frozen"
	DebuffFreeze       = "Freeze"
	DebuffEntanglement = "Entanglement"
	DebuffImprisonment = "Imprisonment"
)

// LevelCoef is the break level multiplier of an attacker at level.
func LevelCoef(level int) float64 {
	return levelCoef80 * float64(level) / 80
}

// ToughnessCoef scales break damage by the target's max toughness.
func ToughnessCoef(maxToughness float64) float64 {
	return 0.5 + maxToughness/120
}

// WeaknessBreak resolves a break of type t dealt by source: break damage, an
// action delay and the type's debuff.
func (b *Base) WeaknessBreak(t stats.DamageType, source Unit, _ *Field) []Command {
	self := b.self
	lc := LevelCoef(source.Level())
	tc := ToughnessCoef(b.maxToughness)

	cmds := []Command{
		DMG(source, HitOn(self, breakTypeCoef[t]*lc*tc, 0, stats.NewTags(t, stats.TagBreak))),
	}
	delay, ok := breakDelay[t]
	if !ok {
		delay = defaultBreakDelay
	}
	cmds = append(cmds, Delay(source, self, delay))
	for _, r := range b.breakDebuffs(t, source, lc, tc) {
		cmds = append(cmds, Debuff(source, self, breakChance, r))
	}
	return cmds
}

// breakDebuffs are locked until the target's next turn starts.
func (b *Base) breakDebuffs(t stats.DamageType, source Unit, lc, tc float64) []buff.Record {
	dot := func(id string, v float64, turns, stack, maxStack int) buff.Record {
		return buff.Record{
			ID:       id,
			Effect:   buff.DoT{Type: t, Magnitude: buff.Magnitude{Value: v, Source: source}},
			MaxStack: maxStack,
			Stack:    stack,
			Decay:    buff.PhaseStart,
			Turns:    turns,
			Unlock:   buff.PhaseStart,
			Locked:   true,
		}
	}
	cc := func(id string, st buff.Status, cut float64, decay buff.Phase) buff.Record {
		return buff.Record{
			ID:       id,
			Effect:   buff.CrowdControl{Status: st, SPDCut: cut},
			MaxStack: 1,
			Stack:    1,
			Decay:    decay,
			Turns:    1,
			Unlock:   buff.PhaseStart,
			Locked:   true,
		}
	}

	switch t {
	case stats.Physical:
		pct := 0.16
		if b.boss {
			pct = 0.07
		}
		return []buff.Record{dot(DebuffBleed, min(pct*b.runtime.Get(stats.HP), 2*lc*tc), 2, 1, 1)}
	case stats.Fire:
		return []buff.Record{dot(DebuffBurn, lc, 2, 1, 1)}
	case stats.Lightning:
		return []buff.Record{dot(DebuffShock, 2*lc, 2, 1, 1)}
	case stats.Wind:
		stack := 1
		if b.boss {
			stack = 3
		}
		return []buff.Record{dot(DebuffWindShear, lc, 2, stack, 5)}
	case stats.Ice:
		return []buff.Record{
			cc(DebuffFrozen, buff.Frozen, 0, buff.PhaseEnd),
			dot(DebuffFreeze, lc, 1, 1, 1),
		}
	case stats.Quantum:
		return []buff.Record{
			cc(DebuffEntanglement, buff.Entanglement, 0, buff.PhaseStart),
			dot(DebuffEntanglement+" DMG", 0.6*lc*tc, 1, 1, 1),
		}
	case stats.Imaginary:
		return []buff.Record{cc(DebuffImprisonment, buff.Imprisoned, 0.1*b.layered.Get(stats.SPD), buff.PhaseStart)}
	}
	return nil
}
