package loadout

import (
	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// Dragon's Call buff identifiers.
const (
	BuffDragonsCallATK = "Dragon's Call ATK"
	BuffDragonsCallERR = "Dragon's Call Energy Regeneration Rate"
)

// TheUnreachableSide boosts DMG after the wearer is hit or consumes HP,
// until the end of its next attack.
type TheUnreachableSide struct {
	Modifier

	critRate float64
	hpPct    float64
	dmgBoost float64
	active   bool
}

// NewTheUnreachableSide wraps next. superimposition is clamped to [1, 5].
func NewTheUnreachableSide(next battle.Unit, superimposition int) *TheUnreachableSide {
	s := superimposed(superimposition)
	m := &TheUnreachableSide{
		Modifier: Modifier{next},
		critRate: 0.18 + 0.03*s,
		hpPct:    0.18 + 0.03*s,
		dmgBoost: 0.24 + 0.04*s,
	}
	m.Bind(m)
	return m
}

func (m *TheUnreachableSide) Active() bool { return m.active }

func (m *TheUnreachableSide) ContributeStats(base *stats.Sheet, extra *stats.Extra) {
	m.Unit.ContributeStats(base, extra)
	base.Add(stats.HP, 1270)
	base.Add(stats.ATK, 582)
	base.Add(stats.DEF, 330)
	base.Add(stats.CritRate, m.critRate)
	extra.HPPercent += m.hpPct
	if m.active {
		base.AddKeyed(stats.DMGBoost, stats.KeyAll, m.dmgBoost)
	}
}

func (m *TheUnreachableSide) TakeDMG(d battle.Damage, source battle.Unit, tags stats.Tags, f *battle.Field) []battle.Command {
	m.activate()
	return m.Unit.TakeDMG(d, source, tags, f)
}

func (m *TheUnreachableSide) ConsumeHP(hp float64, source battle.Unit, f *battle.Field) float64 {
	m.activate()
	return m.Unit.ConsumeHP(hp, source, f)
}

func (m *TheUnreachableSide) EndATK(targets []battle.Unit, f *battle.Field) []battle.Command {
	if m.active {
		m.active = false
		m.Refresh()
	}
	return m.Unit.EndATK(targets, f)
}

func (m *TheUnreachableSide) activate() {
	if m.active {
		return
	}
	m.active = true
	m.Refresh()
}

// BrighterThanTheSun stacks Dragon's Call (ATK and Energy Regeneration Rate)
// on every Basic ATK.
type BrighterThanTheSun struct {
	Modifier

	critRate float64
	atkPct   float64
	err      float64
}

// NewBrighterThanTheSun wraps next. superimposition is clamped to [1, 5].
func NewBrighterThanTheSun(next battle.Unit, superimposition int) *BrighterThanTheSun {
	s := superimposed(superimposition)
	m := &BrighterThanTheSun{
		Modifier: Modifier{next},
		critRate: 0.18 + 0.03*s,
		atkPct:   0.18 + 0.03*s,
		err:      0.06 + 0.01*s,
	}
	m.Bind(m)
	return m
}

func (m *BrighterThanTheSun) ContributeStats(base *stats.Sheet, extra *stats.Extra) {
	m.Unit.ContributeStats(base, extra)
	base.Add(stats.HP, 1058)
	base.Add(stats.ATK, 635)
	base.Add(stats.DEF, 396)
	base.Add(stats.CritRate, m.critRate)
}

func (m *BrighterThanTheSun) BasicATK(targets []battle.Unit, step int) ([]battle.Command, bool) {
	if step == 1 {
		m.AddBuff(dragonsCall(BuffDragonsCallATK, stats.ATK, m.atkPct*m.BaseStats().Get(stats.ATK)))
		m.AddBuff(dragonsCall(BuffDragonsCallERR, stats.EnergyRegenerationRate, m.err))
	}
	return m.Unit.BasicATK(targets, step)
}

func dragonsCall(id string, stat stats.Stat, v float64) buff.Record {
	return buff.Record{
		ID:       id,
		Effect:   buff.StatDelta{Stat: stat, Value: v},
		MaxStack: 2,
		Stack:    1,
		Decay:    buff.PhaseEnd,
		Turns:    2,
		Unlock:   buff.PhaseAction,
		Locked:   true,
	}
}
