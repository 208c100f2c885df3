package roster

import (
	"errors"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// ErrHellscapeActive is recorded when Blade's Skill is used while Hellscape
// is still running. The Skill does nothing in that case.
var ErrHellscapeActive = errors.New("roster: Hellscape is already active")

// Blade buff identifiers.
const (
	BuffHellscape    = "Hellscape"
	BuffVitaInfinita = "Vita Infinita"
)

const bladeMaxCharges = 5

// Blade trades HP for damage. His Skill enters Hellscape (enhanced Basic ATK,
// extra turn), his Talent fires a follow-up after five charges gained from
// losing HP, and his Ultimate scales with HP lost during the battle.
type Blade struct {
	*battle.Base

	hellscape bool
	extraTurn bool
	charges   int
	lostHP    float64
	err       error
}

// NewBlade builds Blade. An empty name defaults to "Blade".
func NewBlade(name string) *Blade {
	if name == "" {
		name = "Blade"
	}
	b := &Blade{Base: battle.NewBase(battle.UnitConfig{
		Name:       name,
		Side:       battle.SidePlayer,
		DamageType: stats.Wind,
		MaxEnergy:  130,
		Extra:      stats.Extra{HPPercent: 0.28},
		Profile: stats.Profile{
			Taunt:     125,
			HP:        1358,
			ATK:       543,
			DEF:       485,
			SPD:       97,
			CritRate:  0.05 + 0.12,
			CritDMG:   0.5,
			EffectRES: 0.1,
		},
	})}
	b.Bind(b)
	return b
}

// Err returns the last no-op condition hit by an ability.
func (b *Blade) Err() error { return b.err }

// Charges is the current Talent charge count.
func (b *Blade) Charges() int { return b.charges }

// LostHP is the HP lost so far, capped at 90% of max HP.
func (b *Blade) LostHP() float64 { return b.lostHP }

func (b *Blade) InHellscape() bool { return b.hellscape }

func (b *Blade) ContributeStats(base *stats.Sheet, extra *stats.Extra) {
	b.Base.ContributeStats(base, extra)
	base.AddKeyed(stats.DMGBoost, stats.TagTalent, 0.2)
}

func (b *Blade) ChooseAction(f *battle.Field) battle.Action {
	self := b.Self()
	switch {
	case len(f.Enemies) == 0:
		return pass(self)
	case b.hellscape:
		return battle.NewAction(battle.ActionBasicATK, self, Blast(f.Enemies)...)
	case f.SP > 0:
		return battle.NewAction(battle.ActionSkill, self, self)
	default:
		return battle.NewAction(battle.ActionBasicATK, self, f.Enemies[len(f.Enemies)/2])
	}
}

func (b *Blade) TryActivateUlt(f *battle.Field) *battle.Action {
	if b.Energy() < b.MaxEnergy() || len(f.Enemies) == 0 {
		return nil
	}
	return battle.NewAction(battle.ActionUltimate, b.Self(), Blast(f.Enemies)...).Ptr()
}

func (b *Blade) CheckExtraTurn(f *battle.Field, _ *battle.Blackboard) *battle.Action {
	if !b.extraTurn {
		return nil
	}
	b.extraTurn = false
	return b.Self().ChooseAction(f).Ptr()
}

func (b *Blade) CheckExtraAction(f *battle.Field, _ *battle.Blackboard) *battle.Action {
	if b.charges < bladeMaxCharges || len(f.Enemies) == 0 {
		return nil
	}
	return battle.NewAction(battle.ActionTalent, b.Self(), f.Enemies...).Ptr()
}

// BasicATK hits twice. In Hellscape it becomes Forest of Swords: it costs
// 10% max HP instead of granting SP and the second hit spreads to adjacent
// targets.
func (b *Blade) BasicATK(targets []battle.Unit, step int) ([]battle.Command, bool) {
	self := b.Self()
	atk, maxHP := b.Stats().Get(stats.ATK), b.Stats().Get(stats.HP)
	tags := stats.NewTags(b.DamageType(), stats.TagBasicATK)
	main := atk / 2
	if b.hellscape {
		tags = stats.NewTags(b.DamageType(), stats.TagBasicATK, stats.TagEnhanced)
		main = (0.4*atk + maxHP) / 2
	}

	if step == 1 {
		var cmds []battle.Command
		if b.hellscape {
			b.RegenerateEnergy(energyGain(self, 30))
			cmds = append(cmds, battle.ConsumeHP(self, battle.Amount{Target: self, Value: 0.1 * maxHP}))
		} else {
			b.RegenerateEnergy(energyGain(self, 20))
			cmds = append(cmds, battle.GainSP(self, 1))
		}
		cmds = append(cmds,
			battle.StartATK(self, targets),
			battle.DMG(self, battle.HitOn(targets[0], main, 30, tags)))
		return cmds, false
	}

	hits := []battle.Hit{battle.HitOn(targets[0], main, 30, tags)}
	if b.hellscape {
		for _, t := range targets[1:] {
			hits = append(hits, battle.HitOn(t, 0.16*atk+0.4*maxHP, 30, tags))
		}
	}
	cmds := []battle.Command{battle.DMG(self, hits...), battle.EndATK(self, targets)}
	// Hitting a broken target restores HP.
	for _, t := range targets {
		if t.Toughness() <= 0 {
			heal := 0.05*b.BaseStats().Get(stats.HP) + 100
			cmds = append(cmds, battle.Heal(self, battle.Amount{Target: self, Value: heal}))
		}
	}
	return cmds, true
}

// Skill enters Hellscape and grants an extra turn.
func (b *Blade) Skill([]battle.Unit, int) ([]battle.Command, bool) {
	if b.hellscape {
		b.err = ErrHellscapeActive
		return nil, true
	}
	self := b.Self()
	b.hellscape, b.extraTurn = true, true
	self.AddBuff(buff.Record{
		ID:       BuffHellscape,
		Effect:   buff.DMGBoost(stats.KeyAll, 0.4),
		MaxStack: 1,
		Stack:    1,
		Decay:    buff.PhaseEnd,
		Turns:    3,
		Unlock:   buff.PhaseAction,
		Locked:   true,
	})
	return []battle.Command{
		battle.LoseSP(self, 1),
		battle.ConsumeHP(self, battle.Amount{Target: self, Value: 0.3 * b.Stats().Get(stats.HP)}),
	}, true
}

// Ultimate first sets HP to 50% of max HP, then deals blast damage that
// grows with the HP lost so far.
func (b *Blade) Ultimate(targets []battle.Unit, step int) ([]battle.Command, bool) {
	self := b.Self()
	if step == 1 {
		b.SetEnergy(energyGain(self, 5))
		half := b.Stats().Get(stats.HP) / 2
		if consume := b.HP() - half; consume > 0 {
			return []battle.Command{battle.ConsumeHP(self, battle.Amount{Target: self, Value: consume})}, false
		}
		// Raising HP to half is not healing.
		b.SetHP(half)
	}

	atk, maxHP := b.Stats().Get(stats.ATK), b.Stats().Get(stats.HP)
	tags := stats.NewTags(b.DamageType(), stats.TagUltimate)
	hits := []battle.Hit{battle.HitOn(targets[0], 0.4*atk+maxHP+b.lostHP, 60, tags)}
	for _, t := range targets[1:] {
		hits = append(hits, battle.HitOn(t, 0.16*atk+0.4*maxHP+0.4*b.lostHP, 60, tags))
	}
	return []battle.Command{
		battle.StartATK(self, targets),
		battle.DMG(self, hits...),
		battle.EndATK(self, targets),
	}, true
}

// Talent is Shuhu's Gift: a follow-up on every target that heals Blade.
func (b *Blade) Talent(targets []battle.Unit, _ int) ([]battle.Command, bool) {
	self := b.Self()
	b.RegenerateEnergy(energyGain(self, 10))
	b.charges = 0

	atk, maxHP := b.Stats().Get(stats.ATK), b.Stats().Get(stats.HP)
	tags := stats.NewTags(b.DamageType(), stats.TagTalent, stats.TagFollowUp)
	hits := make([]battle.Hit, 0, len(targets))
	for _, t := range targets {
		hits = append(hits, battle.HitOn(t, 0.44*atk+1.1*maxHP, 30, tags))
	}
	return []battle.Command{
		battle.StartATK(self, targets),
		battle.DMG(self, hits...),
		battle.EndATK(self, targets),
		battle.Heal(self, battle.Amount{Target: self, Value: 0.25 * maxHP}),
	}, true
}

func (b *Blade) EndTurn() []battle.Command {
	cmds := b.Base.EndTurn()
	if !b.Buffs().Has(BuffHellscape) {
		b.hellscape = false
	}
	return cmds
}

func (b *Blade) TakeDMG(d battle.Damage, source battle.Unit, tags stats.Tags, f *battle.Field) []battle.Command {
	cmds := b.Base.TakeDMG(d, source, tags, f)
	b.loseHP(d.DMG)
	return cmds
}

func (b *Blade) ConsumeHP(hp float64, source battle.Unit, f *battle.Field) float64 {
	hp = b.Base.ConsumeHP(hp, source, f)
	b.loseHP(hp)
	return hp
}

func (b *Blade) TakeHealing(hp float64, source battle.Unit, f *battle.Field) float64 {
	hp = b.Base.TakeHealing(hp, source, f)
	if b.HP() > 0.5*b.Stats().Get(stats.HP) && b.Buffs().Has(BuffVitaInfinita) {
		b.Self().DispelBuff(BuffVitaInfinita)
	}
	return hp
}

// loseHP gains a Talent charge, tracks lost HP and switches on the Vita
// Infinita trace at or below half HP.
func (b *Blade) loseHP(hp float64) {
	maxHP := b.Stats().Get(stats.HP)
	b.charges = min(b.charges+1, bladeMaxCharges)
	b.lostHP = min(b.lostHP+hp, 0.9*maxHP)
	if b.HP() <= 0.5*maxHP && !b.Buffs().Has(BuffVitaInfinita) {
		b.Self().AddBuff(buff.Record{
			ID:       BuffVitaInfinita,
			Effect:   buff.StatDelta{Stat: stats.IncomingHealingBoost, Value: 0.2},
			MaxStack: 1,
			Stack:    1,
		})
	}
}
