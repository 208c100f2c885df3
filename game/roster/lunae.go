package roster

import (
	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// Imbibitor Lunae buff identifiers.
const (
	BuffOutroar        = "Outroar"
	BuffRighteousHeart = "Righteous Heart"
)

const (
	maxSquama            = 3
	maxEnhancement       = 3
	lunaeWeaknessCritDMG = 0.24
)

// lunaeBasic describes one enhancement level of the Basic ATK. Multipliers
// are totals over all hits; adjacent targets are hit from step 4 on.
type lunaeBasic struct {
	hits       int
	main       float64
	mainBreak  float64
	blast      float64
	blastBreak float64
}

var lunaeBasics = [maxEnhancement + 1]lunaeBasic{
	{hits: 2, main: 1, mainBreak: 30},
	{hits: 3, main: 2.6, mainBreak: 60},
	{hits: 5, main: 3.8, mainBreak: 90, blast: 0.6, blastBreak: 30},
	{hits: 7, main: 5, mainBreak: 120, blast: 1.8, blastBreak: 60},
}

const lunaeBlastFrom = 4

// ImbibitorLunae always uses his Basic ATK, enhanced by one level per skill
// point or Squama Sacrosancta available, up to three.
type ImbibitorLunae struct {
	*battle.Base

	enhancement int
	squama      int
}

// NewImbibitorLunae builds Imbibitor Lunae. An empty name defaults to
// "Imbibitor Lunae".
func NewImbibitorLunae(name string) *ImbibitorLunae {
	if name == "" {
		name = "Imbibitor Lunae"
	}
	l := &ImbibitorLunae{Base: battle.NewBase(battle.UnitConfig{
		Name:       name,
		Side:       battle.SidePlayer,
		DamageType: stats.Imaginary,
		MaxEnergy:  140,
		Extra:      stats.Extra{HPPercent: 0.1},
		Profile: stats.Profile{
			Taunt:    125,
			HP:       1241,
			ATK:      698,
			DEF:      363,
			SPD:      102,
			CritRate: 0.05 + 0.12,
			CritDMG:  0.5,
			DMGBoost: map[stats.DamageType]float64{stats.Imaginary: 0.224},
		},
	})}
	l.Bind(l)
	l.SetEnergy(l.MaxEnergy()/2 + 15)
	return l
}

func (l *ImbibitorLunae) Squama() int      { return l.squama }
func (l *ImbibitorLunae) Enhancement() int { return l.enhancement }

func (l *ImbibitorLunae) ChooseAction(f *battle.Field) battle.Action {
	if len(f.Enemies) == 0 {
		return pass(l.Self())
	}
	l.enhancement = min(f.SP+l.squama, maxEnhancement)
	return battle.NewAction(battle.ActionBasicATK, l.Self(), Blast(f.Enemies)...)
}

func (l *ImbibitorLunae) TryActivateUlt(f *battle.Field) *battle.Action {
	if l.Energy() < l.MaxEnergy() || len(f.Enemies) == 0 {
		return nil
	}
	return battle.NewAction(battle.ActionUltimate, l.Self(), Blast(f.Enemies)...).Ptr()
}

// BasicATK runs one hit per step. Enhanced levels spend Squama first and skill
// points for the rest, and stack Outroar from step 4.
func (l *ImbibitorLunae) BasicATK(targets []battle.Unit, step int) ([]battle.Command, bool) {
	self := l.Self()
	spec := lunaeBasics[l.enhancement]
	done := step >= spec.hits

	var cmds []battle.Command
	if step == 1 {
		cmds = append(cmds, battle.StartATK(self, targets))
		if l.enhancement == 0 {
			cmds = append(cmds, battle.GainSP(self, 1))
			l.RegenerateEnergy(energyGain(self, 20))
		} else {
			l.squama -= l.enhancement
			if l.squama < 0 {
				cmds = append(cmds, battle.LoseSP(self, -l.squama))
				l.squama = 0
			}
			l.RegenerateEnergy(energyGain(self, float64(25+5*l.enhancement)))
		}
	}

	atk := l.Stats().Get(stats.ATK)
	tags := stats.NewTags(l.DamageType(), stats.TagBasicATK)
	n := float64(spec.hits)
	hits := []battle.Hit{battle.HitOn(targets[0], spec.main*atk/n, spec.mainBreak/n, tags)}
	if spec.blast > 0 && step >= lunaeBlastFrom {
		self.AddBuff(buff.Record{
			ID:       BuffOutroar,
			Effect:   buff.StatDelta{Stat: stats.CritDMG, Value: 0.12},
			MaxStack: 4,
			Stack:    1,
			Decay:    buff.PhaseEnd,
			Turns:    1,
			Unlock:   buff.PhaseEnd,
			Locked:   true,
		})
		m := float64(spec.hits - lunaeBlastFrom + 1)
		for _, t := range targets[1:] {
			hits = append(hits, battle.HitOn(t, spec.blast*atk/m, spec.blastBreak/m, tags))
		}
	}
	cmds = append(cmds, battle.DMG(self, hits...))
	if done {
		cmds = append(cmds, battle.EndATK(self, targets))
	}
	return cmds, done
}

// Ultimate hits three times and grants two Squama Sacrosancta.
func (l *ImbibitorLunae) Ultimate(targets []battle.Unit, step int) ([]battle.Command, bool) {
	self := l.Self()
	done := step >= 3

	var cmds []battle.Command
	if step == 1 {
		cmds = append(cmds, battle.StartATK(self, targets))
		l.SetEnergy(energyGain(self, 5))
		l.squama = min(l.squama+2, maxSquama)
	}
	atk := l.Stats().Get(stats.ATK)
	tags := stats.NewTags(l.DamageType(), stats.TagUltimate)
	hits := []battle.Hit{battle.HitOn(targets[0], atk, 20, tags)}
	for _, t := range targets[1:] {
		hits = append(hits, battle.HitOn(t, 1.4*atk/3, 20, tags))
	}
	cmds = append(cmds, battle.DMG(self, hits...))
	if done {
		cmds = append(cmds, battle.EndATK(self, targets))
	}
	return cmds, done
}

// EndDMG stacks Righteous Heart once per damage instance.
func (l *ImbibitorLunae) EndDMG([]battle.Hit, *battle.Field) []battle.Command {
	l.Self().AddBuff(buff.Record{
		ID:       BuffRighteousHeart,
		Effect:   buff.DMGBoost(stats.KeyAll, 0.1),
		MaxStack: 6,
		Stack:    1,
		Decay:    buff.PhaseEnd,
		Turns:    1,
		Unlock:   buff.PhaseEnd,
		Locked:   true,
	})
	return nil
}

// CritDMG adds 24% CRIT DMG against Imaginary-weak targets.
func (l *ImbibitorLunae) CritDMG(d battle.Damage, target battle.Unit, tags stats.Tags, f *battle.Field, expected bool) (battle.Damage, bool) {
	if !battle.CanCrit(tags) {
		return d, false
	}
	rt := l.Stats()
	critDMG := rt.Get(stats.CritDMG)
	if target.HasWeakness(stats.Imaginary) {
		critDMG += lunaeWeaknessCritDMG
	}
	return battle.ApplyCrit(d, rt.Get(stats.CritRate), critDMG, f.Rand(), expected)
}
