package roster

import (
	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/stats"
)

// Dummy is a plain attacker: a Basic ATK on a taunt-weighted enemy every turn
// and no ultimate.
type Dummy struct {
	*battle.Base
}

func NewDummy(name string) *Dummy {
	d := &Dummy{Base: battle.NewBase(battle.UnitConfig{
		Name:       name,
		Side:       battle.SidePlayer,
		DamageType: stats.Physical,
		MaxEnergy:  100,
		Profile: stats.Profile{
			Taunt:    100,
			HP:       3000,
			ATK:      2000,
			DEF:      1000,
			SPD:      100,
			CritRate: 0.05,
			CritDMG:  0.5,
		},
	})}
	d.Bind(d)
	return d
}

func (d *Dummy) ChooseAction(f *battle.Field) battle.Action {
	target := ByTaunt(f.Enemies, f.Rand())
	if target == nil {
		return pass(d.Self())
	}
	return battle.NewAction(battle.ActionBasicATK, d.Self(), target)
}

func (d *Dummy) BasicATK(targets []battle.Unit, _ int) ([]battle.Command, bool) {
	self := d.Self()
	tags := stats.NewTags(d.DamageType(), stats.TagBasicATK)
	return []battle.Command{
		battle.StartATK(self, targets),
		battle.GainSP(self, 1),
		battle.DMG(self, battle.HitOn(targets[0], d.Stats().Get(stats.ATK), 30, tags)),
		battle.EndATK(self, targets),
	}, true
}
