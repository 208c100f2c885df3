package stats

// Profile is the declarative base stat block of a unit. Field tags allow it to
// be decoded straight from roster files.
type Profile struct {
	Taunt                  float64 `yaml:"taunt"`
	HP                     float64 `yaml:"hp"`
	ATK                    float64 `yaml:"atk"`
	DEF                    float64 `yaml:"def"`
	SPD                    float64 `yaml:"spd"`
	CritRate               float64 `yaml:"crit_rate"`
	CritDMG                float64 `yaml:"crit_dmg"`
	BreakEffect            float64 `yaml:"break_effect"`
	OutgoingHealingBoost   float64 `yaml:"outgoing_healing_boost"`
	IncomingHealingBoost   float64 `yaml:"incoming_healing_boost"`
	EnergyRegenerationRate float64 `yaml:"energy_regen"`
	EffectHitRate          float64 `yaml:"effect_hit_rate"`
	EffectRES              float64 `yaml:"effect_res"`
	CrowdControlRES        float64 `yaml:"crowd_control_res"`

	DMGBoost map[DamageType]float64 `yaml:"dmg_boost"`
	RESBoost map[DamageType]float64 `yaml:"res_boost"`
}

// Sheet converts the profile into a base sheet.
func (p Profile) Sheet() *Sheet {
	s := NewSheet()
	s.Set(Taunt, p.Taunt)
	s.Set(HP, p.HP)
	s.Set(ATK, p.ATK)
	s.Set(DEF, p.DEF)
	s.Set(SPD, p.SPD)
	s.Set(CritRate, p.CritRate)
	s.Set(CritDMG, p.CritDMG)
	s.Set(BreakEffect, p.BreakEffect)
	s.Set(OutgoingHealingBoost, p.OutgoingHealingBoost)
	s.Set(IncomingHealingBoost, p.IncomingHealingBoost)
	s.Set(EnergyRegenerationRate, p.EnergyRegenerationRate)
	s.Set(EffectHitRate, p.EffectHitRate)
	s.Set(EffectRES, p.EffectRES)
	s.Set(CrowdControlRES, p.CrowdControlRES)
	for t, v := range p.DMGBoost {
		s.SetKeyed(DMGBoost, string(t), v)
	}
	for t, v := range p.RESBoost {
		s.SetKeyed(RESBoost, string(t), v)
	}
	return s
}

// Extra holds persistent bonuses that have no base value of their own, such
// as HP% from traces. They are folded in after buffs and debuffs, with the
// percentage parts computed against the base sheet.
type Extra struct {
	HP         float64
	HPPercent  float64
	ATK        float64
	ATKPercent float64
	DEF        float64
	DEFPercent float64
	SPD        float64
	SPDPercent float64
}

// Apply adds the bonuses to runtime using base for the percentage parts.
func (e Extra) Apply(runtime, base *Sheet) {
	runtime.Add(HP, e.HP+e.HPPercent*base.Get(HP))
	runtime.Add(ATK, e.ATK+e.ATKPercent*base.Get(ATK))
	runtime.Add(DEF, e.DEF+e.DEFPercent*base.Get(DEF))
	runtime.Add(SPD, e.SPD+e.SPDPercent*base.Get(SPD))
}

// Add accumulates another set of bonuses.
func (e *Extra) Add(o Extra) {
	e.HP += o.HP
	e.HPPercent += o.HPPercent
	e.ATK += o.ATK
	e.ATKPercent += o.ATKPercent
	e.DEF += o.DEF
	e.DEFPercent += o.DEFPercent
	e.SPD += o.SPD
	e.SPDPercent += o.SPDPercent
}
