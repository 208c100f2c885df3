package battle

import (
	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
)

// CommandKind names an engine command.
type CommandKind string

// Command kinds.
const (
	CmdDMG              CommandKind = "DMG"
	CmdHeal             CommandKind = "Heal"
	CmdConsumeHP        CommandKind = "Consume HP"
	CmdBuff             CommandKind = "Buff"
	CmdDebuff           CommandKind = "Debuff"
	CmdBreak            CommandKind = "Break"
	CmdAdvance          CommandKind = "Advance"
	CmdDelay            CommandKind = "Delay"
	CmdGainSP           CommandKind = "Gain SP"
	CmdLoseSP           CommandKind = "Lose SP"
	CmdRegenerateEnergy CommandKind = "Regenerate Energy"
	CmdStartATK         CommandKind = "Start ATK"
	CmdEndATK           CommandKind = "End ATK"
)

// Hit is one target entry of a DMG command. Crit is filled in on the
// resolved copy posted to the blackboard.
type Hit struct {
	Target Unit
	Damage Damage
	Tags   stats.Tags
	Crit   bool
}

// Amount is a (target, value) entry used by Heal, Consume HP, Advance, Delay
// and Regenerate Energy.
type Amount struct {
	Target Unit
	Value  float64
}

// Application is a (target, chance, record) entry of Buff and Debuff. Buff
// ignores Chance.
type Application struct {
	Target Unit
	Chance float64
	Record buff.Record
}

// BreakEntry is a (target, damage type) entry of Break.
type BreakEntry struct {
	Target Unit
	Type   stats.DamageType
}

// Command is the only channel through which a unit affects another unit.
// Only the payload field matching Kind is read.
type Command struct {
	Kind    CommandKind
	Source  Unit
	Hits    []Hit
	Amounts []Amount
	Effects []Application
	Breaks  []BreakEntry
	SP      int
	Targets []Unit
}

func DMG(src Unit, hits ...Hit) Command {
	return Command{Kind: CmdDMG, Source: src, Hits: hits}
}

// HitOn builds a single Hit.
func HitOn(target Unit, dmg, brk float64, tags stats.Tags) Hit {
	return Hit{Target: target, Damage: Damage{DMG: dmg, Break: brk}, Tags: tags}
}

func Heal(src Unit, amounts ...Amount) Command {
	return Command{Kind: CmdHeal, Source: src, Amounts: amounts}
}

func ConsumeHP(src Unit, amounts ...Amount) Command {
	return Command{Kind: CmdConsumeHP, Source: src, Amounts: amounts}
}

func Buff(src, target Unit, r buff.Record) Command {
	return Command{Kind: CmdBuff, Source: src, Effects: []Application{{Target: target, Record: r}}}
}

func Debuff(src, target Unit, chance float64, r buff.Record) Command {
	return Command{Kind: CmdDebuff, Source: src, Effects: []Application{{Target: target, Chance: chance, Record: r}}}
}

func Break(src, target Unit, t stats.DamageType) Command {
	return Command{Kind: CmdBreak, Source: src, Breaks: []BreakEntry{{Target: target, Type: t}}}
}

func Advance(src, target Unit, frac float64) Command {
	return Command{Kind: CmdAdvance, Source: src, Amounts: []Amount{{Target: target, Value: frac}}}
}

func Delay(src, target Unit, frac float64) Command {
	return Command{Kind: CmdDelay, Source: src, Amounts: []Amount{{Target: target, Value: frac}}}
}

func GainSP(src Unit, n int) Command { return Command{Kind: CmdGainSP, Source: src, SP: n} }

func LoseSP(src Unit, n int) Command { return Command{Kind: CmdLoseSP, Source: src, SP: n} }

func RegenerateEnergy(src, target Unit, amount float64) Command {
	return Command{Kind: CmdRegenerateEnergy, Source: src, Amounts: []Amount{{Target: target, Value: amount}}}
}

func StartATK(src Unit, targets []Unit) Command {
	return Command{Kind: CmdStartATK, Source: src, Targets: targets}
}

func EndATK(src Unit, targets []Unit) Command {
	return Command{Kind: CmdEndATK, Source: src, Targets: targets}
}
