package battle

import (
	"testing"

	"github.com/kasuganosora/railsim/game/buff"
	"github.com/kasuganosora/railsim/game/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DMG_PostsResolvedHits(t *testing.T) {
	src := newProbe("Src", SidePlayer, 100)
	e1 := newProbe("E1", SideEnemy, 100)
	e2 := newProbe("E2", SideEnemy, 100)
	eng := newTestEngine([]Unit{e1, e2}, []Unit{src})

	tags := stats.NewTags(stats.Physical, stats.TagSkill)
	eng.RunCommands([]Command{DMG(src, HitOn(e1, 100, 10, tags), HitOn(e2, 200, 10, tags))})

	msgs := eng.Blackboard().Messages()
	require.Len(t, msgs, 1)
	hits := msgs[0].Command.Hits
	require.Len(t, hits, 2)
	assert.Same(t, e1, hits[0].Target)
	assert.Same(t, e2, hits[1].Target)
	// Level 80 attacker against 0 DEF: no reduction.
	assert.InDelta(t, 100, hits[0].Damage.DMG, 1e-9)
	assert.InDelta(t, 900, e1.HP(), 1e-9)
	assert.InDelta(t, 800, e2.HP(), 1e-9)
	assert.InDelta(t, 300, src.Tally().DMG[tags.Key()], 1e-9)
	assert.InDelta(t, 20, src.Tally().Break[tags.Key()], 1e-9)
}

func TestEngine_DMG_AutoHeal(t *testing.T) {
	src := newProbe("Src", SidePlayer, 100)
	e1 := newProbe("E1", SideEnemy, 100)
	eng := newTestEngine([]Unit{e1}, []Unit{src})
	eng.autoHeal = true

	eng.RunCommands([]Command{DMG(src, HitOn(e1, 300, 0, stats.NewTags(stats.Ice, stats.TagSkill)))})
	assert.Equal(t, 1000.0, e1.HP())
	assert.InDelta(t, 300, src.Tally().Total(), 1e-9)
}

func TestEngine_Heal_ReportsActualAmount(t *testing.T) {
	healer := newProbe("Healer", SidePlayer, 100)
	target := newProbe("Target", SidePlayer, 100)
	healer.AddBuff(buff.Record{ID: "out", Effect: buff.StatDelta{Stat: stats.OutgoingHealingBoost, Value: 0.3}, MaxStack: 1, Stack: 1})
	target.AddBuff(buff.Record{ID: "in", Effect: buff.StatDelta{Stat: stats.IncomingHealingBoost, Value: 0.2}, MaxStack: 1, Stack: 1})
	target.SetHP(500)
	eng := newTestEngine(nil, []Unit{healer, target})

	eng.RunCommands([]Command{Heal(healer, Amount{Target: target, Value: 100})})

	assert.InDelta(t, 656, target.HP(), 1e-9)
	msg := eng.Blackboard().Messages()[0]
	assert.InDelta(t, 156, msg.Command.Amounts[0].Value, 1e-9)

	target.SetHP(950)
	eng.RunCommands([]Command{Heal(healer, Amount{Target: target, Value: 100})})
	assert.Equal(t, 1000.0, target.HP())
	assert.InDelta(t, 50, eng.Blackboard().Messages()[1].Command.Amounts[0].Value, 1e-9)
}

func TestEngine_ConsumeHP_ReportsActualAmount(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	u.SetHP(500)
	eng := newTestEngine(nil, []Unit{u})

	eng.RunCommands([]Command{ConsumeHP(u, Amount{Target: u, Value: 600})})
	assert.Equal(t, 1.0, u.HP())
	assert.Equal(t, 499.0, eng.Blackboard().Messages()[0].Command.Amounts[0].Value)
}

func TestEngine_GainSP_CappedAndPostedOnlyOnGain(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{u})
	eng.field.SP = 4

	eng.RunCommands([]Command{GainSP(u, 3)})
	assert.Equal(t, DefaultSPCap, eng.SP())
	msgs := eng.Blackboard().Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, 1, msgs[0].Command.SP)

	eng.RunCommands([]Command{GainSP(u, 1)})
	assert.Equal(t, 1, eng.Blackboard().Len())
}

func TestEngine_LoseSP_BelowZeroIsProtocolViolation(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{u})

	eng.RunCommands([]Command{LoseSP(u, 3)})
	assert.Equal(t, 0, eng.SP())

	pe := catchProtocol(func() { eng.RunCommands([]Command{LoseSP(u, 1)}) })
	require.NotNil(t, pe)
	assert.Equal(t, "Lose SP", pe.Op)
}

func TestEngine_UnknownCommand_IsProtocolViolation(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{u})

	pe := catchProtocol(func() { eng.RunCommands([]Command{{Kind: "Teleport", Source: u}}) })
	require.NotNil(t, pe)
	assert.Contains(t, pe.Error(), "Teleport")
}

func TestEngine_Debuff_PostsOnlySuccesses(t *testing.T) {
	src := newProbe("Src", SidePlayer, 100)
	resist := newProbe("Resist", SideEnemy, 100)
	resist.AddBuff(buff.Record{ID: "res", Effect: buff.StatDelta{Stat: stats.EffectRES, Value: 1}, MaxStack: 1, Stack: 1})
	open := newProbe("Open", SideEnemy, 100)
	eng := newTestEngine([]Unit{resist, open}, []Unit{src})

	eng.RunCommands([]Command{
		Debuff(src, resist, 1, frozen()),
		Debuff(src, open, 1, frozen()),
	})

	msgs := eng.Blackboard().Messages()
	require.Len(t, msgs, 2)
	assert.Empty(t, msgs[0].Command.Effects)
	require.Len(t, msgs[1].Command.Effects, 1)
	assert.Same(t, open, msgs[1].Command.Effects[0].Target)
	assert.False(t, resist.HasStatus(buff.Frozen))
	assert.True(t, open.HasStatus(buff.Frozen))
}

func TestEngine_AdvanceDelay(t *testing.T) {
	u := newProbe("U", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{u})

	eng.RunCommands([]Command{Advance(u, u, 0.25), Delay(u, u, 0.1)})
	assert.InDelta(t, 8500, eng.sched.Distance(u), 1e-9)
}

func TestEngine_Break_ResolvesWeaknessBreak(t *testing.T) {
	src := newProbe("Src", SidePlayer, 100)
	enemy := NewBase(UnitConfig{
		Name:         "Enemy",
		Side:         SideEnemy,
		MaxToughness: 60,
		Weaknesses:   []stats.DamageType{stats.Fire},
		Profile:      stats.Profile{HP: 100000, SPD: 100},
	})
	eng := newTestEngine([]Unit{enemy}, []Unit{src})

	eng.RunCommands([]Command{DMG(src, HitOn(enemy, 100, 60, stats.NewTags(stats.Fire, stats.TagSkill)))})

	assert.Equal(t,
		[]CommandKind{CmdBreak, CmdDMG, CmdDelay, CmdDebuff, CmdDMG},
		commandsOn(eng.Blackboard()))
	assert.True(t, enemy.Debuffs().Has(DebuffBurn))
	assert.InDelta(t, 12500, eng.sched.Distance(enemy), 1e-9)

	// Fire coefficient 2, level 80 attacker, toughness coefficient 1.
	assert.InDelta(t, 2*levelCoef80, src.Tally().DMG["Break Fire"], 1e-6)
}

func TestEngine_ExtraCommands_RescanFromTop(t *testing.T) {
	a := newProbe("A", SidePlayer, 300)
	b := newProbe("B", SidePlayer, 200)
	c := newProbe("C", SideEnemy, 100)
	eng := newTestEngine([]Unit{c}, []Unit{a, b})

	var order []string
	b.onExtraCmds = func(_ *Field, bb *Blackboard) []Command {
		if ackFirst(bb, "B", CmdDMG) {
			order = append(order, "B")
			return []Command{Heal(b, Amount{Target: b, Value: 1})}
		}
		return nil
	}
	a.onExtraCmds = func(_ *Field, bb *Blackboard) []Command {
		if ackFirst(bb, "A", CmdHeal) {
			order = append(order, "A")
			return []Command{RegenerateEnergy(a, a, 1)}
		}
		return nil
	}
	c.onExtraCmds = func(_ *Field, bb *Blackboard) []Command {
		if ackFirst(bb, "C", CmdDMG) {
			order = append(order, "C")
			return []Command{RegenerateEnergy(c, c, 1)}
		}
		return nil
	}

	eng.RunCommands([]Command{DMG(a, HitOn(c, 10, 0, stats.NewTags(stats.Ice, stats.TagBasicATK)))})
	assert.Equal(t, []string{"B", "A", "C"}, order)
}

func TestEngine_ExtraCommands_Bounded(t *testing.T) {
	a := newProbe("A", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{a})
	eng.maxReactions = 5
	a.onExtraCmds = func(*Field, *Blackboard) []Command {
		return []Command{RegenerateEnergy(a, a, 1)}
	}

	pe := catchProtocol(func() { eng.RunCommands(nil) })
	require.NotNil(t, pe)
	assert.Equal(t, "RunCommands", pe.Op)
}

func TestEngine_RunAction_StepsUntilDone(t *testing.T) {
	a := newProbe("A", SidePlayer, 100)
	e := newProbe("E", SideEnemy, 100)
	eng := newTestEngine([]Unit{e}, []Unit{a})

	var hpSeen []float64
	a.onBasic = func(targets []Unit, step int) ([]Command, bool) {
		hpSeen = append(hpSeen, targets[0].HP())
		return []Command{DMG(a, HitOn(targets[0], 100, 0, stats.NewTags(stats.Ice, stats.TagBasicATK)))}, step == 3
	}

	eng.RunAction(NewAction(ActionBasicATK, a, e))
	assert.Equal(t, []float64{1000, 900, 800}, hpSeen)
	assert.Equal(t, 700.0, e.HP())
}

func TestEngine_RunAction_StepGuard(t *testing.T) {
	a := newProbe("A", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{a})
	a.onBasic = func([]Unit, int) ([]Command, bool) { return nil, false }

	pe := catchProtocol(func() { eng.RunAction(NewAction(ActionBasicATK, a)) })
	require.NotNil(t, pe)
	assert.Contains(t, pe.Detail, "steps")
}

func TestEngine_RunAction_ExtraActionChain(t *testing.T) {
	a := newProbe("A", SidePlayer, 300)
	b := newProbe("B", SidePlayer, 200)
	c := newProbe("C", SideEnemy, 100)
	eng := newTestEngine([]Unit{c}, []Unit{a, b})

	acked := func(name string, bb *Blackboard, u Unit, kind ActionKind) bool {
		for _, m := range bb.Messages() {
			if m.Action != nil && m.Action.Unit == u && m.Action.Kind == kind && m.Ack(name) {
				return true
			}
		}
		return false
	}
	b.onExtraAct = func(_ *Field, bb *Blackboard) *Action {
		if acked("B", bb, a, ActionBasicATK) {
			return NewAction(ActionTalent, b, c).Ptr()
		}
		return nil
	}
	c.onExtraAct = func(_ *Field, bb *Blackboard) *Action {
		if acked("C", bb, b, ActionTalent) {
			return NewAction(ActionExtraMove, c, a).Ptr()
		}
		return nil
	}

	eng.RunAction(NewAction(ActionBasicATK, a, c))
	assert.Equal(t, []string{"A Basic ATK", "B Talent", "C Extra Move"}, actionsOn(eng.Blackboard()))
}

func TestEngine_RunAction_CrowdControlledSkipExtraAction(t *testing.T) {
	a := newProbe("A", SidePlayer, 300)
	b := newProbe("B", SidePlayer, 200)
	eng := newTestEngine(nil, []Unit{a, b})
	b.AddDebuff(frozen())
	b.onExtraAct = func(*Field, *Blackboard) *Action {
		return NewAction(ActionTalent, b).Ptr()
	}

	eng.RunAction(NewAction(ActionBasicATK, a))
	assert.Equal(t, []string{"A Basic ATK"}, actionsOn(eng.Blackboard()))
}

func TestEngine_RunAction_UnknownKind(t *testing.T) {
	a := newProbe("A", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{a})

	pe := catchProtocol(func() { eng.RunAction(NewAction("Dance", a)) })
	require.NotNil(t, pe)
	assert.ErrorIs(t, pe, ErrProtocol)
}

func ultWhenFull(p *probe) {
	p.onUlt = func(*Field) *Action {
		if p.Energy() >= 100 {
			return NewAction(ActionUltimate, p).Ptr()
		}
		return nil
	}
}

func TestEngine_CheckUlt_FixedPoint(t *testing.T) {
	p1 := newProbe("P1", SidePlayer, 100)
	p2 := newProbe("P2", SidePlayer, 100)
	ultWhenFull(p1)
	ultWhenFull(p2)
	p1.SetEnergy(100)
	p2.SetEnergy(0)
	p1.onUltimate = func([]Unit, int) ([]Command, bool) {
		p1.SetEnergy(0)
		return []Command{RegenerateEnergy(p1, p2, 100)}, true
	}
	p2.onUltimate = func([]Unit, int) ([]Command, bool) {
		p2.SetEnergy(0)
		return nil, true
	}
	// P2 is polled before P1, so its ultimate needs a second pass.
	eng := newTestEngine(nil, []Unit{p2, p1})

	eng.checkUlt()
	assert.Equal(t, []string{"P1 Ultimate", "P2 Ultimate"}, actionsOn(eng.Blackboard()))
}

func TestEngine_CheckExtraTurn_RunsUltsAround(t *testing.T) {
	p := newProbe("P", SidePlayer, 100)
	q := newProbe("Q", SidePlayer, 100)
	ultWhenFull(q)
	q.onUltimate = func([]Unit, int) ([]Command, bool) {
		q.SetEnergy(0)
		return nil, true
	}
	granted := true
	p.onExtraTurn = func(*Field, *Blackboard) *Action {
		if !granted {
			return nil
		}
		granted = false
		return NewAction(ActionBasicATK, p).Ptr()
	}
	var inExtra bool
	p.onBasic = func([]Unit, int) ([]Command, bool) {
		inExtra = p.InExtraTurn()
		q.SetEnergy(100)
		return nil, true
	}
	eng := newTestEngine(nil, []Unit{p, q})

	eng.checkExtraTurn()
	assert.True(t, inExtra)
	assert.False(t, p.InExtraTurn())
	assert.Equal(t, []string{"P Basic ATK", "Q Ultimate"}, actionsOn(eng.Blackboard()))
}

func TestEngine_RunTurn_BossMiniTurns(t *testing.T) {
	boss := newProbe("Boss", SideEnemy, 100)
	boss.miniTurns, boss.turnsLeft = 2, 2
	player := newProbe("P", SidePlayer, 100)
	boss.onChoose = func(*Field) Action { return NewAction(ActionBasicATK, boss, player) }
	eng := newTestEngine([]Unit{boss}, []Unit{player})

	eng.RunTurn(boss)
	assert.Equal(t, []string{"Boss Basic ATK", "Boss Basic ATK"}, actionsOn(eng.Blackboard()))
	assert.Equal(t, 2, boss.TurnsLeft())
	assert.InDelta(t, DefaultLapDistance, eng.sched.Distance(boss), 1e-9)
}

func TestEngine_RunTurn_MiniTurnGuard(t *testing.T) {
	boss := newProbe("Boss", SideEnemy, 100)
	boss.turnsLeft = 1 // never decremented
	eng := newTestEngine([]Unit{boss}, nil)

	pe := catchProtocol(func() { eng.RunTurn(boss) })
	require.NotNil(t, pe)
	assert.Equal(t, "RunTurn", pe.Op)
}

func TestEngine_RunTurn_PlayerUltBeforeAction(t *testing.T) {
	p := newProbe("P", SidePlayer, 100)
	ultWhenFull(p)
	p.SetEnergy(100)
	p.onUltimate = func([]Unit, int) ([]Command, bool) {
		p.SetEnergy(0)
		return nil, true
	}
	p.onChoose = func(*Field) Action { return NewAction(ActionSkill, p) }
	eng := newTestEngine(nil, []Unit{p})

	eng.RunTurn(p)
	assert.Equal(t, []string{"P Ultimate", "P Skill"}, actionsOn(eng.Blackboard()))
}

func TestEngine_RunTurn_ClearsBlackboard(t *testing.T) {
	p := newProbe("P", SidePlayer, 100)
	eng := newTestEngine(nil, []Unit{p})
	eng.RunCommands([]Command{RegenerateEnergy(p, p, 5)})
	require.Equal(t, 1, eng.Blackboard().Len())

	eng.RunTurn(p)
	assert.Equal(t, []string{"P Pass"}, actionsOn(eng.Blackboard()))
	assert.Empty(t, commandsOn(eng.Blackboard()))
}
