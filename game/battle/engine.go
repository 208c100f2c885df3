package battle

import (
	"github.com/kasuganosora/railsim/game/stats"
	"go.uber.org/zap"
)

// Engine defaults.
const (
	DefaultSPCap        = 5
	DefaultMaxReactions = 10000
	DefaultMaxSteps     = 64
	DefaultMaxMiniTurns = 16
)

// EngineConfig configures an Engine.
type EngineConfig struct {
	SPCap          int
	AutoHeal       bool // restore targets to full HP after every hit
	StochasticCrit bool // roll crits instead of using expected damage
	MaxReactions   int  // extra commands/actions/turns per cascade
	MaxSteps       int  // steps per stepped ability
	MaxMiniTurns   int
	Logger         *zap.Logger
	Emit           func(BattleEvent)
}

// frame is one level of the command work stack. A batch frame runs one
// step per command and scans for extra commands when it completes.
type frame struct {
	steps []func()
	pos   int
	scan  bool
}

// Engine executes actions and commands against a Field and a Scheduler.
// All cascades resolve to a fixed point before a call returns.
type Engine struct {
	field *Field
	sched *Scheduler
	board Blackboard
	stack []*frame

	spCap          int
	autoHeal       bool
	stochasticCrit bool
	maxReactions   int
	maxSteps       int
	maxMiniTurns   int

	logger *zap.Logger
	emit   func(BattleEvent)
}

func NewEngine(f *Field, s *Scheduler, cfg EngineConfig) *Engine {
	if cfg.SPCap <= 0 {
		cfg.SPCap = DefaultSPCap
	}
	if cfg.MaxReactions <= 0 {
		cfg.MaxReactions = DefaultMaxReactions
	}
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.MaxMiniTurns <= 0 {
		cfg.MaxMiniTurns = DefaultMaxMiniTurns
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Emit == nil {
		cfg.Emit = func(BattleEvent) {}
	}
	return &Engine{
		field:          f,
		sched:          s,
		spCap:          cfg.SPCap,
		autoHeal:       cfg.AutoHeal,
		stochasticCrit: cfg.StochasticCrit,
		maxReactions:   cfg.MaxReactions,
		maxSteps:       cfg.MaxSteps,
		maxMiniTurns:   cfg.MaxMiniTurns,
		logger:         cfg.Logger,
		emit:           cfg.Emit,
	}
}

func (e *Engine) Blackboard() *Blackboard { return &e.board }

func (e *Engine) SP() int { return e.field.SP }

// RunTurn resolves one full turn of u.
func (e *Engine) RunTurn(u Unit) {
	e.board.Clear()
	e.emit(&EventTurnStart{Elapsed: e.sched.Elapsed(), SP: e.field.SP, Unit: SnapshotUnit(u)})
	e.logger.Debug("turn start",
		zap.String("unit", u.Name()),
		zap.Float64("elapsed", e.sched.Elapsed()),
		zap.Int("sp", e.field.SP))

	e.RunCommands(u.StartTurn())
	if u.TurnsLeft() > 0 {
		for n := 0; u.TurnsLeft() > 0; n++ {
			if n >= e.maxMiniTurns {
				violate("RunTurn", "%s still has %d mini-turns after %d", u.Name(), u.TurnsLeft(), n)
			}
			e.RunAction(u.TakeAction(e.field))
			e.checkExtraTurn()
			e.checkUlt()
		}
	} else {
		// Ultimates may be cast before a player acts, never before an enemy.
		if u.Side() == SidePlayer {
			e.checkUlt()
		}
		e.RunAction(u.TakeAction(e.field))
		e.checkExtraTurn()
		e.checkUlt()
	}
	e.sched.Reset(u)
	e.RunCommands(u.EndTurn())
}

// RunAction runs a, then every extra action it triggers. After each action
// the queue is scanned from the front and the first unit that wants an
// extra action runs next.
func (e *Engine) RunAction(a Action) {
	n := 0
	for next := &a; next != nil; next = e.scanExtraAction() {
		if n > e.maxReactions {
			violate("RunAction", "more than %d chained extra actions", e.maxReactions)
		}
		n++
		e.runStepped(*next)
	}
}

func (e *Engine) runStepped(a Action) {
	e.board.PostAction(a)
	e.emit(&EventAction{Kind: string(a.Kind), Unit: RefUnit(a.Unit), Targets: refUnits(a.Targets)})
	e.logger.Debug("action",
		zap.String("unit", a.Unit.Name()),
		zap.String("kind", string(a.Kind)))

	var handler func([]Unit, int) ([]Command, bool)
	switch a.Kind {
	case ActionBasicATK:
		handler = a.Unit.BasicATK
	case ActionSkill:
		handler = a.Unit.Skill
	case ActionUltimate:
		handler = a.Unit.Ultimate
	case ActionTalent:
		handler = a.Unit.Talent
	case ActionExtraMove:
		handler = a.Unit.ExtraMove
	case ActionPass:
		return
	default:
		violate("RunAction", "unknown action kind %q from %s", a.Kind, nameOf(a.Unit))
	}

	done := false
	for step := 1; !done; step++ {
		if step > e.maxSteps {
			violate("RunAction", "%s %s did not finish within %d steps", a.Unit.Name(), a.Kind, e.maxSteps)
		}
		var cmds []Command
		cmds, done = handler(a.Targets, step)
		e.RunCommands(cmds)
	}
}

func (e *Engine) scanExtraAction() *Action {
	for _, u := range e.sched.Units() {
		if u.CrowdControlled() {
			continue
		}
		if a := u.CheckExtraAction(e.field, &e.board); a != nil {
			return a
		}
	}
	return nil
}

// checkUlt polls ultimates to a fixed point and then resolves any extra
// turns they granted.
func (e *Engine) checkUlt() {
	if e.pollUlts() {
		e.checkExtraTurn()
	}
}

func (e *Engine) pollUlts() bool {
	fired := false
	for pass := 0; ; pass++ {
		if pass > e.maxReactions {
			violate("checkUlt", "ultimates did not settle after %d passes", pass)
		}
		found := false
		for _, u := range e.field.Players {
			if a := u.TryActivateUlt(e.field); a != nil {
				found, fired = true, true
				e.RunAction(*a)
			}
		}
		if !found {
			return fired
		}
	}
}

// checkExtraTurn runs extra turns until no unit wants one. Extra turns have
// no start or end phase.
func (e *Engine) checkExtraTurn() {
	for n := 0; ; n++ {
		if n > e.maxReactions {
			violate("checkExtraTurn", "more than %d extra turns", e.maxReactions)
		}
		u, a := e.scanExtraTurn()
		if a == nil {
			return
		}
		u.SetInExtraTurn(true)
		if u.LowExtraTurnPriority() {
			e.checkUlt()
		}
		e.RunAction(*a)
		e.checkUlt()
		u.SetInExtraTurn(false)
	}
}

func (e *Engine) scanExtraTurn() (Unit, *Action) {
	for _, u := range e.sched.Units() {
		if a := u.CheckExtraTurn(e.field, &e.board); a != nil {
			return u, a
		}
	}
	return nil, nil
}

// RunCommands executes cmds and everything they trigger, depth first.
func (e *Engine) RunCommands(cmds []Command) {
	base := len(e.stack)
	reactions := 0
	e.pushBatch(cmds)
	for len(e.stack) > base {
		top := e.stack[len(e.stack)-1]
		if top.pos < len(top.steps) {
			step := top.steps[top.pos]
			top.pos++
			step()
			continue
		}
		e.stack = e.stack[:len(e.stack)-1]
		if !top.scan {
			continue
		}
		if extra := e.scanExtraCommands(); extra != nil {
			reactions++
			if reactions > e.maxReactions {
				violate("RunCommands", "more than %d extra command batches", e.maxReactions)
			}
			e.pushBatch(extra)
		}
	}
}

func (e *Engine) scanExtraCommands() []Command {
	for _, u := range e.sched.Units() {
		if cmds := u.CheckExtraCommands(e.field, &e.board); len(cmds) > 0 {
			return cmds
		}
	}
	return nil
}

func (e *Engine) push(scan bool, steps ...func()) {
	e.stack = append(e.stack, &frame{steps: steps, scan: scan})
}

// pushBatch queues cmds as a batch frame. An empty batch still scans.
func (e *Engine) pushBatch(cmds []Command) {
	steps := make([]func(), 0, len(cmds))
	for _, c := range cmds {
		steps = append(steps, func() { e.execute(c) })
	}
	e.push(true, steps...)
}

func (e *Engine) execute(c Command) {
	switch c.Kind {
	case CmdDMG:
		e.executeDMG(c)
	case CmdStartATK:
		e.board.PostCommand(c)
		e.pushBatch(c.Source.StartATK(c.Targets, e.field))
	case CmdEndATK:
		e.board.PostCommand(c)
		e.pushBatch(c.Source.EndATK(c.Targets, e.field))
	case CmdLoseSP:
		e.board.PostCommand(c)
		e.field.SP -= c.SP
		if e.field.SP < 0 {
			violate("Lose SP", "%s drove skill points to %d", nameOf(c.Source), e.field.SP)
		}
		e.emit(&EventSP{Unit: RefUnit(c.Source), Change: -c.SP, SP: e.field.SP})
	case CmdGainSP:
		before := e.field.SP
		e.field.SP = min(e.field.SP+c.SP, e.spCap)
		if gained := e.field.SP - before; gained > 0 {
			posted := c
			posted.SP = gained
			e.board.PostCommand(posted)
			e.emit(&EventSP{Unit: RefUnit(c.Source), Change: gained, SP: e.field.SP})
		}
	case CmdBreak:
		e.board.PostCommand(c)
		steps := make([]func(), 0, len(c.Breaks))
		for _, br := range c.Breaks {
			steps = append(steps, func() {
				e.emit(&EventWeaknessBreak{Source: RefUnit(c.Source), Target: RefUnit(br.Target), Type: string(br.Type)})
				e.logger.Debug("weakness break",
					zap.String("source", c.Source.Name()),
					zap.String("target", br.Target.Name()),
					zap.String("type", string(br.Type)))
				e.pushBatch(br.Target.WeaknessBreak(br.Type, c.Source, e.field))
			})
		}
		e.push(false, steps...)
	case CmdHeal:
		e.executeHeal(c)
	case CmdConsumeHP:
		e.executeConsumeHP(c)
	case CmdBuff:
		e.board.PostCommand(c)
		for _, app := range c.Effects {
			app.Target.AddBuff(app.Record)
		}
	case CmdDebuff:
		e.executeDebuff(c)
	case CmdAdvance:
		e.board.PostCommand(c)
		for _, a := range c.Amounts {
			e.sched.AdvanceUnit(a.Target, a.Value)
		}
	case CmdDelay:
		e.board.PostCommand(c)
		for _, a := range c.Amounts {
			e.sched.DelayUnit(a.Target, a.Value)
		}
	case CmdRegenerateEnergy:
		e.board.PostCommand(c)
		for _, a := range c.Amounts {
			a.Target.RegenerateEnergy(a.Value)
		}
	default:
		violate("RunCommands", "unknown command kind %q from %s", c.Kind, nameOf(c.Source))
	}
}

// executeDMG resolves each hit in target order. A hit's follow-up commands
// run before the next hit is resolved.
func (e *Engine) executeDMG(c Command) {
	src := c.Source
	resolved := make([]Hit, 0, len(c.Hits))
	steps := make([]func(), 0, 2*len(c.Hits)+1)
	for _, h := range c.Hits {
		steps = append(steps, func() {
			d := src.AmendOutgoingDMG(h.Damage, h.Target, h.Tags, e.field)
			d, crit := src.CritDMG(d, h.Target, h.Tags, e.field, !e.stochasticCrit)
			d = h.Target.ReduceIncomingDMG(d, src, h.Tags, e.field)
			src.Tally().Record(h.Tags, d)
			resolved = append(resolved, Hit{Target: h.Target, Damage: d, Tags: h.Tags, Crit: crit})
			follow := h.Target.TakeDMG(d, src, h.Tags, e.field)
			e.emitDamage(src, h.Target, d, h.Tags, crit)
			e.pushBatch(follow)
		})
		if e.autoHeal {
			steps = append(steps, func() { e.restore(h.Target) })
		}
	}
	steps = append(steps, func() {
		e.board.PostCommand(Command{Kind: CmdDMG, Source: src, Hits: resolved})
		e.pushBatch(src.EndDMG(resolved, e.field))
	})
	e.push(false, steps...)
}

func (e *Engine) emitDamage(src, target Unit, d Damage, tags stats.Tags, crit bool) {
	e.emit(&EventDamage{
		Source:  RefUnit(src),
		Target:  RefUnit(target),
		DMG:     d.DMG,
		Break:   d.Break,
		Tags:    tags,
		Crit:    crit,
		HPAfter: target.HP(),
	})
	e.logger.Debug("damage",
		zap.String("source", src.Name()),
		zap.String("target", target.Name()),
		zap.String("tags", tags.Key()),
		zap.Float64("dmg", d.DMG),
		zap.Bool("crit", crit))
}

func (e *Engine) executeHeal(c Command) {
	src := c.Source
	actual := make([]Amount, 0, len(c.Amounts))
	for _, a := range c.Amounts {
		hp := src.AmendOutgoingHealing(a.Value, a.Target, e.field)
		hp = a.Target.AmendIncomingHealing(hp, src, e.field)
		hp = a.Target.TakeHealing(hp, src, e.field)
		actual = append(actual, Amount{Target: a.Target, Value: hp})
		e.emit(&EventHeal{Source: RefUnit(src), Target: RefUnit(a.Target), Amount: hp, HPAfter: a.Target.HP()})
	}
	e.board.PostCommand(Command{Kind: CmdHeal, Source: src, Amounts: actual})
}

func (e *Engine) executeConsumeHP(c Command) {
	src := c.Source
	actual := make([]Amount, 0, len(c.Amounts))
	for _, a := range c.Amounts {
		hp := a.Target.ConsumeHP(a.Value, src, e.field)
		e.emit(&EventConsumeHP{Source: RefUnit(src), Target: RefUnit(a.Target), Amount: hp, HPAfter: a.Target.HP()})
		if e.autoHeal {
			e.restore(a.Target)
		}
		actual = append(actual, Amount{Target: a.Target, Value: hp})
	}
	e.board.PostCommand(Command{Kind: CmdConsumeHP, Source: src, Amounts: actual})
}

func (e *Engine) executeDebuff(c Command) {
	src := c.Source
	applied := make([]Application, 0, len(c.Effects))
	for _, app := range c.Effects {
		chance := src.AmendOutgoingEffectChance(app.Chance, app.Target, e.field)
		chance = app.Target.AmendIncomingEffectChance(chance, app.Record, src, e.field)
		if app.Target.MaybeAddDebuff(chance, app.Record, e.field) {
			applied = append(applied, Application{Target: app.Target, Chance: chance, Record: app.Record})
			e.emit(&EventDebuffApplied{Source: RefUnit(src), Target: RefUnit(app.Target), ID: app.Record.ID})
		}
	}
	e.board.PostCommand(Command{Kind: CmdDebuff, Source: src, Effects: applied})
}

func (e *Engine) restore(u Unit) {
	u.SetHP(u.Stats().Get(stats.HP))
}
