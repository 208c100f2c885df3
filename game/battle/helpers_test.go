package battle

import (
	"math/rand"

	"github.com/kasuganosora/railsim/game/stats"
)

// probe is a scriptable unit for engine tests.
type probe struct {
	*Base

	onChoose    func(f *Field) Action
	onUlt       func(f *Field) *Action
	onBasic     func(targets []Unit, step int) ([]Command, bool)
	onUltimate  func(targets []Unit, step int) ([]Command, bool)
	onExtraCmds func(f *Field, bb *Blackboard) []Command
	onExtraAct  func(f *Field, bb *Blackboard) *Action
	onExtraTurn func(f *Field, bb *Blackboard) *Action

	turnsLeft int
	miniTurns int
}

func newProbe(name string, side Side, spd float64) *probe {
	p := &probe{Base: NewBase(UnitConfig{
		Name:      name,
		Side:      side,
		MaxEnergy: 100,
		Profile:   stats.Profile{Taunt: 100, HP: 1000, ATK: 100, SPD: spd},
	})}
	p.Bind(p)
	return p
}

func (p *probe) ChooseAction(f *Field) Action {
	if p.miniTurns > 0 {
		p.turnsLeft--
	}
	if p.onChoose != nil {
		return p.onChoose(f)
	}
	return NewAction(ActionPass, p)
}

func (p *probe) TryActivateUlt(f *Field) *Action {
	if p.onUlt != nil {
		return p.onUlt(f)
	}
	return nil
}

func (p *probe) TurnsLeft() int { return p.turnsLeft }

func (p *probe) EndTurn() []Command {
	p.turnsLeft = p.miniTurns
	return p.Base.EndTurn()
}

func (p *probe) BasicATK(targets []Unit, step int) ([]Command, bool) {
	if p.onBasic != nil {
		return p.onBasic(targets, step)
	}
	return nil, true
}

func (p *probe) Ultimate(targets []Unit, step int) ([]Command, bool) {
	if p.onUltimate != nil {
		return p.onUltimate(targets, step)
	}
	return nil, true
}

func (p *probe) CheckExtraCommands(f *Field, bb *Blackboard) []Command {
	if p.onExtraCmds != nil {
		return p.onExtraCmds(f, bb)
	}
	return nil
}

func (p *probe) CheckExtraAction(f *Field, bb *Blackboard) *Action {
	if p.onExtraAct != nil {
		return p.onExtraAct(f, bb)
	}
	return nil
}

func (p *probe) CheckExtraTurn(f *Field, bb *Blackboard) *Action {
	if p.onExtraTurn != nil {
		return p.onExtraTurn(f, bb)
	}
	return nil
}

func newTestEngine(enemies, players []Unit) *Engine {
	units := append(append([]Unit{}, enemies...), players...)
	f := &Field{Enemies: enemies, Players: players, SP: DefaultInitialSP, RNG: rand.New(rand.NewSource(1))}
	return NewEngine(f, NewScheduler(DefaultLapDistance, units), EngineConfig{})
}

// catchProtocol runs fn and returns the protocol violation it raised, if any.
func catchProtocol(fn func()) (pe *ProtocolError) {
	defer func() {
		if r := recover(); r != nil {
			var ok bool
			if pe, ok = r.(*ProtocolError); !ok {
				panic(r)
			}
		}
	}()
	fn()
	return nil
}

// actionsOn lists "unit kind" for every action message on bb.
func actionsOn(bb *Blackboard) []string {
	var out []string
	for _, m := range bb.Messages() {
		if m.Action != nil {
			out = append(out, m.Action.Unit.Name()+" "+string(m.Action.Kind))
		}
	}
	return out
}

// commandsOn lists the kinds of every command message on bb.
func commandsOn(bb *Blackboard) []CommandKind {
	var out []CommandKind
	for _, m := range bb.Messages() {
		if m.Command != nil {
			out = append(out, m.Command.Kind)
		}
	}
	return out
}

func ackFirst(bb *Blackboard, name string, kind CommandKind) bool {
	for _, m := range bb.Messages() {
		if m.Command != nil && m.Command.Kind == kind && m.Ack(name) {
			return true
		}
	}
	return false
}
