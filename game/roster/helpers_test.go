package roster

import (
	"math/rand"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/buff"
)

func newField(enemies, players []battle.Unit) *battle.Field {
	return &battle.Field{Enemies: enemies, Players: players, SP: 3, RNG: rand.New(rand.NewSource(1))}
}

func newEngine(f *battle.Field) *battle.Engine {
	units := append(append([]battle.Unit{}, f.Enemies...), f.Players...)
	return battle.NewEngine(f, battle.NewScheduler(0, units), battle.EngineConfig{})
}

func threeEnemies() []battle.Unit {
	return []battle.Unit{
		NewEnemy(EnemyConfig{Name: "E0"}),
		NewEnemy(EnemyConfig{Name: "E1"}),
		NewEnemy(EnemyConfig{Name: "E2"}),
	}
}

func kinds(cmds []battle.Command) []battle.CommandKind {
	out := make([]battle.CommandKind, len(cmds))
	for i, c := range cmds {
		out[i] = c.Kind
	}
	return out
}

func names(units []battle.Unit) []string {
	out := make([]string, len(units))
	for i, u := range units {
		out[i] = u.Name()
	}
	return out
}

// actionsOn lists "unit kind" for every action message on bb.
func actionsOn(bb *battle.Blackboard) []string {
	var out []string
	for _, m := range bb.Messages() {
		if m.Action != nil {
			out = append(out, m.Action.Unit.Name()+" "+string(m.Action.Kind))
		}
	}
	return out
}

func countCommands(bb *battle.Blackboard, kind battle.CommandKind) int {
	n := 0
	for _, m := range bb.Messages() {
		if m.Command != nil && m.Command.Kind == kind {
			n++
		}
	}
	return n
}

func frozen() buff.Record {
	return buff.Record{
		ID:     "Frozen",
		Effect: buff.CrowdControl{Status: buff.Frozen},
		Decay:  buff.PhaseEnd,
		Turns:  1,
	}
}
