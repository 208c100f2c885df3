package sim

import (
	"fmt"

	"github.com/kasuganosora/railsim/game/battle"
	"github.com/kasuganosora/railsim/game/loadout"
	"github.com/kasuganosora/railsim/game/roster"
	"github.com/kasuganosora/railsim/game/stats"
	"github.com/kasuganosora/railsim/resource"
)

// Build constructs fresh units for one battle. Units carry state, so every
// trial needs its own set.
func Build(r *resource.Roster) (enemies, players []battle.Unit, err error) {
	for _, spec := range r.Enemies {
		u, err := buildEnemy(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("sim: enemy %q: %w", spec.Name, err)
		}
		enemies = append(enemies, u)
	}
	for _, spec := range r.Players {
		u, err := buildPlayer(spec)
		if err != nil {
			return nil, nil, fmt.Errorf("sim: player %q: %w", spec.Name, err)
		}
		players = append(players, u)
	}
	return enemies, players, nil
}

func buildEnemy(spec resource.EnemySpec) (battle.Unit, error) {
	weak, err := spec.DamageTypes()
	if err != nil {
		return nil, err
	}
	cfg := roster.EnemyConfig{
		Name:         spec.Name,
		DamageType:   stats.DamageType(spec.DamageType),
		Level:        spec.Level,
		Profile:      spec.Stats,
		Weaknesses:   weak,
		MaxToughness: spec.Toughness,
		MiniTurns:    spec.MiniTurns,
	}
	if spec.Formula != "" {
		if cfg.Formula, err = battle.CompileFormula(spec.Formula); err != nil {
			return nil, err
		}
	}
	switch spec.Kind {
	case resource.KindEnemy:
		return roster.NewEnemy(cfg), nil
	case resource.KindBoss:
		return roster.NewBoss(cfg), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", spec.Kind)
	}
}

func buildPlayer(spec resource.PlayerSpec) (battle.Unit, error) {
	var u battle.Unit
	switch spec.Kind {
	case resource.KindDummy:
		u = roster.NewDummy(spec.Name)
	case resource.KindBlade:
		u = roster.NewBlade(spec.Name)
	case resource.KindImbibitorLunae:
		u = roster.NewImbibitorLunae(spec.Name)
	default:
		return nil, fmt.Errorf("unknown kind %q", spec.Kind)
	}
	for i, l := range spec.Loadout {
		next, err := wrap(u, l)
		if err != nil {
			return nil, fmt.Errorf("loadout %d (%s): %w", i, l.Kind, err)
		}
		u = next
	}
	return u, nil
}

func wrap(u battle.Unit, l resource.LoadoutSpec) (battle.Unit, error) {
	switch l.Kind {
	case resource.LoadoutTheUnreachableSide:
		return loadout.NewTheUnreachableSide(u, l.Superimposition), nil
	case resource.LoadoutBrighterThanTheSun:
		return loadout.NewBrighterThanTheSun(u, l.Superimposition), nil
	case resource.LoadoutRelic:
		r, err := loadout.NewRelic(u, l.Main, l.Sub)
		if err != nil {
			return nil, err
		}
		return r, nil
	case resource.LoadoutArena:
		a, err := loadout.NewArena(u, l.Main, l.Sub)
		if err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", l.Kind)
	}
}
